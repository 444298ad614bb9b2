package layout

import (
	"fmt"
	"strings"

	"github.com/skill-docket/skd/internal/model"
)

// Serialize renders a LayoutNode tree back to its textual form. It is
// the round-trip partner of Parse.
func Serialize(node *model.LayoutNode) string {
	switch node.Kind {
	case model.LayoutKindRow:
		return "ROW(" + serializeChildren(node.Children) + ")"
	case model.LayoutKindCol:
		return "COL(" + serializeChildren(node.Children) + ")"
	default:
		return node.Agent
	}
}

func serializeChildren(entries []model.LayoutEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = serializeEntry(e)
	}
	return strings.Join(parts, ", ")
}

func serializeEntry(entry model.LayoutEntry) string {
	inner := Serialize(entry.Node)
	if entry.Percent != nil {
		return fmt.Sprintf("%s %d%%", inner, *entry.Percent)
	}
	return inner
}
