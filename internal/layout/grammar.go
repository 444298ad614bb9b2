// Package layout implements the layout expression grammar used by tile
// and layout files:
//
//	expr     := leaf | "ROW(" children ")" | "COL(" children ")"
//	children := child ("," child)*
//	child    := (leaf | expr) (WS percent)?
//	percent  := INT "%"
//	leaf     := IDENT
//
// The parser is case-insensitive on ROW/COL, trims whitespace between
// elements, rejects empty bodies and unbalanced parentheses, and is a
// round-trip partner of Serialize (Parse(Serialize(t)) == t on
// well-formed trees). Percentages are carried but never validated or
// normalized.
package layout

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/skill-docket/skd/internal/model"
)

var layoutLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Row", Pattern: `(?i)ROW\b`},
	{Name: "Col", Pattern: `(?i)COL\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Percent", Pattern: `%`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// exprNode is the participle grammar's parse-tree node: either a
// container (ROW/COL) or a leaf pane name.
type exprNode struct {
	Container *containerNode `@@`
	Leaf      string         `| @Ident`
}

type containerNode struct {
	Kind     string       `@(Row | Col) "("`
	Children []*childNode `@@ ("," @@)* ")"`
}

type childNode struct {
	Node    *exprNode `@@`
	Percent *int      `( @Number "%" )?`
}

var parser = participle.MustBuild[exprNode](
	participle.Lexer(layoutLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses a layout expression into a LayoutNode tree.
func Parse(input string) (*model.LayoutNode, error) {
	trimmed := trimSpace(input)
	if trimmed == "" {
		return nil, fmt.Errorf("layout: empty layout expression")
	}
	tree, err := parser.ParseString("", trimmed)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return toModel(tree)
}

func toModel(n *exprNode) (*model.LayoutNode, error) {
	if n.Container != nil {
		if len(n.Container.Children) == 0 {
			return nil, fmt.Errorf("layout: empty children list")
		}
		entries := make([]model.LayoutEntry, 0, len(n.Container.Children))
		for _, c := range n.Container.Children {
			child, err := toModel(c.Node)
			if err != nil {
				return nil, err
			}
			entries = append(entries, model.Entry(child, c.Percent))
		}
		if len(n.Container.Kind) > 0 && (n.Container.Kind[0] == 'R' || n.Container.Kind[0] == 'r') {
			return model.Row(entries...), nil
		}
		return model.Col(entries...), nil
	}
	if n.Leaf == "" {
		return nil, fmt.Errorf("layout: empty leaf name")
	}
	return model.Pane(n.Leaf), nil
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
