package model

// Direction is the split orientation for a pane division.
type Direction string

const (
	DirectionHorizontal Direction = "horizontal"
	DirectionVertical   Direction = "vertical"
)

// LayoutKind discriminates a LayoutNode's variant.
type LayoutKind string

const (
	LayoutKindRow  LayoutKind = "row"
	LayoutKindCol  LayoutKind = "col"
	LayoutKindPane LayoutKind = "pane"
)

// LayoutEntry is one child of a Row/Col node: the child node plus its
// optional sibling percentage. Percentages are carried, never validated
// or normalized (spec open question (b)).
type LayoutEntry struct {
	Node    *LayoutNode
	Percent *int
}

// LayoutNode is the recursive row/column/pane tree describing desired
// pane geometry for one session.
type LayoutNode struct {
	Kind     LayoutKind
	Children []LayoutEntry // set when Kind is Row or Col
	Agent    string        // set when Kind is Pane
}

// Row constructs a Row node from the given entries.
func Row(children ...LayoutEntry) *LayoutNode {
	return &LayoutNode{Kind: LayoutKindRow, Children: children}
}

// Col constructs a Col node from the given entries.
func Col(children ...LayoutEntry) *LayoutNode {
	return &LayoutNode{Kind: LayoutKindCol, Children: children}
}

// Pane constructs a leaf node bound to the named agent.
func Pane(agent string) *LayoutNode {
	return &LayoutNode{Kind: LayoutKindPane, Agent: agent}
}

// Entry wraps a node with an optional percentage for use as a Row/Col child.
func Entry(node *LayoutNode, percent *int) LayoutEntry {
	return LayoutEntry{Node: node, Percent: percent}
}

// Equal reports structural equality, used by layout round-trip tests.
func (n *LayoutNode) Equal(other *LayoutNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind {
		return false
	}
	if n.Kind == LayoutKindPane {
		return n.Agent == other.Agent
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		a, b := n.Children[i], other.Children[i]
		if (a.Percent == nil) != (b.Percent == nil) {
			return false
		}
		if a.Percent != nil && *a.Percent != *b.Percent {
			return false
		}
		if !a.Node.Equal(b.Node) {
			return false
		}
	}
	return true
}

// FolderEntry is a (name, path) pair with unique names within a registry.
type FolderEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// TileKind discriminates a Tile's role.
type TileKind string

const (
	TileKindAgent       TileKind = "agent"
	TileKindComposition TileKind = "composition"
	TileKindSession     TileKind = "session"
)

// Tile is a named, reusable layout or agent template.
type Tile struct {
	Name   string      `yaml:"name"`
	Kind   TileKind    `yaml:"kind"`
	Role   *string     `yaml:"role,omitempty"`
	Layout *LayoutNode `yaml:"-"`
}
