package collada

import "fmt"

// VisualScene is a parsed <visual_scene>.
type VisualScene struct {
	ID    string
	Name  string
	Nodes []*Node
}

// ParseVisualScene reads a <visual_scene>. At least one node is required.
func ParseVisualScene(el *Element) (*VisualScene, error) {
	vs := &VisualScene{
		ID:   el.AttrOr("id", ""),
		Name: el.AttrOr("name", ""),
	}
	for _, c := range el.ChildrenNamed("node") {
		n, err := ParseNode(c)
		if err != nil {
			return nil, fmt.Errorf("collada: visual scene %q: %w", el.id(), err)
		}
		vs.Nodes = append(vs.Nodes, n)
	}
	if len(vs.Nodes) == 0 {
		return nil, newErr(ErrMissingRequiredElement, "visual_scene", el.id(), "no <node>")
	}
	return vs, nil
}

// Walk visits every node of the scene depth first.
func (vs *VisualScene) Walk(fn func(n *Node, depth int) bool) {
	for _, n := range vs.Nodes {
		n.Walk(fn)
	}
}
