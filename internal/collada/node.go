package collada

import (
	"fmt"
	"strings"
)

// NodeType distinguishes plain nodes from skeleton joints.
type NodeType int

const (
	NodeTypeNode NodeType = iota
	NodeTypeJoint
)

func (t NodeType) String() string {
	if t == NodeTypeJoint {
		return "JOINT"
	}
	return "NODE"
}

// GeometryInstance is an <instance_geometry> of a node.
type GeometryInstance struct {
	SID  string
	Name string
	URL  string
	// Materials maps a primitive's material symbol to a material URL.
	Materials map[string]string
}

// Node is one node of a visual scene's tree.
type Node struct {
	ID     string
	Name   string
	SID    string
	Type   NodeType
	Layers []string

	Transforms    []Transform
	Geometries    []GeometryInstance
	InstanceNodes []string // urls of <instance_node>
	Children      []*Node
}

// ParseNode reads a <node> element and its subtree.
func ParseNode(el *Element) (*Node, error) {
	n := &Node{
		ID:     el.AttrOr("id", ""),
		Name:   el.AttrOr("name", ""),
		SID:    el.AttrOr("sid", ""),
		Layers: strings.Fields(el.AttrOr("layer", "")),
	}
	if el.AttrOr("type", "NODE") == "JOINT" {
		n.Type = NodeTypeJoint
	}

	for _, c := range el.Children {
		switch {
		case IsTransform(c.Name):
			t, err := ParseTransform(c)
			if err != nil {
				return nil, fmt.Errorf("collada: node %q: %w", el.id(), err)
			}
			n.Transforms = append(n.Transforms, t)
		case c.Name == "instance_geometry":
			gi, err := parseGeometryInstance(c)
			if err != nil {
				return nil, fmt.Errorf("collada: node %q: %w", el.id(), err)
			}
			n.Geometries = append(n.Geometries, gi)
		case c.Name == "instance_node":
			if url, ok := c.Attr("url"); ok {
				n.InstanceNodes = append(n.InstanceNodes, url)
			}
		case c.Name == "node":
			child, err := ParseNode(c)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}
	return n, nil
}

func parseGeometryInstance(el *Element) (GeometryInstance, error) {
	gi := GeometryInstance{
		SID:  el.AttrOr("sid", ""),
		Name: el.AttrOr("name", ""),
	}
	url, ok := el.Attr("url")
	if !ok {
		return gi, newErr(ErrMissingRequiredElement, "instance_geometry", gi.Name, "no url")
	}
	gi.URL = url

	tc := el.Path("bind_material", "technique_common")
	if tc == nil {
		return gi, nil
	}
	gi.Materials = make(map[string]string)
	for _, im := range tc.ChildrenNamed("instance_material") {
		symbol, ok := im.Attr("symbol")
		if !ok {
			return gi, newErr(ErrMalformedData, "instance_material", url, "no symbol")
		}
		target, ok := im.Attr("target")
		if !ok {
			return gi, newErr(ErrMalformedData, "instance_material", symbol, "no target")
		}
		gi.Materials[symbol] = target
	}
	return gi, nil
}

// Walk calls fn for n and its descendants depth first, passing the depth.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
