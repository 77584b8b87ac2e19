package collada

import (
	"fmt"
	"io"
)

// Handler receives library items as they are parsed by Read.
// A non-nil error aborts the read.
type Handler interface {
	Material(*Material) error
	Effect(*Effect) error
	Image(*Image) error
	Geometry(*Geometry) error
	VisualScene(*VisualScene) error
}

// NopHandler ignores every item. Embed it to handle a subset.
type NopHandler struct{}

func (NopHandler) Material(*Material) error       { return nil }
func (NopHandler) Effect(*Effect) error           { return nil }
func (NopHandler) Image(*Image) error             { return nil }
func (NopHandler) Geometry(*Geometry) error       { return nil }
func (NopHandler) VisualScene(*VisualScene) error { return nil }

// Read parses the document in r and hands each library item to h in
// document order. Items are not retained.
func Read(r io.Reader, h Handler) error {
	root, err := parseRoot(r)
	if err != nil {
		return err
	}
	return dispatch(root, h)
}

func parseRoot(r io.Reader) (*Element, error) {
	root, err := ParseElement(r)
	if err != nil {
		return nil, err
	}
	if root.Name != "COLLADA" {
		return nil, newErr(ErrMissingRequiredElement, root.Name, "", "root element is not <COLLADA>")
	}
	return root, nil
}

func dispatch(root *Element, h Handler) error {
	for _, lib := range root.Children {
		var err error
		switch lib.Name {
		case "library_materials":
			err = eachItem(lib, "material", func(el *Element) error {
				m, err := ParseMaterial(el)
				if err != nil {
					return err
				}
				return h.Material(m)
			})
		case "library_effects":
			err = eachItem(lib, "effect", func(el *Element) error {
				e, err := ParseEffect(el)
				if err != nil {
					return err
				}
				return h.Effect(e)
			})
		case "library_images":
			err = eachItem(lib, "image", func(el *Element) error {
				img, err := ParseImage(el)
				if err != nil {
					return err
				}
				return h.Image(img)
			})
		case "library_geometries":
			err = eachItem(lib, "geometry", func(el *Element) error {
				g, err := ParseGeometry(el)
				if err != nil {
					return err
				}
				return h.Geometry(g)
			})
		case "library_visual_scenes":
			err = eachItem(lib, "visual_scene", func(el *Element) error {
				vs, err := ParseVisualScene(el)
				if err != nil {
					return err
				}
				return h.VisualScene(vs)
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func eachItem(lib *Element, name string, fn func(*Element) error) error {
	for _, el := range lib.ChildrenNamed(name) {
		if err := fn(el); err != nil {
			return err
		}
	}
	return nil
}

// GeometryInfo names one geometry of a document.
type GeometryInfo struct {
	ID   string
	Name string
}

// DocumentInfo is the result of a quick pass over a document.
type DocumentInfo struct {
	Version    string
	Geometries []GeometryInfo
}

// Info lists the document's geometries without decoding their meshes.
func Info(r io.Reader) (DocumentInfo, error) {
	var info DocumentInfo
	root, err := parseRoot(r)
	if err != nil {
		return info, err
	}
	info.Version = root.AttrOr("version", "")
	for _, lib := range root.ChildrenNamed("library_geometries") {
		for _, g := range lib.ChildrenNamed("geometry") {
			id, ok := g.Attr("id")
			if !ok {
				return info, fmt.Errorf("collada: geometry %q: %w", g.AttrOr("name", ""),
					newErr(ErrMalformedData, "geometry", "", "no id"))
			}
			info.Geometries = append(info.Geometries, GeometryInfo{ID: id, Name: g.AttrOr("name", "")})
		}
	}
	return info, nil
}
