// Package collada imports COLLADA (.dae) documents into an in-memory
// object graph: materials, effects, images, geometries and visual scenes.
//
// Geometry is decoded through a small indirection engine. Each <source>
// is a flat array read through an Accessor; each <triangles> primitive
// owns one IndexTable whose stride is derived from the highest input
// offset, and every input of the primitive is a Binding that maps a
// vertex ordinal through that table into its source.
package collada

import (
	"fmt"
	"io"
	"os"
)

// Document is a fully parsed COLLADA document.
type Document struct {
	Path    string // file the document was opened from, if any
	Version string

	Materials    []*Material
	Effects      []*Effect
	Images       []*Image
	Geometries   []*Geometry
	VisualScenes []*VisualScene

	sceneURL string
}

// Open reads and parses the document at path. Gzip or zstd compressed
// documents (.dae.gz, .dae.zst) are decompressed transparently.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("collada: open %s: %w", path, err)
	}
	defer f.Close()

	r, release, err := decompress(f)
	if err != nil {
		return nil, fmt.Errorf("collada: %s: %w", path, err)
	}
	defer release()

	doc, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("collada: %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// InfoFile runs the Info quick pass over the document at path,
// decompressing it like Open.
func InfoFile(path string) (DocumentInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("collada: open %s: %w", path, err)
	}
	defer f.Close()

	r, release, err := decompress(f)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("collada: %s: %w", path, err)
	}
	defer release()

	info, err := Info(r)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("collada: %s: %w", path, err)
	}
	return info, nil
}

// Decode parses a document from r. Any malformed item aborts the whole
// document.
func Decode(r io.Reader) (*Document, error) {
	root, err := parseRoot(r)
	if err != nil {
		return nil, err
	}
	doc := &Document{Version: root.AttrOr("version", "")}
	if err := dispatch(root, (*collector)(doc)); err != nil {
		return nil, err
	}
	if ivs := root.Path("scene", "instance_visual_scene"); ivs != nil {
		doc.sceneURL = ivs.AttrOr("url", "")
	}
	return doc, nil
}

type collector Document

func (c *collector) Material(m *Material) error {
	c.Materials = append(c.Materials, m)
	return nil
}

func (c *collector) Effect(e *Effect) error {
	c.Effects = append(c.Effects, e)
	return nil
}

func (c *collector) Image(img *Image) error {
	c.Images = append(c.Images, img)
	return nil
}

func (c *collector) Geometry(g *Geometry) error {
	c.Geometries = append(c.Geometries, g)
	return nil
}

func (c *collector) VisualScene(vs *VisualScene) error {
	c.VisualScenes = append(c.VisualScenes, vs)
	return nil
}

// fragment strips the leading '#' of a local URL.
func fragment(url string) string {
	if len(url) > 0 && url[0] == '#' {
		return url[1:]
	}
	return url
}

// Geometry returns the geometry a "#id" URL names, or nil.
func (d *Document) Geometry(url string) *Geometry {
	id := fragment(url)
	for _, g := range d.Geometries {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Material returns the material a "#id" URL names, or nil.
func (d *Document) Material(url string) *Material {
	id := fragment(url)
	for _, m := range d.Materials {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Effect returns the effect a "#id" URL names, or nil.
func (d *Document) Effect(url string) *Effect {
	id := fragment(url)
	for _, e := range d.Effects {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Image returns the image with the given id or "#id" URL, or nil.
func (d *Document) Image(url string) *Image {
	id := fragment(url)
	for _, img := range d.Images {
		if img.ID == id {
			return img
		}
	}
	return nil
}

// Scene returns the visual scene instanced by <scene>, falling back to the
// first visual scene. It returns nil when the document has none.
func (d *Document) Scene() *VisualScene {
	if d.sceneURL != "" {
		id := fragment(d.sceneURL)
		for _, vs := range d.VisualScenes {
			if vs.ID == id {
				return vs
			}
		}
	}
	if len(d.VisualScenes) > 0 {
		return d.VisualScenes[0]
	}
	return nil
}

// MaterialEffect follows a material URL to its effect, or nil.
func (d *Document) MaterialEffect(url string) *Effect {
	m := d.Material(url)
	if m == nil {
		return nil
	}
	return d.Effect(m.Effect.URL)
}

// TextureImages returns the images referenced by textures of every effect,
// without duplicates, in effect order.
func (d *Document) TextureImages() []*Image {
	var (
		out  []*Image
		seen = make(map[string]bool)
	)
	for _, e := range d.Effects {
		for _, p := range e.Profiles {
			s := p.Technique.Shader
			if s == nil {
				continue
			}
			for _, attr := range textureAttrs {
				t, ok := s.Textures[attr]
				if !ok {
					continue
				}
				img := d.Image(e.ImageFor(t))
				if img == nil || seen[img.ID] {
					continue
				}
				seen[img.ID] = true
				out = append(out, img)
			}
		}
	}
	return out
}

// textureAttrs fixes the visiting order of Shader.Textures.
var textureAttrs = []string{"emission", "ambient", "diffuse", "specular", "reflective", "transparent"}
