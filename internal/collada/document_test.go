package collada

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCube(t *testing.T) {
	doc, err := Open("testdata/cube.dae")
	require.NoError(t, err)
	assert.Equal(t, "testdata/cube.dae", doc.Path)
	assert.Equal(t, "1.4.1", doc.Version)

	require.Len(t, doc.Geometries, 1)
	g := doc.Geometry("#quad-mesh")
	require.NotNil(t, g)
	assert.Equal(t, "quad", g.Name)
	assert.Len(t, g.Sources(), 3)
	assert.Equal(t, 4, g.Registry().Len())

	// <lines> is skipped, only the triangle list is decoded.
	require.Len(t, g.Primitives, 1)
	p := g.Primitives[0]
	assert.Equal(t, "crate-symbol", p.Material)
	assert.Equal(t, 2, g.TriangleCount())
	assert.Equal(t, 6, p.VertexCount())
	assert.Equal(t, 3, p.Indices().Channels())

	pos, err := p.Position(5)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{-1, 1, 0}, pos)
	n, err := p.Normal(4)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 0, 1}, n)
	uv, err := p.TexCoord(2)
	require.NoError(t, err)
	assert.Equal(t, [2]float32{1, 1}, uv)

	// VERTEX chains through the <vertices> alias to the position source.
	b := p.Binding(SemVertex)
	require.NotNil(t, b)
	require.NotNil(t, b.Entry().Alias())
	assert.Equal(t, "quad-positions", b.Entry().Source().ID)
}

func TestDocumentMaterials(t *testing.T) {
	doc, err := Open("testdata/cube.dae")
	require.NoError(t, err)

	m := doc.Material("#crate-material")
	require.NotNil(t, m)
	assert.Equal(t, "#crate-effect", m.Effect.URL)

	e := doc.MaterialEffect("#crate-material")
	require.NotNil(t, e)
	s := e.Shader()
	require.NotNil(t, s)
	assert.Equal(t, ShaderPhong, s.Kind)
	assert.Equal(t, RGBA{0.1, 0.1, 0.1, 1}, s.Ambient)
	assert.Equal(t, RGBA{0.5, 0.5, 0.5, 1}, s.Specular)
	assert.Equal(t, float32(50), s.Shininess)
	assert.Equal(t, float32(1), s.IndexOfRefraction)
	assert.Equal(t, "common", e.Profiles[0].Technique.SID)

	tex, ok := s.Textures["diffuse"]
	require.True(t, ok)
	assert.Equal(t, "UVMap", tex.TexCoord)
	assert.Equal(t, "crate-img", e.ImageFor(tex))

	imgs := doc.TextureImages()
	require.Len(t, imgs, 1)
	assert.Equal(t, "textures/crate.png", imgs[0].InitFrom)
}

func TestDocumentScene(t *testing.T) {
	doc, err := Open("testdata/cube.dae")
	require.NoError(t, err)

	vs := doc.Scene()
	require.NotNil(t, vs)
	assert.Equal(t, "Scene", vs.ID)
	require.Len(t, vs.Nodes, 1)

	root := vs.Nodes[0]
	assert.Equal(t, []string{"L1", "L2"}, root.Layers)
	require.Len(t, root.Transforms, 3)
	assert.Equal(t, KindTranslate, root.Transforms[0].Kind())
	assert.Equal(t, "location", root.Transforms[0].SID())
	assert.Equal(t, [3]float32{1, 2, 3}, root.Transforms[0].(Translate).V)
	rot := root.Transforms[1].(Rotate)
	assert.Equal(t, [3]float32{0, 0, 1}, rot.Axis)
	assert.Equal(t, float32(90), rot.Angle)

	var ids []string
	depths := map[string]int{}
	vs.Walk(func(n *Node, depth int) bool {
		ids = append(ids, n.ID)
		depths[n.ID] = depth
		return true
	})
	assert.Equal(t, []string{"root", "quad", "bone"}, ids)
	assert.Equal(t, 1, depths["bone"])

	quad := root.Children[0]
	require.Len(t, quad.Geometries, 1)
	gi := quad.Geometries[0]
	assert.Equal(t, "#quad-mesh", gi.URL)
	assert.Equal(t, "#crate-material", gi.Materials["crate-symbol"])
	assert.Equal(t, KindMatrix, quad.Transforms[0].Kind())
	assert.Equal(t, NodeTypeJoint, root.Children[1].Type)
}

type countingHandler struct {
	NopHandler
	geometries []string
	scenes     int
}

func (h *countingHandler) Geometry(g *Geometry) error {
	h.geometries = append(h.geometries, g.ID)
	return nil
}

func (h *countingHandler) VisualScene(*VisualScene) error {
	h.scenes++
	return nil
}

func TestRead(t *testing.T) {
	f, err := os.Open("testdata/cube.dae")
	require.NoError(t, err)
	defer f.Close()

	var h countingHandler
	require.NoError(t, Read(f, &h))
	assert.Equal(t, []string{"quad-mesh"}, h.geometries)
	assert.Equal(t, 1, h.scenes)
}

type failingHandler struct{ NopHandler }

var errStop = errors.New("stop")

func (failingHandler) Geometry(*Geometry) error { return errStop }

func TestReadHandlerError(t *testing.T) {
	f, err := os.Open("testdata/cube.dae")
	require.NoError(t, err)
	defer f.Close()
	assert.ErrorIs(t, Read(f, failingHandler{}), errStop)
}

func TestInfo(t *testing.T) {
	f, err := os.Open("testdata/cube.dae")
	require.NoError(t, err)
	defer f.Close()

	info, err := Info(f)
	require.NoError(t, err)
	assert.Equal(t, "1.4.1", info.Version)
	assert.Equal(t, []GeometryInfo{{ID: "quad-mesh", Name: "quad"}}, info.Geometries)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"not collada", `<scene/>`, ErrMissingRequiredElement},
		{"no mesh", `<COLLADA><library_geometries><geometry id="g"/></library_geometries></COLLADA>`, ErrMissingRequiredElement},
		{
			"forward reference",
			`<COLLADA><library_geometries><geometry id="g"><mesh>
<triangles count="1"><input semantic="VERTEX" source="#v"/><p>0 0 0</p></triangles>
<vertices id="v"><input semantic="POSITION" source="#s"/></vertices>
</mesh></geometry></library_geometries></COLLADA>`,
			ErrUnresolvedReference,
		},
		{
			"empty scene",
			`<COLLADA><library_visual_scenes><visual_scene id="s"/></library_visual_scenes></COLLADA>`,
			ErrMissingRequiredElement,
		},
		{
			"profile without technique",
			`<COLLADA><library_effects><effect id="e"><profile_COMMON/></effect></library_effects></COLLADA>`,
			ErrMissingRequiredElement,
		},
		{
			"material without effect",
			`<COLLADA><library_materials><material id="m"/></library_materials></COLLADA>`,
			ErrMissingRequiredElement,
		},
		{
			"bad transform",
			`<COLLADA><library_visual_scenes><visual_scene><node><translate>1 2</translate></node></visual_scene></library_visual_scenes></COLLADA>`,
			ErrMalformedData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGeometryErrorContext(t *testing.T) {
	_, err := Decode(strings.NewReader(`<COLLADA><library_geometries><geometry id="broken"><mesh>
<triangles count="1"><input semantic="VERTEX" source="#missing"/><p>0 0 0</p></triangles>
</mesh></geometry></library_geometries></COLLADA>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `geometry "broken"`)
	assert.Contains(t, err.Error(), "#missing")

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrUnresolvedReference, pe.Kind)
}

func TestParseTransform(t *testing.T) {
	tr, err := ParseTransform(mustElement(t, `<skew sid="k">45 0 1 0 1 0 0</skew>`))
	require.NoError(t, err)
	sk := tr.(Skew)
	assert.Equal(t, float32(45), sk.Angle)
	assert.Equal(t, [3]float32{0, 1, 0}, sk.Rotation)
	assert.Equal(t, [3]float32{1, 0, 0}, sk.Translation)
	assert.Equal(t, "k", sk.SID())

	tr, err = ParseTransform(mustElement(t, `<lookat>0 0 5 0 0 0 0 1 0</lookat>`))
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 1, 0}, tr.(LookAt).Up)

	_, err = ParseTransform(mustElement(t, `<rotate>0 0 1</rotate>`))
	assert.ErrorIs(t, err, ErrMalformedData)
	_, err = ParseTransform(mustElement(t, `<node/>`))
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestParseProfileShaderKinds(t *testing.T) {
	p, err := ParseProfileCommon(mustElement(t, `<profile_COMMON><technique sid="t">
<lambert><diffuse><color>1 0 0 1</color></diffuse><specular><color>1 1 1 1</color></specular></lambert>
</technique></profile_COMMON>`))
	require.NoError(t, err)
	s := p.Technique.Shader
	assert.Equal(t, ShaderLambert, s.Kind)
	assert.Equal(t, RGBA{1, 0, 0, 1}, s.Diffuse)
	// Lambert has no specular term.
	assert.Equal(t, RGBA{}, s.Specular)

	_, err = ParseProfileCommon(mustElement(t, `<profile_COMMON><technique sid="t"><constant/><blinn/></technique></profile_COMMON>`))
	assert.ErrorIs(t, err, ErrMalformedData)
	_, err = ParseProfileCommon(mustElement(t, `<profile_COMMON><technique><constant/></technique></profile_COMMON>`))
	assert.ErrorIs(t, err, ErrMissingRequiredElement)
	_, err = ParseProfileCommon(mustElement(t, `<profile_COMMON><technique sid="t"><blinn><diffuse><color>1 0</color></diffuse></blinn></technique></profile_COMMON>`))
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestVersion(t *testing.T) {
	v, err := ParseVersion("1.4.1")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), v.Minor())

	assert.True(t, SupportedVersion("1.4.1"))
	assert.True(t, SupportedVersion("1.5.0"))
	assert.False(t, SupportedVersion("1.3.1"))
	assert.False(t, SupportedVersion("2.0"))
	assert.False(t, SupportedVersion(""))

	_, err = ParseVersion("one")
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestOpenCompressed(t *testing.T) {
	raw, err := os.ReadFile("testdata/cube.dae")
	require.NoError(t, err)
	dir := t.TempDir()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zst := enc.EncodeAll(raw, nil)
	require.NoError(t, enc.Close())

	for name, data := range map[string][]byte{"cube.dae.gz": gz.Bytes(), "cube.dae.zst": zst} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0644))
		doc, err := Open(path)
		require.NoError(t, err, name)
		assert.NotNil(t, doc.Geometry("#quad-mesh"), name)

		info, err := InfoFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, "1.4.1", info.Version, name)
	}
}
