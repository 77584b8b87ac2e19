package collada

import "fmt"

// RGBA is a colour value of a shader attribute.
type RGBA [4]float32

// ShaderKind selects the lighting model of a technique.
type ShaderKind int

const (
	ShaderConstant ShaderKind = iota + 1
	ShaderLambert
	ShaderPhong
	ShaderBlinn
)

func (k ShaderKind) String() string {
	switch k {
	case ShaderConstant:
		return "constant"
	case ShaderLambert:
		return "lambert"
	case ShaderPhong:
		return "phong"
	case ShaderBlinn:
		return "blinn"
	}
	return "unknown"
}

// TextureRef is a <texture> in place of a colour.
type TextureRef struct {
	Sampler  string // texture attribute: a sampler sid or image id
	TexCoord string // texcoord symbol bound by bind_vertex_input
}

// Shader holds the attributes of the common profile's shading elements.
// Fields a kind does not define stay zero: constant has no ambient,
// diffuse, specular or shininess; lambert has no specular or shininess.
type Shader struct {
	Kind ShaderKind

	Emission    RGBA
	Reflective  RGBA
	Transparent RGBA
	Ambient     RGBA
	Diffuse     RGBA
	Specular    RGBA

	Reflectivity      float32
	Transparency      float32
	IndexOfRefraction float32
	Shininess         float32

	// Textures maps an attribute name ("diffuse", "emission", ...) to the
	// texture that replaces its colour.
	Textures map[string]TextureRef
}

// Technique is the <technique> of a common profile.
type Technique struct {
	ID     string
	SID    string
	Shader *Shader
}

// ProfileCommon is a <profile_COMMON> element.
type ProfileCommon struct {
	ID        string
	Technique Technique
	params    map[string]param
}

// param is a <newparam>: either a surface naming an image, or a sampler
// naming a surface.
type param struct {
	surface string // image id
	sampler string // surface sid
}

// Effect is a parsed <effect>.
type Effect struct {
	ID       string
	Name     string
	Profiles []*ProfileCommon
	params   map[string]param
}

// ParseEffect reads an <effect> element.
func ParseEffect(el *Element) (*Effect, error) {
	e := &Effect{
		ID:     el.AttrOr("id", ""),
		Name:   el.AttrOr("name", ""),
		params: make(map[string]param),
	}
	for _, c := range el.Children {
		switch c.Name {
		case "newparam":
			parseNewParam(c, e.params)
		case "profile_COMMON":
			p, err := ParseProfileCommon(c)
			if err != nil {
				return nil, fmt.Errorf("collada: effect %q: %w", el.id(), err)
			}
			e.Profiles = append(e.Profiles, p)
		}
	}
	return e, nil
}

// Shader returns the shader of the first common profile, or nil.
func (e *Effect) Shader() *Shader {
	if len(e.Profiles) == 0 {
		return nil
	}
	return e.Profiles[0].Technique.Shader
}

// ImageFor follows a texture's sampler through the sampler2D and surface
// newparams to an image id. A texture that names no param is taken to name
// the image directly. Profile params shadow effect params.
func (e *Effect) ImageFor(t TextureRef) string {
	lookup := func(sid string) (param, bool) {
		for _, p := range e.Profiles {
			if v, ok := p.params[sid]; ok {
				return v, true
			}
		}
		v, ok := e.params[sid]
		return v, ok
	}
	sid := t.Sampler
	for range 4 {
		p, ok := lookup(sid)
		if !ok {
			return sid
		}
		switch {
		case p.surface != "":
			return p.surface
		case p.sampler != "":
			sid = p.sampler
		default:
			return sid
		}
	}
	return sid
}

func parseNewParam(el *Element, params map[string]param) {
	sid, ok := el.Attr("sid")
	if !ok {
		return
	}
	if s := el.Child("surface"); s != nil {
		if init := s.Child("init_from"); init != nil {
			params[sid] = param{surface: init.Text}
		}
		return
	}
	if s := el.Child("sampler2D"); s != nil {
		if src := s.Child("source"); src != nil {
			params[sid] = param{sampler: src.Text}
		} else if inst := s.Child("instance_image"); inst != nil {
			url := inst.AttrOr("url", "")
			if len(url) > 0 && url[0] == '#' {
				url = url[1:]
			}
			params[sid] = param{surface: url}
		}
	}
}

// ParseProfileCommon reads a <profile_COMMON> element.
func ParseProfileCommon(el *Element) (*ProfileCommon, error) {
	p := &ProfileCommon{
		ID:     el.AttrOr("id", ""),
		params: make(map[string]param),
	}
	var tech *Element
	for _, c := range el.Children {
		switch c.Name {
		case "newparam":
			parseNewParam(c, p.params)
		case "technique":
			tech = c
		}
	}
	if tech == nil {
		return nil, newErr(ErrMissingRequiredElement, "profile_COMMON", p.ID, "no <technique>")
	}
	sid, ok := tech.Attr("sid")
	if !ok {
		return nil, newErr(ErrMissingRequiredElement, "technique", p.ID, "no sid")
	}
	p.Technique = Technique{ID: tech.AttrOr("id", ""), SID: sid}

	for _, c := range tech.Children {
		var kind ShaderKind
		switch c.Name {
		case "constant":
			kind = ShaderConstant
		case "lambert":
			kind = ShaderLambert
		case "phong":
			kind = ShaderPhong
		case "blinn":
			kind = ShaderBlinn
		default:
			continue
		}
		if p.Technique.Shader != nil {
			return nil, newErr(ErrMalformedData, "technique", sid, "more than one shader element")
		}
		s, err := parseShader(c, kind)
		if err != nil {
			return nil, err
		}
		p.Technique.Shader = s
	}
	if p.Technique.Shader == nil {
		return nil, newErr(ErrMissingRequiredElement, "technique", sid, "no shader element")
	}
	return p, nil
}

func parseShader(el *Element, kind ShaderKind) (*Shader, error) {
	s := &Shader{Kind: kind}
	colours := map[string]*RGBA{
		"emission":    &s.Emission,
		"reflective":  &s.Reflective,
		"transparent": &s.Transparent,
	}
	floats := map[string]*float32{
		"reflectivity":        &s.Reflectivity,
		"transparency":        &s.Transparency,
		"index_of_refraction": &s.IndexOfRefraction,
	}
	if kind != ShaderConstant {
		colours["ambient"] = &s.Ambient
		colours["diffuse"] = &s.Diffuse
	}
	if kind == ShaderPhong || kind == ShaderBlinn {
		colours["specular"] = &s.Specular
		floats["shininess"] = &s.Shininess
	}

	for _, c := range el.Children {
		if dst, ok := colours[c.Name]; ok {
			if err := parseColourOrTexture(c, dst, s); err != nil {
				return nil, err
			}
		} else if dst, ok := floats[c.Name]; ok {
			f := c.Child("float")
			if f == nil {
				continue
			}
			v, err := parseFloats(f, 1)
			if err != nil {
				return nil, err
			}
			*dst = v[0]
		}
	}
	return s, nil
}

func parseColourOrTexture(el *Element, dst *RGBA, s *Shader) error {
	if c := el.Child("color"); c != nil {
		v, err := parseFloats(c, 4)
		if err != nil {
			return err
		}
		copy(dst[:], v)
		return nil
	}
	if t := el.Child("texture"); t != nil {
		if s.Textures == nil {
			s.Textures = make(map[string]TextureRef)
		}
		s.Textures[el.Name] = TextureRef{
			Sampler:  t.AttrOr("texture", ""),
			TexCoord: t.AttrOr("texcoord", ""),
		}
	}
	return nil
}
