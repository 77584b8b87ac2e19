package collada

// EffectInstance is the <instance_effect> of a material.
type EffectInstance struct {
	SID  string
	Name string
	URL  string
}

// Material binds a name to an effect.
type Material struct {
	ID     string
	Name   string
	Effect EffectInstance
}

// ParseMaterial reads a <material> element.
func ParseMaterial(el *Element) (*Material, error) {
	m := &Material{
		ID:   el.AttrOr("id", ""),
		Name: el.AttrOr("name", ""),
	}
	inst := el.Child("instance_effect")
	if inst == nil {
		return nil, newErr(ErrMissingRequiredElement, "material", el.id(), "no <instance_effect>")
	}
	url, ok := inst.Attr("url")
	if !ok {
		return nil, newErr(ErrMissingRequiredElement, "instance_effect", el.id(), "no url")
	}
	m.Effect = EffectInstance{
		SID:  inst.AttrOr("sid", ""),
		Name: inst.AttrOr("name", ""),
		URL:  url,
	}
	return m, nil
}
