package collada

// Image is a <library_images> entry.
type Image struct {
	ID       string
	Name     string
	InitFrom string // file reference, usually a relative path or file URL
}

// ParseImage reads an <image> element. Both the 1.4 form
// (<init_from>path</init_from>) and the 1.5 form (<init_from><ref>) are
// accepted.
func ParseImage(el *Element) (*Image, error) {
	img := &Image{
		ID:   el.AttrOr("id", ""),
		Name: el.AttrOr("name", ""),
	}
	init := el.Child("init_from")
	if init == nil {
		return nil, newErr(ErrMissingRequiredElement, "image", el.id(), "no <init_from>")
	}
	img.InitFrom = init.Text
	if ref := init.Child("ref"); ref != nil {
		img.InitFrom = ref.Text
	}
	if img.InitFrom == "" {
		return nil, newErr(ErrMalformedData, "init_from", el.id(), "empty reference")
	}
	return img, nil
}
