package collada

import (
	"strconv"
	"strings"
)

// TransformKind identifies a transformation element.
type TransformKind int

const (
	KindTranslate TransformKind = iota + 1
	KindScale
	KindRotate
	KindMatrix
	KindLookAt
	KindSkew
)

func (k TransformKind) String() string {
	switch k {
	case KindTranslate:
		return "translate"
	case KindScale:
		return "scale"
	case KindRotate:
		return "rotate"
	case KindMatrix:
		return "matrix"
	case KindLookAt:
		return "lookat"
	case KindSkew:
		return "skew"
	}
	return "unknown"
}

// Transform is one transformation of a node, in document order.
// The concrete type is one of Translate, Scale, Rotate, Matrix, LookAt
// or Skew.
type Transform interface {
	Kind() TransformKind
	SID() string
}

type scopedID string

func (s scopedID) SID() string { return string(s) }

// Translate moves by V.
type Translate struct {
	scopedID
	V [3]float32
}

// Scale scales by V.
type Scale struct {
	scopedID
	V [3]float32
}

// Rotate rotates by Angle degrees around Axis.
type Rotate struct {
	scopedID
	Axis  [3]float32
	Angle float32
}

// Matrix is a row-major 4x4 matrix.
type Matrix struct {
	scopedID
	M [16]float32
}

// LookAt positions an eye looking at a point.
type LookAt struct {
	scopedID
	Eye, Interest, Up [3]float32
}

// Skew is a skew by Angle degrees along Rotation around Translation.
type Skew struct {
	scopedID
	Angle       float32
	Rotation    [3]float32
	Translation [3]float32
}

func (Translate) Kind() TransformKind { return KindTranslate }
func (Scale) Kind() TransformKind     { return KindScale }
func (Rotate) Kind() TransformKind    { return KindRotate }
func (Matrix) Kind() TransformKind    { return KindMatrix }
func (LookAt) Kind() TransformKind    { return KindLookAt }
func (Skew) Kind() TransformKind      { return KindSkew }

// IsTransform reports whether an element name is a transformation element.
func IsTransform(name string) bool {
	switch name {
	case "translate", "scale", "rotate", "matrix", "lookat", "skew":
		return true
	}
	return false
}

// ParseTransform reads a transformation element.
func ParseTransform(el *Element) (Transform, error) {
	s := scopedID(el.AttrOr("sid", ""))
	switch el.Name {
	case "translate":
		v, err := parseFloats(el, 3)
		if err != nil {
			return nil, err
		}
		return Translate{scopedID: s, V: [3]float32(v)}, nil
	case "scale":
		v, err := parseFloats(el, 3)
		if err != nil {
			return nil, err
		}
		return Scale{scopedID: s, V: [3]float32(v)}, nil
	case "rotate":
		v, err := parseFloats(el, 4)
		if err != nil {
			return nil, err
		}
		return Rotate{scopedID: s, Axis: [3]float32(v[:3]), Angle: v[3]}, nil
	case "matrix":
		v, err := parseFloats(el, 16)
		if err != nil {
			return nil, err
		}
		return Matrix{scopedID: s, M: [16]float32(v)}, nil
	case "lookat":
		v, err := parseFloats(el, 9)
		if err != nil {
			return nil, err
		}
		return LookAt{
			scopedID: s,
			Eye:      [3]float32(v[0:3]),
			Interest: [3]float32(v[3:6]),
			Up:       [3]float32(v[6:9]),
		}, nil
	case "skew":
		v, err := parseFloats(el, 7)
		if err != nil {
			return nil, err
		}
		return Skew{
			scopedID:    s,
			Angle:       v[0],
			Rotation:    [3]float32(v[1:4]),
			Translation: [3]float32(v[4:7]),
		}, nil
	}
	return nil, newErr(ErrMalformedData, el.Name, string(s), "not a transformation element")
}

// parseFloats parses exactly n whitespace-separated floats from el's text.
func parseFloats(el *Element, n int) ([]float32, error) {
	tokens := strings.Fields(el.Text)
	if len(tokens) != n {
		return nil, newErr(ErrMalformedData, el.Name, el.AttrOr("sid", ""),
			"want %d values, have %d", n, len(tokens))
	}
	out := make([]float32, n)
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, newErr(ErrMalformedData, el.Name, el.AttrOr("sid", ""), "value %d: %q", i, tok)
		}
		out[i] = float32(f)
	}
	return out, nil
}
