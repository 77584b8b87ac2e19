package collada

import (
	"strconv"
	"strings"
)

// DataType is the declared kind of one accessor field.
// Values are stored as float32 regardless of the declared kind.
type DataType int

const (
	DataUnknown DataType = iota
	DataInteger
	DataFloat
	DataName
	DataBool
	DataIDRef
	DataSIDRef
)

func (t DataType) String() string {
	switch t {
	case DataInteger:
		return "int"
	case DataFloat:
		return "float"
	case DataName:
		return "Name"
	case DataBool:
		return "bool"
	case DataIDRef:
		return "IDREF"
	case DataSIDRef:
		return "SIDREF"
	default:
		return "unknown"
	}
}

func parseDataType(s string) DataType {
	switch s {
	case "int":
		return DataInteger
	case "float":
		return DataFloat
	case "Name":
		return DataName
	case "bool":
		return DataBool
	case "IDREF":
		return DataIDRef
	case "SIDREF":
		return DataSIDRef
	}
	return DataUnknown
}

// Param describes one slot of an accessor tuple. Skip is set for
// unnamed params: they consume a scalar but are not extracted.
type Param struct {
	Skip bool
	Type DataType
}

// Accessor describes how a flat array encodes tuples.
type Accessor struct {
	Count  int
	Offset int
	Stride int
	Params []Param
}

// Width returns the number of values extracted per tuple.
func (a Accessor) Width() int {
	n := 0
	for _, p := range a.Params {
		if !p.Skip {
			n++
		}
	}
	return n
}

// Fits reports whether every tuple the accessor reads lies within an
// array of n scalars.
func (a Accessor) Fits(n int) bool {
	if a.Stride < 1 || a.Offset < 0 || a.Count < 0 || a.Offset > n {
		return false
	}
	return a.Count <= (n-a.Offset)/a.Stride
}

// Source is an immutable flat array of numbers read through an Accessor.
type Source struct {
	ID   string
	Name string

	values   []float32
	accessor Accessor
}

// NewSource validates acc against values and returns the source.
// values is retained, not copied.
func NewSource(id, name string, values []float32, acc Accessor) (*Source, error) {
	if acc.Stride < 1 {
		return nil, newErr(ErrMalformedData, "accessor", id, "stride %d < 1", acc.Stride)
	}
	if acc.Stride < len(acc.Params) {
		return nil, newErr(ErrMalformedData, "accessor", id,
			"stride %d smaller than param count %d", acc.Stride, len(acc.Params))
	}
	if !acc.Fits(len(values)) {
		return nil, newErr(ErrMalformedData, "accessor", id,
			"%d tuples of stride %d after offset %d overrun array of %d",
			acc.Count, acc.Stride, acc.Offset, len(values))
	}
	return &Source{ID: id, Name: name, values: values, accessor: acc}, nil
}

// Accessor returns the source's accessor.
func (s *Source) Accessor() Accessor { return s.accessor }

// Count returns the number of tuples.
func (s *Source) Count() int { return s.accessor.Count }

// Len returns the number of scalars in the array.
func (s *Source) Len() int { return len(s.values) }

// ScalarAt returns the raw array value at i.
func (s *Source) ScalarAt(i int) (float32, error) {
	if i < 0 || i >= len(s.values) {
		return 0, rangeErr("source %q: scalar %d of %d", s.ID, i, len(s.values))
	}
	return s.values[i], nil
}

// Tuple returns the non-skip fields of tuple i.
func (s *Source) Tuple(i int) ([]float32, error) {
	return s.AppendTuple(nil, i)
}

// AppendTuple appends the non-skip fields of tuple i to dst.
func (s *Source) AppendTuple(dst []float32, i int) ([]float32, error) {
	a := &s.accessor
	if i < 0 || i >= a.Count {
		return dst, rangeErr("source %q: tuple %d of %d", s.ID, i, a.Count)
	}
	base := a.Offset + i*a.Stride
	for k, p := range a.Params {
		if !p.Skip {
			dst = append(dst, s.values[base+k])
		}
	}
	return dst, nil
}

// ParseSource reads a <source> element.
func ParseSource(el *Element) (*Source, error) {
	id := el.AttrOr("id", "")
	name := el.AttrOr("name", "")

	var (
		values []float32
		found  bool
	)
	for _, c := range el.Children {
		switch c.Name {
		case "float_array", "int_array", "bool_array":
			if found {
				return nil, newErr(ErrMalformedData, "source", id, "more than one array")
			}
			v, err := parseArray(c)
			if err != nil {
				return nil, err
			}
			values, found = v, true
		}
	}
	if !found {
		return nil, newErr(ErrMissingRequiredElement, "source", id, "no numeric array")
	}

	accEl := el.Path("technique_common", "accessor")
	if accEl == nil {
		return nil, newErr(ErrMissingRequiredElement, "source", id, "no technique_common/accessor")
	}
	acc, err := parseAccessor(accEl)
	if err != nil {
		return nil, err
	}
	return NewSource(id, name, values, acc)
}

func parseAccessor(el *Element) (Accessor, error) {
	var (
		a   Accessor
		err error
	)
	if _, ok := el.Attr("count"); !ok {
		return a, newErr(ErrMalformedData, "accessor", el.AttrOr("source", ""), "no count")
	}
	if a.Count, err = el.IntAttr("count", 0); err != nil {
		return a, err
	}
	if a.Offset, err = el.IntAttr("offset", 0); err != nil {
		return a, err
	}
	if a.Stride, err = el.IntAttr("stride", 1); err != nil {
		return a, err
	}
	for _, p := range el.ChildrenNamed("param") {
		_, named := p.Attr("name")
		a.Params = append(a.Params, Param{
			Skip: !named,
			Type: parseDataType(p.AttrOr("type", "")),
		})
	}
	return a, nil
}

func parseArray(el *Element) ([]float32, error) {
	id := el.AttrOr("id", "")
	if _, ok := el.Attr("count"); !ok {
		return nil, newErr(ErrMalformedData, el.Name, id, "no count")
	}
	count, err := el.IntAttr("count", 0)
	if err != nil {
		return nil, err
	}
	tokens := strings.Fields(el.Text)
	if len(tokens) != count {
		return nil, newErr(ErrMalformedData, el.Name, id,
			"count is %d but %d values present", count, len(tokens))
	}
	values := make([]float32, count)
	for i, tok := range tokens {
		v, err := parseScalar(el.Name, tok)
		if err != nil {
			return nil, newErr(ErrMalformedData, el.Name, id, "value %d: %q", i, tok)
		}
		values[i] = v
	}
	return values, nil
}

func parseScalar(kind, tok string) (float32, error) {
	switch kind {
	case "bool_array":
		b, err := strconv.ParseBool(tok)
		if err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case "int_array":
		n, err := strconv.ParseInt(tok, 10, 32)
		return float32(n), err
	default:
		f, err := strconv.ParseFloat(tok, 32)
		return float32(f), err
	}
}
