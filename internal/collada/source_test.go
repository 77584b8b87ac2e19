package collada

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustElement(t *testing.T, doc string) *Element {
	t.Helper()
	el, err := ParseElement(strings.NewReader(doc))
	require.NoError(t, err)
	return el
}

func TestParseElement(t *testing.T) {
	el := mustElement(t, `<a x="1"><b>  text </b><c/><b>two</b></a>`)
	assert.Equal(t, "a", el.Name)
	assert.Equal(t, "1", el.AttrOr("x", ""))
	assert.Equal(t, "def", el.AttrOr("y", "def"))
	require.Len(t, el.Children, 3)
	assert.Equal(t, "text", el.Child("b").Text)
	assert.Len(t, el.ChildrenNamed("b"), 2)
	assert.Nil(t, el.Path("c", "d"))

	_, err := ParseElement(strings.NewReader(`<a><b></a>`))
	assert.Error(t, err)
	_, err = ParseElement(strings.NewReader(``))
	assert.Error(t, err)
}

func TestSourceRoundTrip(t *testing.T) {
	el := mustElement(t, `
<source id="s">
  <float_array id="s-array" count="4">1.0 2.0 3.0 4.0</float_array>
  <technique_common>
    <accessor source="#s-array" count="4" stride="1">
      <param name="X" type="float"/>
    </accessor>
  </technique_common>
</source>`)
	s, err := ParseSource(el)
	require.NoError(t, err)
	assert.Equal(t, "s", s.ID)
	assert.Equal(t, 4, s.Count())
	for i := 0; i < 4; i++ {
		tup, err := s.Tuple(i)
		require.NoError(t, err)
		assert.Equal(t, []float32{float32(i) + 1}, tup)
	}
	_, err = s.Tuple(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = s.ScalarAt(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	v, err := s.ScalarAt(3)
	require.NoError(t, err)
	assert.Equal(t, float32(4), v)
}

func TestSourceStrideOffsetSkip(t *testing.T) {
	// Tuples of stride 4 after a 2-scalar offset; the second param is unnamed.
	values := []float32{
		-1, -1,
		10, 11, 12, 13,
		20, 21, 22, 23,
		30, 31, 32, 33,
	}
	acc := Accessor{
		Count:  3,
		Offset: 2,
		Stride: 4,
		Params: []Param{{Type: DataFloat}, {Skip: true}, {Type: DataFloat}},
	}
	s, err := NewSource("s", "", values, acc)
	require.NoError(t, err)
	assert.Equal(t, 2, acc.Width())

	for i, want := range [][]float32{{10, 12}, {20, 22}, {30, 32}} {
		tup, err := s.Tuple(i)
		require.NoError(t, err)
		assert.Equal(t, want, tup, "tuple %d", i)
	}
}

func TestNewSourceRejectsOverrun(t *testing.T) {
	_, err := NewSource("s", "", make([]float32, 5), Accessor{Count: 2, Stride: 3, Params: []Param{{}, {}, {}}})
	assert.ErrorIs(t, err, ErrMalformedData)

	_, err = NewSource("s", "", make([]float32, 6), Accessor{Count: 2, Stride: 2, Params: []Param{{}, {}, {}}})
	assert.ErrorIs(t, err, ErrMalformedData)

	_, err = NewSource("s", "", make([]float32, 6), Accessor{Count: 2, Stride: 3, Params: []Param{{}, {}, {}}})
	assert.NoError(t, err)

	// Count*Stride wraps around to a small value.
	_, err = NewSource("s", "", make([]float32, 3), Accessor{Count: math.MaxInt / 2, Stride: 4, Params: []Param{{}, {}, {}}})
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestParseSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "count mismatch",
			doc: `<source id="s"><float_array count="3">1 2</float_array>
<technique_common><accessor count="2"><param name="X"/></accessor></technique_common></source>`,
			want: ErrMalformedData,
		},
		{
			name: "too many tokens",
			doc: `<source id="s"><float_array count="1">1 2</float_array>
<technique_common><accessor count="1"><param name="X"/></accessor></technique_common></source>`,
			want: ErrMalformedData,
		},
		{
			name: "bad token",
			doc: `<source id="s"><float_array count="2">1 x</float_array>
<technique_common><accessor count="2"><param name="X"/></accessor></technique_common></source>`,
			want: ErrMalformedData,
		},
		{
			name: "no accessor",
			doc:  `<source id="s"><float_array count="1">1</float_array></source>`,
			want: ErrMissingRequiredElement,
		},
		{
			name: "no array",
			doc:  `<source id="s"><technique_common><accessor count="1"/></technique_common></source>`,
			want: ErrMissingRequiredElement,
		},
		{
			name: "accessor count overflow",
			doc: `<source id="s"><float_array count="3">1 2 3</float_array>
<technique_common><accessor count="4611686018427387904" stride="4"><param name="X"/><param name="Y"/><param name="Z"/></accessor></technique_common></source>`,
			want: ErrMalformedData,
		},
		{
			name: "offset past array",
			doc: `<source id="s"><float_array count="3">1 2 3</float_array>
<technique_common><accessor count="0" offset="4"><param name="X"/></accessor></technique_common></source>`,
			want: ErrMalformedData,
		},
		{
			name: "accessor past array",
			doc: `<source id="s"><float_array count="3">1 2 3</float_array>
<technique_common><accessor count="2" stride="2"><param name="X"/><param name="Y"/></accessor></technique_common></source>`,
			want: ErrMalformedData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource(mustElement(t, tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseSourceIntAndBoolArrays(t *testing.T) {
	s, err := ParseSource(mustElement(t, `<source id="i"><int_array count="2">7 -3</int_array>
<technique_common><accessor count="2"><param name="N" type="int"/></accessor></technique_common></source>`))
	require.NoError(t, err)
	assert.Equal(t, DataInteger, s.Accessor().Params[0].Type)
	tup, err := s.Tuple(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{-3}, tup)

	s, err = ParseSource(mustElement(t, `<source id="b"><bool_array count="2">true false</bool_array>
<technique_common><accessor count="2"><param name="B" type="bool"/></accessor></technique_common></source>`))
	require.NoError(t, err)
	tup, err = s.Tuple(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, tup)
}

func TestIndexTable(t *testing.T) {
	tab, err := NewIndexTable(2)
	require.NoError(t, err)
	for _, v := range []int32{0, 0, 1, 0, 2, 1} {
		tab.Append(v)
	}
	assert.Equal(t, 2, tab.Channels())
	assert.Equal(t, 3, tab.TupleCount())
	require.NoError(t, tab.Validate())

	v, err := tab.Get(2, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	_, err = tab.Get(3, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = tab.Get(0, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	tab.Append(5)
	assert.ErrorIs(t, tab.Validate(), ErrMalformedData)

	_, err = NewIndexTable(0)
	assert.ErrorIs(t, err, ErrMalformedData)
}
