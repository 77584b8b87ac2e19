package collada

// IndexTable holds the composite index stream of one primitive: one tuple
// of Channels() indices per vertex ordinal.
type IndexTable struct {
	raw      []int32
	channels int
}

// NewIndexTable returns an empty table with the given channel count,
// which must be at least 1.
func NewIndexTable(channels int) (*IndexTable, error) {
	if channels < 1 {
		return nil, newErr(ErrMalformedData, "p", "", "channel count %d < 1", channels)
	}
	return &IndexTable{channels: channels}, nil
}

// Channels returns the number of indices per vertex ordinal.
func (t *IndexTable) Channels() int { return t.channels }

// Grow reserves room for n more indices.
func (t *IndexTable) Grow(n int) {
	if free := cap(t.raw) - len(t.raw); n > free {
		raw := make([]int32, len(t.raw), len(t.raw)+n)
		copy(raw, t.raw)
		t.raw = raw
	}
}

// Append adds one index in document order.
func (t *IndexTable) Append(v int32) { t.raw = append(t.raw, v) }

// Len returns the number of raw indices.
func (t *IndexTable) Len() int { return len(t.raw) }

// TupleCount returns the number of vertex ordinals.
func (t *IndexTable) TupleCount() int { return len(t.raw) / t.channels }

// Get returns the index of the given channel for a vertex ordinal.
func (t *IndexTable) Get(vertex, channel int) (int32, error) {
	if channel < 0 || channel >= t.channels {
		return 0, rangeErr("index channel %d of %d", channel, t.channels)
	}
	i := vertex*t.channels + channel
	if vertex < 0 || i >= len(t.raw) {
		return 0, rangeErr("index vertex %d of %d", vertex, t.TupleCount())
	}
	return t.raw[i], nil
}

// Validate checks that the raw stream holds whole tuples.
func (t *IndexTable) Validate() error {
	if len(t.raw)%t.channels != 0 {
		return newErr(ErrMalformedData, "p", "",
			"%d indices do not divide into %d channels", len(t.raw), t.channels)
	}
	return nil
}
