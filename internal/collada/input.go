package collada

// Semantic names what an input channel carries.
type Semantic int

const (
	SemanticUnknown Semantic = iota
	SemBinormal
	SemColor
	SemContinuity
	SemImage
	SemInput
	SemInTangent
	SemInterpolation
	SemInvBindMatrix
	SemJoint
	SemLinearSteps
	SemMorphTarget
	SemNormal
	SemOutput
	SemOutTangent
	SemPosition
	SemTangent
	SemTexBinormal
	SemTexCoord
	SemTexTangent
	SemUV
	SemVertex
	SemWeight
)

var semanticNames = [...]string{
	SemanticUnknown:  "UNKNOWN",
	SemBinormal:      "BINORMAL",
	SemColor:         "COLOR",
	SemContinuity:    "CONTINUITY",
	SemImage:         "IMAGE",
	SemInput:         "INPUT",
	SemInTangent:     "IN_TANGENT",
	SemInterpolation: "INTERPOLATION",
	SemInvBindMatrix: "INV_BIND_MATRIX",
	SemJoint:         "JOINT",
	SemLinearSteps:   "LINEAR_STEPS",
	SemMorphTarget:   "MORPH_TARGET",
	SemNormal:        "NORMAL",
	SemOutput:        "OUTPUT",
	SemOutTangent:    "OUT_TANGENT",
	SemPosition:      "POSITION",
	SemTangent:       "TANGENT",
	SemTexBinormal:   "TEXBINORMAL",
	SemTexCoord:      "TEXCOORD",
	SemTexTangent:    "TEXTANGENT",
	SemUV:            "UV",
	SemVertex:        "VERTEX",
	SemWeight:        "WEIGHT",
}

var semanticByName = func() map[string]Semantic {
	m := make(map[string]Semantic, len(semanticNames)-1)
	for s, name := range semanticNames {
		if Semantic(s) != SemanticUnknown {
			m[name] = Semantic(s)
		}
	}
	return m
}()

func (s Semantic) String() string {
	if s < 0 || int(s) >= len(semanticNames) {
		return semanticNames[SemanticUnknown]
	}
	return semanticNames[s]
}

// ParseSemantic maps the exact, case-sensitive semantic name.
func ParseSemantic(name string) (Semantic, error) {
	if s, ok := semanticByName[name]; ok {
		return s, nil
	}
	return SemanticUnknown, newErr(ErrUnknownSemantic, "input", "", "%q", name)
}

// Entry is a registry value: either a numeric source or an alias
// binding (the <vertices> pseudo-source). Exactly one field is set.
type Entry struct {
	source *Source
	alias  *Binding
}

// Direct wraps a numeric source.
func Direct(s *Source) Entry { return Entry{source: s} }

// Aliased wraps a binding that forwards lookups.
func Aliased(b *Binding) Entry { return Entry{alias: b} }

// Source returns the underlying numeric source, following aliases.
func (e Entry) Source() *Source {
	for e.alias != nil {
		e = e.alias.entry
	}
	return e.source
}

// Alias returns the wrapped binding, or nil for a direct entry.
func (e Entry) Alias() *Binding { return e.alias }

// Count returns the number of tuples reachable through the entry.
func (e Entry) Count() int {
	if e.alias != nil {
		return e.alias.Count()
	}
	if e.source == nil {
		return 0
	}
	return e.source.Count()
}

// Tuple resolves tuple i through the entry.
func (e Entry) Tuple(i int) ([]float32, error) {
	if e.alias != nil {
		return e.alias.Resolve(i)
	}
	if e.source == nil {
		return nil, rangeErr("empty registry entry")
	}
	return e.source.Tuple(i)
}

// Binding binds a semantic and channel offset to a registry entry.
// Bindings of one primitive share the primitive's IndexTable; an alias
// binding has none and uses the vertex ordinal directly.
type Binding struct {
	semantic Semantic
	offset   int
	set      int
	hasSet   bool
	ref      string
	entry    Entry
	indices  *IndexTable
}

// NewBinding returns a binding over entry without an index table.
func NewBinding(sem Semantic, offset int, entry Entry) *Binding {
	return &Binding{semantic: sem, offset: offset, entry: entry}
}

// ParseBinding reads an <input> element, resolving its source in reg.
func ParseBinding(el *Element, reg *Registry) (*Binding, error) {
	semName, ok := el.Attr("semantic")
	if !ok {
		return nil, newErr(ErrMalformedData, "input", "", "no semantic")
	}
	sem, err := ParseSemantic(semName)
	if err != nil {
		return nil, err
	}
	offset, err := el.IntAttr("offset", 0)
	if err != nil {
		return nil, err
	}
	ref, ok := el.Attr("source")
	if !ok {
		return nil, newErr(ErrMalformedData, "input", semName, "no source")
	}
	entry, err := reg.Resolve(ref)
	if err != nil {
		return nil, err
	}
	b := &Binding{semantic: sem, offset: offset, ref: ref, entry: entry}
	if _, ok := el.Attr("set"); ok {
		if b.set, err = el.IntAttr("set", 0); err != nil {
			return nil, err
		}
		b.hasSet = true
	}
	return b, nil
}

// Semantic returns the bound semantic.
func (b *Binding) Semantic() Semantic { return b.semantic }

// Offset returns the channel offset within the shared index tuple.
func (b *Binding) Offset() int { return b.offset }

// Set returns the input set number, if declared.
func (b *Binding) Set() (int, bool) { return b.set, b.hasSet }

// Ref returns the reference string the binding was resolved from.
func (b *Binding) Ref() string { return b.ref }

// Entry returns the registry entry the binding reads from.
func (b *Binding) Entry() Entry { return b.entry }

// Indices returns the shared index table, or nil.
func (b *Binding) Indices() *IndexTable { return b.indices }

// Count returns the number of tuples addressable through the entry.
func (b *Binding) Count() int { return b.entry.Count() }

// SourceIndex maps a vertex ordinal to the entry's tuple index.
func (b *Binding) SourceIndex(vertex int) (int, error) {
	if b.indices == nil {
		return vertex, nil
	}
	i, err := b.indices.Get(vertex, b.offset)
	return int(i), err
}

// Resolve returns the attribute tuple for a vertex ordinal.
func (b *Binding) Resolve(vertex int) ([]float32, error) {
	i, err := b.SourceIndex(vertex)
	if err != nil {
		return nil, err
	}
	return b.entry.Tuple(i)
}
