package collada

import "sort"

// Registry resolves "#id" reference strings to sources within one mesh.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Key returns the reference string for an element id.
func Key(id string) string { return "#" + id }

// InsertSource registers s under key.
func (r *Registry) InsertSource(key string, s *Source) error {
	return r.insert(key, Direct(s))
}

// InsertAlias registers an alias binding under key.
func (r *Registry) InsertAlias(key string, b *Binding) error {
	return r.insert(key, Aliased(b))
}

func (r *Registry) insert(key string, e Entry) error {
	if _, dup := r.entries[key]; dup {
		return newErr(ErrMalformedData, "mesh", key, "duplicate id")
	}
	r.entries[key] = e
	return nil
}

// Resolve looks key up.
func (r *Registry) Resolve(key string) (Entry, error) {
	e, ok := r.entries[key]
	if !ok {
		return Entry{}, newErr(ErrUnresolvedReference, "input", key, "no such source")
	}
	return e, nil
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
