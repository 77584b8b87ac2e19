package collada

import (
	"errors"
	"fmt"
)

// Failure kinds. Every *ParseError unwraps to exactly one of these.
var (
	ErrMalformedData          = errors.New("malformed data")
	ErrUnresolvedReference    = errors.New("unresolved reference")
	ErrUnknownSemantic        = errors.New("unknown semantic")
	ErrMissingRequiredElement = errors.New("missing required element")
	ErrIndexOutOfRange        = errors.New("index out of range")
)

// ErrAttributeNotPresent reports that a primitive has no binding for the
// requested semantic. It is a soft condition: normals and texture
// coordinates are optional.
var ErrAttributeNotPresent = errors.New("collada: attribute not present")

// ParseError describes why a component could not be constructed.
type ParseError struct {
	Kind    error  // one of the Err* kinds above
	Element string // element name, e.g. "source"
	ID      string // id or name of the element, if any
	Detail  string
}

func (e *ParseError) Error() string {
	msg := "collada: " + e.Kind.Error()
	if e.Element != "" {
		msg += ": <" + e.Element + ">"
		if e.ID != "" {
			msg += " " + fmt.Sprintf("%q", e.ID)
		}
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Kind }

func newErr(kind error, elem, id, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Element: elem,
		ID:      id,
		Detail:  fmt.Sprintf(format, args...),
	}
}

func rangeErr(format string, args ...any) error {
	return newErr(ErrIndexOutOfRange, "", "", format, args...)
}
