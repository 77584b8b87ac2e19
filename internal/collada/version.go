package collada

import (
	"github.com/Masterminds/semver/v3"
)

// supportedVersions covers the 1.4.x and 1.5.x schema revisions.
var supportedVersions = func() *semver.Constraints {
	c, err := semver.NewConstraint(">= 1.4.0, < 1.6.0")
	if err != nil {
		panic(err)
	}
	return c
}()

// ParseVersion parses a COLLADA@version attribute such as "1.4.1".
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, newErr(ErrMalformedData, "COLLADA", "", "version %q: %v", s, err)
	}
	return v, nil
}

// SupportedVersion reports whether documents of version s are expected to
// import cleanly. Parsing does not depend on it.
func SupportedVersion(s string) bool {
	v, err := ParseVersion(s)
	if err != nil {
		return false
	}
	return supportedVersions.Check(v)
}
