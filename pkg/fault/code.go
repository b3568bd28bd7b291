package fault

import (
	"slices"
	"strings"
)

// Separator joins the segments of a Code when it is rendered as a path.
const Separator = "/"

// sep joins segments inside a Code. Segment names may contain Separator,
// so the identity key uses a byte no catalog name carries.
const sep = "\x00"

// Code is a hierarchical identifier naming one kind of failure, for example
// Assertion/Collection/HaveCount. A catalog family defines a root once and
// composes one child per check.
//
// Code is an immutable value: Compose returns a new Code and never touches
// the receiver. Two codes are equal under == iff their segment sequences are
// equal, so codes can be compared directly and used as map keys. Segment
// names are not validated. A name containing Separator stays one segment,
// but it renders like two and does not survive a text round trip.
type Code struct {
	path  string
	depth int
}

// Root returns a one-segment code for a catalog family.
func Root(family string) Code {
	return Code{path: family, depth: 1}
}

// Compose returns a child of parent named name. It is equivalent to
// parent.Compose(name).
func Compose(parent Code, name string) Code {
	return parent.Compose(name)
}

// Compose returns a new code with name appended as the last segment.
func (c Code) Compose(name string) Code {
	if c.depth == 0 {
		return Root(name)
	}
	return Code{path: c.path + sep + name, depth: c.depth + 1}
}

// IsZero reports whether c has no segments.
func (c Code) IsZero() bool {
	return c.depth == 0
}

// Depth returns the number of segments in c.
func (c Code) Depth() int {
	return c.depth
}

// Segments returns a copy of the segment sequence.
func (c Code) Segments() []string {
	if c.depth == 0 {
		return nil
	}
	return strings.Split(c.path, sep)
}

// Name returns the last segment, or "" for the zero code.
func (c Code) Name() string {
	if c.depth == 0 {
		return ""
	}
	if i := strings.LastIndex(c.path, sep); i >= 0 {
		return c.path[i+len(sep):]
	}
	return c.path
}

// Parent returns c without its last segment. The parent of a root is the
// zero code.
func (c Code) Parent() Code {
	if c.depth <= 1 {
		return Code{}
	}
	i := strings.LastIndex(c.path, sep)
	return Code{path: c.path[:i], depth: c.depth - 1}
}

// HasPrefix reports whether ancestor is c itself or one of its ancestors.
func (c Code) HasPrefix(ancestor Code) bool {
	if ancestor.depth == 0 {
		return true
	}
	if ancestor.depth > c.depth {
		return false
	}
	if ancestor.depth == c.depth {
		return ancestor == c
	}
	return strings.HasPrefix(c.path, ancestor.path+sep)
}

// Equal reports whether c and other have the same segments.
func (c Code) Equal(other Code) bool {
	return c == other
}

// String renders c as a Separator-joined path.
func (c Code) String() string {
	return strings.ReplaceAll(c.path, sep, Separator)
}

// MarshalText encodes c as its rendered path.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a path produced by MarshalText. An empty path
// decodes to the zero code.
func (c *Code) UnmarshalText(text []byte) error {
	*c = Parse(string(text))
	return nil
}

// Parse splits a Separator-joined path into a Code.
func Parse(path string) Code {
	if path == "" {
		return Code{}
	}
	segments := strings.Split(path, Separator)
	return Code{path: strings.Join(segments, sep), depth: len(segments)}
}

// Compare orders codes segment by segment. A code sorts before its own
// descendants.
func Compare(a, b Code) int {
	return slices.Compare(a.Segments(), b.Segments())
}
