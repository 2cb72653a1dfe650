package urf

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// AdHocNamespace is the default base namespace used when a handle does
// not carry a namespace alias.
const AdHocNamespace = "https://urf.name/"

// Tag is an absolute URI identifying a resource. The zero Tag is not a
// valid tag; construct tags with NewTag or the TagFor* helpers.
type Tag struct {
	uri string
}

// NewTag validates uri as an absolute tag.
//
// A fragment is only allowed when the path portion is non-empty and not
// a collection path (an ID tag), or when the tag has the blank-tag
// shape (ad-hoc namespace root plus fragment).
func NewTag(uri string) (Tag, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %q: %v", ErrInvalidTag, uri, err)
	}
	if !u.IsAbs() {
		return Tag{}, fmt.Errorf("%w: %q is not absolute", ErrInvalidTag, uri)
	}
	if u.Fragment != "" {
		p := u.EscapedPath()
		idTagPath := p != "" && p != "/" && !strings.HasSuffix(p, "/")
		if !idTagPath && !isBlankTagURI(uri) {
			return Tag{}, fmt.Errorf("%w: %q: fragment requires a non-collection path", ErrInvalidTag, uri)
		}
	}
	return Tag{uri: uri}, nil
}

// MustTag is a convenience for static tags; it panics on invalid input.
func MustTag(uri string) Tag {
	t, err := NewTag(uri)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the tag URI.
func (t Tag) String() string { return t.uri }

// IsZero reports whether the tag is the zero value.
func (t Tag) IsZero() bool { return t.uri == "" }

// Equal reports tag identity by URI.
func (t Tag) Equal(o Tag) bool { return t.uri == o.uri }

func splitTagFragment(uri string) (base, fragment string) {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[:i], uri[i+1:]
	}
	return uri, ""
}

func (t Tag) escapedPath() string {
	base, _ := splitTagFragment(t.uri)
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.EscapedPath()
}

// Namespace returns the parent collection of the tag's path. Tags with
// no path, or whose path is the root, have none.
func (t Tag) Namespace() (Tag, bool) {
	base, _ := splitTagFragment(t.uri)
	p := t.escapedPath()
	if p == "" || p == "/" {
		return Tag{}, false
	}
	trimmed := strings.TrimSuffix(p, "/")
	i := strings.LastIndexByte(trimmed, '/')
	if i < 0 {
		return Tag{}, false
	}
	prefix := strings.TrimSuffix(base, p)
	return Tag{uri: prefix + trimmed[:i+1]}, true
}

// Name returns the decoded last path segment, joined with the decoded
// fragment (if any) by the ID delimiter. Collection tags and tags whose
// reconstructed name fails the name grammar have none.
func (t Tag) Name() (string, bool) {
	segment, id, ok := t.nameParts()
	if !ok {
		return "", false
	}
	if id != "" {
		return segment + string(handleIDDelimiter) + id, true
	}
	return segment, true
}

func (t Tag) nameParts() (segment, id string, ok bool) {
	_, fragment := splitTagFragment(t.uri)
	p := t.escapedPath()
	if p == "" || p == "/" || strings.HasSuffix(p, "/") {
		return "", "", false
	}
	raw := p[strings.LastIndexByte(p, '/')+1:]
	segment, err := url.PathUnescape(raw)
	if err != nil || !IsName(segment) {
		return "", "", false
	}
	if fragment != "" {
		id, err = url.PathUnescape(fragment)
		if err != nil || !IsID(id) {
			return "", "", false
		}
	}
	return segment, id, true
}

// IsIDTag reports whether the tag has a non-empty non-collection path
// and a non-empty fragment.
func (t Tag) IsIDTag() bool {
	_, fragment := splitTagFragment(t.uri)
	p := t.escapedPath()
	return fragment != "" && p != "" && p != "/" && !strings.HasSuffix(p, "/")
}

// TypeTag strips the fragment from an ID tag.
func (t Tag) TypeTag() (Tag, bool) {
	if !t.IsIDTag() {
		return Tag{}, false
	}
	base, _ := splitTagFragment(t.uri)
	return Tag{uri: base}, true
}

// ID returns the decoded fragment of an ID tag.
func (t Tag) ID() (string, bool) {
	if !t.IsIDTag() {
		return "", false
	}
	_, fragment := splitTagFragment(t.uri)
	id, err := url.PathUnescape(fragment)
	if err != nil {
		return "", false
	}
	return id, true
}

func isBlankTagURI(uri string) bool {
	base, fragment := splitTagFragment(uri)
	if fragment == "" {
		return false
	}
	return base == AdHocNamespace || base+"/" == AdHocNamespace
}

// IsBlank reports whether the tag identifies an anonymous resource: the
// ad-hoc namespace root with a non-empty fragment.
func (t Tag) IsBlank() bool { return isBlankTagURI(t.uri) }

// BlankID returns the decoded ID of a blank tag.
func (t Tag) BlankID() (string, bool) {
	if !t.IsBlank() {
		return "", false
	}
	_, fragment := splitTagFragment(t.uri)
	id, err := url.PathUnescape(fragment)
	if err != nil {
		return "", false
	}
	return id, true
}

// TagForType constructs a type tag in the given collection namespace.
func TagForType(namespace Tag, name string) (Tag, error) {
	if namespace.IsZero() || !strings.HasSuffix(namespace.uri, "/") {
		return Tag{}, fmt.Errorf("%w: namespace %q is not a collection", ErrInvalidTag, namespace.uri)
	}
	if !IsName(name) {
		return Tag{}, fmt.Errorf("%w: %q is not a name", ErrInvalidTag, name)
	}
	return Tag{uri: namespace.uri + url.PathEscape(name)}, nil
}

// TagForInstance constructs the ID tag of an instance of a type.
func TagForInstance(typeTag Tag, id string) (Tag, error) {
	p := typeTag.escapedPath()
	if typeTag.IsZero() || p == "" || p == "/" || strings.HasSuffix(p, "/") {
		return Tag{}, fmt.Errorf("%w: %q cannot be a type tag", ErrInvalidTag, typeTag.uri)
	}
	if _, fragment := splitTagFragment(typeTag.uri); fragment != "" {
		return Tag{}, fmt.Errorf("%w: type tag %q already has an ID", ErrInvalidTag, typeTag.uri)
	}
	if !IsID(id) {
		return Tag{}, fmt.Errorf("%w: %q is not a valid ID", ErrInvalidTag, id)
	}
	return Tag{uri: typeTag.uri + "#" + url.PathEscape(id)}, nil
}

// GenerateBlankTag returns a blank tag carrying the supplied ID, or a
// freshly generated unique ID when id is empty.
func GenerateBlankTag(id string) Tag {
	if id == "" {
		id = uuid.NewString()
	}
	return Tag{uri: AdHocNamespace + "#" + url.PathEscape(id)}
}
