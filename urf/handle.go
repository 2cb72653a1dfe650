package urf

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	handleSegmentDelimiter = '-'
	handleIDDelimiter      = '#'
	handleAliasDelimiter   = '/'
	pluralMarker           = '+'
)

// Handle is the decomposed form of a compact tag alias: an optional
// namespace alias, one or more name segments, and an optional ID.
//
// A handle carrying a namespace alias must have exactly one segment and
// no ID; multi-segment and ID-bearing handles are only meaningful
// relative to the ad-hoc namespace.
type Handle struct {
	Alias    string
	Segments []string
	ID       string
}

// ParseHandle validates s against the handle grammar.
func ParseHandle(s string) (Handle, error) {
	var h Handle
	rest := s
	if i := strings.IndexByte(rest, byte(handleAliasDelimiter)); i >= 0 {
		h.Alias = rest[:i]
		rest = rest[i+1:]
		if !IsName(h.Alias) {
			return Handle{}, fmt.Errorf("%w: %q: bad namespace alias", ErrInvalidHandle, s)
		}
	}
	if i := strings.IndexByte(rest, byte(handleIDDelimiter)); i >= 0 {
		h.ID = rest[i+1:]
		rest = rest[:i]
		if !IsID(h.ID) {
			return Handle{}, fmt.Errorf("%w: %q: bad ID", ErrInvalidHandle, s)
		}
	}
	h.Segments = strings.Split(rest, string(handleSegmentDelimiter))
	for _, segment := range h.Segments {
		if !IsName(segment) {
			return Handle{}, fmt.Errorf("%w: %q: bad name segment %q", ErrInvalidHandle, s, segment)
		}
	}
	if h.Alias != "" && (len(h.Segments) > 1 || h.ID != "") {
		return Handle{}, fmt.Errorf("%w: %q: namespace alias with multiple segments or ID", ErrInvalidHandle, s)
	}
	return h, nil
}

// String reassembles the handle text.
func (h Handle) String() string {
	var b strings.Builder
	if h.Alias != "" {
		b.WriteString(h.Alias)
		b.WriteByte(byte(handleAliasDelimiter))
	}
	b.WriteString(strings.Join(h.Segments, string(handleSegmentDelimiter)))
	if h.ID != "" {
		b.WriteByte(byte(handleIDDelimiter))
		b.WriteString(h.ID)
	}
	return b.String()
}

// Namespaces maps registered aliases to namespace tags and back.
type Namespaces struct {
	byAlias map[string]Tag
	byURI   map[string]string
}

// NewNamespaces returns an empty registry.
func NewNamespaces() *Namespaces {
	return &Namespaces{byAlias: map[string]Tag{}, byURI: map[string]string{}}
}

// Register binds alias to a collection namespace.
func (n *Namespaces) Register(alias string, namespace Tag) error {
	if !IsName(alias) {
		return fmt.Errorf("%w: alias %q is not a name", ErrInvalidHandle, alias)
	}
	if namespace.IsZero() || !strings.HasSuffix(namespace.String(), "/") {
		return fmt.Errorf("%w: %q is not a collection namespace", ErrInvalidTag, namespace.String())
	}
	n.byAlias[alias] = namespace
	n.byURI[namespace.String()] = alias
	return nil
}

// Namespace resolves a registered alias.
func (n *Namespaces) Namespace(alias string) (Tag, bool) {
	if n == nil {
		return Tag{}, false
	}
	t, ok := n.byAlias[alias]
	return t, ok
}

// Alias returns the alias registered for a namespace.
func (n *Namespaces) Alias(namespace Tag) (string, bool) {
	if n == nil {
		return "", false
	}
	alias, ok := n.byURI[namespace.String()]
	return alias, ok
}

// TagFromHandle resolves a handle to its tag. It reports an error for
// malformed handles and for unregistered namespace aliases.
func TagFromHandle(handle string, namespaces *Namespaces) (Tag, error) {
	h, err := ParseHandle(handle)
	if err != nil {
		return Tag{}, err
	}
	if h.Alias != "" {
		base, ok := namespaces.Namespace(h.Alias)
		if !ok {
			return Tag{}, fmt.Errorf("%w: %q: unregistered namespace alias %q", ErrInvalidHandle, handle, h.Alias)
		}
		return Tag{uri: base.uri + url.PathEscape(h.Segments[0])}, nil
	}
	var b strings.Builder
	b.WriteString(AdHocNamespace)
	for i, segment := range h.Segments {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(url.PathEscape(segment))
	}
	if h.ID != "" {
		b.WriteByte('#')
		b.WriteString(url.PathEscape(h.ID))
	}
	return Tag{uri: b.String()}, nil
}

// HandleFromTag returns the compact alias for a tag, or false when the
// tag cannot be shortened: it has no name or namespace, a path segment
// fails the name grammar, or its namespace is neither the ad-hoc
// namespace nor registered.
func HandleFromTag(tag Tag, namespaces *Namespaces) (string, bool) {
	segment, id, ok := tag.nameParts()
	if !ok {
		return "", false
	}
	namespace, ok := tag.Namespace()
	if !ok {
		return "", false
	}
	if strings.HasPrefix(namespace.uri, AdHocNamespace) {
		base, _ := splitTagFragment(tag.uri)
		rel := strings.TrimPrefix(base, AdHocNamespace)
		raw := strings.Split(rel, "/")
		segments := make([]string, 0, len(raw))
		for _, enc := range raw {
			decoded, err := url.PathUnescape(enc)
			if err != nil || !IsName(decoded) {
				return "", false
			}
			segments = append(segments, decoded)
		}
		return Handle{Segments: segments, ID: id}.String(), true
	}
	alias, ok := namespaces.Alias(namespace)
	if !ok {
		return "", false
	}
	if id != "" {
		// An aliased handle cannot carry an ID.
		return "", false
	}
	return Handle{Alias: alias, Segments: []string{segment}}.String(), true
}
