package urf

import (
	"io"
	"strings"
)

// Option configures parser behavior.
type Option func(*Options)

// Options configures parser behavior.
type Options struct {
	// Namespaces supplies alias bindings for handle resolution. When
	// nil, only ad-hoc handles resolve.
	Namespaces *Namespaces
}

func defaultOptions() Options {
	return Options{}
}

// OptNamespaces binds an alias registry for handle resolution.
func OptNamespaces(ns *Namespaces) Option {
	return func(o *Options) {
		o.Namespaces = ns
	}
}

// Parse reads one document from r and returns its top-level values in
// document order together with every resource the document describes,
// in first-seen order.
func Parse(r io.Reader, opts ...Option) ([]Value, []*Resource, error) {
	proc := NewGraphProcessor()
	roots, err := NewParser(proc, opts...).Parse(r)
	if err != nil {
		return nil, nil, err
	}
	return roots, proc.Result(), nil
}

// ParseString is Parse over in-memory text.
func ParseString(input string, opts ...Option) ([]Value, []*Resource, error) {
	return Parse(strings.NewReader(input), opts...)
}
