package urf

import "strings"

// Config exposes a resource as a generic configuration scope: a
// dot-separated key path names a chain of properties, each segment
// looked up by handle, with nested resources acting as nested scopes.
type Config struct {
	root *Resource
	ns   *Namespaces
}

// NewConfig wraps a resource for key-path lookup. Namespaces may be
// nil when every key is an ad-hoc handle.
func NewConfig(root *Resource, ns *Namespaces) *Config {
	return &Config{root: root, ns: ns}
}

// Get resolves a dot-separated key path to a value. A path whose
// intermediate segment resolves to anything but a resource does not
// resolve.
func (c *Config) Get(path string) (Value, bool) {
	if c == nil || c.root == nil || path == "" {
		return nil, false
	}
	current := c.root
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		tag, err := TagFromHandle(segment, c.ns)
		if err != nil {
			return nil, false
		}
		value, ok := current.PropertyValue(tag)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := value.(*Resource)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Scope resolves a key path to a nested configuration scope.
func (c *Config) Scope(path string) (*Config, bool) {
	value, ok := c.Get(path)
	if !ok {
		return nil, false
	}
	resource, ok := value.(*Resource)
	if !ok {
		return nil, false
	}
	return &Config{root: resource, ns: c.ns}, true
}

// GetString resolves a key path to a string value.
func (c *Config) GetString(path string) (string, bool) {
	value, ok := c.Get(path)
	if !ok {
		return "", false
	}
	s, ok := value.(String)
	return string(s), ok
}

// GetInt resolves a key path to an integer value.
func (c *Config) GetInt(path string) (int64, bool) {
	value, ok := c.Get(path)
	if !ok {
		return 0, false
	}
	i, ok := value.(Integer)
	return int64(i), ok
}

// GetBool resolves a key path to a boolean value.
func (c *Config) GetBool(path string) (bool, bool) {
	value, ok := c.Get(path)
	if !ok {
		return false, false
	}
	b, ok := value.(Bool)
	return bool(b), ok
}
