package urf

import (
	"errors"
	"testing"
)

func TestNewTag(t *testing.T) {
	valid := []string{
		"https://urf.name/",
		"https://urf.name/foo/bar",
		"https://urf.name/Example#123",
		"https://urf.name/#blank-id",
		"urn:example:thing",
	}
	for _, uri := range valid {
		if _, err := NewTag(uri); err != nil {
			t.Errorf("NewTag(%q): unexpected error %v", uri, err)
		}
	}

	invalid := []string{
		"",
		"foo/bar",
		"/absolute/path/only",
		"https://example.org/#frag",
		"https://example.org/collection/#frag",
	}
	for _, uri := range invalid {
		if _, err := NewTag(uri); !errors.Is(err, ErrInvalidTag) {
			t.Errorf("NewTag(%q): expected ErrInvalidTag, got %v", uri, err)
		}
	}
}

func TestTagNamespace(t *testing.T) {
	tests := []struct {
		uri       string
		namespace string
	}{
		{"https://urf.name/foo/bar", "https://urf.name/foo/"},
		{"https://urf.name/foo", "https://urf.name/"},
		{"https://urf.name/Example#123", "https://urf.name/"},
		{"https://example.org/a/b/c", "https://example.org/a/b/"},
		{"https://example.org/", ""},
		{"urn:example:thing", ""},
	}
	for _, tt := range tests {
		tag := MustTag(tt.uri)
		ns, ok := tag.Namespace()
		if tt.namespace == "" {
			if ok {
				t.Errorf("Namespace(%q): expected none, got %q", tt.uri, ns)
			}
			continue
		}
		if !ok || ns.String() != tt.namespace {
			t.Errorf("Namespace(%q) = %q, %v; want %q", tt.uri, ns, ok, tt.namespace)
		}
	}
}

func TestTagName(t *testing.T) {
	tests := []struct {
		uri  string
		name string
	}{
		{"https://urf.name/foo/bar", "bar"},
		{"https://urf.name/Example#123", "Example#123"},
		{"https://urf.name/with%20space", ""},
		{"https://urf.name/", ""},
	}
	for _, tt := range tests {
		tag := MustTag(tt.uri)
		name, ok := tag.Name()
		if tt.name == "" {
			if ok {
				t.Errorf("Name(%q): expected none, got %q", tt.uri, name)
			}
			continue
		}
		if !ok || name != tt.name {
			t.Errorf("Name(%q) = %q, %v; want %q", tt.uri, name, ok, tt.name)
		}
	}
}

func TestIDTag(t *testing.T) {
	tag := MustTag("https://urf.name/Example#123")
	if !tag.IsIDTag() {
		t.Fatal("expected an ID tag")
	}
	typeTag, ok := tag.TypeTag()
	if !ok || typeTag.String() != "https://urf.name/Example" {
		t.Fatalf("TypeTag = %q, %v", typeTag, ok)
	}
	id, ok := tag.ID()
	if !ok || id != "123" {
		t.Fatalf("ID = %q, %v", id, ok)
	}

	plain := MustTag("https://urf.name/Example")
	if plain.IsIDTag() {
		t.Fatal("plain tag reported as ID tag")
	}
	if _, ok := plain.TypeTag(); ok {
		t.Fatal("plain tag reported a type tag")
	}
}

func TestTagForType(t *testing.T) {
	ns := MustTag("https://example.org/vocab/")
	tag, err := TagForType(ns, "Person")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.String() != "https://example.org/vocab/Person" {
		t.Fatalf("got %q", tag)
	}

	if _, err := TagForType(MustTag("https://example.org/vocab"), "Person"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("non-collection namespace: expected ErrInvalidTag, got %v", err)
	}
	if _, err := TagForType(ns, "not a name"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("bad name: expected ErrInvalidTag, got %v", err)
	}
}

func TestTagForInstance(t *testing.T) {
	typeTag := MustTag("https://urf.name/User")
	tag, err := TagForInstance(typeTag, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.String() != "https://urf.name/User#alice" {
		t.Fatalf("got %q", tag)
	}
	if !tag.IsIDTag() {
		t.Fatal("instance tag should be an ID tag")
	}

	if _, err := TagForInstance(tag, "bob"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("type tag with ID: expected ErrInvalidTag, got %v", err)
	}
	if _, err := TagForInstance(MustTag("https://urf.name/"), "x"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("collection type: expected ErrInvalidTag, got %v", err)
	}
	if _, err := TagForInstance(typeTag, "no spaces"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("bad ID: expected ErrInvalidTag, got %v", err)
	}
}

func TestGenerateBlankTag(t *testing.T) {
	tag := GenerateBlankTag("session-1")
	if !tag.IsBlank() {
		t.Fatalf("%q is not blank", tag)
	}
	id, ok := tag.BlankID()
	if !ok || id != "session-1" {
		t.Fatalf("BlankID = %q, %v", id, ok)
	}

	a := GenerateBlankTag("")
	b := GenerateBlankTag("")
	if !a.IsBlank() || !b.IsBlank() {
		t.Fatal("generated tags must be blank")
	}
	if a.Equal(b) {
		t.Fatal("generated blank tags must be unique")
	}
}
