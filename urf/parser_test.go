package urf

import (
	"errors"
	"strings"
	"testing"
)

func parseDoc(t *testing.T, input string, opts ...Option) ([]Value, *GraphProcessor) {
	t.Helper()
	proc := NewGraphProcessor()
	roots, err := NewParser(proc, opts...).ParseString(input)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", input, err)
	}
	return roots, proc
}

func singleResource(t *testing.T, input string, opts ...Option) *Resource {
	t.Helper()
	roots, _ := parseDoc(t, input, opts...)
	if len(roots) != 1 {
		t.Fatalf("ParseString(%q): %d roots", input, len(roots))
	}
	r, ok := roots[0].(*Resource)
	if !ok {
		t.Fatalf("ParseString(%q): root is %T", input, roots[0])
	}
	return r
}

func adHocTag(t *testing.T, handle string) Tag {
	t.Helper()
	tag, err := TagFromHandle(handle, nil)
	if err != nil {
		t.Fatalf("TagFromHandle(%q): %v", handle, err)
	}
	return tag
}

func TestParseBareObject(t *testing.T) {
	r := singleResource(t, "*")
	if _, ok := r.Tag(); ok {
		t.Fatal("bare object has a tag")
	}
	if _, ok := r.TypeTag(); ok {
		t.Fatal("bare object has a type")
	}
	if len(r.Properties()) != 0 {
		t.Fatal("bare object has properties")
	}
}

func TestParseTypedObject(t *testing.T) {
	r := singleResource(t, "*FooBar")
	typeTag, ok := r.TypeTag()
	if !ok || typeTag.String() != "https://urf.name/FooBar" {
		t.Fatalf("TypeTag = %q, %v", typeTag, ok)
	}
}

func TestParseTypedObjectIRI(t *testing.T) {
	r := singleResource(t, "*<https://example.org/vocab/Person>")
	typeTag, ok := r.TypeTag()
	if !ok || typeTag.String() != "https://example.org/vocab/Person" {
		t.Fatalf("TypeTag = %q, %v", typeTag, ok)
	}
}

func TestParsePropertyBlock(t *testing.T) {
	r := singleResource(t, `*:one="one";`)
	v, ok := r.PropertyValue(adHocTag(t, "one"))
	if !ok || v != String("one") {
		t.Fatalf("one = %v, %v", v, ok)
	}
}

func TestParseEmptyPropertyBlock(t *testing.T) {
	r := singleResource(t, "*Thing:;")
	if len(r.Properties()) != 0 {
		t.Fatal("empty block produced properties")
	}
}

func TestParsePluralProperty(t *testing.T) {
	r := singleResource(t, `*:tag+="a",tag+="b";`)
	values := r.PropertyValues(adHocTag(t, "tag"))
	if len(values) != 2 || values[0] != String("a") || values[1] != String("b") {
		t.Fatalf("values = %v", values)
	}
}

func TestParseDuplicateSingularProperty(t *testing.T) {
	proc := NewGraphProcessor()
	_, err := NewParser(proc).ParseString(`*:one="a",one="b";`)
	if !errors.Is(err, ErrDuplicateProperty) {
		t.Fatalf("expected ErrDuplicateProperty, got %v", err)
	}
	if Code(err) != ErrCodeDuplicateProperty {
		t.Fatalf("Code = %s", Code(err))
	}
}

func TestParseSeparators(t *testing.T) {
	input := "1, 2\n3,\n\n4,"
	roots, _ := parseDoc(t, input)
	want := []Value{Integer(1), Integer(2), Integer(3), Integer(4)}
	if len(roots) != len(want) {
		t.Fatalf("roots = %v", roots)
	}
	for i := range want {
		if roots[i] != want[i] {
			t.Fatalf("roots[%d] = %v; want %v", i, roots[i], want[i])
		}
	}

	proc := NewGraphProcessor()
	if _, err := NewParser(proc).ParseString("1 2"); err == nil {
		t.Fatal("expected error for missing separator")
	}
}

func TestParseComments(t *testing.T) {
	input := "! leading comment\n*Person: ! trailing\n\tname = \"Ada\" ! after value\n;"
	r := singleResource(t, input)
	v, ok := r.PropertyValue(adHocTag(t, "name"))
	if !ok || v != String("Ada") {
		t.Fatalf("name = %v, %v", v, ok)
	}
}

func TestParseCollections(t *testing.T) {
	roots, _ := parseDoc(t, `[1,2,[3]], (true,false), {"k":1,2:"v"}`)
	if len(roots) != 3 {
		t.Fatalf("%d roots", len(roots))
	}
	list, ok := roots[0].(List)
	if !ok || len(list) != 3 {
		t.Fatalf("list = %v", roots[0])
	}
	if inner, ok := list[2].(List); !ok || len(inner) != 1 || inner[0] != Integer(3) {
		t.Fatalf("nested list = %v", list[2])
	}
	set, ok := roots[1].(Set)
	if !ok || len(set) != 2 {
		t.Fatalf("set = %v", roots[1])
	}
	m, ok := roots[2].(Map)
	if !ok || len(m) != 2 {
		t.Fatalf("map = %v", roots[2])
	}
	if m[0].Key != String("k") || m[0].Value != Integer(1) {
		t.Fatalf("entry 0 = %+v", m[0])
	}
	if m[1].Key != Integer(2) || m[1].Value != String("v") {
		t.Fatalf("entry 1 = %+v", m[1])
	}
}

func TestParseMapResourceKey(t *testing.T) {
	roots, _ := parseDoc(t, `{* : "anonymous"}`)
	m := roots[0].(Map)
	if _, ok := m[0].Key.(*Resource); !ok {
		t.Fatalf("key = %T", m[0].Key)
	}
}

func TestParseAliasLabels(t *testing.T) {
	input := `|boss|*Person:name="Ada";, *Person:manager=|boss|;`
	roots, _ := parseDoc(t, input)
	if len(roots) != 2 {
		t.Fatalf("%d roots", len(roots))
	}
	boss := roots[0].(*Resource)
	report := roots[1].(*Resource)
	manager, ok := report.PropertyValue(adHocTag(t, "manager"))
	if !ok {
		t.Fatal("manager missing")
	}
	if manager.(*Resource) != boss {
		t.Fatal("manager is not the labeled resource")
	}
}

func TestParseForwardAliasReference(t *testing.T) {
	input := `*Person:manager=|boss|;, |boss|*Person:name="Ada";`
	roots, _ := parseDoc(t, input)
	report := roots[0].(*Resource)
	boss := roots[1].(*Resource)
	manager, _ := report.PropertyValue(adHocTag(t, "manager"))
	if manager.(*Resource) != boss {
		t.Fatal("forward reference did not resolve to the definition")
	}
	if typeTag, ok := boss.TypeTag(); !ok || typeTag.String() != "https://urf.name/Person" {
		t.Fatalf("boss type = %q, %v", typeTag, ok)
	}
}

func TestParseUnresolvedAliasLabels(t *testing.T) {
	proc := NewGraphProcessor()
	_, err := NewParser(proc).ParseString(`*:a=|ghost|,b=|phantom|;`)
	if !errors.Is(err, ErrUnresolvedLabel) {
		t.Fatalf("expected ErrUnresolvedLabel, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "|ghost|") || !strings.Contains(msg, "|phantom|") {
		t.Fatalf("error does not name both labels: %v", msg)
	}
}

func TestParseTagLabels(t *testing.T) {
	r := singleResource(t, `|Example#123|*`)
	tag, ok := r.Tag()
	if !ok || tag.String() != "https://urf.name/Example#123" {
		t.Fatalf("tag = %q, %v", tag, ok)
	}

	r = singleResource(t, `|<https://example.org/vocab/ada>|*Person`)
	tag, ok = r.Tag()
	if !ok || tag.String() != "https://example.org/vocab/ada" {
		t.Fatalf("tag = %q, %v", tag, ok)
	}
}

func TestParseBlankLabels(t *testing.T) {
	roots, proc := parseDoc(t, `|"bob"|*Person, |"bob"|`)
	first := roots[0].(*Resource)
	second := roots[1].(*Resource)
	if first != second {
		t.Fatal("blank label reference resolved to a different resource")
	}
	tag, _ := first.Tag()
	if !tag.IsBlank() {
		t.Fatalf("tag %q is not blank", tag)
	}
	if _, ok := proc.Lookup(GenerateBlankTag("bob")); !ok {
		t.Fatal("blank resource not registered by tag")
	}
}

func TestParseTagReferenceSharesResource(t *testing.T) {
	input := `|Example#1|*:next=|Example#2|;, |Example#2|*:prev=|Example#1|;`
	roots, _ := parseDoc(t, input)
	first := roots[0].(*Resource)
	second := roots[1].(*Resource)
	next, _ := first.PropertyValue(adHocTag(t, "next"))
	prev, _ := second.PropertyValue(adHocTag(t, "prev"))
	if next.(*Resource) != second || prev.(*Resource) != first {
		t.Fatal("tag references did not share resources")
	}
}

func TestParseNamespacedHandles(t *testing.T) {
	ns := NewNamespaces()
	if err := ns.Register("dc", MustTag("http://purl.org/dc/terms/")); err != nil {
		t.Fatal(err)
	}
	r := singleResource(t, `*:dc/title="Moby-Dick";`, OptNamespaces(ns))
	v, ok := r.PropertyValue(MustTag("http://purl.org/dc/terms/title"))
	if !ok || v != String("Moby-Dick") {
		t.Fatalf("title = %v, %v", v, ok)
	}
}

func TestParserSingleUse(t *testing.T) {
	p := NewParser(NewGraphProcessor())
	if _, err := p.ParseString("*"); err != nil {
		t.Fatalf("first parse: %v", err)
	}
	if _, err := p.ParseString("*"); !errors.Is(err, ErrParserReused) {
		t.Fatalf("expected ErrParserReused, got %v", err)
	}
	if Code(ErrParserReused) != ErrCodeState {
		t.Fatalf("Code = %s", Code(ErrParserReused))
	}
}

func TestParseErrorPosition(t *testing.T) {
	proc := NewGraphProcessor()
	_, err := NewParser(proc).ParseString("*Person:\n\tname = \"open\n;")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if parseErr.Line != 2 {
		t.Fatalf("Line = %d; want 2", parseErr.Line)
	}
	if !strings.Contains(err.Error(), "^") {
		t.Fatalf("error lacks caret excerpt: %v", err)
	}
}

func TestParseNoPartialResult(t *testing.T) {
	proc := NewGraphProcessor()
	roots, err := NewParser(proc).ParseString(`*:one="a";, *:bad=`)
	if err == nil {
		t.Fatal("expected error")
	}
	if roots != nil {
		t.Fatalf("partial roots returned: %v", roots)
	}
}
