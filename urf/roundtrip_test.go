package urf

import (
	"bytes"
	"testing"
)

// valuesEqual compares two value trees structurally. Resources compare
// by correspondence: once a resource on one side is matched with one on
// the other, every later occurrence must match the same partner, so
// shared resources stay shared across a round trip.
func valuesEqual(a, b Value, matched map[*Resource]*Resource) bool {
	ra, aIsResource := a.(*Resource)
	rb, bIsResource := b.(*Resource)
	if aIsResource != bIsResource {
		return false
	}
	if aIsResource {
		return resourcesEqual(ra, rb, matched)
	}
	switch va := a.(type) {
	case Decimal:
		vb, ok := b.(Decimal)
		return ok && va.Equal(vb)
	case Binary:
		vb, ok := b.(Binary)
		return ok && bytes.Equal(va, vb)
	case List:
		vb, ok := b.(List)
		return ok && sequencesEqual(va, vb, matched)
	case Set:
		vb, ok := b.(Set)
		return ok && sequencesEqual(va, vb, matched)
	case Map:
		vb, ok := b.(Map)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !valuesEqual(va[i].Key, vb[i].Key, matched) ||
				!valuesEqual(va[i].Value, vb[i].Value, matched) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func sequencesEqual(a, b []Value, matched map[*Resource]*Resource) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valuesEqual(a[i], b[i], matched) {
			return false
		}
	}
	return true
}

func resourcesEqual(a, b *Resource, matched map[*Resource]*Resource) bool {
	if partner, ok := matched[a]; ok {
		return partner == b
	}
	matched[a] = b

	tagA, okA := a.Tag()
	tagB, okB := b.Tag()
	if okA != okB || (okA && !tagA.Equal(tagB)) {
		return false
	}
	typeA, okA := a.TypeTag()
	typeB, okB := b.TypeTag()
	if okA != okB || (okA && !typeA.Equal(typeB)) {
		return false
	}
	propsA := a.Properties()
	propsB := b.Properties()
	if len(propsA) != len(propsB) {
		return false
	}
	for i := range propsA {
		if !propsA[i].Tag.Equal(propsB[i].Tag) || propsA[i].Plural != propsB[i].Plural {
			return false
		}
		if !sequencesEqual(propsA[i].Values, propsB[i].Values, matched) {
			return false
		}
	}
	return true
}

func roundTrip(t *testing.T, input string, opts SerializeOptions) {
	t.Helper()
	first, _ := parseDoc(t, input)
	text, err := SerializeString(first, opts)
	if err != nil {
		t.Fatalf("serialize(%q): %v", input, err)
	}
	second, _ := parseDoc(t, text)
	if !sequencesEqual(first, second, map[*Resource]*Resource{}) {
		t.Fatalf("round trip changed the graph:\n input: %q\n text:  %q", input, text)
	}
}

const roundTripDocument = `
! a document exercising every value kind
|Example#1|*Person:
	name = "Ada \"the first\" é"
	initial = 'A'
	happy = true
	age = 36
	height = 1.65
	balance = $1234.50
	blob = %SGVsbG8
	home = <https://example.org/ada>
	mail = ^ada@example.org
	phone = +18005551234
	pattern = /^a\/b$/
	key = &f47ac10b-58cc-4372-a567-0e02b2c3d479
	born = @1815-12-10
	meeting = @2016-01-23T17:30:00-05:00[America/New_York]
	tag+ = "first", tag+ = "second"
	scores = [1,2,3]
	flags = (true,false)
	meta = {"k":1, 2:"v", @17:30:00 : "tea"}
	manager = |boss|
;
|boss|*Person: name = "Charles" ;
|"session"|*: note = "blank" ;
[1, "two", *Thing]
`

func TestRoundTripUnformatted(t *testing.T) {
	roundTrip(t, roundTripDocument, SerializeOptions{})
}

func TestRoundTripFormatted(t *testing.T) {
	roundTrip(t, roundTripDocument, SerializeOptions{Formatted: true})
}

func TestRoundTripFormattedVariants(t *testing.T) {
	variants := []SerializeOptions{
		{Formatted: true, Indent: "    "},
		{Formatted: true, LineSeparator: "\r\n"},
		{Formatted: true, SequenceSeparatorAlways: true},
		{SequenceSeparatorAlways: true},
	}
	for _, opts := range variants {
		roundTrip(t, roundTripDocument, opts)
	}
}

func TestRoundTripBareObject(t *testing.T) {
	first, _ := parseDoc(t, "*")
	text, err := SerializeString(first, SerializeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if text != "*" {
		t.Fatalf("got %q", text)
	}
}

func TestEscapingIdempotence(t *testing.T) {
	original := String("delims \" ' \\ controls \b\f\n\r\t\v beyond the BMP 😀\U0001F680 end")
	text, err := SerializeString([]Value{original}, SerializeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	roots, _ := parseDoc(t, text)
	if len(roots) != 1 || roots[0] != original {
		t.Fatalf("escaping round trip: %q -> %q -> %v", original, text, roots)
	}

	char := Character('\n')
	text, err = SerializeString([]Value{char}, SerializeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	roots, _ = parseDoc(t, text)
	if roots[0] != char {
		t.Fatalf("character round trip: %q -> %v", text, roots)
	}
}

func TestRoundTripSharedResources(t *testing.T) {
	input := `|boss|*Person:name="Ada";, *Person:manager=|boss|;, *Person:manager=|boss|;`
	first, _ := parseDoc(t, input)
	for _, opts := range []SerializeOptions{{}, {Formatted: true}} {
		text, err := SerializeString(first, opts)
		if err != nil {
			t.Fatal(err)
		}
		second, _ := parseDoc(t, text)
		if !sequencesEqual(first, second, map[*Resource]*Resource{}) {
			t.Fatalf("shared-resource round trip changed the graph: %q", text)
		}
		managerTag := adHocTag(t, "manager")
		a, _ := second[1].(*Resource).PropertyValue(managerTag)
		b, _ := second[2].(*Resource).PropertyValue(managerTag)
		if a.(*Resource) != b.(*Resource) {
			t.Fatalf("sharing lost: %q", text)
		}
	}
}
