package urf

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueKind identifies the closed set of value categories.
type ValueKind uint8

const (
	// KindResource is a described or referenced resource.
	KindResource ValueKind = iota
	// KindBool is a boolean literal.
	KindBool
	// KindInteger is a 64-bit integer literal.
	KindInteger
	// KindReal is a floating-point literal.
	KindReal
	// KindDecimal is an arbitrary-precision decimal literal.
	KindDecimal
	// KindString is a string literal.
	KindString
	// KindCharacter is a single-character literal.
	KindCharacter
	// KindBinary is a binary (base64url) literal.
	KindBinary
	// KindIRI is an IRI literal.
	KindIRI
	// KindEmail is an email address literal.
	KindEmail
	// KindTelephone is a telephone number literal.
	KindTelephone
	// KindRegexp is a regular expression literal.
	KindRegexp
	// KindUUID is a UUID literal.
	KindUUID
	// KindTemporal is one of the temporal literal shapes.
	KindTemporal
	// KindList is an ordered list.
	KindList
	// KindMap is an ordered-entry map with arbitrary keys.
	KindMap
	// KindSet is a set.
	KindSet
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindCharacter:
		return "character"
	case KindBinary:
		return "binary"
	case KindIRI:
		return "iri"
	case KindEmail:
		return "email"
	case KindTelephone:
		return "telephone"
	case KindRegexp:
		return "regexp"
	case KindUUID:
		return "uuid"
	case KindTemporal:
		return "temporal"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	default:
		return "unknown"
	}
}

// Value is one node of a parsed document: a resource, a literal, or a
// collection.
type Value interface {
	Kind() ValueKind
}

// Bool is a boolean literal.
type Bool bool

// Kind returns KindBool.
func (Bool) Kind() ValueKind { return KindBool }

// Integer is an integer literal.
type Integer int64

// Kind returns KindInteger.
func (Integer) Kind() ValueKind { return KindInteger }

// Real is a floating-point literal.
type Real float64

// Kind returns KindReal.
func (Real) Kind() ValueKind { return KindReal }

// Decimal is an arbitrary-precision decimal literal.
type Decimal struct {
	Value decimal.Decimal
}

// Kind returns KindDecimal.
func (Decimal) Kind() ValueKind { return KindDecimal }

// Equal reports numeric equality; it makes Decimal comparable by cmp.
func (d Decimal) Equal(o Decimal) bool { return d.Value.Equal(o.Value) }

// String is a string literal.
type String string

// Kind returns KindString.
func (String) Kind() ValueKind { return KindString }

// Character is a single-character literal.
type Character rune

// Kind returns KindCharacter.
func (Character) Kind() ValueKind { return KindCharacter }

// Binary is a binary literal.
type Binary []byte

// Kind returns KindBinary.
func (Binary) Kind() ValueKind { return KindBinary }

// IRI is an IRI literal.
type IRI string

// Kind returns KindIRI.
func (IRI) Kind() ValueKind { return KindIRI }

// Email is an email address literal.
type Email string

// Kind returns KindEmail.
func (Email) Kind() ValueKind { return KindEmail }

// Telephone is a telephone number literal in E.164 form.
type Telephone string

// Kind returns KindTelephone.
func (Telephone) Kind() ValueKind { return KindTelephone }

// Regexp is a regular expression literal. The pattern is kept verbatim.
type Regexp string

// Kind returns KindRegexp.
func (Regexp) Kind() ValueKind { return KindRegexp }

// UUID is a UUID literal.
type UUID uuid.UUID

// Kind returns KindUUID.
func (UUID) Kind() ValueKind { return KindUUID }

// String returns the canonical hyphenated form.
func (u UUID) String() string { return uuid.UUID(u).String() }

// TemporalShape identifies a temporal literal subtype.
type TemporalShape uint8

const (
	// ShapeYear is a year, e.g. 2016.
	ShapeYear TemporalShape = iota
	// ShapeYearMonth is a year and month, e.g. 2016-01.
	ShapeYearMonth
	// ShapeMonthDay is a month and day, e.g. --01-23.
	ShapeMonthDay
	// ShapeLocalDate is a calendar date.
	ShapeLocalDate
	// ShapeLocalTime is a wall-clock time.
	ShapeLocalTime
	// ShapeLocalDateTime is a date and time with no offset.
	ShapeLocalDateTime
	// ShapeOffsetDateTime is a date and time with a UTC offset.
	ShapeOffsetDateTime
	// ShapeZonedDateTime is an offset date-time with a bracketed zone ID.
	ShapeZonedDateTime
)

// String returns the shape name.
func (s TemporalShape) String() string {
	switch s {
	case ShapeYear:
		return "year"
	case ShapeYearMonth:
		return "year-month"
	case ShapeMonthDay:
		return "month-day"
	case ShapeLocalDate:
		return "local date"
	case ShapeLocalTime:
		return "local time"
	case ShapeLocalDateTime:
		return "local date-time"
	case ShapeOffsetDateTime:
		return "offset date-time"
	case ShapeZonedDateTime:
		return "zoned date-time"
	default:
		return "unknown"
	}
}

// Temporal is a temporal literal: an ISO-8601 extended lexical form
// plus, for zoned date-times, the bracketed zone identifier.
type Temporal struct {
	Shape TemporalShape
	Text  string
	Zone  string
}

// Kind returns KindTemporal.
func (Temporal) Kind() ValueKind { return KindTemporal }

// Time converts the temporal to a time.Time where the shape allows it.
// Partial shapes (year, year-month, month-day) resolve their missing
// components to the ISO defaults.
func (t Temporal) Time() (time.Time, error) {
	layout, ok := temporalLayouts[t.Shape]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no time conversion for %s", ErrInvalidLiteral, t.Shape)
	}
	parsed, err := time.Parse(layout, t.Text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
	}
	if t.Shape == ShapeZonedDateTime && t.Zone != "" {
		loc, err := time.LoadLocation(t.Zone)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
		}
		parsed = parsed.In(loc)
	}
	return parsed, nil
}

// List is an ordered list of values.
type List []Value

// Kind returns KindList.
func (List) Kind() ValueKind { return KindList }

// MapEntry is one key/value association.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is a map with arbitrary keys. Entry order is the order of
// appearance; keys are not deduplicated by the model.
type Map []MapEntry

// Kind returns KindMap.
func (Map) Kind() ValueKind { return KindMap }

// Set holds distinct values in the order written.
type Set []Value

// Kind returns KindSet.
func (Set) Kind() ValueKind { return KindSet }

// Property is one property of a resource: its tag and one or more
// ordered values.
type Property struct {
	Tag    Tag
	Values []Value
	Plural bool
}

// Resource is a node of the graph: an optional identifying tag, an
// optional type tag, and ordered properties. Resources are handled by
// pointer; pointer identity is resource identity within one graph.
type Resource struct {
	tag        Tag
	typeTag    Tag
	properties []Property
}

// Kind returns KindResource.
func (*Resource) Kind() ValueKind { return KindResource }

// NewResource returns an empty anonymous resource.
func NewResource() *Resource { return &Resource{} }

// Tag returns the identifying tag, if any.
func (r *Resource) Tag() (Tag, bool) { return r.tag, !r.tag.IsZero() }

// SetTag assigns the identifying tag.
func (r *Resource) SetTag(tag Tag) { r.tag = tag }

// TypeTag returns the type tag, if any.
func (r *Resource) TypeTag() (Tag, bool) { return r.typeTag, !r.typeTag.IsZero() }

// SetTypeTag assigns the type tag.
func (r *Resource) SetTypeTag(tag Tag) { r.typeTag = tag }

// Properties returns the resource's properties in declaration order.
func (r *Resource) Properties() []Property { return r.properties }

func (r *Resource) property(tag Tag) *Property {
	for i := range r.properties {
		if r.properties[i].Tag.Equal(tag) {
			return &r.properties[i]
		}
	}
	return nil
}

// PropertyValue returns the single value of a property. For plural
// properties it returns the first value.
func (r *Resource) PropertyValue(tag Tag) (Value, bool) {
	p := r.property(tag)
	if p == nil || len(p.Values) == 0 {
		return nil, false
	}
	return p.Values[0], true
}

// PropertyValues returns all values of a property in insertion order.
func (r *Resource) PropertyValues(tag Tag) []Value {
	p := r.property(tag)
	if p == nil {
		return nil
	}
	return p.Values
}

// SetPropertyValue sets a singular property, replacing any previous
// value the property held.
func (r *Resource) SetPropertyValue(tag Tag, value Value) {
	if p := r.property(tag); p != nil {
		p.Values = []Value{value}
		p.Plural = false
		return
	}
	r.properties = append(r.properties, Property{Tag: tag, Values: []Value{value}})
}

// AddPropertyValue appends a value to a plural property. Appending to a
// property already holding a singular value is an error.
func (r *Resource) AddPropertyValue(tag Tag, value Value) error {
	if p := r.property(tag); p != nil {
		if !p.Plural {
			return fmt.Errorf("%w: %s", ErrDuplicateProperty, tag)
		}
		p.Values = append(p.Values, value)
		return nil
	}
	r.properties = append(r.properties, Property{Tag: tag, Values: []Value{value}, Plural: true})
	return nil
}

// Description is the capability shared by anything that can describe a
// resource: graph resources, importer-synthesized subjects, and any
// external tree representation.
type Description interface {
	Tag() (Tag, bool)
	TypeTag() (Tag, bool)
	PropertyValue(tag Tag) (Value, bool)
	SetPropertyValue(tag Tag, value Value)
}

var _ Description = (*Resource)(nil)
