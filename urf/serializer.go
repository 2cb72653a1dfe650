package urf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SerializeOptions configures document output.
type SerializeOptions struct {
	// Formatted enables pretty printing: one item per line inside
	// property blocks and collections, indented by Indent.
	Formatted bool

	// Indent is the indentation unit used when Formatted is set.
	// Defaults to a single tab.
	Indent string

	// LineSeparator is the line break sequence used when Formatted is
	// set. Defaults to "\n".
	LineSeparator string

	// SequenceSeparatorAlways emits the sequence delimiter even where a
	// line break already separates items.
	SequenceSeparatorAlways bool

	// Namespaces supplies alias bindings for shortening tags into
	// handles. When nil, only ad-hoc tags shorten.
	Namespaces *Namespaces
}

func (o *SerializeOptions) fill() {
	if o.Indent == "" {
		o.Indent = "\t"
	}
	if o.LineSeparator == "" {
		o.LineSeparator = "\n"
	}
}

// Serializer writes one document. It performs the inverse traversal of
// the parser: each value dispatches to the matching literal writer or
// structural writer. A Serializer is single-use; it holds the
// indentation counter and the label table for one document.
type Serializer struct {
	w    *bufio.Writer
	opts SerializeOptions
	used bool

	depth  int
	refs   map[*Resource]int
	labels map[*Resource]string
	nalias int
}

// NewSerializer returns a serializer writing to w with default options.
func NewSerializer(w io.Writer) *Serializer {
	return NewSerializerWithOptions(w, SerializeOptions{})
}

// NewSerializerWithOptions returns a serializer writing to w.
func NewSerializerWithOptions(w io.Writer, opts SerializeOptions) *Serializer {
	opts.fill()
	return &Serializer{
		w:      bufio.NewWriter(w),
		opts:   opts,
		refs:   map[*Resource]int{},
		labels: map[*Resource]string{},
	}
}

// Serialize writes the given top-level values as one document and
// flushes the underlying writer. A resource reached more than once is
// written in full on its first occurrence, under a label, and as a
// label reference afterwards.
func (s *Serializer) Serialize(roots ...Value) error {
	if s.used {
		return ErrSerializerReused
	}
	s.used = true
	for _, root := range roots {
		s.countRefs(root, map[*Resource]bool{})
	}
	for i, root := range roots {
		if i > 0 {
			if err := s.writeRootSeparator(); err != nil {
				return err
			}
		}
		if err := s.writeValue(root); err != nil {
			return err
		}
	}
	if s.opts.Formatted && len(roots) > 0 {
		if _, err := s.w.WriteString(s.opts.LineSeparator); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

// WriteDocument serializes roots to w in one call.
func WriteDocument(w io.Writer, roots []Value, opts SerializeOptions) error {
	return NewSerializerWithOptions(w, opts).Serialize(roots...)
}

// SerializeString renders roots as document text.
func SerializeString(roots []Value, opts SerializeOptions) (string, error) {
	var b strings.Builder
	if err := WriteDocument(&b, roots, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FormatValue renders one value in unformatted form.
func FormatValue(v Value) (string, error) {
	return SerializeString([]Value{v}, SerializeOptions{})
}

// countRefs walks the value tree once so that shared resources are
// known before anything is written.
func (s *Serializer) countRefs(v Value, seen map[*Resource]bool) {
	switch value := v.(type) {
	case *Resource:
		s.refs[value]++
		if seen[value] {
			return
		}
		seen[value] = true
		for _, prop := range value.Properties() {
			for _, pv := range prop.Values {
				s.countRefs(pv, seen)
			}
		}
	case List:
		for _, item := range value {
			s.countRefs(item, seen)
		}
	case Set:
		for _, item := range value {
			s.countRefs(item, seen)
		}
	case Map:
		for _, entry := range value {
			s.countRefs(entry.Key, seen)
			s.countRefs(entry.Value, seen)
		}
	}
}

func (s *Serializer) writeRootSeparator() error {
	if !s.opts.Formatted {
		return s.w.WriteByte(sequenceDelimiter)
	}
	if s.opts.SequenceSeparatorAlways {
		if err := s.w.WriteByte(sequenceDelimiter); err != nil {
			return err
		}
	}
	_, err := s.w.WriteString(s.opts.LineSeparator)
	return err
}

func (s *Serializer) writeIndent() error {
	for i := 0; i < s.depth; i++ {
		if _, err := s.w.WriteString(s.opts.Indent); err != nil {
			return err
		}
	}
	return nil
}

// writeValue dispatches on the value's kind. The switch is exhaustive
// over ValueKind; an unknown kind is a programming error.
func (s *Serializer) writeValue(v Value) error {
	switch value := v.(type) {
	case Bool:
		return writeBooleanLiteral(s.w, value)
	case Integer:
		return writeIntegerLiteral(s.w, value)
	case Real:
		return writeRealLiteral(s.w, value)
	case Decimal:
		return writeDecimalLiteral(s.w, value)
	case String:
		return writeStringLiteral(s.w, value)
	case Character:
		return writeCharacterLiteral(s.w, value)
	case Binary:
		return writeBinaryLiteral(s.w, value)
	case IRI:
		return writeIRILiteral(s.w, value)
	case Email:
		return writeEmailLiteral(s.w, value)
	case Telephone:
		return writeTelephoneLiteral(s.w, value)
	case Regexp:
		return writeRegexpLiteral(s.w, value)
	case UUID:
		return writeUUIDLiteral(s.w, value)
	case Temporal:
		return writeTemporalLiteral(s.w, value)
	case List:
		return s.writeSequence(listBegin, listEnd, value)
	case Set:
		return s.writeSequence(setBegin, setEnd, []Value(value))
	case Map:
		return s.writeMap(value)
	case *Resource:
		return s.writeResource(value)
	default:
		return fmt.Errorf("urf: cannot serialize %T", v)
	}
}

func (s *Serializer) writeResource(r *Resource) error {
	if lbl, ok := s.labels[r]; ok {
		_, err := s.w.WriteString(lbl)
		return err
	}
	lbl, err := s.labelText(r)
	if err != nil {
		return err
	}
	if lbl != "" {
		s.labels[r] = lbl
		if _, err := s.w.WriteString(lbl); err != nil {
			return err
		}
	}
	if err := s.w.WriteByte(objectDelimiter); err != nil {
		return err
	}
	if typeTag, ok := r.TypeTag(); ok {
		if err := s.writeTypeName(typeTag); err != nil {
			return err
		}
	}
	if len(r.Properties()) > 0 {
		return s.writePropertyBlock(r)
	}
	return nil
}

// labelText renders the identity label a resource is written under:
// the blank-ID form for blank tags, the handle form where the handle
// carries enough structure to read back as a tag, the IRI form
// otherwise. An anonymous resource gets a generated alias only when it
// is reached more than once.
func (s *Serializer) labelText(r *Resource) (string, error) {
	tag, ok := r.Tag()
	if !ok {
		if s.refs[r] > 1 {
			s.nalias++
			return string(labelDelimiter) + "r" + strconv.Itoa(s.nalias) + string(labelDelimiter), nil
		}
		return "", nil
	}
	if id, blank := tag.BlankID(); blank {
		var b strings.Builder
		b.WriteByte(labelDelimiter)
		bw := bufio.NewWriter(&b)
		if err := writeStringLiteral(bw, String(id)); err != nil {
			return "", err
		}
		if err := bw.Flush(); err != nil {
			return "", err
		}
		b.WriteByte(labelDelimiter)
		return b.String(), nil
	}
	if handle, ok := HandleFromTag(tag, s.opts.Namespaces); ok {
		// A bare single name reads back as an alias, not a tag; such
		// tags fall through to the IRI form.
		if strings.ContainsAny(handle, "-/#") {
			return string(labelDelimiter) + handle + string(labelDelimiter), nil
		}
	}
	return string(labelDelimiter) + string(iriBegin) + tag.String() + string(iriEnd) + string(labelDelimiter), nil
}

func (s *Serializer) writeTypeName(typeTag Tag) error {
	if handle, ok := HandleFromTag(typeTag, s.opts.Namespaces); ok {
		_, err := s.w.WriteString(handle)
		return err
	}
	return writeIRILiteral(s.w, IRI(typeTag.String()))
}

func (s *Serializer) writePropertyBlock(r *Resource) error {
	if err := s.w.WriteByte(propertiesBegin); err != nil {
		return err
	}
	s.depth++
	first := true
	for _, prop := range r.Properties() {
		for _, value := range prop.Values {
			if err := s.writeItemSeparator(first); err != nil {
				return err
			}
			first = false
			if err := s.writePropertyEntry(prop, value); err != nil {
				return err
			}
		}
	}
	s.depth--
	if err := s.writeCloserBreak(first); err != nil {
		return err
	}
	return s.w.WriteByte(propertiesEnd)
}

func (s *Serializer) writePropertyEntry(prop Property, value Value) error {
	handle, ok := HandleFromTag(prop.Tag, s.opts.Namespaces)
	if !ok {
		return fmt.Errorf("%w: property %s has no handle form", ErrInvalidHandle, prop.Tag)
	}
	if _, err := s.w.WriteString(handle); err != nil {
		return err
	}
	if prop.Plural {
		if err := s.w.WriteByte(pluralMarker); err != nil {
			return err
		}
	}
	assign := string(propertyAssignment)
	if s.opts.Formatted {
		assign = " " + assign + " "
	}
	if _, err := s.w.WriteString(assign); err != nil {
		return err
	}
	return s.writeValue(value)
}

func (s *Serializer) writeSequence(open, close byte, items []Value) error {
	if err := s.w.WriteByte(open); err != nil {
		return err
	}
	s.depth++
	for i, item := range items {
		if err := s.writeItemSeparator(i == 0); err != nil {
			return err
		}
		if err := s.writeValue(item); err != nil {
			return err
		}
	}
	s.depth--
	if err := s.writeCloserBreak(len(items) == 0); err != nil {
		return err
	}
	return s.w.WriteByte(close)
}

func (s *Serializer) writeMap(m Map) error {
	if err := s.w.WriteByte(mapBegin); err != nil {
		return err
	}
	s.depth++
	for i, entry := range m {
		if err := s.writeItemSeparator(i == 0); err != nil {
			return err
		}
		if err := s.writeValue(entry.Key); err != nil {
			return err
		}
		// A space keeps a resource key's delimiter from reading as the
		// start of a property block, and a temporal key's delimiter
		// from being consumed as part of the time text.
		delim := string(mapKeyDelimiter)
		if s.opts.Formatted {
			delim = " " + delim + " "
		} else if k := entry.Key.Kind(); k == KindResource || k == KindTemporal {
			delim = " " + delim
		}
		if _, err := s.w.WriteString(delim); err != nil {
			return err
		}
		if err := s.writeValue(entry.Value); err != nil {
			return err
		}
	}
	s.depth--
	if err := s.writeCloserBreak(len(m) == 0); err != nil {
		return err
	}
	return s.w.WriteByte(mapEnd)
}

// writeItemSeparator introduces the next item of a block or collection:
// a sequence delimiter when unformatted, a line break plus indentation
// when formatted.
func (s *Serializer) writeItemSeparator(first bool) error {
	if !s.opts.Formatted {
		if first {
			return nil
		}
		return s.w.WriteByte(sequenceDelimiter)
	}
	if !first && s.opts.SequenceSeparatorAlways {
		if err := s.w.WriteByte(sequenceDelimiter); err != nil {
			return err
		}
	}
	if _, err := s.w.WriteString(s.opts.LineSeparator); err != nil {
		return err
	}
	return s.writeIndent()
}

// writeCloserBreak puts the closing delimiter of a non-empty block on
// its own line when formatted.
func (s *Serializer) writeCloserBreak(empty bool) error {
	if !s.opts.Formatted || empty {
		return nil
	}
	if _, err := s.w.WriteString(s.opts.LineSeparator); err != nil {
		return err
	}
	return s.writeIndent()
}
