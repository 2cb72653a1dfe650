package urf

import (
	"fmt"
	"io"
	"sort"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

// Parser is a single-use recursive-descent parser for one document. It
// sequences literal reads, object and collection structure, comment
// skipping, and label resolution, and drives a Processor with
// declaration and statement calls. A fresh Parser is required per
// document; a Parser must not be shared across concurrent calls.
type Parser struct {
	proc    Processor
	ns      *Namespaces
	c       *cursor
	aliases map[string]*Resource
	defined map[string]bool
	used    bool
}

// NewParser returns a parser driving proc.
func NewParser(proc Processor, opts ...Option) *Parser {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Parser{
		proc:    proc,
		ns:      options.Namespaces,
		aliases: map[string]*Resource{},
		defined: map[string]bool{},
	}
}

// Parse consumes one document and returns its top-level values in
// order. A failed parse returns no partial result.
func (p *Parser) Parse(r io.Reader) ([]Value, error) {
	if p.used {
		return nil, ErrParserReused
	}
	p.used = true
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("urf: reading document: %w", err)
	}
	return p.parseDocument(string(data))
}

// ParseString is Parse over in-memory text.
func (p *Parser) ParseString(input string) ([]Value, error) {
	if p.used {
		return nil, ErrParserReused
	}
	p.used = true
	return p.parseDocument(input)
}

func (p *Parser) parseDocument(input string) ([]Value, error) {
	p.c = newCursor(input)
	var roots []Value
	p.c.skipSeparators()
	for !p.c.eof() {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		roots = append(roots, value)
		separated := p.c.skipSeparators()
		if !p.c.eof() && !separated {
			return nil, p.c.syntaxError("expected separator between values")
		}
	}
	if err := p.checkLabels(); err != nil {
		return nil, err
	}
	return roots, nil
}

// checkLabels rejects alias labels that were referenced but never bound
// to a resource, reporting all of them together.
func (p *Parser) checkLabels() error {
	var unresolved []string
	for name := range p.aliases {
		if !p.defined[name] {
			unresolved = append(unresolved, name)
		}
	}
	sort.Strings(unresolved)
	var result *multierror.Error
	for _, name := range unresolved {
		result = multierror.Append(result, fmt.Errorf("%w: |%s|", ErrUnresolvedLabel, name))
	}
	return result.ErrorOrNil()
}

// parseValue dispatches on the next significant character.
func (p *Parser) parseValue() (Value, error) {
	r, ok := p.c.peek()
	if !ok {
		return nil, p.c.unexpectedEOF()
	}
	switch r {
	case labelDelimiter:
		return p.parseLabeled()
	case objectDelimiter:
		return p.parseObject(nil)
	case listBegin:
		return p.parseList()
	case mapBegin:
		return p.parseMap()
	case setBegin:
		return p.parseSet()
	default:
		return readLiteral(p.c)
	}
}

type labelKind uint8

const (
	labelTag labelKind = iota
	labelID
	labelAlias
)

type label struct {
	kind labelKind
	tag  Tag
	id   string
	name string
}

func (p *Parser) parseLabel() (label, error) {
	p.c.next() // opening delimiter
	r, ok := p.c.peek()
	if !ok {
		return label{}, p.c.unexpectedEOF()
	}
	var result label
	switch r {
	case iriBegin:
		value, err := readIRI(p.c)
		if err != nil {
			return label{}, err
		}
		tag, err := NewTag(string(value.(IRI)))
		if err != nil {
			return label{}, p.c.positioned(err)
		}
		result = label{kind: labelTag, tag: tag}
	case stringDelimiter:
		value, err := readString(p.c)
		if err != nil {
			return label{}, err
		}
		id := string(value.(String))
		if !IsID(id) {
			return label{}, p.c.syntaxError("invalid label ID %q", id)
		}
		result = label{kind: labelID, id: id}
	default:
		var token strings.Builder
		for {
			r, ok := p.c.peek()
			if !ok || (!isIDRune(r) && r != handleAliasDelimiter && r != handleIDDelimiter) {
				break
			}
			token.WriteRune(r)
			p.c.next()
		}
		if token.Len() == 0 {
			return label{}, p.c.syntaxError("empty label")
		}
		// A bare name is a document-scoped alias. Anything with handle
		// structure (segments, a namespace alias, an ID suffix) names a
		// tag.
		text := token.String()
		if strings.ContainsRune(text, handleSegmentDelimiter) ||
			strings.ContainsRune(text, handleAliasDelimiter) ||
			strings.ContainsRune(text, handleIDDelimiter) {
			tag, err := TagFromHandle(text, p.ns)
			if err != nil {
				return label{}, p.c.positioned(err)
			}
			result = label{kind: labelTag, tag: tag}
		} else {
			result = label{kind: labelAlias, name: text}
		}
	}
	if err := p.c.require(labelDelimiter); err != nil {
		return label{}, err
	}
	return result, nil
}

// parseLabeled handles a label that either binds the identity of the
// resource that follows it or stands alone as a reference.
func (p *Parser) parseLabeled() (Value, error) {
	lbl, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	p.c.skipFiller()
	if r, ok := p.c.peek(); ok && r == objectDelimiter {
		return p.parseObject(&lbl)
	}
	return p.resolveReference(lbl)
}

func (p *Parser) resolveReference(lbl label) (*Resource, error) {
	switch lbl.kind {
	case labelTag:
		return p.proc.DeclareResource(&lbl.tag, nil)
	case labelID:
		blank := GenerateBlankTag(lbl.id)
		return p.proc.DeclareResource(&blank, nil)
	default:
		if existing, ok := p.aliases[lbl.name]; ok {
			return existing, nil
		}
		// Forward reference: a placeholder is created now and filled in
		// place when the definition arrives; checkLabels rejects it if
		// no definition ever does.
		placeholder, err := p.proc.DeclareResource(nil, nil)
		if err != nil {
			return nil, p.c.positioned(err)
		}
		p.aliases[lbl.name] = placeholder
		return placeholder, nil
	}
}

// readHandleToken scans a handle occurrence: name runes plus the
// segment, alias, and ID delimiters.
func (p *Parser) readHandleToken() string {
	var token strings.Builder
	for {
		r, ok := p.c.peek()
		if !ok {
			break
		}
		if !isNameRune(r) && r != handleSegmentDelimiter && r != handleAliasDelimiter {
			break
		}
		token.WriteRune(r)
		p.c.next()
	}
	return token.String()
}

// parseObject parses `*`, an optional type, and an optional property
// block. lbl, when present, assigns the resource's identity.
func (p *Parser) parseObject(lbl *label) (Value, error) {
	p.c.next() // object delimiter

	var typeTag *Tag
	if r, ok := p.c.peek(); ok {
		switch {
		case r == iriBegin:
			value, err := readIRI(p.c)
			if err != nil {
				return nil, err
			}
			tag, err := NewTag(string(value.(IRI)))
			if err != nil {
				return nil, p.c.positioned(err)
			}
			typeTag = &tag
		case isNameBeginRune(r):
			token := p.readHandleToken()
			tag, err := TagFromHandle(token, p.ns)
			if err != nil {
				return nil, p.c.positioned(err)
			}
			typeTag = &tag
		}
	}

	subject, err := p.declareSubject(lbl, typeTag)
	if err != nil {
		return nil, err
	}

	if p.c.confirm(propertiesBegin) {
		if err := p.parsePropertyBlock(subject); err != nil {
			return nil, err
		}
	}
	return subject, nil
}

func (p *Parser) declareSubject(lbl *label, typeTag *Tag) (*Resource, error) {
	if lbl == nil {
		subject, err := p.proc.DeclareResource(nil, typeTag)
		if err != nil {
			return nil, p.c.positioned(err)
		}
		return subject, nil
	}
	switch lbl.kind {
	case labelTag:
		subject, err := p.proc.DeclareResource(&lbl.tag, typeTag)
		if err != nil {
			return nil, p.c.positioned(err)
		}
		return subject, nil
	case labelID:
		blank := GenerateBlankTag(lbl.id)
		subject, err := p.proc.DeclareResource(&blank, typeTag)
		if err != nil {
			return nil, p.c.positioned(err)
		}
		return subject, nil
	default:
		if placeholder, ok := p.aliases[lbl.name]; ok {
			if typeTag != nil {
				placeholder.SetTypeTag(*typeTag)
			}
			p.defined[lbl.name] = true
			return placeholder, nil
		}
		subject, err := p.proc.DeclareResource(nil, typeTag)
		if err != nil {
			return nil, p.c.positioned(err)
		}
		p.aliases[lbl.name] = subject
		p.defined[lbl.name] = true
		return subject, nil
	}
}

func (p *Parser) parsePropertyBlock(subject *Resource) error {
	for {
		p.c.skipSeparators()
		if p.c.confirm(propertiesEnd) {
			return nil
		}
		if p.c.eof() {
			return p.c.unexpectedEOF()
		}

		name, plural, err := p.parsePropertyName()
		if err != nil {
			return err
		}
		p.c.skipFiller()
		if err := p.c.require(propertyAssignment); err != nil {
			return err
		}
		p.c.skipValueGap()
		value, err := p.parseValue()
		if err != nil {
			return err
		}
		propertyTag, err := TagFromHandle(name, p.ns)
		if err != nil {
			return p.c.positioned(err)
		}
		if err := p.proc.ProcessStatement(subject, propertyTag, plural, value); err != nil {
			return p.c.positioned(err)
		}

		separated := p.c.skipSeparators()
		if p.c.confirm(propertiesEnd) {
			return nil
		}
		if !separated {
			return p.c.syntaxError("expected separator or %q", propertiesEnd)
		}
	}
}

func (p *Parser) parsePropertyName() (string, bool, error) {
	r, ok := p.c.peek()
	if !ok {
		return "", false, p.c.unexpectedEOF()
	}
	if !isNameBeginRune(r) {
		return "", false, p.c.syntaxError("expected property name, found %q", r)
	}
	name := p.readHandleToken()
	plural := p.c.confirm(pluralMarker)
	return name, plural, nil
}

func (p *Parser) parseList() (Value, error) {
	items, err := p.parseSequence(listEnd)
	if err != nil {
		return nil, err
	}
	return List(items), nil
}

func (p *Parser) parseSet() (Value, error) {
	items, err := p.parseSequence(setEnd)
	if err != nil {
		return nil, err
	}
	return Set(items), nil
}

func (p *Parser) parseSequence(close rune) ([]Value, error) {
	p.c.next() // opening delimiter
	items := []Value{}
	for {
		p.c.skipSeparators()
		if p.c.confirm(close) {
			return items, nil
		}
		if p.c.eof() {
			return nil, p.c.unexpectedEOF()
		}
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		separated := p.c.skipSeparators()
		if p.c.confirm(close) {
			return items, nil
		}
		if !separated {
			return nil, p.c.syntaxError("expected separator or %q", close)
		}
	}
}

func (p *Parser) parseMap() (Value, error) {
	p.c.next() // opening delimiter
	entries := Map{}
	for {
		p.c.skipSeparators()
		if p.c.confirm(mapEnd) {
			return entries, nil
		}
		if p.c.eof() {
			return nil, p.c.unexpectedEOF()
		}
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		p.c.skipFiller()
		if err := p.c.require(mapKeyDelimiter); err != nil {
			return nil, err
		}
		p.c.skipValueGap()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: value})

		separated := p.c.skipSeparators()
		if p.c.confirm(mapEnd) {
			return entries, nil
		}
		if !separated {
			return nil, p.c.syntaxError("expected separator or %q", mapEnd)
		}
	}
}
