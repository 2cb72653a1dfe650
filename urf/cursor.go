package urf

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const lineCommentMarker = '!'

// cursor walks the document text one rune at a time, tracking the
// position used for parse errors. It is scoped to a single parse.
type cursor struct {
	input     string
	pos       int // byte offset
	offset    int // rune offset
	line      int // 1-based
	column    int // 1-based rune column
	lineStart int // byte offset of the current line
}

func newCursor(input string) *cursor {
	return &cursor{input: input, line: 1, column: 1}
}

func (c *cursor) eof() bool { return c.pos >= len(c.input) }

func (c *cursor) peek() (rune, bool) {
	if c.eof() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.pos:])
	return r, true
}

func (c *cursor) next() (rune, bool) {
	if c.eof() {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(c.input[c.pos:])
	c.pos += size
	c.offset++
	if r == '\n' {
		c.line++
		c.column = 1
		c.lineStart = c.pos
	} else {
		c.column++
	}
	return r, true
}

// confirm consumes r if it is the next rune.
func (c *cursor) confirm(r rune) bool {
	if got, ok := c.peek(); ok && got == r {
		c.next()
		return true
	}
	return false
}

func (c *cursor) require(r rune) error {
	if c.confirm(r) {
		return nil
	}
	if got, ok := c.peek(); ok {
		return c.syntaxError("expected %q, found %q", r, got)
	}
	return c.unexpectedEOF()
}

func isInlineSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// skipFiller skips spaces and comments without crossing a line break.
func (c *cursor) skipFiller() {
	for {
		r, ok := c.peek()
		if !ok {
			return
		}
		switch {
		case isInlineSpace(r):
			c.next()
		case r == lineCommentMarker:
			c.skipComment()
		default:
			return
		}
	}
}

// skipSeparators skips whitespace, comments, line breaks, and sequence
// delimiters, reporting whether at least one item separator (a comma or
// a line break) was crossed. Trailing and repeated separators are
// transparent.
func (c *cursor) skipSeparators() bool {
	separated := false
	for {
		r, ok := c.peek()
		if !ok {
			return separated
		}
		switch {
		case isInlineSpace(r):
			c.next()
		case r == '\n':
			separated = true
			c.next()
		case r == sequenceDelimiter:
			separated = true
			c.next()
		case r == lineCommentMarker:
			c.skipComment()
		default:
			return separated
		}
	}
}

// skipValueGap skips whitespace, comments, and line breaks between a
// delimiter and the value it introduces, without consuming sequence
// delimiters.
func (c *cursor) skipValueGap() {
	for {
		r, ok := c.peek()
		if !ok {
			return
		}
		switch {
		case isInlineSpace(r) || r == '\n':
			c.next()
		case r == lineCommentMarker:
			c.skipComment()
		default:
			return
		}
	}
}

// skipComment consumes a line comment up to (not including) the line break.
func (c *cursor) skipComment() {
	c.next() // the marker
	for {
		r, ok := c.peek()
		if !ok || r == '\n' {
			return
		}
		c.next()
	}
}

// currentLine returns the text of the line the cursor is on.
func (c *cursor) currentLine() string {
	end := strings.IndexByte(c.input[c.lineStart:], '\n')
	if end < 0 {
		return c.input[c.lineStart:]
	}
	return c.input[c.lineStart : c.lineStart+end]
}

func (c *cursor) syntaxError(format string, args ...interface{}) error {
	return &ParseError{
		Line:    c.line,
		Column:  c.column,
		Offset:  c.offset,
		Excerpt: c.currentLine(),
		Err:     fmt.Errorf(format, args...),
	}
}

// positioned wraps err with the cursor's position, unless it already
// carries one.
func (c *cursor) positioned(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ParseError); ok {
		return err
	}
	return &ParseError{
		Line:    c.line,
		Column:  c.column,
		Offset:  c.offset,
		Excerpt: c.currentLine(),
		Err:     err,
	}
}

func (c *cursor) unexpectedEOF() error {
	return c.syntaxError("unexpected end of input")
}
