package urf

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeParseError indicates malformed document syntax.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeInvalidTag indicates an invalid tag argument.
	ErrCodeInvalidTag ErrorCode = "INVALID_TAG"
	// ErrCodeInvalidHandle indicates an invalid handle argument.
	ErrCodeInvalidHandle ErrorCode = "INVALID_HANDLE"
	// ErrCodeInvalidLiteral indicates an invalid literal lexical form.
	ErrCodeInvalidLiteral ErrorCode = "INVALID_LITERAL"
	// ErrCodeUnresolvedLabel indicates a label reference with no definition.
	ErrCodeUnresolvedLabel ErrorCode = "UNRESOLVED_LABEL"
	// ErrCodeDuplicateProperty indicates a second value for a singular property.
	ErrCodeDuplicateProperty ErrorCode = "DUPLICATE_PROPERTY"
	// ErrCodeState indicates use of a single-use component out of sequence.
	ErrCodeState ErrorCode = "STATE"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
)

var (
	// ErrInvalidTag indicates a non-absolute tag or a disallowed fragment.
	ErrInvalidTag = errors.New("urf: invalid tag")
	// ErrInvalidHandle indicates text that fails the handle grammar.
	ErrInvalidHandle = errors.New("urf: invalid handle")
	// ErrInvalidLiteral indicates an invalid literal lexical form.
	ErrInvalidLiteral = errors.New("urf: invalid literal")
	// ErrUnresolvedLabel indicates a label referenced but never defined.
	ErrUnresolvedLabel = errors.New("urf: unresolved label reference")
	// ErrDuplicateProperty indicates a second value added to a singular property.
	ErrDuplicateProperty = errors.New("urf: property already has a value")
	// ErrParserReused indicates a Parser instance parsed more than one document.
	ErrParserReused = errors.New("urf: parser already used")
	// ErrSerializerReused indicates a Serializer instance wrote more than one document.
	ErrSerializerReused = errors.New("urf: serializer already used")
	// ErrImporterReused indicates an Importer instance ran more than one import.
	ErrImporterReused = errors.New("urf: importer already used")
	// ErrImporterNotStarted indicates a query on an importer before Import ran.
	ErrImporterNotStarted = errors.New("urf: importer has not run")
)

// Code returns the error code for an error, or ErrCodeParseError if
// unknown. Returns empty string for nil errors or io.EOF.
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidTag):
		return ErrCodeInvalidTag
	case errors.Is(err, ErrInvalidHandle):
		return ErrCodeInvalidHandle
	case errors.Is(err, ErrUnresolvedLabel):
		return ErrCodeUnresolvedLabel
	case errors.Is(err, ErrDuplicateProperty):
		return ErrCodeDuplicateProperty
	case errors.Is(err, ErrParserReused),
		errors.Is(err, ErrSerializerReused),
		errors.Is(err, ErrImporterReused),
		errors.Is(err, ErrImporterNotStarted):
		return ErrCodeState
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		underlying := Code(parseErr.Err)
		if underlying != "" && underlying != ErrCodeParseError {
			return underlying
		}
		if errors.Is(parseErr.Err, ErrInvalidLiteral) {
			return ErrCodeInvalidLiteral
		}
		return ErrCodeParseError
	}

	if errors.Is(err, ErrInvalidLiteral) {
		return ErrCodeInvalidLiteral
	}

	return ErrCodeParseError
}

// ParseError provides positioned context for parse failures.
type ParseError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based character offset within the line
	Offset  int    // rune offset in the input
	Excerpt string // the offending line, if available
	Err     error  // underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString("urf")
	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	} else if e.Offset > 0 {
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if excerpt := e.formatExcerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

// formatExcerpt renders the offending line with a caret at the error column.
func (e *ParseError) formatExcerpt() string {
	if e.Excerpt == "" {
		return ""
	}

	const contextLen = 40

	// Column counts runes, so the excerpt is sliced and the caret
	// positioned in runes as well.
	line := []rune(e.Excerpt)
	caret := e.Column - 1
	if caret < 0 {
		caret = 0
	}

	start := caret - contextLen
	if start < 0 {
		start = 0
	}
	end := caret + contextLen
	if end > len(line) {
		end = len(line)
	}
	excerpt := string(line[start:end])
	caret -= start
	if start > 0 {
		excerpt = "..." + excerpt
		caret += 3
	}
	if end < len(line) {
		excerpt = excerpt + "..."
	}
	width := len([]rune(excerpt))
	if caret >= width {
		caret = width - 1
	}
	if caret < 0 {
		caret = 0
	}

	var result strings.Builder
	result.WriteString(excerpt)
	result.WriteString("\n  ")
	for i := 0; i < caret; i++ {
		result.WriteByte(' ')
	}
	result.WriteByte('^')
	return result.String()
}

func (e *ParseError) Unwrap() error { return e.Err }
