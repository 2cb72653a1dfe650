package urf

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Grammar delimiters. Each literal kind is recognized by its leading
// character; the dispatch is in readValue/readLiteral.
const (
	objectDelimiter    = '*'
	propertiesBegin    = ':'
	propertiesEnd      = ';'
	propertyAssignment = '='
	listBegin          = '['
	listEnd            = ']'
	mapBegin           = '{'
	mapEnd             = '}'
	mapKeyDelimiter    = ':'
	setBegin           = '('
	setEnd             = ')'
	stringDelimiter    = '"'
	characterDelimiter = '\''
	binaryDelimiter    = '%'
	iriBegin           = '<'
	iriEnd             = '>'
	decimalMarker      = '$'
	emailDelimiter     = '^'
	uuidDelimiter      = '&'
	telephoneDelimiter = '+'
	temporalDelimiter  = '@'
	zoneBegin          = '['
	zoneEnd            = ']'
	regexpDelimiter    = '/'
	labelDelimiter     = '|'
	sequenceDelimiter  = ','
	escapeCharacter    = '\\'
)

// readLiteral reads one literal value of any kind, dispatching on the
// leading character. The cursor must be positioned at the literal.
func readLiteral(c *cursor) (Value, error) {
	r, ok := c.peek()
	if !ok {
		return nil, c.unexpectedEOF()
	}
	switch {
	case r == stringDelimiter:
		return readString(c)
	case r == characterDelimiter:
		return readCharacter(c)
	case r == binaryDelimiter:
		return readBinary(c)
	case r == iriBegin:
		return readIRI(c)
	case r == decimalMarker:
		return readDecimal(c)
	case r == emailDelimiter:
		return readEmail(c)
	case r == uuidDelimiter:
		return readUUID(c)
	case r == telephoneDelimiter:
		return readTelephone(c)
	case r == temporalDelimiter:
		return readTemporal(c)
	case r == regexpDelimiter:
		return readRegexp(c)
	case r == 't' || r == 'f':
		return readBoolean(c)
	case r == '-' || unicode.IsDigit(r):
		return readNumber(c)
	default:
		return nil, c.syntaxError("unexpected character %q", r)
	}
}

func readBoolean(c *cursor) (Value, error) {
	var word strings.Builder
	for {
		r, ok := c.peek()
		if !ok || !unicode.IsLetter(r) {
			break
		}
		word.WriteRune(r)
		c.next()
	}
	switch word.String() {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	default:
		return nil, c.syntaxError("invalid boolean %q", word.String())
	}
}

// scanNumericText consumes an optionally signed numeric lexical form.
func scanNumericText(c *cursor) (string, error) {
	var text strings.Builder
	if c.confirm('-') {
		text.WriteByte('-')
	}
	digits := 0
	for {
		r, ok := c.peek()
		if !ok || !unicode.IsDigit(r) {
			break
		}
		text.WriteRune(r)
		digits++
		c.next()
	}
	if digits == 0 {
		return "", c.syntaxError("expected digit")
	}
	if c.confirm('.') {
		text.WriteByte('.')
		fracDigits := 0
		for {
			r, ok := c.peek()
			if !ok || !unicode.IsDigit(r) {
				break
			}
			text.WriteRune(r)
			fracDigits++
			c.next()
		}
		if fracDigits == 0 {
			return "", c.syntaxError("expected fraction digit")
		}
	}
	if r, ok := c.peek(); ok && (r == 'e' || r == 'E') {
		text.WriteRune(r)
		c.next()
		if r, ok := c.peek(); ok && (r == '+' || r == '-') {
			text.WriteRune(r)
			c.next()
		}
		expDigits := 0
		for {
			r, ok := c.peek()
			if !ok || !unicode.IsDigit(r) {
				break
			}
			text.WriteRune(r)
			expDigits++
			c.next()
		}
		if expDigits == 0 {
			return "", c.syntaxError("expected exponent digit")
		}
	}
	return text.String(), nil
}

func readNumber(c *cursor) (Value, error) {
	text, err := scanNumericText(c)
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, c.syntaxError("invalid number %q", text)
		}
		return Real(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, c.syntaxError("integer %q out of range", text)
	}
	return Integer(i), nil
}

func readDecimal(c *cursor) (Value, error) {
	c.next() // decimal marker
	text, err := scanNumericText(c)
	if err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, c.syntaxError("invalid decimal %q", text)
	}
	return Decimal{Value: d}, nil
}

func readString(c *cursor) (Value, error) {
	c.next() // opening quote
	var text strings.Builder
	for {
		r, ok := c.peek()
		if !ok {
			return nil, c.unexpectedEOF()
		}
		if r == '\n' {
			return nil, c.syntaxError("unterminated string")
		}
		c.next()
		switch {
		case r == stringDelimiter:
			return String(text.String()), nil
		case r == escapeCharacter:
			decoded, err := readEscapeSequence(c, stringDelimiter)
			if err != nil {
				return nil, err
			}
			text.WriteRune(decoded)
		default:
			text.WriteRune(r)
		}
	}
}

func readCharacter(c *cursor) (Value, error) {
	c.next() // opening quote
	r, ok := c.next()
	if !ok {
		return nil, c.unexpectedEOF()
	}
	if r == characterDelimiter {
		return nil, c.syntaxError("empty character literal")
	}
	if r == escapeCharacter {
		var err error
		r, err = readEscapeSequence(c, characterDelimiter)
		if err != nil {
			return nil, err
		}
	}
	if err := c.require(characterDelimiter); err != nil {
		return nil, err
	}
	return Character(r), nil
}

// readEscapeSequence decodes the escape following a consumed escape
// character. A surrogate pair written as two consecutive Unicode
// escapes is combined into one code point.
func readEscapeSequence(c *cursor, delimiter rune) (rune, error) {
	r, ok := c.next()
	if !ok {
		return 0, c.unexpectedEOF()
	}
	switch r {
	case escapeCharacter, delimiter:
		return r, nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case 'u':
		code, err := readHex4(c)
		if err != nil {
			return 0, err
		}
		if code >= 0xDC00 && code <= 0xDFFF {
			return 0, c.syntaxError("unpaired low surrogate escape")
		}
		if code >= 0xD800 && code <= 0xDBFF {
			if !c.confirm(escapeCharacter) || !c.confirm('u') {
				return 0, c.syntaxError("unpaired high surrogate escape")
			}
			low, err := readHex4(c)
			if err != nil {
				return 0, err
			}
			if low < 0xDC00 || low > 0xDFFF {
				return 0, c.syntaxError("invalid surrogate pair")
			}
			return 0x10000 + ((code - 0xD800) << 10) + (low - 0xDC00), nil
		}
		return code, nil
	default:
		return 0, c.syntaxError("invalid escape %q", r)
	}
}

func readHex4(c *cursor) (rune, error) {
	var code rune
	for i := 0; i < 4; i++ {
		r, ok := c.next()
		if !ok {
			return 0, c.unexpectedEOF()
		}
		var digit rune
		switch {
		case r >= '0' && r <= '9':
			digit = r - '0'
		case r >= 'a' && r <= 'f':
			digit = r - 'a' + 10
		case r >= 'A' && r <= 'F':
			digit = r - 'A' + 10
		default:
			return 0, c.syntaxError("invalid hex digit %q", r)
		}
		code = code<<4 | digit
	}
	return code, nil
}

func isBase64URLRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') || r == '-' || r == '_'
}

func readBinary(c *cursor) (Value, error) {
	c.next() // binary marker
	var text strings.Builder
	for {
		r, ok := c.peek()
		if !ok || !isBase64URLRune(r) {
			break
		}
		text.WriteRune(r)
		c.next()
	}
	data, err := base64.RawURLEncoding.DecodeString(text.String())
	if err != nil {
		return nil, c.syntaxError("invalid binary literal: %v", err)
	}
	return Binary(data), nil
}

func readIRI(c *cursor) (Value, error) {
	c.next() // '<'
	var text strings.Builder
	for {
		r, ok := c.peek()
		if !ok {
			return nil, c.unexpectedEOF()
		}
		if r == '\n' {
			return nil, c.syntaxError("unterminated IRI")
		}
		c.next()
		if r == iriEnd {
			if text.Len() == 0 {
				return nil, c.syntaxError("empty IRI")
			}
			return IRI(text.String()), nil
		}
		text.WriteRune(r)
	}
}

func isEmailRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		strings.ContainsRune("@._%+-", r)
}

func readEmail(c *cursor) (Value, error) {
	c.next() // '^'
	var text strings.Builder
	for {
		r, ok := c.peek()
		if !ok || !isEmailRune(r) {
			break
		}
		text.WriteRune(r)
		c.next()
	}
	address := text.String()
	at := strings.IndexByte(address, '@')
	if at <= 0 || at == len(address)-1 || strings.Count(address, "@") != 1 {
		return nil, c.syntaxError("invalid email address %q", address)
	}
	return Email(address), nil
}

func readTelephone(c *cursor) (Value, error) {
	c.next() // '+'
	var digits strings.Builder
	for {
		r, ok := c.peek()
		if !ok || r < '0' || r > '9' {
			break
		}
		digits.WriteRune(r)
		c.next()
	}
	if digits.Len() == 0 {
		return nil, c.syntaxError("expected telephone digits")
	}
	return Telephone("+" + digits.String()), nil
}

func readRegexp(c *cursor) (Value, error) {
	c.next() // '/'
	var pattern strings.Builder
	for {
		r, ok := c.peek()
		if !ok {
			return nil, c.unexpectedEOF()
		}
		if r == '\n' {
			return nil, c.syntaxError("unterminated regular expression")
		}
		c.next()
		switch r {
		case regexpDelimiter:
			return Regexp(pattern.String()), nil
		case escapeCharacter:
			escaped, ok := c.next()
			if !ok {
				return nil, c.unexpectedEOF()
			}
			if escaped == regexpDelimiter {
				pattern.WriteRune(regexpDelimiter)
			} else {
				// Regular-expression escapes are the pattern's own
				// business; carry them through verbatim.
				pattern.WriteRune(escapeCharacter)
				pattern.WriteRune(escaped)
			}
		default:
			pattern.WriteRune(r)
		}
	}
}

func isUUIDRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') ||
		(r >= 'A' && r <= 'F') || r == '-'
}

func readUUID(c *cursor) (Value, error) {
	c.next() // '&'
	var text strings.Builder
	for {
		r, ok := c.peek()
		if !ok || !isUUIDRune(r) {
			break
		}
		text.WriteRune(r)
		c.next()
	}
	id, err := uuid.Parse(text.String())
	if err != nil {
		return nil, c.syntaxError("invalid UUID %q", text.String())
	}
	return UUID(id), nil
}

func isTemporalRune(r rune) bool {
	return (r >= '0' && r <= '9') ||
		r == '-' || r == ':' || r == 'T' || r == '.' || r == '+' || r == 'Z'
}

func isZoneRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		r == '/' || r == '_' || r == '+' || r == '-'
}

func readTemporal(c *cursor) (Value, error) {
	c.next() // '@'
	var text strings.Builder
	for {
		r, ok := c.peek()
		if !ok || !isTemporalRune(r) {
			break
		}
		text.WriteRune(r)
		c.next()
	}
	zone := ""
	if c.confirm(zoneBegin) {
		var z strings.Builder
		for {
			r, ok := c.peek()
			if !ok || !isZoneRune(r) {
				break
			}
			z.WriteRune(r)
			c.next()
		}
		if err := c.require(zoneEnd); err != nil {
			return nil, err
		}
		zone = z.String()
		if zone == "" {
			return nil, c.syntaxError("empty zone identifier")
		}
	}
	temporal, err := newTemporal(text.String(), zone)
	if err != nil {
		return nil, c.positioned(err)
	}
	return temporal, nil
}

var temporalLayouts = map[TemporalShape]string{
	ShapeYear:           "2006",
	ShapeYearMonth:      "2006-01",
	ShapeMonthDay:       "--01-02",
	ShapeLocalDate:      "2006-01-02",
	ShapeLocalTime:      "15:04:05",
	ShapeLocalDateTime:  "2006-01-02T15:04:05",
	ShapeOffsetDateTime: "2006-01-02T15:04:05Z07:00",
	ShapeZonedDateTime:  "2006-01-02T15:04:05Z07:00",
}

// newTemporal classifies and validates an ISO-8601 extended lexical
// form, with an optional zone identifier for zoned date-times.
func newTemporal(text, zone string) (Temporal, error) {
	shape, err := classifyTemporal(text, zone)
	if err != nil {
		return Temporal{}, err
	}
	if _, err := time.Parse(temporalLayouts[shape], text); err != nil {
		return Temporal{}, invalidLiteralf("invalid %s %q", shape, text)
	}
	return Temporal{Shape: shape, Text: text, Zone: zone}, nil
}

func classifyTemporal(text, zone string) (TemporalShape, error) {
	switch {
	case text == "":
		return 0, invalidLiteralf("empty temporal literal")
	case strings.HasPrefix(text, "--"):
		if zone != "" {
			return 0, invalidLiteralf("zone on month-day %q", text)
		}
		return ShapeMonthDay, nil
	case strings.ContainsRune(text, 'T'):
		timePart := text[strings.IndexByte(text, 'T')+1:]
		hasOffset := strings.ContainsAny(timePart, "Z+") || strings.ContainsRune(timePart, '-')
		if zone != "" {
			if !hasOffset {
				return 0, invalidLiteralf("zoned date-time %q requires a UTC offset", text)
			}
			return ShapeZonedDateTime, nil
		}
		if hasOffset {
			return ShapeOffsetDateTime, nil
		}
		return ShapeLocalDateTime, nil
	case zone != "":
		return 0, invalidLiteralf("zone on %q", text)
	case strings.ContainsRune(text, ':'):
		return ShapeLocalTime, nil
	case len(text) == 4:
		return ShapeYear, nil
	case len(text) == 7:
		return ShapeYearMonth, nil
	default:
		return ShapeLocalDate, nil
	}
}

func invalidLiteralf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidLiteral}, args...)...)
}
