package urf

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Literal writers, the mirror image of the readers in literals.go.
// Escaping is deterministic: the required escape set uses single-letter
// mnemonics, remaining control characters use a 4-hex-digit Unicode
// escape, and everything else (including code points beyond the Basic
// Multilingual Plane) is written verbatim.

func writeEscapedRune(w *bufio.Writer, r rune, delimiter rune) error {
	switch r {
	case escapeCharacter:
		_, err := w.WriteString(`\\`)
		return err
	case delimiter:
		if err := w.WriteByte(byte(escapeCharacter)); err != nil {
			return err
		}
		_, err := w.WriteRune(delimiter)
		return err
	case '\b':
		_, err := w.WriteString(`\b`)
		return err
	case '\f':
		_, err := w.WriteString(`\f`)
		return err
	case '\n':
		_, err := w.WriteString(`\n`)
		return err
	case '\r':
		_, err := w.WriteString(`\r`)
		return err
	case '\t':
		_, err := w.WriteString(`\t`)
		return err
	case '\v':
		_, err := w.WriteString(`\v`)
		return err
	}
	if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
		_, err := fmt.Fprintf(w, `\u%04X`, r)
		return err
	}
	_, err := w.WriteRune(r)
	return err
}

func writeStringLiteral(w *bufio.Writer, s String) error {
	if err := w.WriteByte(stringDelimiter); err != nil {
		return err
	}
	for _, r := range string(s) {
		if err := writeEscapedRune(w, r, stringDelimiter); err != nil {
			return err
		}
	}
	return w.WriteByte(stringDelimiter)
}

func writeCharacterLiteral(w *bufio.Writer, c Character) error {
	if err := w.WriteByte(characterDelimiter); err != nil {
		return err
	}
	if err := writeEscapedRune(w, rune(c), characterDelimiter); err != nil {
		return err
	}
	return w.WriteByte(characterDelimiter)
}

func writeBooleanLiteral(w *bufio.Writer, b Bool) error {
	_, err := w.WriteString(strconv.FormatBool(bool(b)))
	return err
}

func writeIntegerLiteral(w *bufio.Writer, i Integer) error {
	_, err := w.WriteString(strconv.FormatInt(int64(i), 10))
	return err
}

func writeRealLiteral(w *bufio.Writer, r Real) error {
	f := float64(r)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("%w: non-finite number", ErrInvalidLiteral)
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep the floating form distinguishable from the integer form.
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	_, err := w.WriteString(text)
	return err
}

func writeDecimalLiteral(w *bufio.Writer, d Decimal) error {
	if err := w.WriteByte(decimalMarker); err != nil {
		return err
	}
	_, err := w.WriteString(d.Value.String())
	return err
}

func writeBinaryLiteral(w *bufio.Writer, b Binary) error {
	if err := w.WriteByte(binaryDelimiter); err != nil {
		return err
	}
	_, err := w.WriteString(base64.RawURLEncoding.EncodeToString(b))
	return err
}

func writeIRILiteral(w *bufio.Writer, iri IRI) error {
	if err := w.WriteByte(iriBegin); err != nil {
		return err
	}
	if _, err := w.WriteString(string(iri)); err != nil {
		return err
	}
	return w.WriteByte(iriEnd)
}

func writeEmailLiteral(w *bufio.Writer, e Email) error {
	if err := w.WriteByte(emailDelimiter); err != nil {
		return err
	}
	_, err := w.WriteString(string(e))
	return err
}

func writeTelephoneLiteral(w *bufio.Writer, t Telephone) error {
	_, err := w.WriteString(string(t))
	return err
}

func writeRegexpLiteral(w *bufio.Writer, re Regexp) error {
	if err := w.WriteByte(regexpDelimiter); err != nil {
		return err
	}
	for _, r := range string(re) {
		if r == regexpDelimiter {
			if err := w.WriteByte(byte(escapeCharacter)); err != nil {
				return err
			}
		}
		if _, err := w.WriteRune(r); err != nil {
			return err
		}
	}
	return w.WriteByte(regexpDelimiter)
}

func writeUUIDLiteral(w *bufio.Writer, u UUID) error {
	if err := w.WriteByte(uuidDelimiter); err != nil {
		return err
	}
	_, err := w.WriteString(u.String())
	return err
}

func writeTemporalLiteral(w *bufio.Writer, t Temporal) error {
	if err := w.WriteByte(temporalDelimiter); err != nil {
		return err
	}
	if _, err := w.WriteString(t.Text); err != nil {
		return err
	}
	if t.Zone != "" {
		if err := w.WriteByte(zoneBegin); err != nil {
			return err
		}
		if _, err := w.WriteString(t.Zone); err != nil {
			return err
		}
		return w.WriteByte(zoneEnd)
	}
	return nil
}
