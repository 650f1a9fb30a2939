package reactloop

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLiteral decodes one whitespace-tolerant object-literal-like value:
// quoted strings (either quote style), numbers, case-insensitive booleans,
// [...] lists, and {...} maps with quoted or bare-identifier keys. The
// whole input must be consumed.
func parseLiteral(s string) (Value, error) {
	lp := &literalScanner{src: s}
	v, err := lp.value()
	if err != nil {
		return Value{}, err
	}
	lp.skipSpace()
	if lp.pos != len(lp.src) {
		return Value{}, fmt.Errorf("trailing input at offset %d", lp.pos)
	}
	return v, nil
}

type literalScanner struct {
	src string
	pos int
}

func (l *literalScanner) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *literalScanner) value() (Value, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return Value{}, fmt.Errorf("unexpected end of input")
	}
	switch c := l.src[l.pos]; {
	case c == '\'' || c == '"':
		s, err := l.quoted()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case c == '[':
		return l.list()
	case c == '{':
		return l.object()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return l.number()
	default:
		word, err := l.ident()
		if err != nil {
			return Value{}, err
		}
		switch strings.ToLower(word) {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		}
		return Value{}, fmt.Errorf("bare word %q is not a literal", word)
	}
}

// quoted reads a string delimited by the quote character at the current
// position. Contents are taken verbatim; no escape processing happens at
// this level.
func (l *literalScanner) quoted() (string, error) {
	quote := l.src[l.pos]
	l.pos++
	start := l.pos
	for l.pos < len(l.src) {
		if l.src[l.pos] == quote {
			s := l.src[start:l.pos]
			l.pos++
			return s, nil
		}
		l.pos++
	}
	return "", fmt.Errorf("unterminated string at offset %d", start-1)
}

func (l *literalScanner) number() (Value, error) {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' || (c >= '0' && c <= '9') {
			l.pos++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(l.src[start:l.pos], 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q", l.src[start:l.pos])
	}
	return NumberValue(f), nil
}

func (l *literalScanner) ident() (string, error) {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			l.pos++
			continue
		}
		break
	}
	if l.pos == start {
		return "", fmt.Errorf("unexpected character %q at offset %d", l.src[l.pos], l.pos)
	}
	return l.src[start:l.pos], nil
}

func (l *literalScanner) list() (Value, error) {
	l.pos++ // consume '['
	var items []Value
	l.skipSpace()
	if l.pos < len(l.src) && l.src[l.pos] == ']' {
		l.pos++
		return ListValue(), nil
	}
	for {
		item, err := l.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
		l.skipSpace()
		if l.pos >= len(l.src) {
			return Value{}, fmt.Errorf("unterminated list")
		}
		switch l.src[l.pos] {
		case ',':
			l.pos++
		case ']':
			l.pos++
			return ListValue(items...), nil
		default:
			return Value{}, fmt.Errorf("expected ',' or ']' at offset %d", l.pos)
		}
	}
}

func (l *literalScanner) object() (Value, error) {
	l.pos++ // consume '{'
	m := NewArgs()
	l.skipSpace()
	if l.pos < len(l.src) && l.src[l.pos] == '}' {
		l.pos++
		return MapValue(m), nil
	}
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			return Value{}, fmt.Errorf("unterminated map")
		}
		var key string
		var err error
		if c := l.src[l.pos]; c == '\'' || c == '"' {
			key, err = l.quoted()
		} else {
			key, err = l.ident()
		}
		if err != nil {
			return Value{}, err
		}
		l.skipSpace()
		if l.pos >= len(l.src) || l.src[l.pos] != ':' {
			return Value{}, fmt.Errorf("expected ':' after key %q", key)
		}
		l.pos++
		val, err := l.value()
		if err != nil {
			return Value{}, err
		}
		m.Set(key, val)
		l.skipSpace()
		if l.pos >= len(l.src) {
			return Value{}, fmt.Errorf("unterminated map")
		}
		switch l.src[l.pos] {
		case ',':
			l.pos++
		case '}':
			l.pos++
			return MapValue(m), nil
		default:
			return Value{}, fmt.Errorf("expected ',' or '}' at offset %d", l.pos)
		}
	}
}
