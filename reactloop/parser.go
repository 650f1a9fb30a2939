package reactloop

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultDatasetAlias is the identifier the model uses to reference the
// session's current dataset in action arguments.
const DefaultDatasetAlias = "df"

// Invocation is the parsed form of one action string: an operation name and
// its arguments. It is immutable once returned by Parse.
type Invocation struct {
	Name string
	Args Args
}

// ParseError describes an action string that could not be parsed. The loop
// treats it as an observation, never a fatal error.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse action %q: %s", e.Raw, e.Reason)
}

// Parser converts raw action text into Invocations. It is stateless and
// safe for concurrent use; parsing the same input always yields the same
// result.
type Parser struct {
	alias string
}

// NewParser creates a Parser recognizing the given dataset alias. An empty
// alias selects DefaultDatasetAlias.
func NewParser(alias string) *Parser {
	if alias == "" {
		alias = DefaultDatasetAlias
	}
	return &Parser{alias: alias}
}

var callPattern = regexp.MustCompile(`([A-Za-z_]\w*)\s*\(`)

// Parse extracts the first name(arg=value, ...) call from raw text,
// ignoring surrounding prose. Arguments whose value is the dataset alias
// (bare, single-quoted, or double-quoted) become DataRef sentinels before
// any literal decoding happens. The remaining pairs are decoded as one
// object-literal unit; if that fails, a per-pair best-effort coercion runs
// instead and never fails.
func (p *Parser) Parse(raw string) (Invocation, error) {
	loc := callPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return Invocation{}, &ParseError{Raw: raw, Reason: "no action found"}
	}
	name := raw[loc[2]:loc[3]]

	open := loc[1] - 1
	body, ok := balancedBody(raw, open)
	if !ok {
		return Invocation{}, &ParseError{Raw: raw, Reason: "unbalanced parentheses"}
	}

	args := NewArgs()
	if strings.TrimSpace(body) == "" {
		return Invocation{Name: name, Args: args}, nil
	}

	pieces := splitTopLevel(body, ',')

	// Reference detection runs before any literal decoding. Detected pairs
	// are recorded and excluded from the pieces handed to the structured
	// decoder, so removal can never leave a dangling separator behind.
	type pair struct{ key, val string }
	var remaining []pair
	structuredOK := true
	for _, piece := range pieces {
		trimmed := strings.TrimSpace(piece)
		if trimmed == "" {
			// Trailing or doubled comma: malformed for the structured path.
			structuredOK = false
			continue
		}
		eq := indexTopLevel(trimmed, '=')
		if eq < 0 {
			structuredOK = false
			continue
		}
		key := strings.TrimSpace(trimmed[:eq])
		val := strings.TrimSpace(trimmed[eq+1:])
		if p.isDatasetRef(val) {
			args.Set(key, DataRef())
			continue
		}
		remaining = append(remaining, pair{key, val})
	}

	if structuredOK && len(remaining) > 0 {
		// Reassemble the surviving pairs into a single object-literal form
		// and decode it as one unit.
		var sb strings.Builder
		sb.WriteByte('{')
		for i, pr := range remaining {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(pr.key)
			sb.WriteString(": ")
			sb.WriteString(pr.val)
		}
		sb.WriteByte('}')
		if v, err := parseLiteral(sb.String()); err == nil && v.Kind == KindMap {
			for mp := v.Map.Oldest(); mp != nil; mp = mp.Next() {
				args.Set(mp.Key, mp.Value)
			}
			return Invocation{Name: name, Args: args}, nil
		}
	}

	// Fallback: type each value independently; untypeable values stay raw.
	for _, pr := range remaining {
		args.Set(pr.key, p.coerce(pr.val))
	}
	return Invocation{Name: name, Args: args}, nil
}

// isDatasetRef reports whether a value spelling denotes the current
// dataset: the bare alias, or the alias in single or double quotes.
func (p *Parser) isDatasetRef(val string) bool {
	switch val {
	case p.alias, "'" + p.alias + "'", `"` + p.alias + `"`:
		return true
	}
	return false
}

// coerce types a single fallback value: boolean, integer, float, quoted
// string, list, map, or raw string. It never fails.
func (p *Parser) coerce(val string) Value {
	switch strings.ToLower(val) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if n, err := strconv.Atoi(val); err == nil {
		return NumberValue(float64(n))
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return NumberValue(f)
	}
	if len(val) >= 2 {
		if (val[0] == '\'' && val[len(val)-1] == '\'') ||
			(val[0] == '"' && val[len(val)-1] == '"') {
			inner := val[1 : len(val)-1]
			if inner == p.alias {
				return DataRef()
			}
			return StringValue(inner)
		}
	}
	if val == p.alias {
		return DataRef()
	}
	if strings.HasPrefix(val, "[") && strings.HasSuffix(val, "]") {
		if v, err := parseLiteral(val); err == nil {
			return v
		}
		// Simple list parsing: split on commas, strip quotes.
		items := splitTopLevel(val[1:len(val)-1], ',')
		list := make([]Value, 0, len(items))
		for _, item := range items {
			trimmed := strings.Trim(strings.TrimSpace(item), `"'`)
			if trimmed == "" {
				continue
			}
			list = append(list, StringValue(trimmed))
		}
		return ListValue(list...)
	}
	if strings.HasPrefix(val, "{") && strings.HasSuffix(val, "}") {
		if v, err := parseLiteral(val); err == nil {
			return v
		}
	}
	return StringValue(val)
}

// balancedBody returns the text between the opening parenthesis at open and
// its matching close, honoring nested brackets and both quote styles.
func balancedBody(s string, open int) (string, bool) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 && c == ')' {
				return s[open+1 : i], true
			}
		}
	}
	return "", false
}

// splitTopLevel splits s on sep occurrences outside quotes and outside any
// bracket nesting.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// indexTopLevel returns the index of the first sep outside quotes and
// nesting, or -1.
func indexTopLevel(s string, sep byte) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
