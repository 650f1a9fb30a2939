package reactloop

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ValueKind discriminates between argument value types.
type ValueKind string

const (
	KindString  ValueKind = "string"
	KindNumber  ValueKind = "number"
	KindBool    ValueKind = "bool"
	KindList    ValueKind = "list"
	KindMap     ValueKind = "map"
	KindDataRef ValueKind = "data_ref"
	KindDataset ValueKind = "dataset"
)

// Value is a tagged variant representing one parsed argument value.
// KindDataRef carries no payload; it means "substitute the session's
// current dataset at dispatch time".
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []Value
	Map  *orderedmap.OrderedMap[string, Value]
	Data any
}

// Args is an ordered mapping of argument name to Value. Insertion order is
// preserved for display; duplicate keys are last-write-wins.
type Args = *orderedmap.OrderedMap[string, Value]

// NewArgs creates an empty argument map.
func NewArgs() Args {
	return orderedmap.New[string, Value]()
}

// StringValue creates a string Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue creates a numeric Value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// BoolValue creates a boolean Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// ListValue creates a list Value.
func ListValue(items ...Value) Value { return Value{Kind: KindList, List: items} }

// MapValue creates a map Value from an ordered map.
func MapValue(m *orderedmap.OrderedMap[string, Value]) Value {
	return Value{Kind: KindMap, Map: m}
}

// DataRef is the sentinel meaning "the session's current dataset".
func DataRef() Value { return Value{Kind: KindDataRef} }

// IsDataRef reports whether the value is the current-dataset sentinel.
func (v Value) IsDataRef() bool { return v.Kind == KindDataRef }

// DatasetValue wraps a resolved dataset. The session produces these when it
// substitutes the current dataset for a KindDataRef argument; the parser
// never does.
func DatasetValue(data any) Value { return Value{Kind: KindDataset, Data: data} }

// AsDataset returns the resolved dataset payload. The second return is false
// for values that are neither a dataset nor the dataset sentinel.
func (v Value) AsDataset() (any, bool) {
	if v.Kind == KindDataset {
		return v.Data, true
	}
	if v.Kind == KindDataRef {
		return nil, true
	}
	return nil, false
}

// AsString returns the string payload, or the display form for non-strings.
func (v Value) AsString() string {
	if v.Kind == KindString {
		return v.Str
	}
	return v.String()
}

// AsFloat returns the numeric payload, coercing numeric strings.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsInt returns the numeric payload as an int, coercing numeric strings.
func (v Value) AsInt() (int, bool) {
	f, ok := v.AsFloat()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// AsBool returns the boolean payload, coercing "true"/"false" strings.
func (v Value) AsBool() (bool, bool) {
	switch v.Kind {
	case KindBool:
		return v.Bool, true
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// AsStringList flattens a list Value into strings. A scalar becomes a
// single-element list, so columns='Price' and columns=['Price'] are
// interchangeable.
func (v Value) AsStringList() []string {
	switch v.Kind {
	case KindList:
		out := make([]string, 0, len(v.List))
		for _, item := range v.List {
			out = append(out, item.AsString())
		}
		return out
	case KindString:
		return []string{v.Str}
	default:
		return []string{v.String()}
	}
}

// String renders the value the way it would appear in an action string.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDataRef:
		return "df"
	case KindDataset:
		return "[Dataset]"
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		var sb strings.Builder
		sb.WriteByte('{')
		first := true
		for pair := v.Map.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&sb, "%q: %s", pair.Key, pair.Value.String())
		}
		sb.WriteByte('}')
		return sb.String()
	default:
		return ""
	}
}

// FormatArgs renders an argument map the way it would appear inside an
// action call, preserving insertion order.
func FormatArgs(args Args) string {
	if args == nil {
		return ""
	}
	var sb strings.Builder
	first := true
	for pair := args.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(pair.Key)
		sb.WriteByte('=')
		sb.WriteString(pair.Value.String())
	}
	return sb.String()
}
