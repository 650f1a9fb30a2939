package datatools

import (
	"github.com/martinemde/analyst/frame"
	"github.com/martinemde/analyst/reactloop"
)

const noFrameMessage = "Error: No DataFrame provided"

// frameArg extracts the resolved dataset argument. The second return is
// false when the argument is missing or no dataset has been loaded yet.
func frameArg(args reactloop.Args, key string) (*frame.Frame, bool) {
	v, ok := args.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.AsDataset()
	if !ok {
		return nil, false
	}
	f, ok := data.(*frame.Frame)
	return f, ok && f != nil
}

// stringArg returns a string argument, stripped of stray quotes, or def.
func stringArg(args reactloop.Args, key, def string) string {
	v, ok := args.Get(key)
	if !ok {
		return def
	}
	s := v.AsString()
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			s = s[1 : len(s)-1]
		}
	}
	if s == "" {
		return def
	}
	return s
}

// floatArg returns a numeric argument or def.
func floatArg(args reactloop.Args, key string, def float64) float64 {
	v, ok := args.Get(key)
	if !ok {
		return def
	}
	if f, ok := v.AsFloat(); ok {
		return f
	}
	return def
}

// intArg returns an integer argument or def.
func intArg(args reactloop.Args, key string, def int) int {
	v, ok := args.Get(key)
	if !ok {
		return def
	}
	if n, ok := v.AsInt(); ok {
		return n
	}
	return def
}

// boolArg returns a boolean argument or def.
func boolArg(args reactloop.Args, key string, def bool) bool {
	v, ok := args.Get(key)
	if !ok {
		return def
	}
	if b, ok := v.AsBool(); ok {
		return b
	}
	return def
}

// stringListArg returns a list argument flattened to strings, or nil.
func stringListArg(args reactloop.Args, key string) []string {
	v, ok := args.Get(key)
	if !ok {
		return nil
	}
	return v.AsStringList()
}

// mapArg returns a map argument, or nil.
func mapArg(args reactloop.Args, key string) reactloop.Args {
	v, ok := args.Get(key)
	if !ok || v.Kind != reactloop.KindMap {
		return nil
	}
	return v.Map
}
