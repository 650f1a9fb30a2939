package reactloop

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegisterRejectsTerminatingNames(t *testing.T) {
	reg := NewRegistry(nil)
	for _, name := range TerminatingNames {
		err := reg.Register(name, func(ctx context.Context, args Args) (any, string, error) {
			return nil, "", nil
		})
		if err == nil {
			t.Errorf("Register(%q) should fail", name)
		}
	}
	if reg.Count() != 0 {
		t.Errorf("Count = %d, want 0", reg.Count())
	}
}

func TestDispatchUnknown(t *testing.T) {
	reg := NewRegistry(nil)
	result, message, err := reg.Dispatch(context.Background(), "nope", NewArgs())
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
	if message != "Unknown action: nope" {
		t.Errorf("message = %q", message)
	}
	if err == nil {
		t.Error("err = nil, want non-nil")
	}
}

func TestDispatchErrorBecomesMessage(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("fail", func(ctx context.Context, args Args) (any, string, error) {
		return nil, "", errors.New("file not found: missing.xlsx")
	})

	_, message, err := reg.Dispatch(context.Background(), "fail", NewArgs())
	if message != "Error executing fail: file not found: missing.xlsx" {
		t.Errorf("message = %q", message)
	}
	if err == nil {
		t.Error("err = nil, want non-nil")
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("explode", func(ctx context.Context, args Args) (any, string, error) {
		panic("index out of range")
	})

	result, message, err := reg.Dispatch(context.Background(), "explode", NewArgs())
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
	if !strings.Contains(message, "Error executing explode") {
		t.Errorf("message = %q", message)
	}
	if err == nil {
		t.Error("err = nil, want non-nil")
	}
}

func TestNamesSorted(t *testing.T) {
	reg := NewRegistry(nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		reg.Register(name, func(ctx context.Context, args Args) (any, string, error) {
			return nil, "", nil
		})
	}
	names := reg.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names = %v, want %v", names, want)
		}
	}
}

func TestDetectRepetition(t *testing.T) {
	a := invocationSignature("load_table", NewArgs())
	args := NewArgs()
	args.Set("df", DataRef())
	b := invocationSignature("shrink_table", args)

	tests := []struct {
		name   string
		sigs   []string
		window int
		want   bool
	}{
		{"single repeated", []string{a, a, a, a}, 4, true},
		{"alternating pair", []string{a, b, a, b}, 4, true},
		{"no pattern", []string{a, a, b, a}, 4, false},
		{"too few", []string{a, a}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectRepetition(tt.sigs, tt.window); got != tt.want {
				t.Errorf("DetectRepetition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateObservation(t *testing.T) {
	short := "all good"
	if got := TruncateObservation(short, 100); got != short {
		t.Errorf("short text modified: %q", got)
	}

	long := strings.Repeat("x", 500)
	got := TruncateObservation(long, 100)
	if len(got) >= len(long) {
		t.Errorf("len = %d, want shorter than %d", len(got), len(long))
	}
	if !strings.Contains(got, "characters omitted") {
		t.Errorf("no omission marker in %q", got)
	}
	if !strings.HasPrefix(got, "xxxxx") || !strings.HasSuffix(got, "xxxxx") {
		t.Errorf("head/tail not preserved: %q", got)
	}
}
