package reactloop

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Operation is the signature every registered operation implements. The
// result is opaque to the loop; message is the observation text fed back
// into the next prompt. A non-nil error is caught at the dispatch boundary
// and converted to an observation, never propagated.
type Operation func(ctx context.Context, args Args) (result any, message string, err error)

// TerminatingNames are the reserved operation names that end a run. They
// are never dispatched through the registry and may not be registered.
var TerminatingNames = []string{"finish", "complete"}

// IsTerminating reports whether name is a reserved terminating name.
func IsTerminating(name string) bool {
	for _, t := range TerminatingNames {
		if name == t {
			return true
		}
	}
	return false
}

// DatasetPredicate decides whether an operation result should replace the
// session's current dataset. The registry integration supplies it; the
// loop never inspects result types itself.
type DatasetPredicate func(result any) bool

// Registry maps operation names to handlers. It is assembled once at
// startup and safe for concurrent lookup.
type Registry struct {
	mu        sync.RWMutex
	ops       map[string]Operation
	isDataset DatasetPredicate
}

// NewRegistry creates an empty Registry with the given dataset predicate.
// A nil predicate means no result is ever treated as a dataset.
func NewRegistry(isDataset DatasetPredicate) *Registry {
	if isDataset == nil {
		isDataset = func(any) bool { return false }
	}
	return &Registry{
		ops:       make(map[string]Operation),
		isDataset: isDataset,
	}
}

// Register adds or replaces an operation. Terminating names are reserved
// and rejected.
func (r *Registry) Register(name string, op Operation) error {
	if IsTerminating(name) {
		return fmt.Errorf("operation name %q is reserved for loop termination", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[name] = op
	return nil
}

// Lookup returns the operation registered under name, or nil.
func (r *Registry) Lookup(name string) Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ops[name]
}

// Names returns the registered operation names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered operations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}

// IsDataset applies the registry's dataset predicate to a result.
func (r *Registry) IsDataset(result any) bool {
	return result != nil && r.isDataset(result)
}

// Dispatch invokes the named operation inside the failure-isolating
// boundary. An unknown name or an operation failure (error return or
// panic) is reported through message; err is non-nil in those cases so
// callers can distinguish success, but the loop only records the message.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) (result any, message string, err error) {
	op := r.Lookup(name)
	if op == nil {
		return nil, fmt.Sprintf("Unknown action: %s", name), fmt.Errorf("unknown action: %s", name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			message = fmt.Sprintf("Error executing %s: %v", name, rec)
			err = fmt.Errorf("operation %s panicked: %v", name, rec)
		}
	}()

	result, message, err = op(ctx, args)
	if err != nil {
		return nil, fmt.Sprintf("Error executing %s: %v", name, err), err
	}
	return result, message, nil
}
