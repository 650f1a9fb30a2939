// Package reactloop implements a reason/act/observe loop over a registry
// of named operations.
//
// A model is prompted with a task and the accumulated history of turns,
// and replies with a thought and an action of the form name(arg=value,
// ...). The loop parses the action, resolves dataset references, dispatches
// the operation, and feeds the textual result back as the next observation.
// The cycle repeats until the model emits a terminating action or the
// iteration budget runs out.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - Session: The orchestrator for one run. It owns the history, the
//     current dataset, the iteration budget, and the event stream.
//   - Parser: Converts raw action text into typed Invocations, with a
//     structured pass and a lenient per-argument fallback.
//   - Registry: Registration and dispatch of operations behind a
//     failure-isolating boundary.
//   - Completer: The session's only view of the model. Implementations
//     live outside this package.
//   - EventEmitter: Typed event stream for host application integration.
//
// # Quick Start
//
//	reg := reactloop.NewRegistry(isFrame)
//	reg.Register("read_excel", readExcel)
//	session := reactloop.NewSession(completer, reg, nil)
//
//	result, history, err := session.Run(ctx, "Summarize sales.xlsx")
package reactloop
