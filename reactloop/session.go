package reactloop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// StepRequest carries everything a Completer needs to produce the next
// reasoning step for a run.
type StepRequest struct {
	Task          string
	DatasetLoaded bool
	History       []Turn
}

// StepResponse is one reasoning step from the model. An empty Action means
// the model produced no parseable action this step; the loop records that
// and asks again.
type StepResponse struct {
	Thought string
	Action  string
}

// Completer produces the next thought/action pair for a session. The
// session never talks to a model directly; any provider failure must be
// surfaced as an empty Action, not an error, unless the failure is
// unrecoverable for the whole run.
type Completer interface {
	NextStep(ctx context.Context, req StepRequest) (StepResponse, error)
}

// SessionConfig holds configuration for a session.
type SessionConfig struct {
	MaxIterations       int    `json:"max_iterations"`
	DatasetAlias        string `json:"dataset_alias,omitempty"`
	ObservationLimit    int    `json:"observation_limit"` // chars, 0 = unlimited
	EnableLoopDetection bool   `json:"enable_loop_detection"`
	LoopDetectionWindow int    `json:"loop_detection_window"`
	EventBufferSize     int    `json:"event_buffer_size,omitempty"`
}

// DefaultSessionConfig returns the default configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxIterations:       10,
		DatasetAlias:        DefaultDatasetAlias,
		ObservationLimit:    6000,
		EnableLoopDetection: true,
		LoopDetectionWindow: 6,
	}
}

// DefaultTerminalResult is recorded when a terminating action carries no
// explicit result argument.
const DefaultTerminalResult = "Task completed successfully."

// Session drives one reason/act/observe run against a Registry. A Session
// is single-use: create one per task.
type Session struct {
	id        string
	completer Completer
	registry  *Registry
	parser    *Parser
	config    SessionConfig
	emitter   *EventEmitter
	sink      Sink
	logger    *slog.Logger

	mu      sync.Mutex
	started bool

	iteration int
	dataset   any
	history   History
	flushed   int
	sigs      []string
}

// NewSession creates a session with the given completer, registry, and
// optional configuration.
func NewSession(completer Completer, registry *Registry, config *SessionConfig) *Session {
	sessionID := uuid.New().String()

	cfg := DefaultSessionConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultSessionConfig().MaxIterations
	}
	if cfg.LoopDetectionWindow <= 0 {
		cfg.LoopDetectionWindow = DefaultSessionConfig().LoopDetectionWindow
	}

	return &Session{
		id:        sessionID,
		completer: completer,
		registry:  registry,
		parser:    NewParser(cfg.DatasetAlias),
		config:    cfg,
		emitter:   NewEventEmitter(sessionID, cfg.EventBufferSize),
		sink:      NopSink{},
		logger:    slog.Default(),
	}
}

// SetSink sets the history sink. Must be called before Run.
func (s *Session) SetSink(sink Sink) {
	if sink != nil {
		s.sink = sink
	}
}

// SetLogger sets the logger. Must be called before Run.
func (s *Session) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Iteration returns the number of completed loop iterations.
func (s *Session) Iteration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iteration
}

// Dataset returns the current dataset, or nil if none has been stored.
func (s *Session) Dataset() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset
}

// History returns a copy of the turns recorded so far.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Turns()
}

// Events returns the event channel for the host application. The channel
// is closed when Run returns.
func (s *Session) Events() <-chan SessionEvent {
	return s.emitter.Events()
}

// Run executes the reason/act/observe loop for task until a terminating
// action, the iteration budget, or context cancellation. The returned
// result is nil when the run ended without a terminating action. The
// returned history is complete in all cases, including the error one.
func (s *Session) Run(ctx context.Context, task string) (*string, []Turn, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("session %s already ran", s.id)
	}
	s.started = true
	s.mu.Unlock()

	defer s.emitter.Close()
	defer s.sink.Close()

	s.logger.Info("session start", "session_id", s.id, "task", task, "max_iterations", s.config.MaxIterations)
	s.record(func() { s.history.AddTask(task) })
	s.emitter.Emit(EventSessionStart, 0, map[string]any{"task": task})

	var result *string
	var runErr error

loop:
	for {
		s.mu.Lock()
		s.iteration++
		iter := s.iteration
		s.mu.Unlock()

		if iter > s.config.MaxIterations {
			s.observe(iter, "Maximum iterations reached. Stopping.")
			s.emitter.Emit(EventIterationLimit, iter, nil)
			s.logger.Warn("iteration budget exhausted", "session_id", s.id, "iterations", s.config.MaxIterations)
			break
		}

		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		resp, err := s.completer.NextStep(ctx, StepRequest{
			Task:          task,
			DatasetLoaded: s.Dataset() != nil,
			History:       s.History(),
		})
		if err != nil {
			s.logger.Error("completion failed", "session_id", s.id, "iteration", iter, "error", err)
			resp = StepResponse{}
		}

		if resp.Thought != "" {
			s.record(func() { s.history.AddThought(resp.Thought) })
			s.logger.Info("thought", "session_id", s.id, "iteration", iter, "text", resp.Thought)
			s.emitter.Emit(EventThought, iter, map[string]any{"text": resp.Thought})
		}

		if resp.Action == "" {
			s.observe(iter, "No action received. Respond with a single Action line.")
			continue
		}

		inv, perr := s.parser.Parse(resp.Action)
		if perr != nil {
			s.record(func() { s.history.AddAction(resp.Action) })
			s.emitter.Emit(EventAction, iter, map[string]any{"raw": resp.Action})
			reason := "invalid action"
			if pe, ok := perr.(*ParseError); ok {
				reason = pe.Reason
			}
			s.observe(iter, fmt.Sprintf("Could not parse action: %s", reason))
			continue
		}

		rendered := FormatAction(inv.Name, inv.Args)
		s.record(func() { s.history.AddAction(rendered) })
		s.logger.Info("action", "session_id", s.id, "iteration", iter, "action", rendered)
		s.emitter.Emit(EventAction, iter, map[string]any{"name": inv.Name, "action": rendered})

		if IsTerminating(inv.Name) {
			r := DefaultTerminalResult
			if v, ok := inv.Args.Get("result"); ok {
				r = v.AsString()
			}
			result = &r
			s.observe(iter, r)
			s.emitter.Emit(EventTerminal, iter, map[string]any{"result": r})
			s.logger.Info("terminal action", "session_id", s.id, "iteration", iter, "name", inv.Name)
			break loop
		}

		opResult, message, derr := s.registry.Dispatch(ctx, inv.Name, s.resolveArgs(inv.Args))
		if derr != nil {
			s.logger.Warn("dispatch failed", "session_id", s.id, "iteration", iter, "name", inv.Name, "error", derr)
		}
		if s.registry.IsDataset(opResult) {
			s.mu.Lock()
			s.dataset = opResult
			s.mu.Unlock()
			s.emitter.Emit(EventDatasetStored, iter, map[string]any{"source": inv.Name})
		}
		s.observe(iter, TruncateObservation(message, s.config.ObservationLimit))

		if s.config.EnableLoopDetection {
			s.sigs = append(s.sigs, invocationSignature(inv.Name, inv.Args))
			if len(s.sigs) > s.config.LoopDetectionWindow {
				s.sigs = s.sigs[len(s.sigs)-s.config.LoopDetectionWindow:]
			}
			if DetectRepetition(s.sigs, s.config.LoopDetectionWindow) {
				warning := "You appear to be repeating the same action. Try a different approach or finish with your best result."
				s.observe(iter, warning)
				s.emitter.Emit(EventSteering, iter, map[string]any{"text": warning})
				s.sigs = s.sigs[:0]
			}
		}
	}

	s.emitter.Emit(EventSessionEnd, s.Iteration(), nil)
	s.logger.Info("session end", "session_id", s.id, "iterations", s.Iteration(), "finished", result != nil)
	return result, s.History(), runErr
}

// DispatchOnce invokes one operation directly, bypassing the loop. No
// dataset reference resolution is applied; callers pass fully resolved
// arguments. Terminating names are not dispatchable.
func (s *Session) DispatchOnce(ctx context.Context, name string, args Args) (any, string, error) {
	if IsTerminating(name) {
		return nil, fmt.Sprintf("Unknown action: %s", name), fmt.Errorf("unknown action: %s", name)
	}
	return s.registry.Dispatch(ctx, name, args)
}

// resolveArgs substitutes the current dataset for every DataRef argument.
// With no dataset loaded the reference resolves to a nil payload and the
// operation reports the absence itself.
func (s *Session) resolveArgs(args Args) Args {
	if args == nil {
		return NewArgs()
	}
	s.mu.Lock()
	dataset := s.dataset
	s.mu.Unlock()

	resolved := NewArgs()
	for pair := args.Oldest(); pair != nil; pair = pair.Next() {
		v := pair.Value
		if v.IsDataRef() {
			v = DatasetValue(dataset)
		}
		resolved.Set(pair.Key, v)
	}
	return resolved
}

// observe records an observation, logs it, emits it, and flushes any
// closed turns to the sink.
func (s *Session) observe(iteration int, text string) {
	s.record(func() { s.history.AddObservation(text) })
	s.logger.Info("observation", "session_id", s.id, "iteration", iteration, "text", text)
	s.emitter.Emit(EventObservation, iteration, map[string]any{"text": text})
	s.flush()
}

// record applies a history mutation under the session lock.
func (s *Session) record(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// flush appends every turn closed since the last flush to the sink. A turn
// is closed once it carries an observation.
func (s *Session) flush() {
	s.mu.Lock()
	turns := s.history.Turns()
	start := s.flushed
	closed := len(turns)
	if closed > 0 && turns[closed-1].Observation == "" {
		closed--
	}
	s.flushed = closed
	s.mu.Unlock()

	for _, t := range turns[start:closed] {
		if err := s.sink.Append(t); err != nil {
			s.logger.Warn("history sink append failed", "session_id", s.id, "error", err)
		}
	}
}
