package reactloop

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink receives closed turns from a running session. Append is called in
// recording order; Close is called exactly once when the run ends.
type Sink interface {
	Append(turn Turn) error
	Close() error
}

// NopSink discards all turns.
type NopSink struct{}

func (NopSink) Append(Turn) error { return nil }
func (NopSink) Close() error      { return nil }

// JSONFileSink accumulates turns and writes them as a single JSON document
// when the session ends.
type JSONFileSink struct {
	path      string
	sessionID string

	mu    sync.Mutex
	turns []Turn
}

// NewJSONFileSink creates a sink writing to path. The parent directory is
// created on Close if it does not exist.
func NewJSONFileSink(path, sessionID string) *JSONFileSink {
	return &JSONFileSink{path: path, sessionID: sessionID}
}

// Append records one closed turn.
func (s *JSONFileSink) Append(turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return nil
}

// Close writes the accumulated turns to disk.
func (s *JSONFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := struct {
		SessionID string    `json:"session_id"`
		SavedAt   time.Time `json:"saved_at"`
		Turns     []Turn    `json:"turns"`
	}{
		SessionID: s.sessionID,
		SavedAt:   time.Now(),
		Turns:     s.turns,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session log: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing session log: %w", err)
	}
	return nil
}

// Turns returns a copy of the accumulated turns.
func (s *JSONFileSink) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}
