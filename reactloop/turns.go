package reactloop

import (
	"fmt"
	"strings"
	"time"
)

// Turn is one task/thought/action/observation record in the session
// history. Fields are populated in that order; once a later field is set,
// earlier fields are never edited.
type Turn struct {
	Task        string    `json:"task,omitempty"`
	Thought     string    `json:"thought,omitempty"`
	Action      string    `json:"action,omitempty"`
	Observation string    `json:"observation,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// History accumulates turns for one run. It is owned by a single Session
// and is not safe for concurrent mutation.
type History struct {
	turns []Turn
}

// AddTask opens a new turn carrying the task description.
func (h *History) AddTask(task string) {
	h.turns = append(h.turns, Turn{Task: task, Timestamp: time.Now()})
}

// AddThought records a thought, opening a new turn if the current one
// already carries a later field.
func (h *History) AddThought(thought string) {
	t := h.open(func(t *Turn) bool { return t.Thought == "" && t.Action == "" && t.Observation == "" })
	t.Thought = thought
}

// AddAction records the textual form of a dispatched action.
func (h *History) AddAction(action string) {
	t := h.open(func(t *Turn) bool { return t.Action == "" && t.Observation == "" })
	t.Action = action
}

// AddObservation records an observation and closes the current turn.
func (h *History) AddObservation(observation string) {
	t := h.open(func(t *Turn) bool { return t.Observation == "" })
	t.Observation = observation
}

// open returns the last turn if accept allows appending to it, otherwise a
// freshly appended turn.
func (h *History) open(accept func(*Turn) bool) *Turn {
	if n := len(h.turns); n > 0 {
		last := &h.turns[n-1]
		if accept(last) {
			return last
		}
	}
	h.turns = append(h.turns, Turn{Timestamp: time.Now()})
	return &h.turns[len(h.turns)-1]
}

// Turns returns a copy of the recorded turns.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of recorded turns.
func (h *History) Len() int { return len(h.turns) }

// RenderLines flattens the history into the prompt-facing "Task:" /
// "Thought:" / "Action:" / "Observation:" lines, in recording order.
func (h *History) RenderLines() []string {
	var lines []string
	for _, t := range h.turns {
		if t.Task != "" {
			lines = append(lines, "Task: "+t.Task)
		}
		if t.Thought != "" {
			lines = append(lines, "Thought: "+t.Thought)
		}
		if t.Action != "" {
			lines = append(lines, "Action: "+t.Action)
		}
		if t.Observation != "" {
			lines = append(lines, "Observation: "+t.Observation)
		}
	}
	return lines
}

// FormatAction renders an invocation the way it is recorded in history and
// shown to the model, with DataRef arguments displayed as the alias.
func FormatAction(name string, args Args) string {
	if args == nil || args.Len() == 0 {
		return name + "()"
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	first := true
	for pair := args.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%s=%s", pair.Key, pair.Value.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
