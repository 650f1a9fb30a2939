package llmclient

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/martinemde/analyst/reactloop"
)

// OperationDoc describes one registered operation for the system prompt.
type OperationDoc struct {
	Signature   string // e.g. "read_excel(file_path)"
	Description string // e.g. "Read data from an Excel file"
}

const systemPromptHeader = `You are a data analyst assistant that reasons step by step.
Always structure your responses in two parts:
1. Thought: where you reason about what to do next
2. Action: where you specify an action as a function call, like: function_name(param1=value1, param2=value2)

IMPORTANT DATA HANDLING:
- When a dataset is loaded or created, it is automatically stored in memory.
- To reference this dataset in subsequent operations, use '%[1]s' (without quotes) as the value for dataset parameters.
- Example: after calling read_excel(), you can use: clean_data(%[1]s=%[1]s, strategy='drop')
- Do NOT pass a function call as a string value; load data first, then use '%[1]s' in your next action.

WORKFLOW TIPS:
1. After loading data, examine its structure with examine_dataframe(%[1]s=%[1]s)
2. Check column names before operating on specific columns
3. Perform operations step by step, checking the observation after each one

Available functions:
`

const systemPromptFooter = `- finish(result) - Complete the task with a final result

Always end your response with an Action that calls one of these functions.`

// ReActCompleter implements reactloop.Completer on top of a Client. It is
// stateless between calls; all run state lives in the session history it
// receives.
type ReActCompleter struct {
	client       *Client
	operations   []OperationDoc
	alias        string
	provider     string
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
}

// ReActOption configures a ReActCompleter.
type ReActOption func(*ReActCompleter)

// ForProvider routes requests to a specific provider.
func ForProvider(name string) ReActOption {
	return func(c *ReActCompleter) { c.provider = name }
}

// ForModel requests a specific model.
func ForModel(model string) ReActOption {
	return func(c *ReActCompleter) { c.model = model }
}

// WithSamplingTemperature sets the sampling temperature.
func WithSamplingTemperature(t float64) ReActOption {
	return func(c *ReActCompleter) { c.temperature = t }
}

// WithResponseTokenLimit caps the response length.
func WithResponseTokenLimit(n int) ReActOption {
	return func(c *ReActCompleter) { c.maxTokens = n }
}

// WithDatasetAlias sets the dataset alias used in prompts.
func WithDatasetAlias(alias string) ReActOption {
	return func(c *ReActCompleter) { c.alias = alias }
}

// NewReActCompleter creates a completer advertising the given operations.
func NewReActCompleter(client *Client, operations []OperationDoc, opts ...ReActOption) *ReActCompleter {
	c := &ReActCompleter{
		client:      client,
		operations:  operations,
		alias:       reactloop.DefaultDatasetAlias,
		temperature: 0.7,
		maxTokens:   1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.systemPrompt = c.buildSystemPrompt()
	return c
}

func (c *ReActCompleter) buildSystemPrompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, systemPromptHeader, c.alias)
	for _, op := range c.operations {
		fmt.Fprintf(&sb, "- %s - %s\n", op.Signature, op.Description)
	}
	sb.WriteString(systemPromptFooter)
	return sb.String()
}

// NextStep asks the model for the next thought/action pair.
func (c *ReActCompleter) NextStep(ctx context.Context, req reactloop.StepRequest) (reactloop.StepResponse, error) {
	resp, err := c.client.Complete(ctx, Request{
		Provider:    c.provider,
		Model:       c.model,
		System:      c.systemPrompt,
		Prompt:      c.buildPrompt(req),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return reactloop.StepResponse{}, err
	}

	thought, action := ExtractStep(resp.Text)
	return reactloop.StepResponse{Thought: thought, Action: action}, nil
}

// buildPrompt renders the task, the turn history, and a dataset reminder
// into the user prompt.
func (c *ReActCompleter) buildPrompt(req reactloop.StepRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s\n\n", req.Task)

	lines := renderTurns(req.History)
	if len(lines) > 0 {
		sb.WriteString("Previous steps:\n")
		for _, line := range lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	if req.DatasetLoaded {
		fmt.Fprintf(&sb, "\nRemember: a dataset is already loaded in memory. Use '%s' directly as a parameter value, not as a string.\n", c.alias)
	}

	sb.WriteString("\nBased on the above, provide the next step. Start with 'Thought:' explaining your reasoning, then 'Action:' with a specific action to take.")
	return sb.String()
}

func renderTurns(turns []reactloop.Turn) []string {
	var lines []string
	for _, t := range turns {
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

var (
	thoughtPattern = regexp.MustCompile(`(?s)Thought:\s*(.*?)(?:Action:|$)`)
	actionPattern  = regexp.MustCompile(`(?s)Action:\s*(.*?)(?:\n\n|$)`)
)

// ExtractStep pulls the Thought and Action sections out of a model reply.
// Extraction is best effort; a reply without an Action section yields an
// empty action, which the loop reports back to the model.
func ExtractStep(text string) (thought, action string) {
	if m := thoughtPattern.FindStringSubmatch(text); m != nil {
		thought = strings.TrimSpace(m[1])
	}
	if m := actionPattern.FindStringSubmatch(text); m != nil {
		action = strings.TrimSpace(m[1])
	}
	return thought, action
}
