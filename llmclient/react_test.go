package llmclient

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/martinemde/analyst/reactloop"
)

var testOps = []OperationDoc{
	{Signature: "read_excel(file_path)", Description: "Read data from an Excel file"},
	{Signature: "examine_dataframe(df)", Description: "Examine dataset structure and columns"},
}

func TestSystemPromptListsOperations(t *testing.T) {
	completer := NewReActCompleter(NewClient(), testOps)

	prompt := completer.systemPrompt
	for _, want := range []string{
		"read_excel(file_path) - Read data from an Excel file",
		"examine_dataframe(df) - Examine dataset structure and columns",
		"finish(result)",
		"Thought:",
		"Action:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestSystemPromptUsesAlias(t *testing.T) {
	completer := NewReActCompleter(NewClient(), testOps, WithDatasetAlias("table"))
	if !strings.Contains(completer.systemPrompt, "use 'table'") {
		t.Errorf("system prompt does not mention alias: %s", completer.systemPrompt)
	}
}

func TestBuildPromptRendersHistory(t *testing.T) {
	completer := NewReActCompleter(NewClient(), testOps)
	now := time.Now()

	prompt := completer.buildPrompt(reactloop.StepRequest{
		Task:          "Summarize sales",
		DatasetLoaded: true,
		History: []reactloop.Turn{
			{Task: "Summarize sales", Timestamp: now},
			{Thought: "Load the file.", Action: `read_excel(file_path="sales.xlsx")`, Observation: "Loaded 100 rows", Timestamp: now},
		},
	})

	for _, want := range []string{
		"Task: Summarize sales",
		"Previous steps:",
		"Thought: Load the file.",
		`Action: read_excel(file_path="sales.xlsx")`,
		"Observation: Loaded 100 rows",
		"already loaded in memory",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q in:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptWithoutDataset(t *testing.T) {
	completer := NewReActCompleter(NewClient(), testOps)
	prompt := completer.buildPrompt(reactloop.StepRequest{Task: "Start"})
	if strings.Contains(prompt, "already loaded") {
		t.Errorf("unexpected dataset reminder in:\n%s", prompt)
	}
	if strings.Contains(prompt, "Previous steps:") {
		t.Errorf("unexpected history header in:\n%s", prompt)
	}
}

func TestExtractStep(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		thought string
		action  string
	}{
		{
			"both sections",
			"Thought: I should load the data.\nAction: read_excel(file_path='a.xlsx')",
			"I should load the data.",
			"read_excel(file_path='a.xlsx')",
		},
		{
			"action only",
			"Action: finish()",
			"",
			"finish()",
		},
		{
			"thought only",
			"Thought: I am stuck.",
			"I am stuck.",
			"",
		},
		{
			"neither",
			"Let me think about this differently.",
			"",
			"",
		},
		{
			"trailing prose after blank line",
			"Thought: Done.\nAction: finish(result='ok')\n\nThat completes the analysis.",
			"Done.",
			"finish(result='ok')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thought, action := ExtractStep(tt.text)
			if thought != tt.thought {
				t.Errorf("thought = %q, want %q", thought, tt.thought)
			}
			if action != tt.action {
				t.Errorf("action = %q, want %q", action, tt.action)
			}
		})
	}
}

func TestNextStepUsesClient(t *testing.T) {
	mock := &mockAdapter{name: "test", text: "Thought: load.\nAction: read_excel(file_path='x.xlsx')"}
	client := NewClient(WithProvider("test", mock))
	completer := NewReActCompleter(client, testOps)

	resp, err := completer.NextStep(context.Background(), reactloop.StepRequest{Task: "go"})
	if err != nil {
		t.Fatalf("NextStep failed: %v", err)
	}
	if resp.Thought != "load." {
		t.Errorf("thought = %q", resp.Thought)
	}
	if resp.Action != "read_excel(file_path='x.xlsx')" {
		t.Errorf("action = %q", resp.Action)
	}
}
