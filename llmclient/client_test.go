package llmclient

import (
	"context"
	"errors"
	"testing"
)

// mockAdapter is a test double for ProviderAdapter.
type mockAdapter struct {
	name  string
	text  string
	err   error
	calls int
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &Response{Text: m.text, Model: "test-model", Provider: m.name}, nil
}

// sequenceAdapter fails n times, then succeeds.
type sequenceAdapter struct {
	name     string
	failures int
	err      error
	text     string
	calls    int
}

func (s *sequenceAdapter) Name() string { return s.name }

func (s *sequenceAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, s.err
	}
	return &Response{Text: s.text, Provider: s.name}, nil
}

func fastRetry(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:        maxRetries,
		BaseDelay:         0.001,
		MaxDelay:          0.01,
		BackoffMultiplier: 1.0,
	}
}

func TestClientComplete(t *testing.T) {
	mock := &mockAdapter{name: "test", text: "Thought: done.\nAction: finish()"}
	client := NewClient(WithProvider("test", mock))

	resp, err := client.Complete(context.Background(), Request{Prompt: "Task: x"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != mock.text {
		t.Errorf("text = %q", resp.Text)
	}
	if mock.calls != 1 {
		t.Errorf("calls = %d, want 1", mock.calls)
	}
}

func TestClientSingleProviderBecomesDefault(t *testing.T) {
	mock := &mockAdapter{name: "only", text: "hi"}
	client := NewClient(WithProvider("only", mock))

	if _, err := client.Complete(context.Background(), Request{Prompt: "x"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}

func TestClientUnknownProvider(t *testing.T) {
	client := NewClient(WithProvider("a", &mockAdapter{name: "a"}), WithDefaultProvider("a"))

	_, err := client.Complete(context.Background(), Request{Provider: "b", Prompt: "x"})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want ConfigurationError", err)
	}
}

func TestClientNoDefaultProvider(t *testing.T) {
	client := NewClient(
		WithProvider("a", &mockAdapter{name: "a"}),
		WithProvider("b", &mockAdapter{name: "b"}),
	)

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want ConfigurationError", err)
	}
}

func TestClientRetriesTransientFailure(t *testing.T) {
	adapter := &sequenceAdapter{
		name:     "flaky",
		failures: 2,
		err:      &ServerError{ProviderError: ProviderError{ClientError: ClientError{Message: "503"}, Retryable: true}},
		text:     "ok",
	}
	client := NewClient(WithProvider("flaky", adapter), WithRetryPolicy(fastRetry(2)))

	resp, err := client.Complete(context.Background(), Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("text = %q", resp.Text)
	}
	if adapter.calls != 3 {
		t.Errorf("calls = %d, want 3", adapter.calls)
	}
}

func TestClientDoesNotRetryAuthFailure(t *testing.T) {
	adapter := &mockAdapter{
		name: "locked",
		err:  &AuthenticationError{ProviderError: ProviderError{ClientError: ClientError{Message: "401"}}},
	}
	client := NewClient(WithProvider("locked", adapter), WithRetryPolicy(fastRetry(3)))

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if adapter.calls != 1 {
		t.Errorf("calls = %d, want 1", adapter.calls)
	}
}
