package llmclient

import (
	"fmt"
	"strings"
)

// ClientError is the base error type for all llmclient errors.
type ClientError struct {
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ProviderError represents an error returned by an LLM provider.
type ProviderError struct {
	ClientError
	Provider   string
	StatusCode int
	Retryable  bool
	RetryAfter *float64 // seconds, from a Retry-After header when known
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("[%s] %s (status=%d, retryable=%v)", e.Provider, e.Message, e.StatusCode, e.Retryable)
}

// Concrete provider error types.

type AuthenticationError struct{ ProviderError }
type AccessDeniedError struct{ ProviderError }
type NotFoundError struct{ ProviderError }
type InvalidRequestError struct{ ProviderError }
type RateLimitError struct{ ProviderError }
type ServerError struct{ ProviderError }
type ContextLengthError struct{ ProviderError }

// Non-provider errors.

type RequestTimeoutError struct{ ClientError }
type AbortError struct{ ClientError }
type ConfigurationError struct{ ClientError }

// IsRetryable returns true if the error is safe to retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch e := err.(type) {
	case *AuthenticationError, *AccessDeniedError, *NotFoundError,
		*InvalidRequestError, *ContextLengthError,
		*AbortError, *ConfigurationError:
		return false
	case *RateLimitError:
		return true
	case *ServerError:
		return true
	case *RequestTimeoutError:
		return true
	case *ProviderError:
		return e.Retryable
	default:
		return false
	}
}

// ClassifyError maps a raw provider error onto the error hierarchy using
// message content. Providers surface failures as opaque error strings, so
// classification is necessarily heuristic; unrecognized errors default to
// retryable.
func ClassifyError(provider string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	base := ProviderError{
		ClientError: ClientError{Message: msg, Cause: err},
		Provider:    provider,
	}

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") || strings.Contains(lower, "invalid api key"):
		base.StatusCode = 401
		return &AuthenticationError{ProviderError: base}
	case strings.Contains(lower, "403") || strings.Contains(lower, "forbidden"):
		base.StatusCode = 403
		return &AccessDeniedError{ProviderError: base}
	case strings.Contains(lower, "404") || strings.Contains(lower, "not found"):
		base.StatusCode = 404
		return &NotFoundError{ProviderError: base}
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit"):
		base.StatusCode = 429
		base.Retryable = true
		return &RateLimitError{ProviderError: base}
	case strings.Contains(lower, "context length") || strings.Contains(lower, "too many tokens"):
		base.StatusCode = 413
		return &ContextLengthError{ProviderError: base}
	case strings.Contains(lower, "500") || strings.Contains(lower, "502") || strings.Contains(lower, "503") || strings.Contains(lower, "internal server") || strings.Contains(lower, "overloaded"):
		base.StatusCode = 500
		base.Retryable = true
		return &ServerError{ProviderError: base}
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return &RequestTimeoutError{ClientError: ClientError{Message: msg, Cause: err}}
	default:
		base.Retryable = true
		return &base
	}
}
