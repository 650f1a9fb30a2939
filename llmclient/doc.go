// Package llmclient provides a thin completion layer over LLM providers
// for the reason/act/observe loop.
//
// A Client routes plain text completion requests to registered
// ProviderAdapters, retrying transient failures with exponential backoff.
// GollmAdapter is the production adapter, backed by the gollm library;
// tests substitute their own adapters.
//
// ReActCompleter sits on top of the Client and implements
// reactloop.Completer: it builds the system prompt from the operation
// registry, renders the turn history, and extracts the Thought/Action
// pair from the model's reply.
package llmclient
