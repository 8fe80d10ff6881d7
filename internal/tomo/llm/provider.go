// Package llm provides the remote text-generation layer for Tomo.
//
// The layer sits between the reply orchestrator and an OpenAI-compatible
// chat-completions endpoint.  Its sole responsibility is producing one short
// generated reply for a prompt kind plus conversation context; everything
// around availability (transient-error retries, failure classification,
// degradation to local templates) is made explicit here so the orchestrator
// can stay a simple two-branch decision.
//
// Failure taxonomy:
//   - HTTP 429 and 5xx responses are transient: the upstream is expected to
//     recover, so they are retried with exponential backoff.
//   - Everything else (auth failures, other 4xx, network errors, timeouts,
//     unparseable bodies, empty completions) is permanent for the current
//     call and terminates it immediately.
//
// No failure of any kind escapes the reply boundary as a panic; callers
// receive a descriptive error and are expected to degrade to the
// deterministic fallback.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Kind selects the tone constraints of the generated reply.
type Kind string

const (
	KindTalk     Kind = "talk"
	KindSupport  Kind = "support"
	KindMotivate Kind = "motivate"
)

// Turn is one prior message of the conversation window included in the
// prompt.  Role is "user" or "assistant".
type Turn struct {
	Role string
	Text string
}

// Request is the input to a single generation call.  History must already
// be the bounded recent window, ordered oldest first; the provider embeds
// it verbatim.
type Request struct {
	Kind     Kind
	UserText string
	History  []Turn
}

// Provider produces a generated reply for a request.
//
// Implementations must be safe for concurrent use.  A failed call returns a
// descriptive error; callers degrade to the template fallback and never
// surface provider errors to the end user.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// APIError is a non-2xx response from the generation endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("llm: unexpected HTTP status %d", e.Status)
	}
	return fmt.Sprintf("llm: HTTP %d: %s", e.Status, e.Message)
}

// Transient reports whether the status is worth retrying: rate limiting or
// a server-side failure.
func (e *APIError) Transient() bool {
	return e.Status == 429 || e.Status >= 500
}

// IsTransient reports whether err represents a transient provider failure.
// Used as the retry predicate: only transient failures consume additional
// attempts.
func IsTransient(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Transient()
}
