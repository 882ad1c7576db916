package synthesis

import (
	"context"
	"errors"
)

// DocumentContext carries the document material a response may draw on.
type DocumentContext struct {
	Title   string
	Summary string
}

// Turn is one prior exchange in a conversation.
type Turn struct {
	Role    string
	Content string
}

// Request captures everything a backend needs to synthesize a reply.
type Request struct {
	Message   string
	Persona   string
	History   []Turn
	Documents []DocumentContext
}

// Client abstracts the generative backend. The template implementation is the
// default; a real LLM provider can be substituted without changing call sites.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrGeneration is returned when a backend fails to synthesize a response.
// Callers surface it as a temporary-unavailability error and never retry.
var ErrGeneration = errors.New("response generation failed")

// PlaceholderClient is a stub for unconfigured providers.
type PlaceholderClient struct{}

// Generate always fails with ErrGeneration.
func (PlaceholderClient) Generate(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrGeneration
}
