// Package llm talks to a chat completion endpoint and turns its free-text
// answers back into schema-complete records.
package llm

import (
	"context"
	"errors"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the minimal chat surface the normalization pipeline needs:
// prompt in, completion text out. Implementations may fail on transport
// errors; they make no promise about the completion's shape.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// ErrBadCompletion marks a completion that could not be decoded into a
// single JSON object.
var ErrBadCompletion = errors.New("completion is not a json object")
