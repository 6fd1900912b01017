// Package convo defines the conversational fallback backend.
//
// Every utterance that matches no command intent is forwarded here verbatim,
// so the assistant always attempts a best-effort answer instead of telling
// the user it didn't understand.
package convo

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the conversational capability cannot be
// reached or returned no usable text.
var ErrUnavailable = errors.New("conversational backend unavailable")

// Responder generates a spoken-style reply to a free-form prompt.
type Responder interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
