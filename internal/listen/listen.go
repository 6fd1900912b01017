// Package listen defines the speech input side of the assistant.
//
// A Recognizer captures a single spoken utterance and returns the recognized
// text. It performs no retries of its own: the main loop decides whether a
// failed capture is retried (silently, while idle) or surfaced.
package listen

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the recognition capability cannot be
// reached or produced no usable text.
var ErrUnavailable = errors.New("speech recognition unavailable")

// Recognizer converts one spoken utterance to text. Recognize blocks until
// an utterance has been captured and transcribed, or the context is done.
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)

	// Close releases any audio resources held by the recognizer.
	Close() error
}
