// Package speak defines the speech output side of the assistant.
package speak

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the synthesis capability cannot be reached
// or produced no audio.
var ErrUnavailable = errors.New("speech synthesis unavailable")

// Speaker voices a line of text. Say blocks until playback has finished,
// which is what serializes the assistant's listen/speak cycle.
type Speaker interface {
	Say(ctx context.Context, text string) error

	// Close releases any playback resources held by the speaker.
	Close() error
}
