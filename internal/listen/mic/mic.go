// Package mic captures utterances from the default input device.
//
// Capture runs at 16 kHz mono, waits for speech to start, and stops after a
// short run of silence or the maximum utterance length. End-of-utterance is
// a plain RMS gate — real voice activity detection belongs to the external
// recognition service, not here.
package mic

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate is the capture rate expected by whisper-style endpoints.
	SampleRate = 16000

	frameSize        = 320 // 20ms at 16kHz
	silenceThreshRMS = 0.015
	silenceFrames    = 30 // 600ms of trailing silence ends the utterance
	maxUtteranceSec  = 12
)

// Source records single utterances from the default microphone.
type Source struct{}

// Open initializes the audio subsystem and returns a Source.
func Open() (*Source, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	return &Source{}, nil
}

// Close terminates the audio subsystem.
func (s *Source) Close() error {
	return portaudio.Terminate()
}

// Record captures one utterance and returns its PCM samples. It returns an
// empty slice when the capture window elapsed without any speech.
func (s *Source) Record(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("opening input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("starting input stream: %w", err)
	}
	defer stream.Stop()

	var (
		speaking bool
		silent   int
	)

	deadline := time.Now().Add(maxUtteranceSec * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("reading input stream: %w", err)
		}

		if frameRMS(buf) > silenceThreshRMS {
			speaking = true
			silent = 0
			out = append(out, buf...)
			continue
		}
		if speaking {
			silent++
			if silent >= silenceFrames {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
