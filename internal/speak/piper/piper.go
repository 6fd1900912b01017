// Package piper implements speak.Speaker using a Piper Wyoming protocol
// server for synthesis and the default output device for playback.
//
// Piper is a fast, local neural text-to-speech system. The linuxserver/piper
// container exposes the Wyoming protocol on TCP port 10200.
//
// Wyoming protocol format (per event):
//
//	<json_length> <payload_length>\n
//	<json_bytes>\n
//	<payload_bytes>   (if payload_length > 0)
package piper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/nadzzz/jarvisd/internal/speak"
)

// Speaker synthesizes text through a Piper Wyoming server and plays the
// result on the default audio output. Connections are per-utterance.
type Speaker struct {
	endpoint string
	voice    string
	timeout  time.Duration
}

// Options configures a Speaker.
type Options struct {
	Endpoint string // Wyoming TCP endpoint (host:port)
	Voice    string // Piper voice model name
	Timeout  time.Duration
}

// New creates a Piper speaker.
func New(opts Options) *Speaker {
	endpoint := strings.TrimPrefix(opts.Endpoint, "tcp://")
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Speaker{
		endpoint: endpoint,
		voice:    opts.Voice,
		timeout:  timeout,
	}
}

// Say synthesizes text and blocks until it has been played. Empty text is a
// no-op. Any synthesis or playback failure reports speak.ErrUnavailable.
func (s *Speaker) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pcm, format, err := s.synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: %v", speak.ErrUnavailable, err)
	}

	if err := play(pcm, format); err != nil {
		return fmt.Errorf("%w: playback: %v", speak.ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op — connections and playback are per-utterance.
func (s *Speaker) Close() error { return nil }

// audioFormat describes the PCM stream announced by an audio-start event.
type audioFormat struct {
	SampleRate int
	Channels   int
	Width      int // bytes per sample
}

// synthesize sends a synthesize event and collects the PCM audio chunks.
func (s *Speaker) synthesize(ctx context.Context, text string) ([]byte, audioFormat, error) {
	format := audioFormat{SampleRate: 22050, Channels: 1, Width: 2}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.endpoint)
	if err != nil {
		return nil, format, fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	slog.Debug("piper synthesize", "text_length", len(text), "voice", s.voice, "endpoint", s.endpoint)

	synthEvent := event{
		Type: "synthesize",
		Data: map[string]any{
			"text": text,
			"voice": map[string]any{
				"name": s.voice,
			},
		},
	}
	if err := writeEvent(conn, synthEvent, nil); err != nil {
		return nil, format, fmt.Errorf("sending synthesize event: %w", err)
	}

	// Response events: audio-start → audio-chunk* → audio-stop
	var pcm bytes.Buffer
	for {
		evt, payload, err := readEvent(conn)
		if err != nil {
			return nil, format, fmt.Errorf("reading piper event: %w", err)
		}

		switch evt.Type {
		case "audio-start":
			if rate, ok := evt.Data["rate"].(float64); ok {
				format.SampleRate = int(rate)
			}
			if ch, ok := evt.Data["channels"].(float64); ok {
				format.Channels = int(ch)
			}
			if w, ok := evt.Data["width"].(float64); ok {
				format.Width = int(w)
			}

		case "audio-chunk":
			pcm.Write(payload)

		case "audio-stop":
			slog.Debug("piper synthesis complete", "pcm_bytes", pcm.Len(), "rate", format.SampleRate)
			if pcm.Len() == 0 {
				return nil, format, fmt.Errorf("piper returned no audio")
			}
			return pcm.Bytes(), format, nil

		case "error":
			msg := "unknown error"
			if text, ok := evt.Data["text"].(string); ok {
				msg = text
			}
			return nil, format, fmt.Errorf("piper error: %s", msg)

		default:
			slog.Debug("piper unknown event", "type", evt.Type)
		}
	}
}

// play sends 16-bit little-endian PCM to the default output device and
// blocks until the stream has drained.
func play(pcm []byte, format audioFormat) error {
	if format.Width != 2 {
		return fmt.Errorf("unsupported sample width %d", format.Width)
	}
	if format.Channels < 1 || format.Channels > 2 {
		return fmt.Errorf("unsupported channel count %d", format.Channels)
	}

	sr := beep.SampleRate(format.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return fmt.Errorf("initializing output device: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(pcmStreamer(pcm, format.Channels), beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

// pcmStreamer adapts raw int16 PCM bytes to a beep.Streamer.
func pcmStreamer(pcm []byte, channels int) beep.Streamer {
	pos := 0
	sampleBytes := 2 * channels
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n := 0
		for n < len(samples) && pos+sampleBytes <= len(pcm) {
			left := int16(pcm[pos]) | int16(pcm[pos+1])<<8
			right := left
			if channels == 2 {
				right = int16(pcm[pos+2]) | int16(pcm[pos+3])<<8
			}
			samples[n][0] = float64(left) / 32768
			samples[n][1] = float64(right) / 32768
			pos += sampleBytes
			n++
		}
		return n, n > 0
	})
}
