// Package whisper implements listen.Recognizer against a whisper-compatible
// HTTP transcription endpoint (whisper.cpp server, faster-whisper, or the
// OpenAI transcription API shape).
package whisper

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nadzzz/jarvisd/internal/listen"
	"github.com/nadzzz/jarvisd/internal/listen/mic"
)

// Source provides raw utterance audio, 16 kHz mono float32.
// *mic.Source is the production implementation.
type Source interface {
	Record(ctx context.Context) ([]float32, error)
	Close() error
}

// Recognizer captures audio from a Source and transcribes it over HTTP.
type Recognizer struct {
	source   Source
	endpoint string
	language string
	timeout  time.Duration
	client   *http.Client
}

// Options configures a Recognizer.
type Options struct {
	Endpoint string
	Language string
	Timeout  time.Duration
}

// New creates a Recognizer over the given audio source.
func New(source Source, opts Options) *Recognizer {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Recognizer{
		source:   source,
		endpoint: opts.Endpoint,
		language: opts.Language,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

// Recognize records one utterance and returns its lowercase transcription.
// A capture with no speech, an unreachable endpoint, or an empty transcript
// all report listen.ErrUnavailable.
func (r *Recognizer) Recognize(ctx context.Context) (string, error) {
	pcm, err := r.source.Record(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: capture failed: %v", listen.ErrUnavailable, err)
	}
	if len(pcm) == 0 {
		return "", fmt.Errorf("%w: no speech captured", listen.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.transcribe(ctx, pcmToWAV(pcm, mic.SampleRate))
	if err != nil {
		if ctx.Err() != nil && ctx.Err() != context.DeadlineExceeded {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", listen.ErrUnavailable, err)
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", fmt.Errorf("%w: empty transcription", listen.ErrUnavailable)
	}

	slog.Debug("utterance recognized", "text", text)
	return text, nil
}

// Close releases the underlying audio source.
func (r *Recognizer) Close() error {
	return r.source.Close()
}

// transcribe POSTs a WAV payload to the whisper endpoint.
func (r *Recognizer) transcribe(ctx context.Context, wav []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "utterance.wav")
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	if r.language != "" {
		_ = writer.WriteField("language", r.language)
	}
	_ = writer.WriteField("response_format", "json")
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding transcription: %w", err)
	}

	return result.Text, nil
}

// pcmToWAV converts float32 samples to a 16-bit mono WAV file.
func pcmToWAV(pcm []float32, sampleRate int) []byte {
	dataLen := len(pcm) * 2
	buf := &bytes.Buffer{}
	buf.Grow(44 + dataLen)

	// RIFF header
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	// fmt subchunk: PCM, mono, 16-bit
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))

	// data subchunk
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range pcm {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		_ = binary.Write(buf, binary.LittleEndian, int16(s*32767))
	}

	return buf.Bytes()
}
