// Package assistant implements the core listen → recognize → classify →
// dispatch → respond loop.
//
// The loop is a small state machine driven by a single goroutine. All I/O
// happens through the injected capability interfaces, so the machine itself
// stays testable with fakes. Once Run has started, nothing short of context
// cancellation or an exit command stops it: recognition failures are retried
// silently and adapter failures become spoken apologies.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nadzzz/jarvisd/internal/convo"
	"github.com/nadzzz/jarvisd/internal/intent"
	"github.com/nadzzz/jarvisd/internal/launch"
	"github.com/nadzzz/jarvisd/internal/listen"
	"github.com/nadzzz/jarvisd/internal/news"
	"github.com/nadzzz/jarvisd/internal/speak"
)

// State is a phase of the assistant's command cycle.
type State int

const (
	// StateIdle listens for the wake phrase.
	StateIdle State = iota
	// StateCapturing obtains the command text for an activated cycle.
	StateCapturing
	// StateDispatching classifies the command and runs its handler.
	StateDispatching
	// StateSpeaking voices the handler's response.
	StateSpeaking
	// StateTerminated is terminal; the process exits after reaching it.
	StateTerminated
)

// Config assembles the assistant's capabilities and vocabulary.
type Config struct {
	Recognizer listen.Recognizer
	Speaker    speak.Speaker
	Responder  convo.Responder
	News       news.Provider
	Launcher   launch.Launcher

	Classifier *intent.Classifier
	Sites      map[string]string
	Music      map[string]string
	WakeWord   string

	// Chime, when non-nil, is played on wake-phrase detection.
	Chime func()

	// Now is the clock used for time and date replies. Defaults to time.Now.
	Now func() time.Time
}

// Assistant runs the voice command loop.
type Assistant struct {
	recognizer listen.Recognizer
	speaker    speak.Speaker
	responder  convo.Responder
	news       news.Provider
	launcher   launch.Launcher

	classifier *intent.Classifier
	sites      map[string]string
	music      map[string]string
	wakeWord   string
	chime      func()
	now        func() time.Time
}

// New creates an Assistant from its capabilities.
func New(cfg Config) *Assistant {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Assistant{
		recognizer: cfg.Recognizer,
		speaker:    cfg.Speaker,
		responder:  cfg.Responder,
		news:       cfg.News,
		launcher:   cfg.Launcher,
		classifier: cfg.Classifier,
		sites:      cfg.Sites,
		music:      cfg.Music,
		wakeWord:   cfg.WakeWord,
		chime:      cfg.Chime,
		now:        now,
	}
}

// Run executes command cycles until an exit command is handled or the
// context is cancelled. The state value is threaded explicitly through the
// loop; nothing outside this function mutates it.
func (a *Assistant) Run(ctx context.Context) error {
	a.say(ctx, "Jarvis is online. Say jarvis followed by your command.")

	var (
		state    = StateIdle
		command  string
		response string
		leaving  bool
	)

	for state != StateTerminated {
		if ctx.Err() != nil {
			slog.Info("assistant stopping", "reason", context.Cause(ctx))
			return nil
		}

		switch state {
		case StateIdle:
			text, err := a.recognizer.Recognize(ctx)
			if err != nil {
				// Silent retry: the adapter's own capture window paces
				// the loop, so this does not busy-spin.
				if !errors.Is(err, context.Canceled) {
					slog.Debug("recognition failed, retrying", "error", err)
				}
				continue
			}
			slog.Info("utterance recognized", "text", text)

			remainder, woke := WakeRemainder(text, a.wakeWord)
			if !woke {
				continue
			}
			if a.chime != nil {
				a.chime()
			}
			command = remainder
			state = StateCapturing

		case StateCapturing:
			if command == "" {
				// Bare wake phrase: prompt and capture one more utterance.
				a.say(ctx, "Yes, how can I help you?")
				text, err := a.recognizer.Recognize(ctx)
				if err != nil {
					slog.Debug("command capture failed", "error", err)
					state = StateIdle
					continue
				}
				command = text
			}
			state = StateDispatching

		case StateDispatching:
			response, leaving = a.Dispatch(ctx, command)
			state = StateSpeaking

		case StateSpeaking:
			a.say(ctx, response)
			command, response = "", ""
			if leaving {
				state = StateTerminated
			} else {
				state = StateIdle
			}
		}
	}

	slog.Info("assistant terminated by exit command")
	return nil
}

// Dispatch classifies one command and runs the matching handler. It returns
// the response to speak and whether this was an exit command. Handler errors
// never escape: they are logged and converted to spoken apologies here.
func (a *Assistant) Dispatch(ctx context.Context, command string) (string, bool) {
	c := a.classifier.Classify(command)
	logger := slog.With("intent", c.Intent.String(), "command", command)
	logger.Info("command classified")

	if c.Intent == intent.Exit {
		return "Goodbye! Have a great day.", true
	}

	response, err := a.handle(ctx, c)
	if err != nil {
		logger.Warn("handler failed", "error", err)
		return apology(c.Intent, err), false
	}
	logger.Info("handler complete")
	return response, false
}

// say voices a response. Speech output failures are logged and swallowed:
// the loop must keep listening even when the synthesizer is down.
func (a *Assistant) say(ctx context.Context, text string) {
	if text == "" {
		return
	}
	if err := a.speaker.Say(ctx, text); err != nil {
		slog.Warn("speech output failed", "error", err)
	}
}
