// Jarvisd is a resident voice assistant daemon. It waits for the wake
// phrase, classifies the spoken command, executes the matching action
// (open a site, play a song, read the news, tell the time or date, or ask
// the conversational backend), and speaks the response.
//
// Usage:
//
//	jarvisd [flags]
//	jarvisd --config /path/to/jarvisd.yaml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nadzzz/jarvisd/internal/assistant"
	"github.com/nadzzz/jarvisd/internal/config"
	convoopenai "github.com/nadzzz/jarvisd/internal/convo/openai"
	"github.com/nadzzz/jarvisd/internal/health"
	"github.com/nadzzz/jarvisd/internal/intent"
	"github.com/nadzzz/jarvisd/internal/ipc"
	"github.com/nadzzz/jarvisd/internal/launch"
	"github.com/nadzzz/jarvisd/internal/listen/mic"
	"github.com/nadzzz/jarvisd/internal/listen/whisper"
	"github.com/nadzzz/jarvisd/internal/news"
	"github.com/nadzzz/jarvisd/internal/notify"
	"github.com/nadzzz/jarvisd/internal/speak/piper"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := pflag.Bool("version", false, "print version and exit")
	configFile := pflag.StringP("config", "c", "", "path to config file (e.g. configs/jarvisd.yaml)")
	envFile := pflag.StringP("env", "e", ".env", "env file with API keys")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("jarvisd %s\n", version)
		os.Exit(0)
	}

	// API keys may live in a .env file next to the binary.
	_ = godotenv.Load(*envFile)

	// Load configuration. A missing conversational API key is fatal here,
	// before any loop iteration runs.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("jarvisd starting", "version", version, "wake_word", cfg.Assistant.WakeWord)

	// Root context with signal handling for graceful shutdown. The cancel
	// func is shared with the control socket's stop command.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Speech input: microphone capture + whisper transcription.
	source, err := mic.Open()
	if err != nil {
		slog.Error("failed to open audio input", "error", err)
		os.Exit(1)
	}
	recognizer := whisper.New(source, whisper.Options{
		Endpoint: cfg.Listen.WhisperEndpoint,
		Language: cfg.Listen.Language,
		Timeout:  cfg.Listen.Timeout,
	})
	defer recognizer.Close()

	// Speech output: Piper synthesis + local playback.
	speaker := piper.New(piper.Options{
		Endpoint: cfg.Speak.PiperEndpoint,
		Voice:    cfg.Speak.Voice,
		Timeout:  cfg.Speak.Timeout,
	})
	defer speaker.Close()

	// Backend adapters.
	responder := convoopenai.New(convoopenai.Options{
		APIKey:  cfg.Convo.APIKey,
		Model:   cfg.Convo.Model,
		Timeout: cfg.Convo.Timeout,
	})
	newsClient := news.New(news.Options{
		APIKey:  cfg.News.APIKey,
		Country: cfg.News.Country,
		Timeout: cfg.News.Timeout,
	})

	var chime func()
	if cfg.Assistant.Chime {
		chime = notify.Chime
	}

	asst := assistant.New(assistant.Config{
		Recognizer: recognizer,
		Speaker:    speaker,
		Responder:  responder,
		News:       newsClient,
		Launcher:   launch.System{},
		Classifier: intent.NewClassifier(cfg.Sites, cfg.Music, cfg.Assistant.ExitWords),
		Sites:      cfg.Sites,
		Music:      cfg.Music,
		WakeWord:   cfg.Assistant.WakeWord,
		Chime:      chime,
	})

	// Side servers: health endpoint and control socket.
	var wg sync.WaitGroup

	healthServer := health.New(cfg.Server.HealthPort)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	if cfg.Server.SocketPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ipc.Serve(ctx, cfg.Server.SocketPath, func(msg ipc.ControlMessage) {
				switch msg.Cmd {
				case "stop":
					slog.Info("stop requested via control socket")
					cancel()
				case "say":
					if err := speaker.Say(ctx, msg.Text); err != nil {
						slog.Warn("control say failed", "error", err)
					}
				default:
					slog.Warn("unknown control command", "cmd", msg.Cmd)
				}
			})
			if err != nil {
				slog.Error("control socket failed", "error", err)
			}
		}()
	}

	healthServer.SetReady(true)
	slog.Info("jarvisd ready", "health_port", cfg.Server.HealthPort)

	// Run the assistant loop on the main goroutine; it returns on an exit
	// command or on context cancellation.
	if err := asst.Run(ctx); err != nil {
		slog.Error("assistant loop failed", "error", err)
	}

	cancel()
	wg.Wait()
	slog.Info("jarvisd stopped")
}
