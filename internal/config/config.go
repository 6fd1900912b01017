// Package config handles loading and validating the jarvisd configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/viper"
)

// Config is the root configuration for the jarvisd daemon.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Assistant AssistantConfig   `mapstructure:"assistant"`
	Listen    ListenConfig      `mapstructure:"listen"`
	Speak     SpeakConfig       `mapstructure:"speak"`
	Convo     ConvoConfig       `mapstructure:"convo"`
	News      NewsConfig        `mapstructure:"news"`
	Sites     map[string]string `mapstructure:"sites"`
	Music     map[string]string `mapstructure:"music"`
	Logging   LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds the health check server and control socket settings.
type ServerConfig struct {
	HealthPort int    `mapstructure:"health_port"`
	SocketPath string `mapstructure:"socket_path"`
}

// AssistantConfig holds the wake phrase and loop behavior settings.
type AssistantConfig struct {
	WakeWord  string   `mapstructure:"wake_word"`
	ExitWords []string `mapstructure:"exit_words"`
	Chime     bool     `mapstructure:"chime"`
}

// ListenConfig configures the speech input adapter.
type ListenConfig struct {
	WhisperEndpoint string        `mapstructure:"whisper_endpoint"`
	Language        string        `mapstructure:"language"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// SpeakConfig configures the speech output adapter (Piper Wyoming server).
type SpeakConfig struct {
	PiperEndpoint string        `mapstructure:"piper_endpoint"`
	Voice         string        `mapstructure:"voice"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ConvoConfig holds the conversational backend settings.
// APIKey is mandatory: the CONVERSE fallback is the assistant's core behavior
// and the daemon refuses to start without it.
type ConvoConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// NewsConfig holds the news backend settings. An empty APIKey is not an
// error: it only degrades the news intent to a spoken "unavailable" reply.
type NewsConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Country string        `mapstructure:"country"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text, pretty
	File   string `mapstructure:"file"`   // optional log file, in addition to stdout
}

// defaultSites maps spoken site names to their canonical root URLs.
var defaultSites = map[string]string{
	"google":    "https://google.com",
	"youtube":   "https://youtube.com",
	"instagram": "https://instagram.com",
	"linkedin":  "https://linkedin.com",
	"facebook":  "https://facebook.com",
	"twitter":   "https://twitter.com",
	"reddit":    "https://reddit.com",
}

// defaultMusic maps spoken song names to playback URLs.
var defaultMusic = map[string]string{
	"skyfall":         "https://open.spotify.com/track/6VObnIkLVruX4UVyxWhlqm",
	"levitating":      "https://open.spotify.com/track/39LLxExYz6ewLAcYrzQQyP",
	"sugar":           "https://open.spotify.com/track/2iuZJX9X9P0GKaE93xcPjk",
	"despacito":       "https://open.spotify.com/track/6habFhsOp2NvshLv26DqMb",
	"faded":           "https://open.spotify.com/track/7BKLCZ1jbUBVqRi2FVlTVw",
	"dusk till dawn":  "https://open.spotify.com/track/3e7sxremeOE3wTySiOhGiP",
	"shape of you":    "https://open.spotify.com/track/7qiZfU4dY1lWllzX7mPBI3",
	"perfect":         "https://open.spotify.com/track/0tgVpDi06FyKpA1z0VMD4v",
	"believer":        "https://open.spotify.com/track/0pqnGHJpmpxLKifKRmU6WP",
	"blinding lights": "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b",
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./jarvisd.yaml, ./configs/jarvisd.yaml, /etc/jarvisd/jarvisd.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.socket_path", "/tmp/jarvisd.sock")
	v.SetDefault("assistant.wake_word", "jarvis")
	v.SetDefault("assistant.exit_words", []string{"goodbye", "stop", "quit", "exit"})
	v.SetDefault("assistant.chime", true)
	v.SetDefault("listen.whisper_endpoint", "http://localhost:8000/v1/audio/transcriptions")
	v.SetDefault("listen.language", "en")
	v.SetDefault("listen.timeout", 30*time.Second)
	v.SetDefault("speak.piper_endpoint", "localhost:10200")
	v.SetDefault("speak.voice", "en_US-lessac-medium")
	v.SetDefault("speak.timeout", 30*time.Second)
	v.SetDefault("convo.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("convo.model", "gpt-4o-mini")
	v.SetDefault("convo.timeout", 30*time.Second)
	v.SetDefault("news.api_key", "${NEWS_API_KEY}")
	v.SetDefault("news.country", "us")
	v.SetDefault("news.timeout", 10*time.Second)
	v.SetDefault("sites", defaultSites)
	v.SetDefault("music", defaultMusic)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "jarvisd.log")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("jarvisd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/jarvisd")
	}

	// Environment variables: JARVISD_CONVO_API_KEY, JARVISD_LISTEN_WHISPER_ENDPOINT, etc.
	v.SetEnvPrefix("JARVISD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}")
	cfg.Convo.APIKey = resolveEnvRef(cfg.Convo.APIKey)
	cfg.News.APIKey = resolveEnvRef(cfg.News.APIKey)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate enforces the startup invariants. A missing conversational API key
// is fatal: without it the assistant has no fallback for unmatched commands.
func (c *Config) validate() error {
	if c.Convo.APIKey == "" {
		return fmt.Errorf("convo.api_key is required (set OPENAI_API_KEY or JARVISD_CONVO_API_KEY)")
	}
	if c.Assistant.WakeWord == "" {
		return fmt.Errorf("assistant.wake_word must not be empty")
	}
	if len(c.Sites) == 0 {
		return fmt.Errorf("sites registry must not be empty")
	}
	if c.News.APIKey == "" {
		slog.Warn("news.api_key not set, news intent will be unavailable")
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
// An unresolved reference collapses to empty so validation sees a missing key.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
// When a log file is configured, records go to both stdout and the file;
// a file that cannot be opened is logged and skipped, never fatal.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			slog.Warn("cannot open log file, logging to stdout only", "path", cfg.File, "error", err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case "pretty":
		handler = tint.NewHandler(out, &tint.Options{Level: level})
	default:
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
