package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the client configuration
type Config struct {
	ServerURL          string        `toml:"server_url" mapstructure:"server_url"`
	AskPath            string        `toml:"ask_path" mapstructure:"ask_path"`
	Timeout            time.Duration `toml:"timeout" mapstructure:"timeout"` // 0 = no timeout
	SingleFlight       bool          `toml:"single_flight" mapstructure:"single_flight"`
	RecognizerCommand  string        `toml:"recognizer_command" mapstructure:"recognizer_command"`   // empty = microphone disabled
	SynthesizerCommand string        `toml:"synthesizer_command" mapstructure:"synthesizer_command"` // empty = auto-detect
	Markdown           bool          `toml:"markdown" mapstructure:"markdown"`
	TranscriptDir      string        `toml:"transcript_dir" mapstructure:"transcript_dir"`
	LogFile            string        `toml:"log_file" mapstructure:"log_file"`
	LogLevel           string        `toml:"log_level" mapstructure:"log_level"`
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(transcriptDir string) *Config {
	return &Config{
		ServerURL:          "http://localhost:5000",
		AskPath:            "/ask",
		Timeout:            0,
		SingleFlight:       false,
		RecognizerCommand:  "",
		SynthesizerCommand: "",
		Markdown:           true,
		TranscriptDir:      transcriptDir,
		LogFile:            "",
		LogLevel:           "info",
	}
}

// SetDefaults registers the default values with viper
func SetDefaults(v *viper.Viper, transcriptDir string) {
	d := NewDefaultConfig(transcriptDir)
	v.SetDefault("server_url", d.ServerURL)
	v.SetDefault("ask_path", d.AskPath)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("single_flight", d.SingleFlight)
	v.SetDefault("recognizer_command", d.RecognizerCommand)
	v.SetDefault("synthesizer_command", d.SynthesizerCommand)
	v.SetDefault("markdown", d.Markdown)
	v.SetDefault("transcript_dir", d.TranscriptDir)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from the given viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.RecognizerCommand = expandEnvVar(config.RecognizerCommand)
	config.SynthesizerCommand = expandEnvVar(config.SynthesizerCommand)

	if config.TranscriptDir != "" {
		absPath, err := ResolvePath(config.TranscriptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving transcript directory path '%s': %w", config.TranscriptDir, err)
		}
		config.TranscriptDir = absPath
	}
	if config.LogFile != "" {
		absPath, err := ResolvePath(config.LogFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving log file path '%s': %w", config.LogFile, err)
		}
		config.LogFile = absPath
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values that would otherwise fail at request time
func (c *Config) Validate() error {
	if _, err := c.AskURL(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative (got %s)", c.Timeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// AskURL returns the full URL of the answer endpoint
func (c *Config) AskURL() (string, error) {
	if c.ServerURL == "" {
		return "", fmt.Errorf("server URL is not configured. Set it in config file (server_url) or environment variable (ASKC_SERVER_URL)")
	}
	base, err := url.Parse(c.ServerURL)
	if err != nil {
		return "", fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", fmt.Errorf("invalid server_url %q: scheme must be http or https", c.ServerURL)
	}

	path := c.AskPath
	if path == "" {
		path = "/ask"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(base.String(), "/") + path, nil
}
