package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v, filepath.Join(t.TempDir(), "transcripts"))
	return v
}

func TestLoadFromDefaults(t *testing.T) {
	v := newViper(t)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.ServerURL)
	assert.Equal(t, "/ask", cfg.AskPath)
	assert.Zero(t, cfg.Timeout)
	assert.False(t, cfg.SingleFlight)
	assert.True(t, cfg.Markdown)
	assert.Empty(t, cfg.RecognizerCommand)
	assert.True(t, filepath.IsAbs(cfg.TranscriptDir))
}

func TestLoadFromOverrides(t *testing.T) {
	v := newViper(t)
	v.Set("server_url", "https://chat.example.org/")
	v.Set("timeout", "15s")
	v.Set("single_flight", true)
	t.Setenv("ASKC_TEST_RECOGNIZER", "whisper-listen --once")
	v.Set("recognizer_command", "${ASKC_TEST_RECOGNIZER}")

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.True(t, cfg.SingleFlight)
	assert.Equal(t, "whisper-listen --once", cfg.RecognizerCommand)

	askURL, err := cfg.AskURL()
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.org/ask", askURL)
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "empty server url", key: "server_url", value: ""},
		{name: "non http scheme", key: "server_url", value: "ftp://example.org"},
		{name: "negative timeout", key: "timeout", value: "-1s"},
		{name: "unknown log level", key: "log_level", value: "chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			v.Set(tt.key, tt.value)
			_, err := LoadFrom(v)
			assert.Error(t, err)
		})
	}
}

func TestAskURL(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		path    string
		want    string
		wantErr bool
	}{
		{name: "default path", server: "http://localhost:5000", path: "", want: "http://localhost:5000/ask"},
		{name: "trailing slash", server: "http://localhost:5000/", path: "/ask", want: "http://localhost:5000/ask"},
		{name: "relative path", server: "http://host", path: "api/ask", want: "http://host/api/ask"},
		{name: "base with prefix", server: "https://host/bot", path: "/ask", want: "https://host/bot/ask"},
		{name: "missing server", server: "", path: "/ask", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ServerURL: tt.server, AskPath: tt.path}
			got, err := cfg.AskURL()
			if (err != nil) != tt.wantErr {
				t.Fatalf("AskURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AskURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("ASKC_TEST_VALUE", "espeak -v en")

	tests := []struct {
		input string
		want  string
	}{
		{input: "say", want: "say"},
		{input: "$ASKC_TEST_VALUE", want: "espeak -v en"},
		{input: "${ASKC_TEST_VALUE}", want: "espeak -v en"},
		{input: "$ASKC_TEST_UNSET", want: ""},
		{input: "$HOME/bin/listen --once", want: "$HOME/bin/listen --once"},
	}
	for _, tt := range tests {
		if got := expandEnvVar(tt.input); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x")
	got, err := ResolvePath(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	got, err = ResolvePath("transcripts")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "transcripts", filepath.Base(got))
}
