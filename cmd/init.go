package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/askc/internal/askc/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/askc/config.toml by default.
You can specify a different location using the --config option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile := filepath.Join(userConfigDir(), "config.toml")
		if cfgFile != "" {
			configFile = cfgFile
		}

		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}

		transcriptDir := filepath.Join(configDir, "transcripts")
		cfg := config.NewDefaultConfig(transcriptDir)

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		defer f.Close()

		if err := writeConfig(f, cfg); err != nil {
			return err
		}

		if err := os.MkdirAll(transcriptDir, 0755); err != nil {
			return fmt.Errorf("failed to create transcript directory: %w", err)
		}

		fmt.Printf("Configuration file created at: %s\n", configFile)
		fmt.Printf("Transcript directory created at: %s\n", transcriptDir)
		return nil
	},
}

// fileConfig is the on-disk shape of Config. Durations are written as
// strings ("30s") so the file stays readable.
type fileConfig struct {
	ServerURL          string `toml:"server_url"`
	AskPath            string `toml:"ask_path"`
	Timeout            string `toml:"timeout"`
	SingleFlight       bool   `toml:"single_flight"`
	RecognizerCommand  string `toml:"recognizer_command"`
	SynthesizerCommand string `toml:"synthesizer_command"`
	Markdown           bool   `toml:"markdown"`
	TranscriptDir      string `toml:"transcript_dir"`
	LogFile            string `toml:"log_file"`
	LogLevel           string `toml:"log_level"`
}

func writeConfig(w io.Writer, cfg *config.Config) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(fileConfig{
		ServerURL:          cfg.ServerURL,
		AskPath:            cfg.AskPath,
		Timeout:            cfg.Timeout.String(),
		SingleFlight:       cfg.SingleFlight,
		RecognizerCommand:  cfg.RecognizerCommand,
		SynthesizerCommand: cfg.SynthesizerCommand,
		Markdown:           cfg.Markdown,
		TranscriptDir:      cfg.TranscriptDir,
		LogFile:            cfg.LogFile,
		LogLevel:           cfg.LogLevel,
	}); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
