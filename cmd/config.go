package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/longkey1/askc/internal/askc/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, server_url, ask_path, ask_url, timeout, single_flight, recognizer_command, synthesizer_command, markdown, transcript_dir, log_file, log_level"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file, .env file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  askc config                 # Show all configuration
  askc config server_url      # Show only the server URL
  askc config ask_url         # Show the resolved answer endpoint`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		askURL, _ := cfg.AskURL()

		if len(args) > 0 {
			field := strings.ToLower(strings.ReplaceAll(args[0], "-", "_"))
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "server_url":
				fmt.Println(cfg.ServerURL)
			case "ask_path":
				fmt.Println(cfg.AskPath)
			case "ask_url":
				fmt.Println(askURL)
			case "timeout":
				fmt.Println(cfg.Timeout)
			case "single_flight":
				fmt.Println(cfg.SingleFlight)
			case "recognizer_command":
				fmt.Println(cfg.RecognizerCommand)
			case "synthesizer_command":
				fmt.Println(cfg.SynthesizerCommand)
			case "markdown":
				fmt.Println(cfg.Markdown)
			case "transcript_dir":
				fmt.Println(cfg.TranscriptDir)
			case "log_file":
				fmt.Println(cfg.LogFile)
			case "log_level":
				fmt.Println(cfg.LogLevel)
			default:
				fmt.Fprintf(os.Stderr, "Available fields: %s\n", configFields)
				return fmt.Errorf("unknown field: %s", args[0])
			}
			return nil
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("ServerURL: %s\n", cfg.ServerURL)
		fmt.Printf("AskPath: %s\n", cfg.AskPath)
		fmt.Printf("AskURL: %s\n", askURL)
		fmt.Printf("Timeout: %s\n", cfg.Timeout)
		fmt.Printf("SingleFlight: %v\n", cfg.SingleFlight)
		fmt.Printf("RecognizerCommand: %s\n", orNone(cfg.RecognizerCommand))
		fmt.Printf("SynthesizerCommand: %s\n", orNone(cfg.SynthesizerCommand))
		fmt.Printf("Markdown: %v\n", cfg.Markdown)
		fmt.Printf("TranscriptDir: %s\n", cfg.TranscriptDir)
		fmt.Printf("LogFile: %s\n", orNone(cfg.LogFile))
		fmt.Printf("LogLevel: %s\n", cfg.LogLevel)
		return nil
	},
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}

func init() {
	rootCmd.AddCommand(configCmd)
}
