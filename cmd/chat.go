/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/longkey1/askc/internal/askc"
	"github.com/longkey1/askc/internal/askc/archive"
	"github.com/longkey1/askc/internal/askc/config"
	"github.com/longkey1/askc/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	plainMode      bool
	noMarkdown     bool
	chatNoSpeech   bool
	chatSaveOnExit bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat with the answer service.

By default a full-screen view is used: type a question and press Enter.
If speech input is configured (recognizer_command), press Ctrl+R to ask by voice;
answers to spoken questions are read aloud.

Use --plain for a line-mode prompt that works in any terminal.

Examples:
  askc chat                                 # Full-screen chat
  askc chat --plain                         # Line-mode chat
  askc chat --server https://bot.example.org`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if noMarkdown {
			cfg.Markdown = false
		}
		if chatNoSpeech {
			cfg.RecognizerCommand = ""
		}

		logger, err := newLogger(cfg, !plainMode)
		if err != nil {
			return err
		}
		defer logger.Sync()

		deps, err := newChatDeps(cfg, logger)
		if err != nil {
			return fmt.Errorf("creating answer client: %w", err)
		}
		if chatNoSpeech && deps.synthesizer != nil {
			deps.synthesizer.Close()
			deps.synthesizer = nil
		}
		defer deps.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		store := archive.NewStore(cfg.TranscriptDir)
		var client *askc.Client
		save := func() (string, error) {
			return saveTranscript(store, deps.answers.Endpoint(), client)
		}

		logger.Info("Starting chat",
			zap.String("endpoint", deps.answers.Endpoint()),
			zap.Bool("speech_input", deps.recognizer != nil),
			zap.Bool("speech_output", deps.synthesizer != nil),
			zap.Bool("single_flight", cfg.SingleFlight))

		if plainMode {
			rl, err := ui.NewReadline(filepath.Join(userConfigDir(), "history"))
			if err != nil {
				return err
			}
			defer rl.Close()

			client = askc.New(deps.answers, ui.NewLineView(rl.Stdout()), deps.options(cfg, logger)...)
			fmt.Fprintf(os.Stderr, "\n=== askc [%s] ===\n", deps.answers.Endpoint())
			if err := ui.RunLine(ctx, client, rl, rl.Stderr(), save); err != nil {
				return fmt.Errorf("interactive mode: %w", err)
			}
		} else {
			view := ui.NewTUIView()
			client = askc.New(deps.answers, view, deps.options(cfg, logger)...)
			if err := ui.RunTUI(ctx, client, view, ui.NewRenderer(cfg.Markdown), save); err != nil {
				return err
			}
		}

		// The screen is gone, nobody is listening anymore
		deps.stopSpeech()

		// Let answers that are still on their way land in the transcript
		if client.Busy() {
			fmt.Fprintln(os.Stderr, "Waiting for pending answers (Ctrl+C to abort)...")
		}
		client.Wait()

		if chatSaveOnExit && len(client.Messages()) > 0 {
			path, err := save()
			if err != nil {
				return fmt.Errorf("saving transcript: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Transcript saved: %s\n", path)
		}
		return nil
	},
}

// saveTranscript archives the client's transcript and returns the file path
func saveTranscript(store *archive.Store, endpoint string, client *askc.Client) (string, error) {
	record := archive.NewRecord(endpoint, client.Messages())
	if err := store.Save(record); err != nil {
		return "", err
	}
	return store.Path(record.ID), nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&plainMode, "plain", false, "Use a line-mode prompt instead of the full-screen view")
	chatCmd.Flags().BoolVar(&noMarkdown, "no-markdown", false, "Show answers as plain text")
	chatCmd.Flags().BoolVar(&chatNoSpeech, "no-speech", false, "Disable speech input and output")
	chatCmd.Flags().BoolVar(&chatSaveOnExit, "save", false, "Save the transcript when the chat ends")
}
