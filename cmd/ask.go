/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/longkey1/askc/internal/askc"
	"github.com/longkey1/askc/internal/askc/archive"
	"github.com/longkey1/askc/internal/askc/config"
	"github.com/longkey1/askc/internal/ui"
	"github.com/spf13/cobra"
)

var (
	askSpeak  bool
	askListen bool
	askSave   bool
)

// errAskFailed makes the process exit non-zero after the failure text was already printed
var errAskFailed = errors.New("no answer")

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Ask a single question and print the answer to stdout.

The question can be given as arguments or piped through stdin.
With --listen the question is captured from the microphone instead
(requires recognizer_command). Answers to spoken questions are read aloud;
use --speak to read the answer aloud for a typed question as well.

The command exits with status 1 if the answer service could not be reached.

Examples:
  askc ask "What is the capital of France?"
  echo "What is naloxone?" | askc ask
  askc ask --listen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var question string
		if !askListen {
			if len(args) > 0 {
				question = strings.Join(args, " ")
			} else {
				input, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading from stdin: %w", err)
				}
				question = string(input)
			}
			question = strings.TrimSpace(question)
			if question == "" {
				return fmt.Errorf("question is required")
			}
		} else if len(args) > 0 {
			return fmt.Errorf("--listen does not take a question argument")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		deps, err := newChatDeps(cfg, logger)
		if err != nil {
			return fmt.Errorf("creating answer client: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		writer := ui.NewAnswerWriter(os.Stdout)
		client := askc.New(deps.answers, writer, deps.options(cfg, logger)...)

		if verbose {
			fmt.Fprintf(os.Stderr, "Endpoint: %s\n", deps.answers.Endpoint())
		}

		if askListen {
			if err := client.StartListening(ctx); err != nil {
				deps.close()
				return fmt.Errorf("speech input: %w (set recognizer_command)", err)
			}
			fmt.Fprintln(os.Stderr, askc.ListeningText)
		} else {
			client.SubmitQuestion(ctx, question, askSpeak)
		}

		client.Wait()
		// Close waits for queued speech to finish playing
		deps.close()

		if askSave {
			store := archive.NewStore(cfg.TranscriptDir)
			path, err := saveTranscript(store, deps.answers.Endpoint(), client)
			if err != nil {
				return fmt.Errorf("saving transcript: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Transcript saved: %s\n", path)
		}

		if writer.Failed() {
			return errAskFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&askSpeak, "speak", false, "Read the answer aloud")
	askCmd.Flags().BoolVarP(&askListen, "listen", "l", false, "Capture the question from the microphone")
	askCmd.Flags().BoolVar(&askSave, "save", false, "Save the exchange as a transcript")
}
