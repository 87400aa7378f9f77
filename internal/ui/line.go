package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/longkey1/askc/internal/askc"
)

// LineView implements askc.View by printing each message as a labelled line.
type LineView struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLineView creates a view writing to out
func NewLineView(out io.Writer) *LineView {
	return &LineView{out: out}
}

// Append prints the message
func (v *LineView) Append(msg askc.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "%s> %s\n", msg.Origin.Label(), msg.Text)
}

// ClearInput does nothing: the prompt has already consumed the line.
func (v *LineView) ClearInput() {}

// LineReader reads one line of input. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// NewReadline creates the prompt used by RunLine
func NewReadline(historyFile string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[1m?\033[0m ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("creating prompt: %w", err)
	}
	return rl, nil
}

// RunLine reads questions and commands until EOF, interrupt or /exit.
// Messages go to the client's view; help and command output go to out.
func RunLine(ctx context.Context, chat Chat, in LineReader, out io.Writer, save SaveFunc) error {
	fmt.Fprintf(out, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n\n")

	for {
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}

		input := strings.TrimSpace(line)
		if strings.HasPrefix(input, "/") {
			if !handleCommand(ctx, input, chat, out, save) {
				break
			}
			continue
		}

		chat.SubmitQuestion(ctx, line, false)
	}

	fmt.Fprintln(out, "Goodbye!")
	return nil
}

// handleCommand processes a slash command.
// Returns true to continue the loop, false to exit.
func handleCommand(ctx context.Context, command string, chat Chat, out io.Writer, save SaveFunc) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch {
	case command == "/help" || command == "/h":
		fmt.Fprintln(out, "\nAvailable commands:")
		if chat.CanListen() {
			fmt.Fprintln(out, "  /mic, /m      - Ask by voice (answer is read aloud)")
		}
		if save != nil {
			fmt.Fprintln(out, "  /save, /s     - Save the transcript")
		}
		fmt.Fprintln(out, "  /clear, /c    - Clear screen")
		fmt.Fprintln(out, "  /exit, /quit  - Exit")
		fmt.Fprintln(out, "  Ctrl+D        - Exit")
		fmt.Fprintln(out, "")
		return true

	case (command == "/mic" || command == "/m") && chat.CanListen():
		if err := chat.StartListening(ctx); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return true

	case (command == "/save" || command == "/s") && save != nil:
		path, err := save()
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "Transcript saved: %s\n", path)
		}
		return true

	case command == "/clear" || command == "/c":
		fmt.Fprint(out, "\033[H\033[2J")
		return true

	case command == "/exit" || command == "/quit" || command == "/q":
		return false

	default:
		fmt.Fprintf(out, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}
