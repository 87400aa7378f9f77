package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/longkey1/askc/internal/askc"
)

// AnswerWriter implements askc.View for one-shot use: only bot answers
// are printed, as bare text, so output can be piped. The listening status
// is not an answer and is left to the caller.
type AnswerWriter struct {
	mu      sync.Mutex
	out     io.Writer
	last    askc.Message
	printed bool
}

// NewAnswerWriter creates a view writing answers to out
func NewAnswerWriter(out io.Writer) *AnswerWriter {
	return &AnswerWriter{out: out}
}

// Append prints bot messages
func (w *AnswerWriter) Append(msg askc.Message) {
	if msg.IsUser() || msg.Text == askc.ListeningText {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = msg
	w.printed = true
	fmt.Fprintln(w.out, msg.Text)
}

// ClearInput does nothing: there is no input field.
func (w *AnswerWriter) ClearInput() {}

// Failed reports whether nothing was printed or the last printed message
// was one of the error literals.
func (w *AnswerWriter) Failed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.printed {
		return true
	}
	return w.last.Text == askc.ConnectErrorText || w.last.Text == askc.HearErrorText
}
