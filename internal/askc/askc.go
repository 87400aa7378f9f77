// Package askc provides the core chat client: it mediates between input
// sources (typed text, speech recognition), the remote answer service and
// the transcript/speech outputs.
//
// Example usage:
//
//	client := askc.New(answer.NewClient(cfg), view,
//		askc.WithSynthesizer(synth),
//		askc.WithRecognizer(rec),
//	)
//	client.SubmitQuestion(ctx, "What is naloxone?", false)
//	client.Wait()
package askc

import (
	"context"
	"errors"
)

// User-visible literals rendered as Bot messages.
const (
	ConnectErrorText = "Error: Unable to connect to the server."
	HearErrorText    = "Sorry, I couldn't hear you. Please try again."
	ListeningText    = "Listening..."
)

// ErrRecognitionUnavailable is returned by StartListening when no recognizer is configured.
var ErrRecognitionUnavailable = errors.New("speech recognition is not available")

// AnswerService maps a question to an answer.
type AnswerService interface {
	Ask(ctx context.Context, question string) (string, error)
}

// View displays the transcript and owns the text-input field.
// Append must leave the newest message visible.
type View interface {
	Append(msg Message)
	ClearInput()
}

// Alternative is one candidate transcript for a recognized segment.
type Alternative struct {
	Transcript string
	Confidence float64
}

// Segment is one recognized stretch of speech, alternatives ordered best first.
type Segment struct {
	Alternatives []Alternative
}

// Recognition is the result of a single capture.
type Recognition struct {
	Segments []Segment
}

// First returns the first alternative of the first segment.
func (r Recognition) First() (string, bool) {
	if len(r.Segments) == 0 || len(r.Segments[0].Alternatives) == 0 {
		return "", false
	}
	return r.Segments[0].Alternatives[0].Transcript, true
}

// Recognizer captures audio and converts it to text.
type Recognizer interface {
	Recognize(ctx context.Context) (Recognition, error)
}

// Synthesizer speaks text aloud. Speak must not block on playback.
type Synthesizer interface {
	Speak(text string)
}
