package askc

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*Client)

// WithRecognizer enables speech input.
func WithRecognizer(r Recognizer) Option {
	return func(c *Client) { c.recognizer = r }
}

// WithSynthesizer enables speech output.
func WithSynthesizer(s Synthesizer) Option {
	return func(c *Client) { c.synthesizer = s }
}

// WithLogger sets the logger used for failures that are only surfaced as chat bubbles.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSingleFlight serializes requests to the answer service so answers
// render in request order.
func WithSingleFlight(enabled bool) Option {
	return func(c *Client) { c.singleFlight = enabled }
}

// Client is the chat client. It is safe for concurrent use.
type Client struct {
	answers      AnswerService
	view         View
	recognizer   Recognizer
	synthesizer  Synthesizer
	logger       *zap.Logger
	singleFlight bool

	transcript *Transcript

	// renderMu keeps view order identical to transcript order.
	renderMu sync.Mutex

	// tail is closed when the most recently queued request finishes.
	// Only used with single flight.
	tailMu sync.Mutex
	tail   chan struct{}

	listening atomic.Int32
	pending   atomic.Int32
	wg        conc.WaitGroup
}

// New creates a client bound to its collaborators
func New(answers AnswerService, view View, opts ...Option) *Client {
	c := &Client{
		answers:    answers,
		view:       view,
		logger:     zap.NewNop(),
		transcript: NewTranscript(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitQuestion renders the question, clears the input field and asks the
// answer service in the background. Blank questions are ignored.
func (c *Client) SubmitQuestion(ctx context.Context, text string, spoken bool) {
	question := strings.TrimSpace(text)
	if question == "" {
		return
	}

	c.RenderMessage(question, User)
	c.view.ClearInput()

	c.pending.Add(1)
	if !c.singleFlight {
		c.wg.Go(func() {
			defer c.pending.Add(-1)
			c.exchange(ctx, question, spoken)
		})
		return
	}

	c.tailMu.Lock()
	prev := c.tail
	done := make(chan struct{})
	c.tail = done
	c.tailMu.Unlock()

	c.wg.Go(func() {
		defer c.pending.Add(-1)
		defer close(done)
		if prev != nil {
			<-prev
		}
		c.exchange(ctx, question, spoken)
	})
}

func (c *Client) exchange(ctx context.Context, question string, spoken bool) {
	c.logger.Debug("Sending question", zap.String("question", question))

	answer, err := c.answers.Ask(ctx, question)
	if err != nil {
		c.logger.Warn("Answer request failed", zap.String("question", question), zap.Error(err))
		c.RenderMessage(ConnectErrorText, Bot)
		return
	}

	c.RenderMessage(answer, Bot)
	if spoken {
		c.Speak(answer)
	}
}

// RenderMessage appends a message to the transcript and displays it.
func (c *Client) RenderMessage(text string, origin Origin) Message {
	msg := NewMessage(text, origin)

	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	c.transcript.Append(msg)
	c.view.Append(msg)
	return msg
}

// Speak reads text aloud. It returns before playback finishes.
func (c *Client) Speak(text string) {
	if c.synthesizer == nil {
		c.logger.Debug("No synthesizer configured, skipping speech")
		return
	}
	c.synthesizer.Speak(text)
}

// CanListen reports whether a recognizer is configured.
func (c *Client) CanListen() bool {
	return c.recognizer != nil
}

// Listening reports whether at least one capture is running.
func (c *Client) Listening() bool {
	return c.listening.Load() > 0
}

// StartListening renders the listening status and starts a capture in the
// background. The recognized text is submitted as a spoken question.
func (c *Client) StartListening(ctx context.Context) error {
	if c.recognizer == nil {
		return ErrRecognitionUnavailable
	}

	c.listening.Add(1)
	c.pending.Add(1)
	c.RenderMessage(ListeningText, Bot)

	c.wg.Go(func() {
		defer c.pending.Add(-1)
		result, err := c.recognizer.Recognize(ctx)
		c.listening.Add(-1)
		if err != nil {
			c.logger.Warn("Speech recognition failed", zap.Error(err))
			c.RenderMessage(HearErrorText, Bot)
			return
		}

		text, ok := result.First()
		if !ok || strings.TrimSpace(text) == "" {
			c.logger.Warn("Speech recognition returned no transcript")
			c.RenderMessage(HearErrorText, Bot)
			return
		}
		c.SubmitQuestion(ctx, text, true)
	})
	return nil
}

// Busy reports whether an exchange or capture is still running.
func (c *Client) Busy() bool {
	return c.pending.Load() > 0
}

// Messages returns a snapshot of the transcript
func (c *Client) Messages() []Message {
	return c.transcript.Messages()
}

// Transcript returns the live transcript
func (c *Client) Transcript() *Transcript {
	return c.transcript
}

// Wait blocks until every running exchange and capture has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}
