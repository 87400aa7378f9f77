package speech

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// queueSize bounds the number of utterances waiting to be spoken.
const queueSize = 32

// CommandSynthesizer speaks text by running an external command with the
// text appended as its last argument. Utterances are played one at a time
// in the order they were requested.
type CommandSynthesizer struct {
	name   string
	args   []string
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	queue  chan string

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

// NewCommandSynthesizer creates a synthesizer from a command line and starts its worker
func NewCommandSynthesizer(command string, logger *zap.Logger) (*CommandSynthesizer, error) {
	name, args, err := SplitCommand(command)
	if err != nil {
		return nil, fmt.Errorf("invalid synthesizer command: %w", err)
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("synthesizer program not found: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &CommandSynthesizer{
		name:   name,
		args:   args,
		logger: logger,
		queue:  make(chan string, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	s.wg.Go(s.run)
	return s, nil
}

// Speak queues text for playback and returns immediately.
func (s *CommandSynthesizer) Speak(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Debug("Synthesizer closed, dropping utterance")
		return
	}
	select {
	case s.queue <- text:
	default:
		s.logger.Warn("Speech queue full, dropping utterance", zap.Int("queued", queueSize))
	}
}

func (s *CommandSynthesizer) run() {
	for text := range s.queue {
		args := append(append([]string(nil), s.args...), text)
		cmd := exec.CommandContext(s.ctx, s.name, args...)
		if err := cmd.Run(); err != nil {
			if s.ctx.Err() != nil {
				continue
			}
			s.logger.Warn("Speech synthesis failed", zap.String("command", s.name), zap.Error(err))
		}
	}
}

// Close lets queued utterances finish and stops the worker.
func (s *CommandSynthesizer) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.cancel()
}

// Stop interrupts the current utterance, drops the queue and stops the worker.
func (s *CommandSynthesizer) Stop() {
	s.cancel()
	s.Close()
}
