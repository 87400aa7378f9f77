package cmd

import (
	"github.com/longkey1/askc/internal/answer"
	"github.com/longkey1/askc/internal/askc"
	"github.com/longkey1/askc/internal/askc/config"
	"github.com/longkey1/askc/internal/speech"
	"go.uber.org/zap"
)

// chatDeps holds the collaborators of a chat client
type chatDeps struct {
	answers     *answer.Client
	recognizer  askc.Recognizer
	synthesizer *speech.CommandSynthesizer
}

// close stops speech output after queued utterances finish
func (d *chatDeps) close() {
	if d.synthesizer != nil {
		d.synthesizer.Close()
	}
}

// stopSpeech interrupts the utterance being played and drops queued ones
func (d *chatDeps) stopSpeech() {
	if d.synthesizer != nil {
		d.synthesizer.Stop()
	}
}

// options returns the askc options for the configured collaborators
func (d *chatDeps) options(cfg *config.Config, logger *zap.Logger) []askc.Option {
	opts := []askc.Option{
		askc.WithLogger(logger),
		askc.WithSingleFlight(cfg.SingleFlight),
	}
	if d.recognizer != nil {
		opts = append(opts, askc.WithRecognizer(d.recognizer))
	}
	if d.synthesizer != nil {
		opts = append(opts, askc.WithSynthesizer(d.synthesizer))
	}
	return opts
}

// newChatDeps creates the answer client and speech providers from the configuration.
// Speech providers that cannot be set up are left out, which disables the feature.
func newChatDeps(cfg *config.Config, logger *zap.Logger) (*chatDeps, error) {
	answers, err := answer.NewClient(cfg, answer.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}
	deps := &chatDeps{answers: answers}

	if cfg.RecognizerCommand != "" {
		rec, err := speech.NewCommandRecognizer(cfg.RecognizerCommand)
		if err != nil {
			logger.Warn("Speech input disabled", zap.Error(err))
		} else {
			deps.recognizer = rec
		}
	}

	synthCommand := cfg.SynthesizerCommand
	if synthCommand == "" {
		if detected, ok := speech.DetectSynthesizer(); ok {
			synthCommand = detected
			logger.Debug("Detected speech synthesizer", zap.String("command", detected))
		}
	}
	if synthCommand != "" {
		synth, err := speech.NewCommandSynthesizer(synthCommand, logger)
		if err != nil {
			logger.Warn("Speech output disabled", zap.Error(err))
		} else {
			deps.synthesizer = synth
		}
	}

	return deps, nil
}
