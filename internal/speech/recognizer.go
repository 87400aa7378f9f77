package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/longkey1/askc/internal/askc"
)

// CommandRecognizer captures speech by running an external command.
// The command records and transcribes one utterance, then prints the
// transcript on stdout: one line per segment, tab-separated alternatives
// ordered best first.
type CommandRecognizer struct {
	name string
	args []string
}

// NewCommandRecognizer creates a recognizer from a command line
func NewCommandRecognizer(command string) (*CommandRecognizer, error) {
	name, args, err := SplitCommand(command)
	if err != nil {
		return nil, fmt.Errorf("invalid recognizer command: %w", err)
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("recognizer program not found: %w", err)
	}
	return &CommandRecognizer{name: name, args: args}, nil
}

// Recognize runs the command once and parses its output.
func (r *CommandRecognizer) Recognize(ctx context.Context) (askc.Recognition, error) {
	cmd := exec.CommandContext(ctx, r.name, r.args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return askc.Recognition{}, fmt.Errorf("recognizer %s failed: %w: %s", r.name, err, msg)
		}
		return askc.Recognition{}, fmt.Errorf("recognizer %s failed: %w", r.name, err)
	}

	return ParseTranscript(string(out)), nil
}

// ParseTranscript converts recognizer output into a Recognition.
// Blank lines and blank alternatives are skipped.
func ParseTranscript(out string) askc.Recognition {
	var result askc.Recognition
	for _, line := range strings.Split(out, "\n") {
		var seg askc.Segment
		for _, alt := range strings.Split(line, "\t") {
			alt = strings.TrimSpace(alt)
			if alt == "" {
				continue
			}
			seg.Alternatives = append(seg.Alternatives, askc.Alternative{Transcript: alt})
		}
		if len(seg.Alternatives) == 0 {
			continue
		}
		// Alternatives arrive best first without scores; rank them by position.
		for i := range seg.Alternatives {
			seg.Alternatives[i].Confidence = 1 / float64(i+1)
		}
		result.Segments = append(result.Segments, seg)
	}
	return result
}
