// Package speech provides speech recognition and synthesis backed by
// external commands (say, espeak, whisper wrappers and the like).
package speech

import (
	"fmt"
	"os/exec"
	"strings"
)

// SplitCommand splits a command line into program and arguments.
// Single and double quotes group words; a backslash escapes the next rune
// outside single quotes.
//
// Example:
//
//	name, args, err := SplitCommand(`espeak -v "en-us" -s 160`)
//	// name = "espeak", args = ["-v", "en-us", "-s", "160"]
func SplitCommand(command string) (string, []string, error) {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range command {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t' || r == '\n':
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return "", nil, fmt.Errorf("unterminated %c quote in command: %s", quote, command)
	}
	if escaped {
		return "", nil, fmt.Errorf("trailing backslash in command: %s", command)
	}
	if inWord {
		words = append(words, current.String())
	}
	if len(words) == 0 {
		return "", nil, fmt.Errorf("command cannot be empty")
	}

	return words[0], words[1:], nil
}

// synthesizerCandidates are tried in order when no synthesizer command is configured.
var synthesizerCandidates = []string{"say", "espeak-ng", "espeak", "spd-say"}

// DetectSynthesizer returns the first known text-to-speech program found on PATH.
func DetectSynthesizer() (string, bool) {
	for _, name := range synthesizerCandidates {
		if _, err := exec.LookPath(name); err == nil {
			return name, true
		}
	}
	return "", false
}
