package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/askc/internal/askc"
)

// Renderer turns transcript messages into styled terminal text.
// Rendered messages are cached by ID until the width changes.
type Renderer struct {
	width    int
	markdown bool
	md       *glamour.TermRenderer
	cache    map[string]string
}

// NewRenderer creates a renderer. With markdown enabled, bot answers are
// rendered through glamour.
func NewRenderer(markdown bool) *Renderer {
	return &Renderer{
		width:    80,
		markdown: markdown,
		cache:    make(map[string]string),
	}
}

// SetWidth sets the wrap width and drops cached output
func (r *Renderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width == r.width && (r.md != nil || !r.markdown) {
		return
	}
	r.width = width
	r.cache = make(map[string]string)
	r.md = nil

	if r.markdown {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width-4),
		)
		if err == nil {
			r.md = md
		}
	}
}

// Render returns the styled form of one message
func (r *Renderer) Render(msg askc.Message) string {
	if out, ok := r.cache[msg.ID]; ok {
		return out
	}

	var label string
	if msg.IsUser() {
		label = userLabelStyle.Render(msg.Origin.Label())
	} else {
		label = botLabelStyle.Render(msg.Origin.Label())
	}

	out := label + "\n" + r.body(msg)
	if msg.ID != "" {
		r.cache[msg.ID] = out
	}
	return out
}

func (r *Renderer) body(msg askc.Message) string {
	wrap := lipgloss.NewStyle().Width(r.width)

	switch {
	case msg.IsUser():
		return wrap.Render(msg.Text)
	case msg.Text == askc.ConnectErrorText || msg.Text == askc.HearErrorText:
		return wrap.Inherit(errorStyle).Render(msg.Text)
	case msg.Text == askc.ListeningText:
		return wrap.Inherit(statusStyle).Render(msg.Text)
	case r.md != nil:
		out, err := r.md.Render(msg.Text)
		if err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wrap.Render(msg.Text)
}

// RenderAll renders a transcript, one blank line between messages
func (r *Renderer) RenderAll(msgs []askc.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, r.Render(msg))
	}
	return strings.Join(parts, "\n\n")
}
