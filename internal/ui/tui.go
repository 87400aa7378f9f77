package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/askc/internal/askc"
)

// Chat is the part of the chat client the front ends drive.
type Chat interface {
	SubmitQuestion(ctx context.Context, text string, spoken bool)
	StartListening(ctx context.Context) error
	CanListen() bool
	Listening() bool
	Messages() []askc.Message
}

// SaveFunc saves the current transcript and returns where it went.
type SaveFunc func() (string, error)

// TUIView implements askc.View for the full-screen front end. It never
// blocks: appends only wake the program, which then re-reads the transcript.
type TUIView struct {
	notify chan struct{}
	done   chan struct{}
	closed atomic.Bool
	clear  atomic.Bool
}

// NewTUIView creates a view to pass to askc.New and NewModel
func NewTUIView() *TUIView {
	return &TUIView{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Append wakes the program to show the new message
func (v *TUIView) Append(askc.Message) {
	v.poke()
}

// ClearInput asks the program to empty the text field
func (v *TUIView) ClearInput() {
	v.clear.Store(true)
	v.poke()
}

// Close releases the goroutine waiting for updates
func (v *TUIView) Close() {
	if v.closed.CompareAndSwap(false, true) {
		close(v.done)
	}
}

func (v *TUIView) poke() {
	select {
	case v.notify <- struct{}{}:
	default:
	}
}

type transcriptChangedMsg struct{}

func (v *TUIView) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-v.notify:
			return transcriptChangedMsg{}
		case <-v.done:
			return nil
		}
	}
}

// Model is the bubbletea model of the chat screen
type Model struct {
	ctx      context.Context
	chat     Chat
	view     *TUIView
	save     SaveFunc
	renderer *Renderer

	viewport viewport.Model
	input    textinput.Model
	ready    bool
	width    int
	status   string
}

// NewModel creates the chat screen. save may be nil to disable ctrl+s.
func NewModel(ctx context.Context, chat Chat, view *TUIView, renderer *Renderer, save SaveFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question... (Enter to send)"
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	return Model{
		ctx:      ctx,
		chat:     chat,
		view:     view,
		save:     save,
		renderer: renderer,
		input:    ti,
	}
}

// Init starts the cursor blink and the transcript watcher
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.view.waitForChange())
}

// Update handles key presses, resizes and transcript changes
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		inputWidth := msg.Width - inputBorderStyle.GetHorizontalFrameSize()
		m.input.Width = inputWidth - len(m.input.Prompt) - 1
		height := msg.Height - inputBorderStyle.GetVerticalFrameSize() - 2
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.renderer.SetWidth(msg.Width)
		m.refresh()
		return m, nil

	case transcriptChangedMsg:
		m.refresh()
		return m, m.view.waitForChange()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.view.Close()
			return m, tea.Quit

		case "enter":
			m.status = ""
			m.chat.SubmitQuestion(m.ctx, m.input.Value(), false)
			m.refresh()
			return m, nil

		case "ctrl+r":
			if !m.chat.CanListen() {
				break
			}
			m.status = ""
			if err := m.chat.StartListening(m.ctx); err != nil {
				m.status = err.Error()
			}
			m.refresh()
			return m, nil

		case "ctrl+s":
			if m.save == nil {
				break
			}
			if path, err := m.save(); err != nil {
				m.status = fmt.Sprintf("Save failed: %v", err)
			} else {
				m.status = "Saved to " + path
			}
			return m, nil

		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// refresh re-renders the transcript, keeps the newest message visible and
// applies a pending input clear.
func (m *Model) refresh() {
	if m.view.clear.Swap(false) {
		m.input.Reset()
	}
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderer.RenderAll(m.chat.Messages()))
	m.viewport.GotoBottom()
}

// View renders the screen
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(inputBorderStyle.Width(m.width - inputBorderStyle.GetHorizontalFrameSize()).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) helpLine() string {
	keys := []string{"enter send"}
	if m.chat.CanListen() {
		keys = append(keys, "ctrl+r speak")
	}
	if m.save != nil {
		keys = append(keys, "ctrl+s save")
	}
	keys = append(keys, "pgup/pgdown scroll", "ctrl+c quit")

	line := helpStyle.Render(strings.Join(keys, " • "))
	if m.chat.Listening() {
		line = listeningStyle.Render("● listening") + "  " + line
	}
	if m.status != "" {
		line += "  " + statusStyle.Render(m.status)
	}
	return line
}

// RunTUI runs the chat screen until the user quits
func RunTUI(ctx context.Context, chat Chat, view *TUIView, renderer *Renderer, save SaveFunc) error {
	defer view.Close()

	p := tea.NewProgram(NewModel(ctx, chat, view, renderer, save), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running chat screen: %w", err)
	}
	return nil
}
