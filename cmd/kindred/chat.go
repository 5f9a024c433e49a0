// This file implements the interactive chat interface using bubbletea.
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kindred/internal/dialog"
	"kindred/internal/kb"
)

var (
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)

const banner = `kindred - I reason about family relationships.

Tell me facts:      alice is the mother of bob
Ask me questions:   who are the children of alice?
                    are bob and carol siblings?
Exit with Ctrl+C or "bye".`

// chatModel is the model for the interactive chat interface
type chatModel struct {
	textinput textinput.Model
	viewport  viewport.Model

	history []string
	width   int
	height  int
	ready   bool

	kb        *kb.KnowledgeBase
	responder *dialog.Responder

	seedEvents <-chan kb.SeedEvent
	stopWatch  func()
}

type seedMsg kb.SeedEvent

// waitForSeed delivers the next seed reload as a tea message.
func waitForSeed(events <-chan kb.SeedEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return seedMsg(ev)
	}
}

func initChat(k *kb.KnowledgeBase, seedEvents <-chan kb.SeedEvent, stopWatch func()) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Tell me a fact or ask a question..."
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 256
	ti.Width = 80

	return chatModel{
		textinput:  ti,
		history:    []string{bannerStyle.Render(banner)},
		kb:         k,
		responder:  dialog.NewResponder(k),
		seedEvents: seedEvents,
		stopWatch:  stopWatch,
	}
}

func (m chatModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.seedEvents != nil {
		cmds = append(cmds, waitForSeed(m.seedEvents))
	}
	return tea.Batch(cmds...)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.textinput.Width = msg.Width - 4
		m.refresh()
		return m, nil

	case seedMsg:
		if msg.Err != nil {
			m.append(noticeStyle.Render(fmt.Sprintf("seed reload failed: %v", msg.Err)))
		} else {
			m.append(noticeStyle.Render(fmt.Sprintf(
				"seed reloaded: %d applied, %d rejected", msg.Report.Applied, msg.Report.Rejected)))
		}
		return m, waitForSeed(m.seedEvents)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.stopWatch != nil {
				m.stopWatch()
			}
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textinput.Value())
			m.textinput.Reset()
			if input == "" {
				return m, nil
			}
			if input == "bye" || input == "exit" || input == "quit" {
				if m.stopWatch != nil {
					m.stopWatch()
				}
				return m, tea.Quit
			}
			m.append(userStyle.Render("you: ") + input)
			m.append(botStyle.Render("kindred: ") + m.responder.Process(input))
			return m, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *chatModel) append(line string) {
	m.history = append(m.history, line)
	m.refresh()
}

func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m chatModel) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.viewport.View() + "\n\n" + m.textinput.View()
}

// runInteractiveChat starts the interactive chat interface
func runInteractiveChat() error {
	k, err := newKnowledgeBase()
	if err != nil {
		return err
	}

	var (
		events <-chan kb.SeedEvent
		stop   func()
	)
	if watchSeed && seedPath != "" {
		events, stop, err = k.WatchSeed(seedPath)
		if err != nil {
			return fmt.Errorf("failed to watch seed file: %w", err)
		}
	}

	p := tea.NewProgram(
		initChat(k, events, stop),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
