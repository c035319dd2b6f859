/*
Package ui is a terminal chat front-end for the shopping assistant,
speaking to a running server through the API client.
*/
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theapemachine/shopchat/pkg/client"
)

const gap = "\n\n"

type model struct {
	viewport     viewport.Model
	messages     []string
	textarea     textarea.Model
	senderStyle  lipgloss.Style
	botStyle     lipgloss.Style
	errorStyle   lipgloss.Style
	api          *client.Client
	sessionToken string
}

// New builds the chat model around an already authenticated API client.
func New(api *client.Client) tea.Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about products, prices, or type help..."
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 500

	ta.SetWidth(80)
	ta.SetHeight(3)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false

	vp := viewport.New(80, 20)
	vp.SetContent(`Welcome to the shopping assistant!
Type a message and press Enter to chat.
Try "show me smartphones under $500" or "help".
Press Ctrl+C or Esc to quit.`)

	ta.KeyMap.InsertNewline.SetEnabled(false)

	return model{
		textarea:    ta,
		messages:    []string{},
		viewport:    vp,
		senderStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		botStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		api:         api,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.textarea.SetWidth(msg.Width)
		m.viewport.Height = msg.Height - m.textarea.Height() - lipgloss.Height(gap) - 2

		if len(m.messages) > 0 {
			m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(strings.Join(m.messages, "\n")))
		}
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			userMessage := strings.TrimSpace(m.textarea.Value())
			if userMessage != "" {
				m.messages = append(m.messages, m.senderStyle.Render("You: ")+userMessage)

				reply, sessionToken := m.send(userMessage)
				m.sessionToken = sessionToken
				m.messages = append(m.messages, reply)

				m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(strings.Join(m.messages, "\n")))
				m.textarea.Reset()
				m.viewport.GotoBottom()
			}
		}
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m model) View() string {
	return fmt.Sprintf(
		"%s%s%s",
		m.viewport.View(),
		gap,
		m.textarea.View(),
	)
}

// send runs one chat round trip and returns the rendered reply plus the
// session token to use for the next message, so the whole conversation
// lands in one session server-side.
func (m model) send(userMessage string) (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := m.api.Chat(ctx, userMessage, m.sessionToken)
	if err != nil {
		return m.errorStyle.Render("Error: ") + err.Error(), m.sessionToken
	}

	return m.botStyle.Render("Assistant: ") + result.Reply.Text, result.SessionToken
}
