package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChatPort is the TUI-facing subset of the retrieval coordinator.
type ChatPort interface {
	Query(text, sessionID string) (answer string, sources, sourceLinks []string, err error)
	NewSession() string
	ClearSession(id string)
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	service    ChatPort
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	sessionID  string
	status     string
	ready      bool
}

// New creates a chat model bound to a fresh session. banner is shown as the
// initial status line (typically the ingestion result).
func New(service ChatPort, banner string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the courses and press Enter (/clear resets)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if banner == "" {
		banner = "Ready."
	}
	return Model{
		service:   service,
		input:     ti,
		viewport:  vp,
		sessionID: service.NewSession(),
		status:    banner,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.input.SetValue("")
			if q == "/clear" {
				m.service.ClearSession(m.sessionID)
				m.transcript = nil
				m.status = "Conversation cleared."
				m.viewport.SetContent(m.renderTranscript())
				return m, nil
			}
			m.transcript = append(m.transcript, youStyle.Render("You: ")+q)
			answer, sources, sourceLinks, err := m.service.Query(q, m.sessionID)
			if err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.transcript = append(m.transcript, assistantStyle.Render("Assistant: ")+answer)
				if footer := renderSources(sources, sourceLinks); footer != "" {
					m.transcript = append(m.transcript, footer)
				}
				m.status = "Answered."
			}
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Course Chat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No messages yet. Ask about course content or outlines."
	}
	return strings.Join(m.transcript, "\n\n")
}

func renderSources(sources, sourceLinks []string) string {
	if len(sources) == 0 {
		return ""
	}
	lines := make([]string, 0, len(sources))
	for i, s := range sources {
		line := "  • " + s
		if i < len(sourceLinks) && sourceLinks[i] != "" {
			line += " (" + sourceLinks[i] + ")"
		}
		lines = append(lines, line)
	}
	return sourceStyle.Render("Sources:\n" + strings.Join(lines, "\n"))
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
