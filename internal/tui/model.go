package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shoprag/internal/answer"
	"shoprag/internal/domain"
)

// AskPort is the TUI-facing subset of the answer service.
type AskPort interface {
	Answer(ctx context.Context, req answer.Request) (*domain.AnswerResult, error)
}

// Model is the Bubble Tea model for the interactive ask console.
type Model struct {
	service  AskPort
	shopID   string
	userLang string
	input    textinput.Model
	viewport viewport.Model
	result   *domain.AnswerResult
	status   string
	ready    bool
}

// New creates a new console model bound to one shop and user language.
func New(service AskPort, shopID, userLang string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about a product and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		shopID:   shopID,
		userLang: userLang,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("Shop %s, language %s. Type a question.", shopID, userLang),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.Answer(context.Background(), answer.Request{
					ShopID:   m.shopID,
					Question: q,
					UserLang: m.userLang,
				})
				if err != nil {
					m.status = "Error: " + err.Error()
					m.result = nil
				} else {
					m.status = fmt.Sprintf("Answered in %dms", res.LatencyMS)
					m.result = res
				}
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the console layout and the latest answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Product Q&A Console")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	result := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + result + "\n" + input + "\n" + status
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No answer yet."
	}
	var b strings.Builder
	b.WriteString(m.result.Answer)
	b.WriteString("\n\n")
	if m.result.UsedFallback {
		b.WriteString(fallbackStyle.Render(fmt.Sprintf("Fallback: answered from %s content", m.result.FallbackLang)))
		b.WriteString("\n")
	}
	if len(m.result.CitedProducts) > 0 {
		b.WriteString("Cited products: " + strings.Join(m.result.CitedProducts, ", "))
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	fallbackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
