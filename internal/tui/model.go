// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kanadrill/internal/drill"
	"github.com/verte-zerg/kanadrill/internal/model"
	"github.com/verte-zerg/kanadrill/internal/selector"
	statsPkg "github.com/verte-zerg/kanadrill/internal/stats"
	"github.com/verte-zerg/kanadrill/internal/store"
)

// Model implements the Bubble Tea drill UI.
type Model struct {
	config  model.Config
	store   *store.Store
	sel     *selector.Selector
	session *drill.Session
	input   textinput.Model

	width  int
	height int

	feedback    string
	lastCorrect bool
	errMsg      string

	lastAcc float64
	hasLast bool

	allCorrect   int
	allIncorrect int
}

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a drill TUI model. st may be nil, in which case rounds
// are not saved.
func NewModel(cfg model.Config, st *store.Store, sel *selector.Selector, session *drill.Session) *Model {
	input := textinput.New()
	input.Placeholder = "answer"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	m := &Model{
		config:  cfg,
		store:   st,
		sel:     sel,
		session: session,
		input:   input,
	}
	m.nextQuestion()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.finishRound()
			return m, tea.Quit
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyTab:
			m.skip()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	if m.errMsg != "" {
		b.WriteString(incorrectStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}
	if q, ok := m.session.Pending(); ok {
		b.WriteString(promptStyle.Render(q.Prompt))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderFeedback())
	content := b.String()

	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) submit() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return
	}
	res, err := m.session.Answer(value)
	m.handleResult(res, err)
}

func (m *Model) skip() {
	res, err := m.session.Skip()
	m.handleResult(res, err)
}

func (m *Model) handleResult(res drill.Result, err error) {
	m.input.Reset()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.lastCorrect = res.Correct
	switch {
	case res.Correct:
		m.feedback = fmt.Sprintf("%s correct", res.Key)
	case res.Skipped:
		m.feedback = fmt.Sprintf("%s skipped: %s", res.Key, res.Expected)
	default:
		m.feedback = fmt.Sprintf("%s missed: %s", res.Key, res.Expected)
	}
	if answered, _, _ := m.session.Progress(); answered >= m.config.Questions {
		m.finishRound()
	}
	m.nextQuestion()
}

func (m *Model) nextQuestion() {
	if _, err := m.session.Next(); err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) renderFeedback() string {
	if m.feedback == "" {
		return ""
	}
	if m.lastCorrect {
		return correctStyle.Render(m.feedback)
	}
	return incorrectStyle.Render(m.feedback)
}

func (m *Model) renderFooter() string {
	answered, correct, incorrect := m.session.Progress()
	segments := []string{fmt.Sprintf("Question %d/%d", answered+1, m.config.Questions)}
	if answered > 0 {
		segments = append(segments, fmt.Sprintf("Round %.1f%%", float64(correct)/float64(answered)*100))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f%%", m.lastAcc*100))
	}
	_, allAcc := statsPkg.SessionMetrics(m.allCorrect+correct, m.allIncorrect+incorrect, 0)
	segments = append(segments, fmt.Sprintf("All-time %.1f%%", allAcc*100))
	// The pending key is always last in the recency memory; show the ones before it.
	if recent := m.sel.Recent(); len(recent) > 1 {
		segments = append(segments, "Recent "+strings.Join(recent[:len(recent)-1], " "))
	}
	segments = append(segments, "enter answer · tab skip · esc quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{Deck: m.config.Deck})
	if err != nil {
		logErrf("failed to load session stats: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	_, m.lastAcc = statsPkg.SessionMetrics(last.Correct, last.Incorrect, last.DurationMs)
	m.hasLast = true
	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
	}
}

// finishRound saves the answered part of the round and, when enabled, the
// selector weight table. Persistence failures are logged, not fatal.
func (m *Model) finishRound() {
	answered, _, _ := m.session.Progress()
	if answered == 0 {
		return
	}
	stats, chars := m.session.Finish(time.Now())
	_, m.lastAcc = statsPkg.SessionMetrics(stats.Correct, stats.Incorrect, stats.DurationMs)
	m.hasLast = true
	m.allCorrect += stats.Correct
	m.allIncorrect += stats.Incorrect

	if m.store == nil {
		return
	}
	ctx := context.Background()
	if _, err := m.store.InsertSession(ctx, stats, chars); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
	if m.config.PersistWeights {
		if err := m.store.SaveWeights(ctx, m.sel.Weights()); err != nil {
			logErrf("failed to save weights: %v\n", err)
		}
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
