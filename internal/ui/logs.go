package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lookout/internal/logtail"
)

// logState backs the activity overlay that tails the log file.
type logState struct {
	open    bool
	follow  bool
	entries []logtail.Entry
	err     error
	view    viewport.Model
}

type logLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Read(path, LogTailLines)
		return logLoadedMsg{entries: entries, err: err}
	}
}

func (m *Model) openLogs() tea.Cmd {
	w, h := m.logViewSize()
	m.logs.view = viewport.New(w, h)
	m.logs.open = true
	m.logs.follow = true
	m.refreshLogView()
	return readLogCmd(m.logFile)
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape, m.keys.Logs):
		m.logs.open = false
		return m, nil
	case key.Matches(msg, m.keys.Newest):
		m.logs.follow = true
		m.logs.view.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logs.view, cmd = m.logs.view.Update(msg)
	m.logs.follow = m.logs.view.AtBottom()
	return m, cmd
}

func (m *Model) applyLogs(msg logLoadedMsg) {
	m.logs.entries = msg.entries
	m.logs.err = msg.err
	m.refreshLogView()
}

func (m *Model) refreshLogView() {
	if !m.logs.open {
		return
	}
	w, h := m.logViewSize()
	m.logs.view.Width = w
	m.logs.view.Height = h
	m.logs.view.SetContent(m.formatLogs(w))
	if m.logs.follow {
		m.logs.view.GotoBottom()
	}
}

func (m Model) logViewSize() (int, int) {
	// Border and padding take four columns and two rows; the title two more.
	return max(m.width-6, 10), max(m.height-6, 3)
}

func (m Model) formatLogs(width int) string {
	styles := m.theme.Styles()
	switch {
	case m.logs.err != nil:
		return styles.DangerText.Render(m.logs.err.Error())
	case m.logFile == "":
		return styles.MutedText.Render("Logging is disabled.")
	case len(m.logs.entries) == 0:
		return styles.MutedText.Render("No activity logged yet.")
	}

	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		stamp := "        "
		if !e.Time.IsZero() {
			stamp = e.Time.Format("15:04:05")
		}
		msgStyle := styles.Text
		if e.Problem {
			msgStyle = styles.WarningText
		}
		line := styles.FaintText.Render(stamp) + " " + msgStyle.Render(truncate(e.Message, width-9))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderLogs renders the activity overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.Text.Bold(true).Render("Activity") + "  " +
		styles.FaintText.Render(truncateMiddle(m.logFile, max(m.width-20, 10)))
	body := lipgloss.JoinVertical(lipgloss.Left, title, "", m.logs.view.View())

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(0, 1)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(body),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
