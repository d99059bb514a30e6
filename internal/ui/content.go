package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderContent renders the frame area between header and footer.
func (m Model) renderContent() string {
	cols, rows := m.contentSize()
	if rows <= 0 {
		return ""
	}
	styles := m.theme.Styles()

	var body string
	switch {
	case m.loadErr != nil && m.snapshot.Len == 0:
		body = m.renderLoadError(cols)
	case !m.snapshot.HasCurrent:
		msg := "No images loaded. Press o to open a manifest URL."
		if m.busy {
			msg = "Loading manifest..."
		}
		body = styles.MutedText.Render(msg)
	case !m.preview:
		body = m.renderCaptionOnly(cols)
	case m.frame.err != nil:
		body = lipgloss.JoinVertical(lipgloss.Center,
			styles.DangerText.Render("Image unavailable"),
			styles.FaintText.Render(truncateMiddle(m.frame.url, cols-4)))
	case m.frame.rendered != "":
		body = m.frame.rendered
	default:
		body = styles.MutedText.Render("Loading image...")
	}

	return lipgloss.Place(
		cols,
		rows,
		lipgloss.Center,
		lipgloss.Center,
		body,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}

// renderCaptionOnly shows the caption and the resolved image address in
// place of the image.
func (m Model) renderCaptionOnly(cols int) string {
	styles := m.theme.Styles()
	cur := m.snapshot.Current
	lines := []string{
		styles.Text.Bold(true).Render(truncate(cur.Caption(), cols-4)),
	}
	if m.frame.url != "" {
		lines = append(lines, styles.FaintText.Render(truncateMiddle(m.frame.url, cols-4)))
	} else {
		lines = append(lines, styles.FaintText.Render("resolving..."))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// renderLoadError renders the banner shown while no manifest could be
// loaded. The session stays usable: the user may retry or open another URL.
func (m Model) renderLoadError(cols int) string {
	styles := m.theme.Styles()
	width := min(max(cols-8, 20), 80)

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Could not load manifest"))
	b.WriteString("\n\n")
	if m.loadURL != "" {
		b.WriteString(styles.MutedText.Render(truncateMiddle(m.loadURL, width-6)))
		b.WriteString("\n")
	}
	b.WriteString(styles.Text.Render(truncate(m.loadErr.Error(), width-6)))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("r") + styles.MutedText.Render(" retry   "))
	b.WriteString(styles.AccentText.Render("o") + styles.MutedText.Render(" open another URL   "))
	b.WriteString(styles.AccentText.Render("q") + styles.MutedText.Render(" quit"))

	return styles.Banner.Width(width).Render(b.String())
}
