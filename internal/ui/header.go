package ui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/lookout/internal/archive"
)

// renderHeader renders the status bar: caption, position, neighbour
// availability, update indicator and poll health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)
	snap := m.snapshot

	logo := bg.Render("lookout", styles.Logo)
	if !snap.HasCurrent {
		status := bg.Render("No images loaded", styles.MutedText)
		if m.busy {
			status = bg.Render("Loading manifest...", styles.WarningText.Bold(true))
		}
		return styles.Header.Width(m.width).Render(logo + sep + status)
	}

	var right []string
	prev := bg.Render("‹", styles.FaintText)
	if snap.HasPrev {
		prev = bg.Render("‹", styles.AccentText)
	}
	next := bg.Render("›", styles.FaintText)
	if snap.HasNext {
		next = bg.Render("›", styles.AccentText)
	}
	right = append(right,
		bg.Render(fmt.Sprintf("[%d/%d]", snap.Cursor+1, snap.Len), styles.Text)+bg.Space()+prev+next)
	if snap.UpdateAvailable {
		right = append(right, bg.Render("● NEW", styles.SuccessText))
	}
	if health := m.pollHealth(); health != "" {
		style := styles.MutedText
		switch {
		case snap.IsOffline():
			style = styles.DangerText
		case snap.LastPollError != nil:
			style = styles.WarningText
		}
		right = append(right, bg.Render(health, style))
	}
	rightText := strings.Join(right, sep)

	// Header padding takes one cell on each side.
	avail := m.width - 2 - lipgloss.Width(logo) - lipgloss.Width(rightText) - 2*lipgloss.Width(sep)
	caption := bg.Render(truncate(snap.Current.Caption(), avail), styles.Text.Bold(true))
	gap := m.width - 2 - lipgloss.Width(logo) - lipgloss.Width(sep) - lipgloss.Width(caption) - lipgloss.Width(rightText)

	return styles.Header.Width(m.width).MaxHeight(HeaderHeight).Render(
		logo + sep + caption + bg.Spaces(gap) + rightText,
	)
}

// pollHealth describes the background poller for the header.
func (m Model) pollHealth() string {
	snap := m.snapshot
	if snap.IsOffline() {
		return "OFFLINE " + classifyPollError(snap.LastPollError)
	}
	if snap.LastPolled.IsZero() {
		return ""
	}
	if m.width < LayoutCompactWidth {
		return ""
	}
	if snap.LastPollError != nil {
		return "poll failed " + humanize.Time(snap.LastPolled)
	}
	return "polled " + humanize.Time(snap.LastPolled)
}

// classifyPollError returns a short description of a poll failure.
func classifyPollError(err error) string {
	if err == nil {
		return ""
	}
	var fe *archive.FetchError
	if errors.As(err, &fe) && fe.StatusCode > 0 {
		return fmt.Sprintf("HTTP %d", fe.StatusCode)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "HOST NOT FOUND"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "REFUSED"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the footer: the URL input while it has focus,
// otherwise status messages and key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.focus == focusURLInput {
		return styles.Footer.Width(m.width).Render(m.urlInput.View())
	}

	sep := bg.Spaces(2)
	var segments []string
	switch {
	case m.busy:
		segments = append(segments, bg.Render("Loading...", styles.WarningText))
	case m.loadErr != nil && m.snapshot.Len > 0:
		segments = append(segments, bg.Render(truncate("Load failed: "+m.loadErr.Error(), m.width/2), styles.DangerText))
	case m.navErr != nil && !errors.Is(m.navErr, context.Canceled):
		segments = append(segments, bg.Render(truncate(m.navErr.Error(), m.width/2), styles.DangerText))
	}

	bindings := m.keys.ShortHelp()
	if m.width < LayoutCompactWidth {
		bindings = []key.Binding{m.keys.Prev, m.keys.Next, m.keys.Help}
	}
	colon := bg.Render(":", styles.FaintText)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments,
			bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}

	mode := "caption"
	if m.preview {
		mode = "preview"
	}
	segments = append(segments,
		bg.Render("p", styles.AccentText)+colon+bg.Render(mode, styles.FaintText),
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).MaxHeight(FooterHeight).Render(strings.Join(segments, sep))
}
