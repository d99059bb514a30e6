package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the viewer.
type keyMap struct {
	// Global
	Quit          key.Binding
	Help          key.Binding
	HelpFromInput key.Binding
	CycleTheme    key.Binding
	TogglePreview key.Binding
	Logs          key.Binding
	Escape        key.Binding

	// Stepping
	Prev   key.Binding
	Next   key.Binding
	Oldest key.Binding
	Newest key.Binding

	// Boundary jumps
	Back12h    key.Binding
	Forward12h key.Binding
	Back24h    key.Binding
	Forward24h key.Binding

	// Manifest
	OpenURL key.Binding
	Reload  key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h", "f1"),
			key.WithHelp("h/?", "Toggle help"),
		),
		// While typing a URL, ? and h are text.
		HelpFromInput: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "Help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Toggle image preview"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Activity log"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close"),
		),

		Prev: key.NewBinding(
			key.WithKeys("left", ","),
			key.WithHelp("←/,", "Previous frame"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "."),
			key.WithHelp("→/.", "Next frame"),
		),
		Oldest: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Oldest loaded frame"),
		),
		Newest: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Newest frame"),
		),

		Back12h: key.NewBinding(
			key.WithKeys("shift+left", "["),
			key.WithHelp("⇧←/[", "Back to midnight/noon"),
		),
		Forward12h: key.NewBinding(
			key.WithKeys("shift+right", "]"),
			key.WithHelp("⇧→/]", "Forward to midnight/noon"),
		),
		Back24h: key.NewBinding(
			key.WithKeys("ctrl+shift+left", "{"),
			key.WithHelp("⌃⇧←/{", "Back one day"),
		),
		Forward24h: key.NewBinding(
			key.WithKeys("ctrl+shift+right", "}"),
			key.WithHelp("⌃⇧→/}", "Forward one day"),
		),

		OpenURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open manifest URL"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload manifest"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Load"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Back12h, k.Forward12h, k.OpenURL, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help dialog, grouped by section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Oldest, k.Newest},
		{k.Back12h, k.Forward12h, k.Back24h, k.Forward24h},
		{k.OpenURL, k.Reload},
		{k.TogglePreview, k.CycleTheme, k.Logs, k.Help, k.Quit},
	}
}
