package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Store writes
	Increment   key.Binding
	Decrement   key.Binding
	PushHistory key.Binding
	AddTodo     key.Binding
	CompleteOne key.Binding
	Reset       key.Binding

	// Focus pane
	CycleFocus key.Binding

	// Input
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Increment count"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Decrement count"),
		),
		PushHistory: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "Push history entry"),
		),
		AddTodo: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add todo"),
		),
		CompleteOne: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Complete first open todo"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reset store"),
		),

		CycleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch focus key"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// helpGroups returns bindings grouped for the help overlay.
func (k keyMap) helpGroups() []helpSection {
	toItems := func(bindings ...key.Binding) []helpItem {
		items := make([]helpItem, 0, len(bindings))
		for _, b := range bindings {
			h := b.Help()
			items = append(items, helpItem{key: h.Key, desc: h.Desc})
		}
		return items
	}
	return []helpSection{
		{title: "Store", items: toItems(k.Increment, k.Decrement, k.PushHistory, k.AddTodo, k.CompleteOne, k.Reset)},
		{title: "Panes", items: toItems(k.CycleFocus)},
		{title: "General", items: toItems(k.CycleTheme, k.Help, k.Quit)},
	}
}
