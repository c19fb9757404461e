package desk

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the desk TUI. Bindings that are
// plain letters only apply while no text field has focus.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	Select key.Binding
	Back   key.Binding

	// Form navigation.
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding

	// Dashboard.
	SortID         key.Binding
	SortCategory   key.Binding
	SortUrgency    key.Binding
	CycleCategory  key.Binding
	CycleUrgency   key.Binding
	SearchActivate key.Binding
	ClearFilters   key.Binding
	Reload         key.Binding
	Logout         key.Binding

	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "submit"),
	),
	SortID: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "sort id"),
	),
	SortCategory: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "sort category"),
	),
	SortUrgency: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "sort urgency"),
	),
	CycleCategory: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "category"),
	),
	CycleUrgency: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "urgency"),
	),
	SearchActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear filters"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "logout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}
