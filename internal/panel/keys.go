package panel

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the panel's bindings.
type KeyMap struct {
	Next         key.Binding
	Prev         key.Binding
	OptionPrev   key.Binding
	OptionNext   key.Binding
	Activate     key.Binding
	Save         key.Binding
	New          key.Binding
	Delete       key.Binding
	DeleteFolder key.Binding
	Preview      key.Binding
	Copy         key.Binding
	MoveUp       key.Binding
	MoveDown     key.Binding
	MoveLeft     key.Binding
	MoveRight    key.Binding
	Close        key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:         key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		OptionPrev:   key.NewBinding(key.WithKeys("left", "up", "h", "k"), key.WithHelp("←", "prev")),
		OptionNext:   key.NewBinding(key.WithKeys("right", "down", "l", "j"), key.WithHelp("→", "next")),
		Activate:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "press")),
		Save:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		New:          key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
		Delete:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		DeleteFolder: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "delete folder")),
		Preview:      key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
		Copy:         key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		MoveUp:       key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("alt+↑", "move")),
		MoveDown:     key.NewBinding(key.WithKeys("alt+down")),
		MoveLeft:     key.NewBinding(key.WithKeys("alt+left")),
		MoveRight:    key.NewBinding(key.WithKeys("alt+right")),
		Close:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Confirm:      key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:       key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

// helpBindings lists the bindings shown in the panel footer.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{k.Next, k.Save, k.New, k.Delete, k.DeleteFolder, k.Preview, k.Copy, k.MoveUp, k.Close}
}
