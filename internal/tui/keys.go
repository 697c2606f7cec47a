package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	search    key.Binding
	newTask   key.Binding
	next      key.Binding
	prev      key.Binding
	submit    key.Binding
	esc       key.Binding
	toggle    key.Binding
	edit      key.Binding
	del       key.Binding
	delAll    key.Binding
	filter    key.Binding
	sort      key.Binding
	sortPick  key.Binding
	open      key.Binding
	copy      key.Binding
	report    key.Binding
	help      key.Binding
	quit      key.Binding
	confirm   key.Binding
	dismiss   key.Binding
	menuUp    key.Binding
	menuDown  key.Binding
	forceQuit key.Binding
}

func newKeymap() keymap {
	return keymap{
		search:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "search")),
		newTask:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new task")),
		next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		esc:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close/cancel edit")),
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done/undo")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		del:       key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x/d", "delete")),
		delAll:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		sortPick:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "pick sort")),
		open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy text")),
		report:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "export report")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		confirm:   key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		dismiss:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
		menuUp:    key.NewBinding(key.WithKeys("up", "k")),
		menuDown:  key.NewBinding(key.WithKeys("down", "j")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

var keys = newKeymap()

// ShortHelp and FullHelp make keymap a help.KeyMap.
func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.toggle, k.edit, k.del, k.filter, k.sort, k.help, k.quit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newTask, k.search, k.next, k.prev, k.submit, k.esc},
		{k.toggle, k.edit, k.del, k.delAll, k.open},
		{k.filter, k.sort, k.sortPick, k.copy, k.report},
		{k.help, k.quit},
	}
}
