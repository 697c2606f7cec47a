package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"cute-todo/internal/storage"
)

// RestoreModel lets the user pick a database snapshot to restore.
type RestoreModel struct {
	entries  []storage.BackupInfo
	dbPath   string
	idx      int
	quitting bool
	selected string
}

func NewRestore(infos []storage.BackupInfo, dbPath string) RestoreModel {
	return RestoreModel{entries: infos, dbPath: dbPath}
}

func (m RestoreModel) Init() tea.Cmd { return nil }

func (m RestoreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.idx > 0 {
			m.idx--
		}
	case "down", "j":
		if m.idx < len(m.entries)-1 {
			m.idx++
		}
	case "enter":
		if len(m.entries) > 0 {
			m.selected = m.entries[m.idx].Suffix
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m RestoreModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Restore tasks from backup") + "\n")
	fmt.Fprintf(&b, "Database: %s\n", m.dbPath)
	b.WriteString("Close other cute-todo windows before restoring.\n")
	b.WriteString(statStyle.Render("↑/↓ or j/k to move, enter to restore, q to quit") + "\n\n")
	if len(m.entries) == 0 {
		b.WriteString("No backups found.\n")
	}
	sel := lipgloss.NewStyle().Foreground(blue).Bold(true)
	for i, e := range m.entries {
		line := fmt.Sprintf("%s  %s  (%s, %s)", e.ModTime.Format("2006-01-02 15:04:05"), e.Suffix,
			humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime))
		if i == m.idx {
			b.WriteString(sel.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

// Selected is the suffix chosen with enter, or "" when the picker was quit.
func (m RestoreModel) Selected() string { return m.selected }
