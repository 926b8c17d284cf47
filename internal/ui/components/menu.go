package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/notequiz/internal/ui/theme"
)

// MenuItem is one choice. Shortcut, when set, activates the item directly.
type MenuItem struct {
	Label    string
	Shortcut string
	Action   func() tea.Cmd
}

// Menu is a vertical list of actions navigated with the arrow keys.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first item selected.
func NewMenu(items ...MenuItem) Menu {
	return Menu{Items: items}
}

// Update handles navigation, Enter and item shortcuts.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		return m, m.activate(m.Selected)
	}

	for i, item := range m.Items {
		if item.Shortcut != "" && strings.EqualFold(item.Shortcut, key) {
			m.Selected = i
			return m, m.activate(i)
		}
	}
	return m, nil
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) || m.Items[i].Action == nil {
		return nil
	}
	return m.Items[i].Action()
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		} else {
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		if item.Shortcut != "" {
			b.WriteString(theme.Dim.Render(" (" + strings.ToUpper(item.Shortcut) + ")"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
