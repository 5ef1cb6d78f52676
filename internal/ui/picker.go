package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PickerItem is one entry shown in the interactive picker.
type PickerItem struct {
	Label    string // wallet name
	SubLabel string // address, shown dimmed
	Marked   bool   // current default, shown with a star
}

// pickerModel lets the user choose one item, e.g. the default wallet.
type pickerModel struct {
	title    string
	items    []PickerItem
	cursor   int
	selected int
	quitting bool
}

func newPicker(title string, items []PickerItem) pickerModel {
	m := pickerModel{title: title, items: items, selected: -1}
	for i, it := range items {
		if it.Marked {
			m.cursor = i
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.quitting || m.selected >= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n" + StyleTitle.Render("  "+m.title) + "\n")

	for i, item := range m.items {
		prefix := "    "
		if i == m.cursor {
			prefix = "  ▸ "
		}
		mark := "  "
		if item.Marked {
			mark = StyleWarning.Render("★ ")
		}
		line := prefix + mark + padR(StyleValue.Render(item.Label), 16)
		if item.SubLabel != "" {
			line += "  " + StyleMeta.Render(item.SubLabel)
		}
		if i == m.cursor {
			line = StyleSelected.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + StyleMeta.Render("  [ ↑↓ / jk ] navigate   [ Enter ] select   [ q ] cancel") + "\n")
	return sb.String()
}

// PickItem runs the picker and returns the chosen item's Label, or "" when
// the user cancels.
func PickItem(title string, items []PickerItem) (string, error) {
	if len(items) == 0 {
		return "", errors.New("no items to pick from")
	}

	final, err := tea.NewProgram(newPicker(title, items)).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}

	fm := final.(pickerModel)
	if fm.quitting || fm.selected < 0 {
		return "", nil
	}
	return fm.items[fm.selected].Label, nil
}
