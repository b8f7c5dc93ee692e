package screens

import (
	"strings"

	"github.com/JaegerMaster/audible-dl/pkg/app/styles"
	tea "github.com/charmbracelet/bubbletea"
)

var menuChoices = []struct {
	label  string
	screen string
}{
	{"Browse library", "browser"},
	{"Download by ASIN", "asin"},
}

// MenuScreen is the binary mode choice shown when no ASIN was supplied
// on the command line.
type MenuScreen struct {
	selected int
}

func NewMenuScreen() *MenuScreen {
	return &MenuScreen{}
}

func (m *MenuScreen) Init() tea.Cmd {
	return nil
}

func (m *MenuScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(menuChoices)-1 {
				m.selected++
			}
		case "1", "2":
			m.selected = int(msg.String()[0] - '1')
			return m, m.choose()
		case "enter":
			return m, m.choose()
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *MenuScreen) choose() tea.Cmd {
	screen := menuChoices[m.selected].screen
	return func() tea.Msg {
		return SwitchScreenMsg{Screen: screen}
	}
}

func (m *MenuScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Audible Downloader"))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("Choose an option"))
	b.WriteString("\n\n")

	for i, choice := range menuChoices {
		cursor := "  "
		style := styles.TextStyle
		if i == m.selected {
			cursor = "> "
			style = styles.TitleStyle.MarginBottom(0)
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(choice.label))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("1/2 or arrows: choose, enter: confirm, q: quit"))
	return b.String()
}
