package screens

import (
	"fmt"
	"strings"

	"github.com/JaegerMaster/audible-dl/pkg/app/styles"
	"github.com/JaegerMaster/audible-dl/pkg/data"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AsinScreen prompts for a catalog code directly, bypassing the browser.
type AsinScreen struct {
	input  textinput.Model
	notice string
}

func NewAsinScreen() *AsinScreen {
	ti := textinput.New()
	ti.Placeholder = "B002V5A12Y"
	ti.Focus()
	ti.CharLimit = 10
	ti.Width = 20

	return &AsinScreen{input: ti}
}

func (s *AsinScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *AsinScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return SwitchScreenMsg{Screen: "menu"} }
		case "enter":
			asin := strings.ToUpper(strings.TrimSpace(s.input.Value()))
			if !data.ValidASIN(asin) {
				s.notice = fmt.Sprintf("%q does not look like an ASIN (10 characters, starting with B).", asin)
				return s, nil
			}
			return s, func() tea.Msg { return SelectionMsg{ASIN: asin} }
		}
	}

	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AsinScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Download by ASIN"))
	b.WriteString("\n")
	b.WriteString(styles.FocusedInputStyle.Render(s.input.View()))
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(styles.NoticeStyle.Render(s.notice))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("enter: download, esc: back to menu"))
	return b.String()
}
