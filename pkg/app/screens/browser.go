package screens

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JaegerMaster/audible-dl/pkg/app/components"
	"github.com/JaegerMaster/audible-dl/pkg/app/styles"
	"github.com/JaegerMaster/audible-dl/pkg/config"
	"github.com/JaegerMaster/audible-dl/pkg/data"
	"github.com/JaegerMaster/audible-dl/pkg/sources"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type libraryMsg struct {
	books []data.Book
	err   error
}

// BrowserScreen fetches the library listing and pages through it. All
// input mistakes are recovered with a notice and a fresh prompt; the
// only ways out are a selection, esc (menu) or q (quit).
type BrowserScreen struct {
	source sources.Source
	cfg    config.Config

	input   textinput.Model
	pager   *components.Pager
	loading bool
	notice  string
	err     error
}

func NewBrowserScreen(source sources.Source, cfg config.Config) *BrowserScreen {
	ti := textinput.New()
	ti.Placeholder = "row number, (n)ext, (p)revious, (q)uit"
	ti.Focus()
	ti.CharLimit = 10
	ti.Width = 40

	return &BrowserScreen{
		source:  source,
		cfg:     cfg,
		input:   ti,
		loading: true,
	}
}

func (s *BrowserScreen) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, s.loadLibrary)
}

func (s *BrowserScreen) loadLibrary() tea.Msg {
	books, err := s.source.ListLibrary(context.Background())
	return libraryMsg{books: books, err: err}
}

func (s *BrowserScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case libraryMsg:
		s.loading = false
		s.err = msg.err
		if msg.err == nil {
			s.pager = components.NewPager(msg.books, s.cfg.PageSize, s.cfg.NewestFirst())
		}
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return SwitchScreenMsg{Screen: "menu"} }
		case "enter":
			if s.err != nil {
				return s, nil
			}
			value := strings.ToLower(strings.TrimSpace(s.input.Value()))
			s.input.SetValue("")
			return s, s.handleCommand(value)
		}
	}

	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *BrowserScreen) handleCommand(value string) tea.Cmd {
	s.notice = ""

	switch value {
	case "":
		return nil
	case "n":
		if !s.pager.Next() {
			s.notice = "Already on the last page."
		}
		return nil
	case "p":
		if !s.pager.Prev() {
			s.notice = "Already on the first page."
		}
		return nil
	case "q":
		return tea.Quit
	}

	row, err := strconv.Atoi(value)
	if err != nil {
		s.notice = fmt.Sprintf("Invalid input %q.", value)
		return nil
	}

	book, err := s.pager.Select(row)
	if err != nil {
		s.notice = err.Error()
		return nil
	}
	return func() tea.Msg {
		return SelectionMsg{ASIN: book.ASIN}
	}
}

func (s *BrowserScreen) View() string {
	if s.loading {
		return styles.StatusRunning.Render("Fetching your Audible library...")
	}

	if s.err != nil {
		// Adapter errors carry the tool's raw diagnostic; show it whole
		// so an expired token is recognizable.
		return styles.StatusFailed.Render("Could not list your library") + "\n\n" +
			styles.TextStyle.Render(s.err.Error()) + "\n" +
			styles.HelpStyle.Render("esc: back to menu, ctrl+c: quit")
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Your Audible Library"))
	b.WriteString("\n")
	b.WriteString(s.pager.View())
	b.WriteString("\n\n")
	if s.notice != "" {
		b.WriteString(styles.NoticeStyle.Render(s.notice))
		b.WriteString("\n")
	}
	b.WriteString(styles.FocusedInputStyle.Render(s.input.View()))
	b.WriteString(styles.HelpStyle.Render("enter a row number to download, n/p: page, esc: menu, q: quit"))
	return b.String()
}
