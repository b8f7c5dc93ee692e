package screens

import (
	"github.com/JaegerMaster/audible-dl/pkg/config"
	"github.com/JaegerMaster/audible-dl/pkg/sources"
	tea "github.com/charmbracelet/bubbletea"
)

type screenType int

const (
	menuView screenType = iota
	browserView
	asinView
)

// RootScreen is the interactive session: it presents the mode choice
// and dispatches to the browser or the direct-ASIN prompt. The program
// ends either with a selection or with nothing picked; the actual
// download runs after the TUI has released the terminal so the external
// tools' diagnostics stay visible.
type RootScreen struct {
	source sources.Source
	cfg    config.Config

	currentView screenType
	menu        *MenuScreen
	browser     *BrowserScreen
	asin        *AsinScreen

	selection string

	width  int
	height int
}

func NewRootScreen(source sources.Source, cfg config.Config) *RootScreen {
	return &RootScreen{
		source:      source,
		cfg:         cfg,
		currentView: menuView,
		menu:        NewMenuScreen(),
	}
}

// Selection returns the chosen ASIN, or "" if the user quit without
// picking anything.
func (r *RootScreen) Selection() string {
	return r.selection
}

func (r *RootScreen) Init() tea.Cmd {
	return r.menu.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return r, tea.Quit
		}

	case SwitchScreenMsg:
		switch msg.Screen {
		case "menu":
			r.currentView = menuView
			cmd = r.menu.Init()
		case "browser":
			// A fresh browser re-fetches the listing; a stale page
			// against a re-fetched library would be misleading.
			r.browser = NewBrowserScreen(r.source, r.cfg)
			r.currentView = browserView
			cmd = r.browser.Init()
		case "asin":
			r.asin = NewAsinScreen()
			r.currentView = asinView
			cmd = r.asin.Init()
		}
		return r, cmd

	case SelectionMsg:
		r.selection = msg.ASIN
		return r, tea.Quit
	}

	switch r.currentView {
	case menuView:
		newModel, newCmd := r.menu.Update(msg)
		r.menu = newModel.(*MenuScreen)
		return r, newCmd
	case browserView:
		newModel, newCmd := r.browser.Update(msg)
		r.browser = newModel.(*BrowserScreen)
		return r, newCmd
	case asinView:
		newModel, newCmd := r.asin.Update(msg)
		r.asin = newModel.(*AsinScreen)
		return r, newCmd
	}
	return r, nil
}

func (r *RootScreen) View() string {
	switch r.currentView {
	case browserView:
		return r.browser.View()
	case asinView:
		return r.asin.View()
	default:
		return r.menu.View()
	}
}
