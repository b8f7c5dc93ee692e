package app

import (
	"github.com/JaegerMaster/audible-dl/pkg/app/screens"
	"github.com/JaegerMaster/audible-dl/pkg/config"
	"github.com/JaegerMaster/audible-dl/pkg/sources"
	tea "github.com/charmbracelet/bubbletea"
)

// Run drives the interactive session and returns the ASIN the user
// picked, or "" if they quit without choosing.
func Run(source sources.Source, cfg config.Config) (string, error) {
	model := screens.NewRootScreen(source, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(*screens.RootScreen).Selection(), nil
}
