package cmd

import (
	"context"
	"fmt"

	"github.com/JaegerMaster/audible-dl/pkg/app/components"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your Audible library",
	Long:  "Display every book in your Audible library in a formatted table",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		source := newSource(cfg)

		books, err := source.ListLibrary(context.Background())
		cobra.CheckErr(err)

		if len(books) == 0 {
			fmt.Println("Your library is empty.")
			return
		}

		// A single full-size page reuses the pager's sort order.
		pager := components.NewPager(books, len(books), cfg.NewestFirst())

		columns := []table.Column{
			{Title: "Title", Width: 50},
			{Title: "Author", Width: 28},
			{Title: "ASIN", Width: 12},
			{Title: "Purchased", Width: 10},
		}

		rows := []table.Row{}
		for _, book := range pager.Page() {
			purchased := ""
			if !book.PurchaseDate.IsZero() {
				purchased = book.PurchaseDate.Format("2006-01-02")
			}
			rows = append(rows, table.Row{
				truncateString(book.Title, 48),
				truncateString(book.AuthorList(), 26),
				book.ASIN,
				purchased,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = lipgloss.NewStyle()
		t.SetStyles(s)

		fmt.Printf("\nLibrary (%d books)\n\n", len(books))
		fmt.Println(t.View())
	},
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
