package components

import (
	"fmt"
	"sort"

	"github.com/JaegerMaster/audible-dl/pkg/app/styles"
	"github.com/JaegerMaster/audible-dl/pkg/data"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// SelectionError is a row number outside the current page. The caller
// re-prompts; it never ends the session.
type SelectionError struct {
	Row  int
	Rows int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("row %d is not on this page (1-%d)", e.Row, e.Rows)
}

// Pager slices a fetched library listing into fixed-size pages. Row
// numbers shown to the user always restart at 1 on every page; that
// numbering is the interaction contract, so Select works in page-local
// coordinates.
type Pager struct {
	books    []data.Book
	pageSize int
	offset   int
}

// NewPager sorts the listing (by purchase date, ties broken by ASIN so
// ordering is deterministic) and opens it at the first page.
func NewPager(books []data.Book, pageSize int, newestFirst bool) *Pager {
	if pageSize < 1 {
		pageSize = 1
	}

	sorted := make([]data.Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			if newestFirst {
				return a.PurchaseDate.After(b.PurchaseDate)
			}
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		return a.ASIN < b.ASIN
	})

	return &Pager{books: sorted, pageSize: pageSize}
}

// Len returns the total number of entries.
func (p *Pager) Len() int {
	return len(p.books)
}

// PageCount returns the number of pages; an empty listing still has one
// (empty) page.
func (p *Pager) PageCount() int {
	if len(p.books) == 0 {
		return 1
	}
	return (len(p.books) + p.pageSize - 1) / p.pageSize
}

// CurrentPage returns the 1-based page number.
func (p *Pager) CurrentPage() int {
	return p.offset/p.pageSize + 1
}

// Page returns the entries of the current page.
func (p *Pager) Page() []data.Book {
	if p.offset >= len(p.books) {
		return nil
	}
	end := p.offset + p.pageSize
	if end > len(p.books) {
		end = len(p.books)
	}
	return p.books[p.offset:end]
}

// Next advances one page. Returns false, without moving, when already
// on the last page.
func (p *Pager) Next() bool {
	if p.offset+p.pageSize >= len(p.books) {
		return false
	}
	p.offset += p.pageSize
	return true
}

// Prev goes back one page. Returns false, without moving, when already
// on the first page.
func (p *Pager) Prev() bool {
	if p.offset == 0 {
		return false
	}
	p.offset -= p.pageSize
	return true
}

// Select resolves a 1-based row number on the current page.
func (p *Pager) Select(row int) (data.Book, error) {
	page := p.Page()
	if row < 1 || row > len(page) {
		return data.Book{}, &SelectionError{Row: row, Rows: len(page)}
	}
	return page[row-1], nil
}

// View renders the current page as a table with a page footer.
func (p *Pager) View() string {
	if len(p.books) == 0 {
		return styles.MutedStyle.Render("Your library is empty.")
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle
			}
			return styles.CellStyle
		}).
		Headers("#", "Title", "Author", "ASIN")

	for i, book := range p.Page() {
		t.Row(
			fmt.Sprintf("%d", i+1),
			truncate(book.Title, 58),
			truncate(book.AuthorList(), 30),
			book.ASIN,
		)
	}

	footer := styles.MutedStyle.Render(
		fmt.Sprintf("Page %d of %d (%d books)", p.CurrentPage(), p.PageCount(), p.Len()),
	)
	return t.Render() + "\n" + footer
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
