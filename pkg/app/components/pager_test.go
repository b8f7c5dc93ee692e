package components

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/JaegerMaster/audible-dl/pkg/data"
)

// makeLibrary builds n books whose purchase dates ascend with the
// index, so entry n-1 is the newest.
func makeLibrary(n int) []data.Book {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	books := make([]data.Book, n)
	for i := range books {
		books[i] = data.Book{
			ASIN:         fmt.Sprintf("B%09d", i),
			Title:        fmt.Sprintf("Book %d", i),
			Authors:      []string{"Author"},
			PurchaseDate: base.AddDate(0, 0, i),
		}
	}
	return books
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		n, pageSize, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{5, 1, 5},
	}

	for _, c := range cases {
		p := NewPager(makeLibrary(c.n), c.pageSize, true)
		if got := p.PageCount(); got != c.want {
			t.Errorf("PageCount(n=%d, size=%d) = %d, want %d", c.n, c.pageSize, got, c.want)
		}
	}
}

func TestEveryEntryOnExactlyOnePage(t *testing.T) {
	for _, pageSize := range []int{1, 3, 7, 20} {
		p := NewPager(makeLibrary(45), pageSize, true)

		seen := map[string]int{}
		for {
			for _, book := range p.Page() {
				seen[book.ASIN]++
			}
			if !p.Next() {
				break
			}
		}

		if len(seen) != 45 {
			t.Fatalf("pageSize %d: saw %d distinct entries, want 45", pageSize, len(seen))
		}
		for asin, count := range seen {
			if count != 1 {
				t.Errorf("pageSize %d: entry %s appeared %d times", pageSize, asin, count)
			}
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	p := NewPager(makeLibrary(45), 20, true)

	page := p.Page()
	if len(page) != 20 {
		t.Fatalf("Expected 20 rows on page 1, got %d", len(page))
	}
	if page[0].Title != "Book 44" {
		t.Errorf("Newest book should lead page 1, got %q", page[0].Title)
	}
	if page[19].Title != "Book 25" {
		t.Errorf("Row 20 of page 1 = %q, want Book 25", page[19].Title)
	}
}

func TestSortOldestFirst(t *testing.T) {
	p := NewPager(makeLibrary(45), 20, false)

	if got := p.Page()[0].Title; got != "Book 0" {
		t.Errorf("Oldest book should lead page 1, got %q", got)
	}
}

func TestSortTiesBrokenByASIN(t *testing.T) {
	when := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	books := []data.Book{
		{ASIN: "B000000002", Title: "Second", PurchaseDate: when},
		{ASIN: "B000000001", Title: "First", PurchaseDate: when},
	}

	p := NewPager(books, 10, true)
	page := p.Page()
	if page[0].ASIN != "B000000001" || page[1].ASIN != "B000000002" {
		t.Errorf("Ties should order by ASIN, got %q then %q", page[0].ASIN, page[1].ASIN)
	}
}

func TestNavigationClamped(t *testing.T) {
	p := NewPager(makeLibrary(45), 20, true)

	if p.Prev() {
		t.Error("Prev() on first page should be a no-op")
	}
	if p.CurrentPage() != 1 {
		t.Errorf("CurrentPage() = %d after clamped Prev", p.CurrentPage())
	}

	if !p.Next() || !p.Next() {
		t.Fatal("Expected to reach page 3")
	}
	if got := len(p.Page()); got != 5 {
		t.Errorf("Last page should have 5 entries, got %d", got)
	}
	if p.Next() {
		t.Error("Next() on last page should be a no-op")
	}
	if p.CurrentPage() != 3 {
		t.Errorf("CurrentPage() = %d after clamped Next", p.CurrentPage())
	}
}

func TestSelectIsPageLocal(t *testing.T) {
	p := NewPager(makeLibrary(45), 20, true)
	p.Next()

	// Row 1 on page 2 is the 21st entry of the sorted listing.
	book, err := p.Select(1)
	if err != nil {
		t.Fatalf("Select(1) error = %v", err)
	}
	if book.Title != "Book 24" {
		t.Errorf("Row 1 of page 2 = %q, want Book 24", book.Title)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	p := NewPager(makeLibrary(45), 20, true)
	p.Next()
	p.Next() // page 3 holds 5 rows

	for _, row := range []int{0, -1, 6, 21} {
		_, err := p.Select(row)
		var selErr *SelectionError
		if !errors.As(err, &selErr) {
			t.Errorf("Select(%d) = %v, want SelectionError", row, err)
		}
	}

	if _, err := p.Select(5); err != nil {
		t.Errorf("Select(5) on the 5-row page error = %v", err)
	}
}

func TestViewEmptyLibrary(t *testing.T) {
	p := NewPager(nil, 20, true)

	view := p.View()
	if !strings.Contains(view, "library is empty") {
		t.Errorf("Expected explicit empty state, got %q", view)
	}
	if p.PageCount() != 1 {
		t.Errorf("Empty listing should still report one page, got %d", p.PageCount())
	}
}

func TestViewNumbersRowsPerPage(t *testing.T) {
	p := NewPager(makeLibrary(45), 20, true)
	p.Next()

	view := p.View()
	if !strings.Contains(view, "Book 24") {
		t.Error("Expected page 2 content in view")
	}
	if !strings.Contains(view, "Page 2 of 3") {
		t.Error("Expected page footer in view")
	}
}

func TestPagerScenario45By20(t *testing.T) {
	p := NewPager(makeLibrary(45), 20, true)

	if got := p.Page()[0].Title; got != "Book 44" {
		t.Fatalf("Page 1 should start with the newest entry, got %q", got)
	}

	p.Next()
	if got := p.Page()[0].Title; got != "Book 24" {
		t.Errorf("Page 2 should start at entry 21, got %q", got)
	}

	p.Next()
	if got := len(p.Page()); got != 5 {
		t.Errorf("Page 3 should have 5 entries, got %d", got)
	}

	if p.Next() {
		t.Error("Fourth Next() should be a no-op")
	}
	if p.CurrentPage() != 3 {
		t.Errorf("Should remain on page 3, got %d", p.CurrentPage())
	}
}
