package data

import (
	"os"
	"strings"
	"time"
)

// Book is one entry of the Audible library listing.
type Book struct {
	ASIN         string
	Title        string
	Authors      []string
	PurchaseDate time.Time
}

// AuthorList renders the authors as a single display string.
func (b *Book) AuthorList() string {
	return strings.Join(b.Authors, ", ")
}

// ValidASIN reports whether s looks like an Audible catalog code:
// exactly 10 characters starting with 'B'.
func ValidASIN(s string) bool {
	return len(s) == 10 && strings.HasPrefix(s, "B")
}

// Job describes one download-decrypt run.
type Job struct {
	ASIN      string
	OutputDir string
	KeepFiles bool
}

// ArtifactSet holds the paths written by the fetch step for one job:
// the encrypted container, its license voucher, the chapter metadata
// and any cover images. The workflow run that created it owns it and
// removes it only after a verified decrypt.
type ArtifactSet struct {
	AAXC     string
	Voucher  string
	Chapters string
	Covers   []string
}

// Paths returns every recorded artifact path, container first.
func (a *ArtifactSet) Paths() []string {
	paths := make([]string, 0, 3+len(a.Covers))
	for _, p := range []string{a.AAXC, a.Voucher, a.Chapters} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, a.Covers...)
	return paths
}

// Existing filters Paths down to the files still present on disk.
func (a *ArtifactSet) Existing() []string {
	var out []string
	for _, p := range a.Paths() {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}
