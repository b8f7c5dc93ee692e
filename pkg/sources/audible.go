package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/JaegerMaster/audible-dl/pkg/data"
)

// Columns the listing parser requires from the export format.
var requiredColumns = []string{"asin", "title", "authors", "purchase_date"}

// Filename suffix audible-cli appends to the container stem, e.g.
// "Dune-AAX_22_64" or "Dune-LC_64_22050_stereo".
var stemSuffix = regexp.MustCompile(`(-AAX.*|-LC.*)$`)

// Option configures the client.
type Option func(*AudibleCLI)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *AudibleCLI) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// AudibleCLI wraps the audible-cli tool. Authentication and token
// refresh are entirely the tool's concern; this client only shells out
// and interprets results.
type AudibleCLI struct {
	binary  string
	profile string
	exec    Executor
}

// NewAudibleCLI constructs a client for the given binary and profile.
// An empty profile uses the tool's default.
func NewAudibleCLI(binary, profile string, opts ...Option) (*AudibleCLI, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("audible binary required")
	}
	client := &AudibleCLI{
		binary:  binary,
		profile: profile,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ListLibrary exports the account's library as TSV and parses it into
// books. The export goes through a temp file because audible-cli writes
// exports to a path, not stdout.
func (c *AudibleCLI) ListLibrary(ctx context.Context) ([]data.Book, error) {
	tmp, err := os.CreateTemp("", "audible-library-*.tsv")
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := c.profileArgs()
	args = append(args, "library", "export", "--format", "tsv", "--output", tmpPath)

	if _, stderr, err := c.exec.Run(ctx, c.binary, args...); err != nil {
		return nil, &ClientError{Op: "library export", Stderr: stderr, Err: err}
	}

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}
	return parseLibraryTSV(string(raw))
}

// FetchBook downloads one title's encrypted container, voucher, chapter
// metadata and cover into destDir and returns the resulting artifact
// set.
func (c *AudibleCLI) FetchBook(ctx context.Context, asin, destDir string) (data.ArtifactSet, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return data.ArtifactSet{}, fmt.Errorf("create output directory: %w", err)
	}

	before, err := containerSet(destDir)
	if err != nil {
		return data.ArtifactSet{}, err
	}

	args := c.profileArgs()
	args = append(args,
		"download",
		"--asin", asin,
		"--output-dir", destDir,
		"--aaxc",
		"--quality", "best",
		"--resolve-podcasts",
		"--chapter",
		"--cover",
		"--no-confirm",
	)

	if _, stderr, err := c.exec.Run(ctx, c.binary, args...); err != nil {
		if strings.Contains(strings.ToLower(stderr), "not found") {
			return data.ArtifactSet{}, &ClientError{Op: "download", Stderr: stderr, Err: ErrNotFound}
		}
		return data.ArtifactSet{}, &ClientError{Op: "download", Stderr: stderr, Err: err}
	}

	aaxc, err := newContainer(destDir, before)
	if err != nil {
		return data.ArtifactSet{}, err
	}
	return relatedArtifacts(aaxc)
}

func (c *AudibleCLI) profileArgs() []string {
	if c.profile == "" {
		return nil
	}
	return []string{"--profile", c.profile}
}

func parseLibraryTSV(raw string) ([]data.Book, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, &ParseError{Reason: "empty export"}
	}

	cols := map[string]int{}
	for i, name := range strings.Split(lines[0], "\t") {
		cols[strings.TrimSpace(name)] = i
	}
	width := 0
	for _, name := range requiredColumns {
		idx, ok := cols[name]
		if !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("missing column %q", name)}
		}
		if idx+1 > width {
			width = idx + 1
		}
	}

	var books []data.Book
	for n, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < width {
			return nil, &ParseError{Line: n + 2, Reason: fmt.Sprintf("expected at least %d columns, got %d", width, len(fields))}
		}
		books = append(books, data.Book{
			ASIN:         strings.TrimSpace(fields[cols["asin"]]),
			Title:        strings.TrimSpace(fields[cols["title"]]),
			Authors:      splitAuthors(fields[cols["authors"]]),
			PurchaseDate: parseDate(fields[cols["purchase_date"]]),
		})
	}
	return books, nil
}

func splitAuthors(field string) []string {
	var authors []string
	for _, a := range strings.Split(field, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// parseDate tolerates an unparsable date on a single row: the entry is
// still usable, it just sorts last.
func parseDate(field string) time.Time {
	field = strings.TrimSpace(field)
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, field); err == nil {
			return t
		}
	}
	return time.Time{}
}

func containerSet(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan output directory: %w", err)
	}
	set := map[string]bool{}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".aaxc") {
			set[e.Name()] = true
		}
	}
	return set, nil
}

// newContainer locates the container the download just wrote. If every
// container predates the run (the tool may skip an already-downloaded
// title), the most recently modified one is used.
func newContainer(dir string, before map[string]bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan output directory: %w", err)
	}

	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".aaxc") {
			continue
		}
		if !before[e.Name()] {
			return filepath.Join(dir, e.Name()), nil
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = e.Name()
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", &ClientError{Op: "download", Err: errors.New("no aaxc container found after download")}
	}
	return filepath.Join(dir, newest), nil
}

// relatedArtifacts derives the voucher, chapter and cover paths that
// belong to a container. The chapter and cover files are named after the
// stem with the -AAX/-LC quality suffix stripped.
func relatedArtifacts(aaxc string) (data.ArtifactSet, error) {
	dir := filepath.Dir(aaxc)
	stem := strings.TrimSuffix(filepath.Base(aaxc), filepath.Ext(aaxc))
	base := stemSuffix.ReplaceAllString(stem, "")

	set := data.ArtifactSet{
		AAXC:    aaxc,
		Voucher: strings.TrimSuffix(aaxc, filepath.Ext(aaxc)) + ".voucher",
	}

	chapters := filepath.Join(dir, base+"-chapters.json")
	if _, err := os.Stat(chapters); err == nil {
		set.Chapters = chapters
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return data.ArtifactSet{}, fmt.Errorf("scan output directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), base) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".jpg" || ext == ".jpeg" {
			set.Covers = append(set.Covers, filepath.Join(dir, e.Name()))
		}
	}
	return set, nil
}
