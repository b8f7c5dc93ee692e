package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JaegerMaster/audible-dl/pkg/data"
	"github.com/JaegerMaster/audible-dl/pkg/integrations"
	"github.com/JaegerMaster/audible-dl/pkg/sources"
)

// Stage is a step of the download-decrypt workflow.
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageDecrypting Stage = "decrypting"
	StageVerifying  Stage = "verifying"
	StageCleaning   Stage = "cleaning"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Progress reports where a workflow run currently is.
type Progress struct {
	ASIN    string
	Stage   Stage
	Message string
}

// Result describes a completed run.
type Result struct {
	OutputPath string
	Size       int64
	Cleaned    []string
	Kept       bool
}

// Workflow drives one job end to end: fetch the encrypted container,
// decrypt it, verify the output, and clean up the intermediates.
// Cleanup is strictly success-gated: the final file must exist and be
// non-empty before anything is deleted. On a decrypt failure the
// intermediates are deliberately left on disk so the user can retry
// without re-downloading.
type Workflow struct {
	source       sources.Source
	decrypter    integrations.Decrypter
	progressChan chan Progress
}

// NewWorkflow creates a Workflow over the given adapters.
func NewWorkflow(source sources.Source, decrypter integrations.Decrypter) *Workflow {
	return &Workflow{
		source:       source,
		decrypter:    decrypter,
		progressChan: make(chan Progress, 16),
	}
}

// Progress returns the channel carrying stage updates for display.
func (w *Workflow) Progress() <-chan Progress {
	return w.progressChan
}

// Close releases the progress channel once no more runs will happen.
func (w *Workflow) Close() {
	close(w.progressChan)
}

// Run executes one job. Jobs run strictly one at a time, synchronously;
// the external tools block the flow until they exit.
func (w *Workflow) Run(ctx context.Context, job data.Job) (*Result, error) {
	if !data.ValidASIN(job.ASIN) {
		return nil, fmt.Errorf("invalid ASIN format: %q", job.ASIN)
	}

	w.sendProgress(Progress{ASIN: job.ASIN, Stage: StageFetching, Message: "downloading encrypted audiobook"})
	artifacts, err := w.source.FetchBook(ctx, job.ASIN, job.OutputDir)
	if err != nil {
		w.fail(job, err.Error())
		return nil, fmt.Errorf("fetch %s: %w", job.ASIN, err)
	}

	w.sendProgress(Progress{ASIN: job.ASIN, Stage: StageDecrypting, Message: "decrypting " + filepath.Base(artifacts.AAXC)})
	outputPath, err := w.decrypter.Decrypt(ctx, artifacts, job.OutputDir)
	if err != nil {
		w.fail(job, "decryption failed; intermediate files kept so it can be retried")
		return nil, fmt.Errorf("decrypt %s: %w", job.ASIN, err)
	}

	w.sendProgress(Progress{ASIN: job.ASIN, Stage: StageVerifying, Message: "verifying " + filepath.Base(outputPath)})
	size, err := w.verify(ctx, job, outputPath)
	if err != nil {
		return nil, err
	}

	result := &Result{OutputPath: outputPath, Size: size}

	if job.KeepFiles {
		result.Kept = true
		w.sendProgress(Progress{ASIN: job.ASIN, Stage: StageDone, Message: "keeping intermediate files as requested"})
		return result, nil
	}

	w.sendProgress(Progress{ASIN: job.ASIN, Stage: StageCleaning, Message: "removing intermediate files"})
	result.Cleaned = w.cleanup(job, artifacts)

	w.sendProgress(Progress{ASIN: job.ASIN, Stage: StageDone, Message: "decrypted to " + filepath.Base(outputPath)})
	return result, nil
}

// verify treats the presence of a non-empty output file as the real
// success signal; the converter's exit status is not trusted on its
// own. A deeper null-decode check catches containers that decrypted to
// unreadable streams.
func (w *Workflow) verify(ctx context.Context, job data.Job, outputPath string) (int64, error) {
	info, err := os.Stat(outputPath)
	if err != nil {
		w.fail(job, "converter reported success but wrote no output")
		return 0, fmt.Errorf("verify %s: output file missing", job.ASIN)
	}
	if info.Size() == 0 {
		os.Remove(outputPath)
		w.fail(job, "converter reported success but the output is empty")
		return 0, fmt.Errorf("verify %s: output file is empty", job.ASIN)
	}

	if err := w.decrypter.Verify(ctx, outputPath); err != nil {
		os.Remove(outputPath)
		w.fail(job, "decrypted file failed verification")
		return 0, fmt.Errorf("verify %s: %w", job.ASIN, err)
	}
	return info.Size(), nil
}

// cleanup removes the intermediates, tolerating individual failures: a
// partially cleaned directory is acceptable, a missing final file is
// not, and that was already ruled out.
func (w *Workflow) cleanup(job data.Job, artifacts data.ArtifactSet) []string {
	var cleaned []string
	for _, path := range artifacts.Existing() {
		if err := os.Remove(path); err != nil {
			w.sendProgress(Progress{
				ASIN:    job.ASIN,
				Stage:   StageCleaning,
				Message: fmt.Sprintf("could not remove %s: %v", filepath.Base(path), err),
			})
			continue
		}
		cleaned = append(cleaned, path)
	}
	return cleaned
}

func (w *Workflow) fail(job data.Job, message string) {
	w.sendProgress(Progress{ASIN: job.ASIN, Stage: StageFailed, Message: message})
}

// sendProgress sends a progress update (non-blocking).
func (w *Workflow) sendProgress(progress Progress) {
	select {
	case w.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}
