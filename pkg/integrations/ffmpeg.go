package integrations

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/JaegerMaster/audible-dl/pkg/data"
)

// ConversionError is a failed invocation of the external transcoding
// tool, or a run that exited zero without producing usable output. The
// tool's exit code alone is not a reliable success signal, so both
// cases share one error type.
type ConversionError struct {
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("ffmpeg decrypt failed: %v", e.Err)
	if diag := strings.TrimSpace(e.Stderr); diag != "" {
		msg += "\n" + diag
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args ...string) (stderr string, err error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var errs bytes.Buffer
	cmd.Stderr = &errs
	err := cmd.Run()
	return errs.String(), err
}

// Option configures the client.
type Option func(*FFmpeg)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(f *FFmpeg) {
		if exec != nil {
			f.exec = exec
		}
	}
}

// FFmpeg decrypts aaxc containers with the key material from their
// voucher. Chapters, cover art and tags travel inside the container and
// are copied through, never re-encoded.
type FFmpeg struct {
	binary string
	exec   Executor
}

// NewFFmpeg constructs a client for the given binary.
func NewFFmpeg(binary string, opts ...Option) (*FFmpeg, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &FFmpeg{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Decrypt produces <container stem>.m4b inside outputDir.
func (f *FFmpeg) Decrypt(ctx context.Context, artifacts data.ArtifactSet, outputDir string) (string, error) {
	if artifacts.AAXC == "" {
		return "", errors.New("artifact set has no container")
	}

	creds, err := readVoucher(artifacts.Voucher)
	if err != nil {
		return "", &ConversionError{Err: err}
	}

	stem := strings.TrimSuffix(filepath.Base(artifacts.AAXC), filepath.Ext(artifacts.AAXC))
	outputPath := filepath.Join(outputDir, stem+".m4b")

	args := []string{
		"-y",
		"-audible_key", creds.Key,
		"-audible_iv", creds.IV,
		"-i", artifacts.AAXC,
		"-map", "0:a",
		"-map", "0:t?",
		"-c", "copy",
		"-f", "mp4",
		outputPath,
	}

	if stderr, err := f.exec.Run(ctx, f.binary, args...); err != nil {
		f.discard(outputPath)
		return "", &ConversionError{Stderr: stderr, Err: err}
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", &ConversionError{Err: errors.New("no output file written")}
	}
	if info.Size() == 0 {
		f.discard(outputPath)
		return "", &ConversionError{Err: errors.New("output file is empty")}
	}
	return outputPath, nil
}

// Verify null-decodes the file; any stream error fails it.
func (f *FFmpeg) Verify(ctx context.Context, path string) error {
	stderr, err := f.exec.Run(ctx, f.binary, "-v", "error", "-i", path, "-f", "null", "-")
	if err != nil {
		return &ConversionError{Stderr: stderr, Err: fmt.Errorf("verify %s: %w", filepath.Base(path), err)}
	}
	return nil
}

// discard removes a partial output so a failed run leaves nothing
// behind that looks usable.
func (f *FFmpeg) discard(path string) {
	_ = os.Remove(path)
}
