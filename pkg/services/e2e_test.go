package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaegerMaster/audible-dl/pkg/data"
	"github.com/JaegerMaster/audible-dl/pkg/integrations"
	"github.com/JaegerMaster/audible-dl/pkg/sources"
)

// End-to-end runs through the real adapters with the external tools
// replaced by scripted executors.

const e2eVoucher = `{"content_license":{"license_response":{"key":"aabb","iv":"ccdd"}}}`

// audibleExec mimics the library tool: the download subcommand drops
// the intermediate artifact files into --output-dir.
type audibleExec struct {
	fail   bool
	stderr string
}

func (a *audibleExec) Run(_ context.Context, binary string, args ...string) (string, string, error) {
	if a.fail {
		return "", a.stderr, errors.New("exit status 1")
	}
	var dest string
	for i, arg := range args {
		if arg == "--output-dir" && i+1 < len(args) {
			dest = args[i+1]
		}
	}
	files := map[string]string{
		"Dune-AAX_22_64.aaxc":    "encrypted",
		"Dune-AAX_22_64.voucher": e2eVoucher,
		"Dune-chapters.json":     "{}",
		"Dune_(500).jpg":         "jpg",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dest, name), []byte(content), 0o644); err != nil {
			return "", "", err
		}
	}
	return "", "", nil
}

// ffmpegExec mimics the converter: decrypt invocations write the last
// argument, verify invocations (-f null -) write nothing.
type ffmpegExec struct {
	fail   bool
	stderr string
}

func (f *ffmpegExec) Run(_ context.Context, binary string, args ...string) (string, error) {
	if f.fail {
		return f.stderr, errors.New("exit status 1")
	}
	last := args[len(args)-1]
	if last == "-" {
		return "", nil
	}
	return "", os.WriteFile(last, []byte("decrypted audio"), 0o644)
}

func e2eWorkflow(t *testing.T, audible *audibleExec, ffmpeg *ffmpegExec) *Workflow {
	t.Helper()
	source, err := sources.NewAudibleCLI("audible", "", sources.WithExecutor(audible))
	if err != nil {
		t.Fatal(err)
	}
	decrypter, err := integrations.NewFFmpeg("ffmpeg", integrations.WithExecutor(ffmpeg))
	if err != nil {
		t.Fatal(err)
	}
	return NewWorkflow(source, decrypter)
}

func TestE2E_DirectDownloadAndCleanup(t *testing.T) {
	dir := t.TempDir()
	w := e2eWorkflow(t, &audibleExec{}, &ffmpegExec{})
	defer w.Close()

	result, err := w.Run(context.Background(), data.Job{ASIN: "B002V5A12Y", OutputDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := filepath.Join(dir, "Dune-AAX_22_64.m4b"); result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}
	if info, statErr := os.Stat(result.OutputPath); statErr != nil || info.Size() == 0 {
		t.Fatalf("Expected non-empty output, stat = %v", statErr)
	}

	// Every intermediate for the job is gone.
	for _, name := range []string{
		"Dune-AAX_22_64.aaxc",
		"Dune-AAX_22_64.voucher",
		"Dune-chapters.json",
		"Dune_(500).jpg",
	} {
		if _, statErr := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(statErr) {
			t.Errorf("Intermediate %s should be absent after success", name)
		}
	}
}

func TestE2E_ConverterFailureKeepsIntermediates(t *testing.T) {
	dir := t.TempDir()
	w := e2eWorkflow(t, &audibleExec{}, &ffmpegExec{fail: true, stderr: "Invalid data found"})
	defer w.Close()

	_, err := w.Run(context.Background(), data.Job{ASIN: "B002V5A12Y", OutputDir: dir})
	if err == nil {
		t.Fatal("Run() should fail when the converter exits non-zero")
	}

	for _, name := range []string{
		"Dune-AAX_22_64.aaxc",
		"Dune-AAX_22_64.voucher",
		"Dune-chapters.json",
		"Dune_(500).jpg",
	} {
		if _, statErr := os.Stat(filepath.Join(dir, name)); statErr != nil {
			t.Errorf("Intermediate %s must remain after a decrypt failure: %v", name, statErr)
		}
	}
	if _, statErr := os.Stat(filepath.Join(dir, "Dune-AAX_22_64.m4b")); !os.IsNotExist(statErr) {
		t.Error("No output file should survive a failed decrypt")
	}
}

func TestE2E_AuthFailureSurfacesDiagnostic(t *testing.T) {
	w := e2eWorkflow(t, &audibleExec{fail: true, stderr: "Error: Unable to refresh access token: expired"}, &ffmpegExec{})
	defer w.Close()

	_, err := w.Run(context.Background(), data.Job{ASIN: "B002V5A12Y", OutputDir: t.TempDir()})
	if err == nil {
		t.Fatal("Run() should fail on an auth error")
	}

	var clientErr *sources.ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("Expected ClientError, got %v", err)
	}
	if clientErr.Stderr == "" {
		t.Error("Tool stderr must not be swallowed")
	}
}
