package integrations

import (
	"context"

	"github.com/JaegerMaster/audible-dl/pkg/data"
)

// Decrypter turns a fetched artifact set into a standard playable file.
type Decrypter interface {
	// Decrypt writes the chaptered output file into outputDir and
	// returns its path. On failure nothing usable is left behind.
	Decrypt(ctx context.Context, artifacts data.ArtifactSet, outputDir string) (string, error)
	// Verify runs an integrity check over a decrypted file.
	Verify(ctx context.Context, path string) error
}
