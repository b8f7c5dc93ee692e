package sources

import (
	"context"

	"github.com/JaegerMaster/audible-dl/pkg/data"
)

// Source is a remote audiobook library: it lists owned titles and
// fetches the encrypted container plus license material for one of them.
type Source interface {
	ListLibrary(ctx context.Context) ([]data.Book, error)
	FetchBook(ctx context.Context, asin, destDir string) (data.ArtifactSet, error)
}
