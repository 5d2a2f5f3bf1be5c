package picker

import (
	"context"

	"github.com/runger/omnibar/internal/catalog"
)

// Loader supplies the snapshot a picker session searches. It is called once
// per session. Implementations might read from running browsers, profile
// files, or a fixed list in tests.
type Loader interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*catalog.Snapshot, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context) (*catalog.Snapshot, error) {
	return f(ctx)
}

// StaticLoader returns a Loader that always yields snap.
func StaticLoader(snap *catalog.Snapshot) Loader {
	return LoaderFunc(func(context.Context) (*catalog.Snapshot, error) {
		return snap, nil
	})
}
