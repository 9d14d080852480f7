package ports

import (
	"context"

	"github.com/forPelevin/vismanifest/internal/types"
)

// ArtifactSource loads the screenplay, shot breakdown and roster. A missing
// document is reported as a *types.MissingArtifactError.
type ArtifactSource interface {
	Load(ctx context.Context, paths types.ArtifactPaths) (types.Artifacts, error)
}

// SnapshotStore persists named JSON snapshots inside a run directory.
type SnapshotStore interface {
	Save(ctx context.Context, dir, name string, v any) error
	Load(ctx context.Context, dir, name string, v any) error
}

// ClipGenerator realizes one clip. prevFrame is the last frame produced by the
// previous clip of the same shot, empty for the first block. The returned
// value identifies the clip's own last frame.
type ClipGenerator interface {
	Generate(ctx context.Context, clip types.Clip, prevFrame string) (string, error)
}
