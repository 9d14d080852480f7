// Package dryrun is a ClipGenerator that calls no backend. It returns a
// deterministic frame reference per clip so chains can be rehearsed offline.
package dryrun

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forPelevin/vismanifest/internal/types"
)

type Adapter struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Adapter{log: log}
}

func (a *Adapter) Generate(ctx context.Context, clip types.Clip, prevFrame string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if clip.RequiresSequential && prevFrame == "" {
		return "", fmt.Errorf("%w: clip %s needs the previous block's last frame", types.ErrMalformedReference, clip.ID)
	}
	a.log.Debug("dry run clip", "clip", clip.ID, "shot", clip.ShotID, "duration", clip.Duration, "from", prevFrame)
	return fmt.Sprintf("dryrun://%s/last", clip.ID), nil
}
