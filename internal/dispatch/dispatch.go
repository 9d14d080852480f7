// Package dispatch drives clip generation. Each shot is a chain: its clips run
// strictly in block order, every block receiving the previous block's last
// frame. Chains are independent and run concurrently.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/vismanifest/internal/ports"
	"github.com/forPelevin/vismanifest/internal/types"
)

// Chain is the ordered clip sequence of one shot.
type Chain struct {
	ShotID string
	Clips  []types.Clip
}

// Result records what the generator returned for one clip.
type Result struct {
	ClipID    string `json:"clip_id"`
	ShotID    string `json:"shot_id"`
	PrevFrame string `json:"prev_frame,omitempty"`
	LastFrame string `json:"last_frame"`
}

// Plan groups clips into chains in global order. It fails if a chain does not
// start with an independent block or if a later block is not sequential.
func Plan(clips []types.Clip) ([]Chain, error) {
	sorted := append([]types.Clip(nil), clips...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GlobalOrder != sorted[j].GlobalOrder {
			return sorted[i].GlobalOrder < sorted[j].GlobalOrder
		}
		return sorted[i].BlockIndex < sorted[j].BlockIndex
	})

	var chains []Chain
	idx := map[string]int{}
	for _, c := range sorted {
		i, ok := idx[c.ShotID]
		if !ok {
			if c.RequiresSequential {
				return nil, fmt.Errorf("%w: clip %s opens shot %s but requires a predecessor", types.ErrMalformedReference, c.ID, c.ShotID)
			}
			i = len(chains)
			idx[c.ShotID] = i
			chains = append(chains, Chain{ShotID: c.ShotID})
		} else if !c.RequiresSequential {
			return nil, fmt.Errorf("%w: clip %s continues shot %s but is not sequential", types.ErrMalformedReference, c.ID, c.ShotID)
		}
		chains[i].Clips = append(chains[i].Clips, c)
	}
	return chains, nil
}

type Runner struct {
	Gen         ports.ClipGenerator
	MaxParallel int
	Logger      *slog.Logger
}

// Run generates every clip. The first failure cancels the remaining chains
// and is returned unchanged. Results are ordered by chain, then block.
func (r Runner) Run(ctx context.Context, clips []types.Clip) ([]Result, error) {
	chains, err := Plan(clips)
	if err != nil {
		return nil, err
	}
	log := r.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	results := make([][]Result, len(chains))
	var mu sync.Mutex
	done := 0

	eg, egCtx := errgroup.WithContext(ctx)
	if r.MaxParallel > 0 {
		eg.SetLimit(r.MaxParallel)
	}
	for i, ch := range chains {
		eg.Go(func() error {
			prev := ""
			for _, c := range ch.Clips {
				if err := egCtx.Err(); err != nil {
					return err
				}
				last, err := r.Gen.Generate(egCtx, c, prev)
				if err != nil {
					return fmt.Errorf("generate %s: %w", c.ID, err)
				}
				results[i] = append(results[i], Result{ClipID: c.ID, ShotID: c.ShotID, PrevFrame: prev, LastFrame: last})
				prev = last
			}
			mu.Lock()
			done++
			log.Debug("chain complete", "shot", ch.ShotID, "clips", len(ch.Clips), "done", done, "total", len(chains))
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []Result
	for _, rs := range results {
		out = append(out, rs...)
	}
	return out, nil
}
