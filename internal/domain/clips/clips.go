package clips

import (
	"math"
	"sort"

	"github.com/forPelevin/vismanifest/internal/types"
)

// Durations splits a requested shot duration into generation-unit durations.
// Long blocks are emitted while more than a long block remains; the remainder
// becomes one short block when it fits, otherwise one long block. A shot
// always produces at least one block. Requests above types.MaxShotDuration
// are clamped to it.
func Durations(requested float64) []int {
	if requested <= 0 {
		return []int{types.ClipShort}
	}
	requested = math.Min(requested, types.MaxShotDuration)
	long := int(math.Ceil(requested/types.ClipLong)) - 1
	out := make([]int, long, long+1)
	for i := range out {
		out[i] = types.ClipLong
	}
	if requested-float64(long*types.ClipLong) <= types.ClipShort {
		return append(out, types.ClipShort)
	}
	return append(out, types.ClipLong)
}

// Decompose expands every shot frame into one frame per block and emits the
// matching clips. Frames are processed in ascending global order.
func Decompose(shots []types.ShotInitFrame) ([]types.ShotInitFrame, []types.Clip) {
	sorted := make([]types.ShotInitFrame, len(shots))
	copy(sorted, shots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GlobalOrder < sorted[j].GlobalOrder
	})

	frames := make([]types.ShotInitFrame, 0, len(sorted))
	var clips []types.Clip
	for _, shot := range sorted {
		blocks := Durations(shot.Duration)
		for i, d := range blocks {
			f := shot
			f.CharacterStateIDs = append([]string(nil), shot.CharacterStateIDs...)
			f.VeoBlockIndex = i
			f.IsFirstFrame = i == 0
			f.IsLastFrame = i == len(blocks)-1
			frames = append(frames, f)

			clips = append(clips, types.Clip{
				ID:                 types.ClipID(shot.GlobalOrder, i),
				ShotID:             shot.ShotID,
				Scene:              shot.Scene,
				GlobalOrder:        shot.GlobalOrder,
				BlockIndex:         i,
				Duration:           d,
				FirstFrame:         f,
				Prompt:             shot.Prompt,
				RequiresSequential: i > 0,
			})
		}
	}
	return frames, clips
}

// Bundle summarizes how the clips can be dispatched: first blocks have no
// dependency and may run in parallel, the rest chain behind their predecessor.
func Bundle(clips []types.Clip, frames []types.ShotInitFrame) types.ClipBundle {
	var b types.ClipBundle
	chainIdx := map[string]int{}
	for _, c := range clips {
		b.TotalClips++
		b.ClipDuration += c.Duration
		if c.RequiresSequential {
			b.Sequential++
		} else {
			b.ParallelEligible++
		}
		i, ok := chainIdx[c.ShotID]
		if !ok {
			i = len(b.Chains)
			chainIdx[c.ShotID] = i
			b.Chains = append(b.Chains, types.ClipChain{ShotID: c.ShotID})
		}
		b.Chains[i].ClipIDs = append(b.Chains[i].ClipIDs, c.ID)
		b.Chains[i].Duration += c.Duration
	}
	for _, f := range frames {
		if f.IsFirstFrame {
			b.RequestedDuration += f.Duration
		}
	}
	return b
}
