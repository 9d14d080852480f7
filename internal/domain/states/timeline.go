package states

import (
	"sort"

	"github.com/forPelevin/vismanifest/internal/types"
)

// Delta is a categorized change recorded at a scene.
type Delta interface {
	SceneNumber() int
	Kind() string
	IsCumulative() bool
}

// Snapshot is the set of changes active after a given scene.
type Snapshot[D Delta] struct {
	ID     string
	Scene  int
	Active []D
}

// Timeline replays changes in scene order and returns the deduplicated
// snapshots, seeded with a clean scene-0 entry.
//
// Cumulative changes stack. A non-cumulative change first evicts any active
// change of the same category. Snapshot identity is types.StateID, which
// embeds the scene number, so an identity seen again can only come from the
// same scene; the recorded snapshot is then refreshed to the scene's final
// set of changes.
func Timeline[D Delta](owner string, changes []D) []Snapshot[D] {
	sorted := make([]D, len(changes))
	copy(sorted, changes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SceneNumber() < sorted[j].SceneNumber()
	})

	out := []Snapshot[D]{{ID: types.StateID(owner, nil, 0), Scene: 0}}
	index := map[string]int{out[0].ID: 0}

	var active []D
	for _, ch := range sorted {
		if !ch.IsCumulative() {
			kept := active[:0:0]
			for _, a := range active {
				if a.Kind() != ch.Kind() {
					kept = append(kept, a)
				}
			}
			active = kept
		}
		active = append(active, ch)

		cats := make([]string, 0, len(active))
		for _, a := range active {
			cats = append(cats, a.Kind())
		}
		id := types.StateID(owner, cats, ch.SceneNumber())
		snap := make([]D, len(active))
		copy(snap, active)

		if i, ok := index[id]; ok {
			out[i].Active = snap
			continue
		}
		index[id] = len(out)
		out = append(out, Snapshot[D]{ID: id, Scene: ch.SceneNumber(), Active: snap})
	}
	return out
}
