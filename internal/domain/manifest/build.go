// Package manifest turns the screenplay, shot breakdown and roster into a
// VisualManifest.
package manifest

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/forPelevin/vismanifest/internal/domain/characters"
	"github.com/forPelevin/vismanifest/internal/domain/clips"
	"github.com/forPelevin/vismanifest/internal/domain/settings"
	"github.com/forPelevin/vismanifest/internal/domain/states"
	"github.com/forPelevin/vismanifest/internal/textutil"
	"github.com/forPelevin/vismanifest/internal/types"
)

type Options struct {
	ProjectID string
	Title     string
	Style     types.StyleBible
	Logger    *slog.Logger
}

// Build parses the artifacts into a manifest. The result is a pure function
// of the inputs. It fails on a shot list with colliding identities
// (types.ErrInvalidShotList) or on a broken state reference, reported as a
// *types.ReferenceError.
func Build(a types.Artifacts, opts Options) (*types.VisualManifest, error) {
	if err := a.ShotList.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	title := opts.Title
	if title == "" {
		title = a.Screenplay.Title
	}

	m := &types.VisualManifest{
		ProjectID: opts.ProjectID,
		Title:     title,
		Style:     opts.Style,
	}

	merged := characters.Merge(characters.Collect(a.Roster, a.Screenplay))
	cs := newCast(merged)
	for _, c := range cs.ordered {
		if c.Base.Description == "" {
			log.Warn("ambiguous extraction: no description", "character", c.Name)
		}
	}

	sets := settings.Extract(a.Screenplay)
	for _, s := range sets {
		if s.Description == "" {
			log.Warn("ambiguous extraction: no description", "setting", s.ID)
		}
	}

	charChanges, setChanges := detectChanges(a.Screenplay, cs)
	m.StateChanges = charChanges
	m.SettingStateChanges = setChanges

	for i := range cs.ordered {
		cs.ordered[i].States = characterStates(cs.ordered[i], charChanges)
	}
	for i := range sets {
		sets[i].States = settingStates(sets[i], setChanges)
	}

	assignAngles(settings.ShotAngles(a.ShotList), sets, cs.ordered)

	m.Characters = cs.ordered
	m.Settings = sets

	frames := initFrames(a, m, cs, log)
	m.InitFrames, m.Clips = clips.Decompose(frames)

	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

func detectChanges(sp types.Screenplay, cs *cast) ([]types.StateChange, []types.SettingStateChange) {
	scenes := append([]types.Scene(nil), sp.Scenes...)
	sort.SliceStable(scenes, func(i, j int) bool { return scenes[i].Number < scenes[j].Number })

	var charOut []types.StateChange
	var setOut []types.SettingStateChange
	for _, sc := range scenes {
		text := sc.ActionText()
		if text == "" {
			continue
		}
		if hits := states.Detect(states.CharacterFamilies, text); len(hits) > 0 {
			// Every physical character present in the scene takes every change.
			for _, c := range cs.ordered {
				if !c.IsPhysical || !hasScene(c.Scenes, sc.Number) {
					continue
				}
				for _, h := range hits {
					charOut = append(charOut, types.StateChange{
						Character:   c.Name,
						Scene:       sc.Number,
						Category:    h.Category,
						Description: h.Description,
						Cumulative:  h.Cumulative,
					})
				}
			}
		}
		intExt, loc, _ := settings.SceneKey(sc)
		if loc == "" {
			continue
		}
		id := settings.ID(intExt, loc)
		for _, h := range states.Detect(states.SettingFamilies, text) {
			setOut = append(setOut, types.SettingStateChange{
				Setting:     id,
				Scene:       sc.Number,
				Category:    h.Category,
				Description: h.Description,
				Cumulative:  h.Cumulative,
			})
		}
	}
	if charOut == nil {
		charOut = []types.StateChange{}
	}
	if setOut == nil {
		setOut = []types.SettingStateChange{}
	}
	return charOut, setOut
}

func characterStates(c types.CharacterSheet, all []types.StateChange) []types.CharacterState {
	var own []types.StateChange
	for _, ch := range all {
		if ch.Character == c.Name {
			own = append(own, ch)
		}
	}
	snaps := states.Timeline(c.ID, own)
	out := make([]types.CharacterState, 0, len(snaps))
	for _, s := range snaps {
		active := s.Active
		if active == nil {
			active = []types.StateChange{}
		}
		out = append(out, types.CharacterState{
			StateID:   s.ID,
			Character: c.Name,
			Scene:     s.Scene,
			Base:      c.Base,
			Active:    active,
		})
	}
	return out
}

func settingStates(s types.SettingBase, all []types.SettingStateChange) []types.SettingState {
	var own []types.SettingStateChange
	for _, ch := range all {
		if ch.Setting == s.ID {
			own = append(own, ch)
		}
	}
	snaps := states.Timeline(s.ID, own)
	out := make([]types.SettingState, 0, len(snaps))
	for _, sn := range snaps {
		active := sn.Active
		if active == nil {
			active = []types.SettingStateChange{}
		}
		out = append(out, types.SettingState{
			StateID: sn.ID,
			Setting: s.ID,
			Scene:   sn.Scene,
			Active:  active,
		})
	}
	return out
}

// assignAngles gives each setting the angles requested at its location, and
// each physical character the union of the angles of every setting it
// appears in.
func assignAngles(byLocation map[string][]string, sets []types.SettingBase, sheets []types.CharacterSheet) {
	for i := range sets {
		sets[i].NeededAngles = append([]string{}, byLocation[sets[i].Name]...)
	}
	for i := range sheets {
		if !sheets[i].IsPhysical {
			continue
		}
		union := map[string]struct{}{}
		for _, s := range sets {
			if len(s.NeededAngles) == 0 {
				continue
			}
			for _, sc := range sheets[i].Scenes {
				if s.HasScene(sc) {
					for _, a := range s.NeededAngles {
						union[a] = struct{}{}
					}
					break
				}
			}
		}
		for a := range union {
			sheets[i].NeededAngles = append(sheets[i].NeededAngles, a)
		}
		sort.Strings(sheets[i].NeededAngles)
	}
}

func hasScene(scenes []int, n int) bool {
	i := sort.SearchInts(scenes, n)
	return i < len(scenes) && scenes[i] == n
}

// cast is the merged character list plus the lookup used to resolve the
// names written in the shot breakdown.
type cast struct {
	ordered []types.CharacterSheet
	byKey   map[string]int
}

func newCast(merged map[string]characters.Candidate) *cast {
	cands := make([]characters.Candidate, 0, len(merged))
	for _, c := range merged {
		cands = append(cands, c)
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Order != cands[j].Order {
			return cands[i].Order < cands[j].Order
		}
		return cands[i].Name < cands[j].Name
	})

	cs := &cast{byKey: map[string]int{}}
	taken := map[string]bool{}
	for i, c := range cands {
		sheet := types.CharacterSheet{
			ID:            uniqueID(textutil.Slug(characters.Normalize(c.Name)), taken),
			Name:          c.Name,
			Role:          c.Role,
			Descriptor:    c.Descriptor,
			Aliases:       c.Aliases,
			Base:          characters.Appearance(c),
			IsPhysical:    characters.IsPhysical(c),
			NeededAngles:  []string{},
			Scenes:        c.SceneList(),
			DialogueLines: c.DialogueLines,
		}
		cs.ordered = append(cs.ordered, sheet)
		for _, alias := range append([]string{c.Name}, c.Aliases...) {
			if key := characters.Normalize(alias); key != "" {
				if _, ok := cs.byKey[key]; !ok {
					cs.byKey[key] = i
				}
			}
		}
	}
	return cs
}

// uniqueID returns base, or base-2, base-3... when distinct names share a
// slug ("DR. SMITH" and "DR SMITH").
func uniqueID(base string, taken map[string]bool) string {
	if base == "" {
		base = "character"
	}
	id := base
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	taken[id] = true
	return id
}

// resolve finds the sheet for a raw name. Unknown names fall back to the
// longest known key containing them as a whole word.
func (c *cast) resolve(name string) (int, bool) {
	key := characters.Normalize(name)
	if key == "" {
		return 0, false
	}
	if i, ok := c.byKey[key]; ok {
		return i, true
	}
	best, bestLen := -1, 0
	for k, i := range c.byKey {
		if len(k) > bestLen && containsWord(k, key) {
			best, bestLen = i, len(k)
		} else if len(k) == bestLen && best >= 0 && i < best && containsWord(k, key) {
			best = i
		}
	}
	return best, best >= 0
}
