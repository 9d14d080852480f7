package manifest

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/forPelevin/vismanifest/internal/domain/settings"
	"github.com/forPelevin/vismanifest/internal/textutil"
	"github.com/forPelevin/vismanifest/internal/types"
)

type shotRef struct {
	shot     types.Shot
	slugline string
}

// initFrames builds one frame per shot, in global order, pointing at the
// character and setting states in effect at the shot's scene.
func initFrames(a types.Artifacts, m *types.VisualManifest, cs *cast, log *slog.Logger) []types.ShotInitFrame {
	sceneByNum := map[int]types.Scene{}
	for _, sc := range a.Screenplay.Scenes {
		if _, ok := sceneByNum[sc.Number]; !ok {
			sceneByNum[sc.Number] = sc
		}
	}

	// Shots without a global order follow every explicitly ordered shot, in
	// document order.
	next := 1
	for _, ss := range a.ShotList.Scenes {
		for _, sh := range ss.Shots {
			if sh.GlobalOrder >= next {
				next = sh.GlobalOrder + 1
			}
		}
	}

	var refs []shotRef
	for _, ss := range a.ShotList.Scenes {
		for _, sh := range ss.Shots {
			if sh.Scene == 0 {
				sh.Scene = ss.Number
			}
			if sh.GlobalOrder == 0 {
				sh.GlobalOrder = next
				next++
			}
			refs = append(refs, shotRef{shot: sh, slugline: ss.Slugline})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].shot.GlobalOrder < refs[j].shot.GlobalOrder
	})

	out := make([]types.ShotInitFrame, 0, len(refs))
	for _, r := range refs {
		sh := r.shot

		var intExt, loc, tod string
		if sc, ok := sceneByNum[sh.Scene]; ok {
			intExt, loc, tod = settings.SceneKey(sc)
		}
		if loc == "" {
			intExt, loc, tod = settings.ParseSlugline(r.slugline)
		}
		setting, hasSetting := m.Setting(settings.ID(intExt, loc))
		if loc == "" {
			hasSetting = false
		}

		f := types.ShotInitFrame{
			ShotID:            sh.ShotID,
			Scene:             sh.Scene,
			Shot:              sh.Shot,
			GlobalOrder:       sh.GlobalOrder,
			CharacterStateIDs: []string{},
			TimeOfDay:         tod,
			CameraAngle:       settings.AngleFor(sh.ShotType),
			Duration:          sh.Duration,
		}
		var settingState types.SettingState
		if hasSetting {
			settingState = setting.StateAt(sh.Scene)
			f.SettingStateID = settingState.StateID
		} else if loc != "" {
			log.Warn("shot location not found in screenplay", "shot", sh.ShotID, "location", loc)
		}

		framed := framedCharacters(sh, cs, log)
		charStates := make([]types.CharacterState, 0, len(framed))
		for _, c := range framed {
			st := c.StateAt(sh.Scene)
			charStates = append(charStates, st)
			f.CharacterStateIDs = append(f.CharacterStateIDs, st.StateID)
		}

		var settingPtr *types.SettingBase
		if hasSetting {
			settingPtr = &setting
		}
		f.Prompt = framePrompt(sh, f.CameraAngle, tod, framed, charStates, settingPtr, settingState)
		out = append(out, f)
	}
	return out
}

// framedCharacters resolves the names listed on a shot. A shot without names
// frames every physical character present in its scene.
func framedCharacters(sh types.Shot, cs *cast, log *slog.Logger) []types.CharacterSheet {
	var out []types.CharacterSheet
	if len(sh.Characters) == 0 {
		for _, c := range cs.ordered {
			if c.IsPhysical && hasScene(c.Scenes, sh.Scene) {
				out = append(out, c)
			}
		}
		return out
	}
	seen := map[int]struct{}{}
	for _, name := range sh.Characters {
		i, ok := cs.resolve(name)
		if !ok {
			log.Warn("unresolved character in shot", "shot", sh.ShotID, "name", name)
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		if c := cs.ordered[i]; c.IsPhysical {
			out = append(out, c)
		}
	}
	return out
}

func framePrompt(sh types.Shot, angle, tod string, framed []types.CharacterSheet, charStates []types.CharacterState, setting *types.SettingBase, settingState types.SettingState) string {
	var parts []string
	if v := strings.TrimSpace(sh.VisualPrompt); v != "" {
		parts = append(parts, strings.TrimRight(v, ". "))
	}
	parts = append(parts, angle+" shot")
	for i, c := range framed {
		desc := textutil.Display(c.Name)
		if c.Base.Description != "" {
			desc += ", " + strings.TrimRight(c.Base.Description, ". ")
		}
		for _, ch := range charStates[i].Active {
			desc += "; " + strings.TrimRight(ch.Description, ". ")
		}
		parts = append(parts, desc)
	}
	if setting != nil {
		desc := "setting: " + strings.ToLower(strings.TrimSpace(setting.IntExt+" "+setting.Name))
		if tod != "" {
			desc += ", " + strings.ToLower(tod)
		}
		if setting.Description != "" {
			desc += ", " + strings.TrimRight(setting.Description, ". ")
		}
		for _, ch := range settingState.Active {
			desc += "; " + strings.TrimRight(ch.Description, ". ")
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, ". ")
}

func containsWord(haystack, word string) bool {
	return strings.Contains(" "+haystack+" ", " "+word+" ")
}
