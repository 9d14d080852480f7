// Package prompts walks a finished manifest and emits the image generation
// requests for it.
package prompts

import (
	"strconv"
	"strings"

	"github.com/forPelevin/vismanifest/internal/textutil"
	"github.com/forPelevin/vismanifest/internal/types"
)

const (
	DefaultNegative        = "blurry, low quality, distorted anatomy, extra limbs, watermark, text, logo"
	DefaultNegativeSetting = "people, characters, figures, crowds"
)

type Size struct {
	Width  int
	Height int
}

type Options struct {
	// Style replaces the manifest's style bible when it composes to a
	// non-empty suffix.
	Style                  types.StyleBible
	NegativeBase           string
	NegativeSettingExtra   string
	ReferenceSize          Size
	FrameSize              Size
	DefaultCharacterAngles []string
	DefaultSettingAngles   []string
}

func DefaultOptions() Options {
	return Options{
		NegativeBase:           DefaultNegative,
		NegativeSettingExtra:   DefaultNegativeSetting,
		ReferenceSize:          Size{Width: 1024, Height: 1024},
		FrameSize:              Size{Width: 1280, Height: 720},
		DefaultCharacterAngles: []string{"front", "profile"},
		DefaultSettingAngles:   []string{"wide", "establishing"},
	}
}

type Builder struct{ o Options }

// NewBuilder fills unset options from DefaultOptions.
func NewBuilder(o Options) Builder {
	d := DefaultOptions()
	if o.NegativeBase == "" {
		o.NegativeBase = d.NegativeBase
	}
	if o.NegativeSettingExtra == "" {
		o.NegativeSettingExtra = d.NegativeSettingExtra
	}
	if o.ReferenceSize.Width <= 0 || o.ReferenceSize.Height <= 0 {
		o.ReferenceSize = d.ReferenceSize
	}
	if o.FrameSize.Width <= 0 || o.FrameSize.Height <= 0 {
		o.FrameSize = d.FrameSize
	}
	if len(o.DefaultCharacterAngles) == 0 {
		o.DefaultCharacterAngles = d.DefaultCharacterAngles
	}
	if len(o.DefaultSettingAngles) == 0 {
		o.DefaultSettingAngles = d.DefaultSettingAngles
	}
	return Builder{o: o}
}

// Build is a pure function of the manifest. Requests are emitted in category
// order and reference only ids emitted earlier in the batch.
func (b Builder) Build(m *types.VisualManifest) types.PromptBatch {
	style := m.Style.Compose()
	if s := b.o.Style.Compose(); s != "" {
		style = s
	}
	r := refs{
		charRef:  map[string]string{},
		setRef:   map[string]map[string]string{},
		setFirst: map[string]string{},
	}

	batch := types.PromptBatch{
		ProjectID:           m.ProjectID,
		Title:               m.Title,
		CharacterReferences: []types.GenerationRequest{},
		SettingReferences:   []types.GenerationRequest{},
		CharacterStates:     []types.GenerationRequest{},
		SettingStates:       []types.GenerationRequest{},
		InitFrames:          []types.GenerationRequest{},
	}

	for _, c := range m.Characters {
		if !c.IsPhysical {
			continue
		}
		for _, angle := range orDefault(c.NeededAngles, b.o.DefaultCharacterAngles) {
			id := "charref_" + c.ID + "_" + textutil.Slug(angle)
			if _, ok := r.charRef[c.ID]; !ok {
				r.charRef[c.ID] = id
			}
			batch.CharacterReferences = append(batch.CharacterReferences, b.request(
				id, types.PromptCharacterReference,
				join("character reference of "+characterText(c), angle+" view", "neutral studio background", "full body"),
				style, false, b.o.ReferenceSize, nil,
				map[string]string{"character": c.Name, "character_id": c.ID, "angle": angle, "state_id": baselineID(c.States)},
			))
		}
	}

	for _, s := range m.Settings {
		r.setRef[s.ID] = map[string]string{}
		tods := s.TimeVariants
		if len(tods) == 0 {
			tods = []string{""}
		}
		for _, tod := range tods {
			todSlug := textutil.Slug(tod)
			if todSlug == "" {
				todSlug = "any"
			}
			for _, angle := range orDefault(s.NeededAngles, b.o.DefaultSettingAngles) {
				id := "setref_" + s.ID + "_" + todSlug + "_" + textutil.Slug(angle)
				if _, ok := r.setRef[s.ID][tod]; !ok {
					r.setRef[s.ID][tod] = id
				}
				if _, ok := r.setFirst[s.ID]; !ok {
					r.setFirst[s.ID] = id
				}
				batch.SettingReferences = append(batch.SettingReferences, b.request(
					id, types.PromptSettingReference,
					join(settingText(s, tod), strings.Join(s.Moods, ", "), angle+" view", "empty of people"),
					style, true, b.o.ReferenceSize, nil,
					map[string]string{"setting": s.ID, "time_of_day": tod, "angle": angle, "state_id": settingBaselineID(s.States)},
				))
			}
		}
	}

	for _, c := range m.Characters {
		if !c.IsPhysical {
			continue
		}
		for _, st := range c.States {
			if len(st.Active) == 0 {
				continue
			}
			var changes []string
			for _, ch := range st.Active {
				changes = append(changes, trimEnd(ch.Description))
			}
			batch.CharacterStates = append(batch.CharacterStates, b.request(
				"charstate_"+st.StateID, types.PromptCharacterState,
				join(characterText(c), "now: "+strings.Join(changes, "; "), "front view", "neutral studio background"),
				style, false, b.o.ReferenceSize, nonEmpty(r.charRef[c.ID]),
				map[string]string{"character": c.Name, "character_id": c.ID, "state_id": st.StateID, "scene": strconv.Itoa(st.Scene)},
			))
		}
	}

	for _, s := range m.Settings {
		for _, st := range s.States {
			if len(st.Active) == 0 {
				continue
			}
			var changes []string
			for _, ch := range st.Active {
				changes = append(changes, trimEnd(ch.Description))
			}
			batch.SettingStates = append(batch.SettingStates, b.request(
				"setstate_"+st.StateID, types.PromptSettingState,
				join(settingText(s, ""), "now: "+strings.Join(changes, "; "), "empty of people"),
				style, true, b.o.ReferenceSize, nonEmpty(r.setFirst[s.ID]),
				map[string]string{"setting": s.ID, "state_id": st.StateID, "scene": strconv.Itoa(st.Scene)},
			))
		}
	}

	owners := stateOwners(m)
	for _, f := range m.InitFrames {
		if !f.IsFirstFrame {
			continue
		}
		var refIDs []string
		for _, id := range f.CharacterStateIDs {
			o := owners[id]
			if o.active {
				refIDs = append(refIDs, "charstate_"+id)
			} else if ref := r.charRef[o.owner]; ref != "" {
				refIDs = append(refIDs, ref)
			}
		}
		if id := f.SettingStateID; id != "" {
			o := owners[id]
			if o.active {
				refIDs = append(refIDs, "setstate_"+id)
			} else if ref := r.setting(o.owner, f.TimeOfDay); ref != "" {
				refIDs = append(refIDs, ref)
			}
		}
		batch.InitFrames = append(batch.InitFrames, b.request(
			"init_"+f.ShotID, types.PromptInitFrame,
			join(f.Prompt, "cinematic film still"),
			style, false, b.o.FrameSize, refIDs,
			map[string]string{
				"shot_id":             f.ShotID,
				"scene":               strconv.Itoa(f.Scene),
				"global_order":        strconv.Itoa(f.GlobalOrder),
				"camera_angle":        f.CameraAngle,
				"setting_state_id":    f.SettingStateID,
				"character_state_ids": strings.Join(f.CharacterStateIDs, ","),
			},
		))
	}
	return batch
}

func (b Builder) request(id, category, prompt, style string, setting bool, size Size, refIDs []string, meta map[string]string) types.GenerationRequest {
	neg := b.o.NegativeBase
	if setting && b.o.NegativeSettingExtra != "" {
		neg = join(neg, b.o.NegativeSettingExtra)
	}
	if refIDs == nil {
		refIDs = []string{}
	}
	return types.GenerationRequest{
		ID:             id,
		Category:       category,
		Prompt:         join(prompt, style),
		NegativePrompt: neg,
		ReferenceIDs:   refIDs,
		Width:          size.Width,
		Height:         size.Height,
		Metadata:       meta,
	}
}

type refs struct {
	charRef  map[string]string
	setRef   map[string]map[string]string
	setFirst map[string]string
}

func (r refs) setting(id, tod string) string {
	if ref := r.setRef[id][tod]; ref != "" {
		return ref
	}
	return r.setFirst[id]
}

type stateOwner struct {
	owner  string
	active bool
}

func stateOwners(m *types.VisualManifest) map[string]stateOwner {
	out := map[string]stateOwner{}
	for _, c := range m.Characters {
		for _, st := range c.States {
			out[st.StateID] = stateOwner{owner: c.ID, active: len(st.Active) > 0}
		}
	}
	for _, s := range m.Settings {
		for _, st := range s.States {
			out[st.StateID] = stateOwner{owner: s.ID, active: len(st.Active) > 0}
		}
	}
	return out
}

func characterText(c types.CharacterSheet) string {
	parts := []string{textutil.Display(c.Name)}
	if c.Base.Age != "" {
		parts = append(parts, "age "+c.Base.Age)
	}
	if c.Base.Description != "" {
		parts = append(parts, trimEnd(c.Base.Description))
	}
	if c.Base.Build != "" && !strings.Contains(strings.ToLower(c.Base.Description), c.Base.Build) {
		parts = append(parts, c.Base.Build+" build")
	}
	if c.Base.Wardrobe != "" && !strings.Contains(c.Base.Description, c.Base.Wardrobe) {
		parts = append(parts, "wearing "+c.Base.Wardrobe)
	}
	return join(parts...)
}

func settingText(s types.SettingBase, tod string) string {
	head := strings.ToLower(strings.TrimSpace(s.IntExt + " " + s.Name))
	if tod != "" {
		head += ", " + strings.ToLower(tod)
	}
	return join(head, trimEnd(s.Description))
}

func baselineID(states []types.CharacterState) string {
	if len(states) == 0 {
		return ""
	}
	return states[0].StateID
}

func settingBaselineID(states []types.SettingState) string {
	if len(states) == 0 {
		return ""
	}
	return states[0].StateID
}

func orDefault(v, d []string) []string {
	if len(v) > 0 {
		return v
	}
	return d
}

func nonEmpty(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}

func trimEnd(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ". ")
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
