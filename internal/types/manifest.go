package types

import (
	"fmt"
	"sort"
	"strings"
)

// Character change categories.
const (
	CategoryInjury    = "injury"
	CategoryCostume   = "costume"
	CategoryDirt      = "dirt"
	CategoryEmotional = "emotional"
	CategoryProp      = "prop"
)

// Setting change categories.
const (
	CategoryDamage       = "damage"
	CategoryWeather      = "weather"
	CategoryLighting     = "lighting"
	CategoryClutter      = "clutter"
	CategoryModification = "modification"
)

// Clip durations accepted by the generation backend.
const (
	ClipShort = 4
	ClipLong  = 8
)

type CharacterAppearance struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Age         string `json:"age,omitempty"`
	Build       string `json:"build,omitempty"`
	Wardrobe    string `json:"wardrobe,omitempty"`
}

type StateChange struct {
	Character   string `json:"character"`
	Scene       int    `json:"scene"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Cumulative  bool   `json:"cumulative"`
}

func (c StateChange) SceneNumber() int   { return c.Scene }
func (c StateChange) Kind() string       { return c.Category }
func (c StateChange) IsCumulative() bool { return c.Cumulative }

type CharacterState struct {
	StateID   string              `json:"state_id"`
	Character string              `json:"character"`
	Scene     int                 `json:"scene"`
	Base      CharacterAppearance `json:"base"`
	Active    []StateChange       `json:"active_changes"`
}

type CharacterSheet struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Role          string              `json:"role,omitempty"`
	Descriptor    string              `json:"descriptor,omitempty"`
	Aliases       []string            `json:"aliases,omitempty"`
	Base          CharacterAppearance `json:"base"`
	IsPhysical    bool                `json:"is_physical"`
	States        []CharacterState    `json:"states"`
	NeededAngles  []string            `json:"needed_angles"`
	Scenes        []int               `json:"scenes"`
	DialogueLines int                 `json:"dialogue_lines"`
}

// State returns the state with the given id.
func (c CharacterSheet) State(id string) (CharacterState, bool) {
	for _, st := range c.States {
		if st.StateID == id {
			return st, true
		}
	}
	return CharacterState{}, false
}

// StateAt returns the latest state recorded at or before scene.
func (c CharacterSheet) StateAt(scene int) CharacterState {
	var cur CharacterState
	for _, st := range c.States {
		if st.Scene > scene {
			break
		}
		cur = st
	}
	return cur
}

type SettingStateChange struct {
	Setting     string `json:"setting"`
	Scene       int    `json:"scene"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Cumulative  bool   `json:"cumulative"`
}

func (c SettingStateChange) SceneNumber() int   { return c.Scene }
func (c SettingStateChange) Kind() string       { return c.Category }
func (c SettingStateChange) IsCumulative() bool { return c.Cumulative }

type SettingState struct {
	StateID string               `json:"state_id"`
	Setting string               `json:"setting"`
	Scene   int                  `json:"scene"`
	Active  []SettingStateChange `json:"active_changes"`
}

type SettingBase struct {
	ID           string         `json:"id"`
	IntExt       string         `json:"int_ext"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	TimeVariants []string       `json:"time_variants"`
	Scenes       []int          `json:"scenes"`
	Moods        []string       `json:"moods"`
	NeededAngles []string       `json:"needed_angles"`
	States       []SettingState `json:"states"`
}

func (s SettingBase) State(id string) (SettingState, bool) {
	for _, st := range s.States {
		if st.StateID == id {
			return st, true
		}
	}
	return SettingState{}, false
}

func (s SettingBase) StateAt(scene int) SettingState {
	var cur SettingState
	for _, st := range s.States {
		if st.Scene > scene {
			break
		}
		cur = st
	}
	return cur
}

// HasScene reports whether the setting was used in scene.
func (s SettingBase) HasScene(scene int) bool {
	i := sort.SearchInts(s.Scenes, scene)
	return i < len(s.Scenes) && s.Scenes[i] == scene
}

type ShotInitFrame struct {
	ShotID            string   `json:"shot_id"`
	Scene             int      `json:"scene"`
	Shot              int      `json:"shot"`
	GlobalOrder       int      `json:"global_order"`
	CharacterStateIDs []string `json:"character_state_ids"`
	SettingStateID    string   `json:"setting_state_id,omitempty"`
	TimeOfDay         string   `json:"time_of_day,omitempty"`
	CameraAngle       string   `json:"camera_angle"`
	Prompt            string   `json:"prompt"`
	Duration          float64  `json:"duration"`
	VeoBlockIndex     int      `json:"veo_block_index"`
	IsFirstFrame      bool     `json:"is_first_frame"`
	IsLastFrame       bool     `json:"is_last_frame"`
}

type Clip struct {
	ID                 string        `json:"id"`
	ShotID             string        `json:"shot_id"`
	Scene              int           `json:"scene"`
	GlobalOrder        int           `json:"global_order"`
	BlockIndex         int           `json:"block_index"`
	Duration           int           `json:"duration"`
	FirstFrame         ShotInitFrame `json:"first_frame"`
	LastFrame          string        `json:"last_frame,omitempty"`
	Prompt             string        `json:"prompt"`
	RequiresSequential bool          `json:"requires_sequential"`
}

type StyleBible struct {
	Palette    string   `json:"palette" toml:"palette"`
	Lighting   string   `json:"lighting" toml:"lighting"`
	Era        string   `json:"era" toml:"era"`
	Grain      string   `json:"grain" toml:"grain"`
	References []string `json:"references" toml:"references"`
}

// Compose renders the suffix appended to every generation prompt.
func (s StyleBible) Compose() string {
	var parts []string
	if v := strings.TrimSpace(s.Palette); v != "" {
		parts = append(parts, "palette: "+v)
	}
	if v := strings.TrimSpace(s.Lighting); v != "" {
		parts = append(parts, "lighting: "+v)
	}
	if v := strings.TrimSpace(s.Era); v != "" {
		parts = append(parts, "era: "+v)
	}
	if v := strings.TrimSpace(s.Grain); v != "" {
		parts = append(parts, v)
	}
	var refs []string
	for _, r := range s.References {
		if r = strings.TrimSpace(r); r != "" {
			refs = append(refs, r)
		}
	}
	if len(refs) > 0 {
		parts = append(parts, "in the visual style of "+strings.Join(refs, ", "))
	}
	return strings.Join(parts, ", ")
}

type VisualManifest struct {
	ProjectID           string               `json:"project_id"`
	Title               string               `json:"title"`
	Style               StyleBible           `json:"style_bible"`
	Characters          []CharacterSheet     `json:"characters"`
	Settings            []SettingBase        `json:"settings"`
	StateChanges        []StateChange        `json:"state_changes"`
	SettingStateChanges []SettingStateChange `json:"setting_state_changes"`
	InitFrames          []ShotInitFrame      `json:"init_frames"`
	Clips               []Clip               `json:"clips"`
}

func (m *VisualManifest) Character(name string) (CharacterSheet, bool) {
	for _, c := range m.Characters {
		if c.Name == name {
			return c, true
		}
	}
	return CharacterSheet{}, false
}

func (m *VisualManifest) Setting(id string) (SettingBase, bool) {
	for _, s := range m.Settings {
		if s.ID == id {
			return s, true
		}
	}
	return SettingBase{}, false
}

// StateID derives the identity of a state snapshot from its owner, the
// categories of its active changes and the scene it was recorded at.
func StateID(owner string, categories []string, scene int) string {
	set := make(map[string]struct{}, len(categories))
	uniq := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, ok := set[c]; ok {
			continue
		}
		set[c] = struct{}{}
		uniq = append(uniq, c)
	}
	sort.Strings(uniq)
	tag := "clean"
	if len(uniq) > 0 {
		tag = strings.Join(uniq, "+")
	}
	return fmt.Sprintf("%s_%s_s%d", owner, tag, scene)
}

// ClipID is derived from the shot's global order and the block index.
func ClipID(globalOrder, block int) string {
	return fmt.Sprintf("clip_%04d_%d", globalOrder, block)
}
