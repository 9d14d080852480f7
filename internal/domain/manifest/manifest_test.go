package manifest

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/forPelevin/vismanifest/internal/types"
)

func fixture() types.Artifacts {
	return types.Artifacts{
		Roster: types.Roster{Characters: []types.RosterEntry{
			{Role: "protagonist", Name: "Maya Chen", Descriptor: "lead engineer in a grey jumpsuit"},
			{Role: "antagonist", Name: "THE SYSTEM", Descriptor: "a rogue network intelligence"},
		}},
		Screenplay: types.Screenplay{Title: "Lockout", Scenes: []types.Scene{
			{
				Number: 1, Slugline: "INT. LAB - NIGHT", IntExt: "INT", Location: "LAB", TimeOfDay: "NIGHT",
				Elements: []types.Element{
					{Type: types.ElementAction, Text: "MAYA CHEN, 34, a wiry engineer, hunches over a console. Rain hammers the skylight."},
					{Type: types.ElementCharacter, Text: "MAYA"},
					{Type: types.ElementDialogue, Text: "Open the door."},
					{Type: types.ElementCharacter, Text: "THE SYSTEM (V.O.)"},
					{Type: types.ElementDialogue, Text: "I can't do that."},
				},
				CharactersPresent: []string{"MAYA CHEN"},
			},
			{
				Number: 2, Slugline: "INT. LAB - DAY", IntExt: "INT", Location: "LAB", TimeOfDay: "DAY",
				Elements: []types.Element{
					{Type: types.ElementAction, Text: "Maya's arm is bleeding. Glass lies shattered across the floor."},
				},
				CharactersPresent: []string{"MAYA"},
			},
		}},
		ShotList: types.ShotList{Scenes: []types.ShotScene{
			{Number: 1, Slugline: "INT. LAB - NIGHT", Shots: []types.Shot{
				{ShotID: "1A", Scene: 1, Shot: 1, GlobalOrder: 1, ShotType: "WS", Duration: 10, VisualPrompt: "Maya at the console", Characters: []string{"MAYA"}},
				{ShotID: "1B", Scene: 1, Shot: 2, GlobalOrder: 2, ShotType: "CU", Duration: 3, VisualPrompt: "The screen flickers", Characters: []string{"THE SYSTEM"}},
			}},
			{Number: 2, Slugline: "INT. LAB - DAY", Shots: []types.Shot{
				{ShotID: "2A", Scene: 2, Shot: 1, GlobalOrder: 3, ShotType: "OTS", Duration: 6, Characters: []string{"MAYA CHEN", "GHOST"}},
			}},
		}},
	}
}

func TestBuild_Characters(t *testing.T) {
	m, err := Build(fixture(), Options{ProjectID: "p1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Title != "Lockout" {
		t.Fatalf("title = %q", m.Title)
	}
	if len(m.Characters) != 2 {
		t.Fatalf("expected 2 characters, got %d: %+v", len(m.Characters), m.Characters)
	}
	maya, ok := m.Character("Maya Chen")
	if !ok {
		t.Fatalf("Maya Chen missing")
	}
	if maya.ID != "maya-chen" || !maya.IsPhysical || !reflect.DeepEqual(maya.Scenes, []int{1, 2}) {
		t.Fatalf("unexpected sheet: %+v", maya)
	}
	if maya.Base.Age != "34" || maya.Base.Build != "wiry" {
		t.Fatalf("unexpected appearance: %+v", maya.Base)
	}
	if !reflect.DeepEqual(maya.NeededAngles, []string{"close-up", "over-the-shoulder", "wide"}) {
		t.Fatalf("unexpected angles: %v", maya.NeededAngles)
	}
	sys, ok := m.Character("THE SYSTEM")
	if !ok || sys.IsPhysical {
		t.Fatalf("THE SYSTEM should exist and be non-physical: %+v", sys)
	}
	if len(sys.NeededAngles) != 0 || len(sys.States) != 1 {
		t.Fatalf("non-physical character should only have its baseline: %+v", sys)
	}
}

func TestBuild_StateTimelines(t *testing.T) {
	m, err := Build(fixture(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	maya, _ := m.Character("Maya Chen")
	var ids []string
	for _, st := range maya.States {
		ids = append(ids, st.StateID)
	}
	if !reflect.DeepEqual(ids, []string{"maya-chen_clean_s0", "maya-chen_injury_s2"}) {
		t.Fatalf("unexpected character states %v", ids)
	}
	if got := maya.States[1].Active[0].Description; got != "Maya's arm is bleeding." {
		t.Fatalf("unexpected change description %q", got)
	}

	lab, ok := m.Setting("int-lab")
	if !ok {
		t.Fatalf("int-lab missing: %+v", m.Settings)
	}
	ids = ids[:0]
	for _, st := range lab.States {
		ids = append(ids, st.StateID)
	}
	if !reflect.DeepEqual(ids, []string{"int-lab_clean_s0", "int-lab_weather_s1", "int-lab_damage+weather_s2"}) {
		t.Fatalf("unexpected setting states %v", ids)
	}
	if !reflect.DeepEqual(lab.TimeVariants, []string{"DAY", "NIGHT"}) {
		t.Fatalf("unexpected time variants %v", lab.TimeVariants)
	}
}

func TestBuild_FramesAndClips(t *testing.T) {
	m, err := Build(fixture(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.InitFrames) != 4 || len(m.Clips) != 4 {
		t.Fatalf("expected 4 frames and 4 clips, got %d and %d", len(m.InitFrames), len(m.Clips))
	}
	first := m.InitFrames[0]
	if first.ShotID != "1A" || !first.IsFirstFrame || first.IsLastFrame {
		t.Fatalf("unexpected first frame: %+v", first)
	}
	if !reflect.DeepEqual(first.CharacterStateIDs, []string{"maya-chen_clean_s0"}) || first.SettingStateID != "int-lab_weather_s1" {
		t.Fatalf("unexpected references: %+v", first)
	}
	if first.CameraAngle != "wide" || !strings.Contains(first.Prompt, "Maya Chen") || !strings.Contains(first.Prompt, "setting: int lab, night") {
		t.Fatalf("unexpected prompt/angle: %q / %q", first.CameraAngle, first.Prompt)
	}

	system := m.InitFrames[2]
	if system.ShotID != "1B" || len(system.CharacterStateIDs) != 0 {
		t.Fatalf("non-physical characters must not be framed: %+v", system)
	}

	last := m.InitFrames[3]
	if !reflect.DeepEqual(last.CharacterStateIDs, []string{"maya-chen_injury_s2"}) || last.SettingStateID != "int-lab_damage+weather_s2" {
		t.Fatalf("unexpected references on 2A: %+v", last)
	}
	if !strings.Contains(last.Prompt, "bleeding") {
		t.Fatalf("active change missing from prompt: %q", last.Prompt)
	}

	wantSeq := []bool{false, true, false, false}
	for i, c := range m.Clips {
		if c.RequiresSequential != wantSeq[i] {
			t.Fatalf("clip %s requires_sequential=%v", c.ID, c.RequiresSequential)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, err := Build(fixture(), Options{ProjectID: "p"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(fixture(), Options{ProjectID: "p"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatalf("manifests differ between runs")
	}
}

func TestValidate_DanglingReference(t *testing.T) {
	m, err := Build(fixture(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m.InitFrames[0].CharacterStateIDs = []string{"maya-chen_costume_s9"}
	err = Validate(m)
	if !errors.Is(err, types.ErrMalformedReference) {
		t.Fatalf("expected malformed reference, got %v", err)
	}
	var ref *types.ReferenceError
	if !errors.As(err, &ref) || ref.StateID != "maya-chen_costume_s9" {
		t.Fatalf("expected *types.ReferenceError naming the state, got %v", err)
	}

	m, _ = Build(fixture(), Options{})
	m.Clips[1].FirstFrame.SettingStateID = "int-garage_clean_s0"
	if err := Validate(m); !errors.Is(err, types.ErrMalformedReference) {
		t.Fatalf("expected malformed reference for unknown setting, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	m, err := Build(fixture(), Options{ProjectID: "p", Title: "Override"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	batch := types.PromptBatch{
		CharacterReferences: make([]types.GenerationRequest, 3),
		InitFrames:          make([]types.GenerationRequest, 3),
	}
	s := Summarize(m, batch)
	if s.Title != "Override" || s.Characters != 2 || s.PhysicalCharacters != 1 || s.Settings != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.CharacterStates != 3 || s.SettingStates != 3 || s.InitFrames != 4 || s.Clips != 4 {
		t.Fatalf("unexpected state/frame counts: %+v", s)
	}
	if s.Images.Total != 6 || s.Images.CharacterReferences != 3 {
		t.Fatalf("unexpected image totals: %+v", s.Images)
	}
}

func TestBuild_DistinctNamesSharingASlug(t *testing.T) {
	a := types.Artifacts{
		Screenplay: types.Screenplay{Scenes: []types.Scene{
			{
				Number: 1, Slugline: "INT. WARD - NIGHT", IntExt: "INT", Location: "WARD", TimeOfDay: "NIGHT",
				Elements:          []types.Element{{Type: types.ElementAction, Text: "His arm is bleeding."}},
				CharactersPresent: []string{"DR. SMITH"},
			},
			{
				Number: 2, Slugline: "INT. WARD - DAY", IntExt: "INT", Location: "WARD", TimeOfDay: "DAY",
				Elements: []types.Element{
					{Type: types.ElementCharacter, Text: "DR SMITH"},
					{Type: types.ElementDialogue, Text: "Next patient."},
				},
			},
		}},
		ShotList: types.ShotList{Scenes: []types.ShotScene{{Number: 1, Shots: []types.Shot{
			{ShotID: "1A", Scene: 1, GlobalOrder: 1, ShotType: "CU", Duration: 4, Characters: []string{"DR. SMITH"}},
		}}}},
	}
	m, err := Build(a, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seen := map[string]bool{}
	for _, c := range m.Characters {
		if seen[c.ID] {
			t.Fatalf("duplicate character id %q", c.ID)
		}
		seen[c.ID] = true
	}
	if !seen["dr-smith"] || !seen["dr-smith-2"] {
		t.Fatalf("expected dr-smith and dr-smith-2, got %v", seen)
	}
	if got := m.InitFrames[0].CharacterStateIDs; !reflect.DeepEqual(got, []string{"dr-smith_injury_s1"}) {
		t.Fatalf("unexpected frame states %v", got)
	}
}

func TestBuild_RejectsCollidingShotIdentities(t *testing.T) {
	tests := map[string][]types.ShotScene{
		"shot id reused across scenes": {
			{Number: 1, Shots: []types.Shot{{ShotID: "1", GlobalOrder: 1, ShotType: "WS", Duration: 4}}},
			{Number: 2, Shots: []types.Shot{{ShotID: "1", GlobalOrder: 2, ShotType: "CU", Duration: 4}}},
		},
		"global order reused": {
			{Number: 1, Shots: []types.Shot{
				{ShotID: "1A", GlobalOrder: 3, ShotType: "WS", Duration: 4},
				{ShotID: "1B", GlobalOrder: 3, ShotType: "CU", Duration: 4},
			}},
		},
		"duration above cap": {
			{Number: 1, Shots: []types.Shot{{ShotID: "1A", ShotType: "WS", Duration: 1e10}}},
		},
	}
	for name, scenes := range tests {
		t.Run(name, func(t *testing.T) {
			a := fixture()
			a.ShotList = types.ShotList{Scenes: scenes}
			if _, err := Build(a, Options{}); !errors.Is(err, types.ErrInvalidShotList) {
				t.Fatalf("expected invalid shot list, got %v", err)
			}
		})
	}
}

func TestBuild_FallbackOrderFollowsExplicitOrders(t *testing.T) {
	a := fixture()
	a.ShotList = types.ShotList{Scenes: []types.ShotScene{{Number: 1, Shots: []types.Shot{
		{ShotID: "1A", ShotType: "WS", Duration: 4},
		{ShotID: "1B", GlobalOrder: 1, ShotType: "CU", Duration: 4},
	}}}}
	m, err := Build(a, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ids := map[string]string{}
	for _, c := range m.Clips {
		if prev, ok := ids[c.ID]; ok {
			t.Fatalf("clip id %s used by shots %s and %s", c.ID, prev, c.ShotID)
		}
		ids[c.ID] = c.ShotID
	}
	if ids["clip_0001_0"] != "1B" || ids["clip_0002_0"] != "1A" {
		t.Fatalf("unexpected clip ids %v", ids)
	}
}
