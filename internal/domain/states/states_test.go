package states

import (
	"testing"

	"github.com/forPelevin/vismanifest/internal/types"
)

func change(scene int, cat, desc string) types.StateChange {
	return types.StateChange{
		Character:   "MAYA",
		Scene:       scene,
		Category:    cat,
		Description: desc,
		Cumulative:  cat != types.CategoryEmotional,
	}
}

func TestTimeline_SeedsCleanState(t *testing.T) {
	tl := Timeline[types.StateChange]("maya", nil)
	if len(tl) != 1 {
		t.Fatalf("expected only the baseline, got %d", len(tl))
	}
	if tl[0].ID != "maya_clean_s0" || tl[0].Scene != 0 || len(tl[0].Active) != 0 {
		t.Fatalf("unexpected baseline: %+v", tl[0])
	}
}

func TestTimeline_NonCumulativeReplacement(t *testing.T) {
	tl := Timeline("maya", []types.StateChange{
		change(5, types.CategoryEmotional, "She smiles."),
		change(3, types.CategoryEmotional, "She is crying."),
	})
	var at5 *Snapshot[types.StateChange]
	for i := range tl {
		if tl[i].Scene == 5 {
			at5 = &tl[i]
		}
	}
	if at5 == nil {
		t.Fatalf("expected a scene-5 state, got %+v", tl)
	}
	if len(at5.Active) != 1 {
		t.Fatalf("expected exactly one emotional change, got %d", len(at5.Active))
	}
	if at5.Active[0].Description != "She smiles." {
		t.Fatalf("expected the scene-5 change to win, got %q", at5.Active[0].Description)
	}
}

func TestTimeline_CumulativeStacking(t *testing.T) {
	tl := Timeline("maya", []types.StateChange{
		change(2, types.CategoryCostume, "She changes into a flight suit."),
		change(4, types.CategoryInjury, "Blood seeps through her sleeve."),
	})
	last := tl[len(tl)-1]
	if last.Scene != 4 {
		t.Fatalf("expected last state at scene 4, got %d", last.Scene)
	}
	if len(last.Active) != 2 {
		t.Fatalf("expected costume and injury to stack, got %+v", last.Active)
	}
	if last.ID != "maya_costume+injury_s4" {
		t.Fatalf("unexpected state id %q", last.ID)
	}
}

func TestTimeline_UniqueIDs(t *testing.T) {
	tl := Timeline("maya", []types.StateChange{
		change(4, types.CategoryInjury, "A gash on her brow."),
		change(4, types.CategoryInjury, "She limps."),
		change(6, types.CategoryDirt, "Mud cakes her boots."),
		change(6, types.CategoryInjury, "Her bandage is soaked."),
	})
	seen := map[string]bool{}
	for _, s := range tl {
		if seen[s.ID] {
			t.Fatalf("duplicate state id %q", s.ID)
		}
		seen[s.ID] = true
	}
	for _, s := range tl {
		if s.ID == "maya_injury_s4" && len(s.Active) != 2 {
			t.Fatalf("expected the scene-4 state to hold both injuries, got %d", len(s.Active))
		}
	}
}

func TestDetect_TrimsToSentence(t *testing.T) {
	text := "The door swings open. Maya staggers in, blood running down her arm. She grips a wrench."
	got := Detect(CharacterFamilies, text)
	if len(got) != 2 {
		t.Fatalf("expected injury and prop matches, got %+v", got)
	}
	if got[0].Category != types.CategoryInjury || got[0].Description != "Maya staggers in, blood running down her arm." {
		t.Fatalf("unexpected injury match: %+v", got[0])
	}
	if got[1].Category != types.CategoryProp || !got[1].Cumulative {
		t.Fatalf("unexpected prop match: %+v", got[1])
	}
}

func TestDetect_SettingFamilies(t *testing.T) {
	got := Detect(SettingFamilies, "Rain lashes the shattered windows.")
	cats := map[string]bool{}
	for _, m := range got {
		cats[m.Category] = m.Cumulative
	}
	if cum, ok := cats[types.CategoryWeather]; !ok || cum {
		t.Fatalf("expected non-cumulative weather match, got %+v", got)
	}
	if cum, ok := cats[types.CategoryDamage]; !ok || !cum {
		t.Fatalf("expected cumulative damage match, got %+v", got)
	}
}
