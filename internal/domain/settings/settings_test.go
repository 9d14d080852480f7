package settings

import (
	"reflect"
	"testing"

	"github.com/forPelevin/vismanifest/internal/types"
)

func TestParseSlugline(t *testing.T) {
	tests := []struct {
		in               string
		intExt, loc, tod string
	}{
		{"INT. KITCHEN - NIGHT", "INT", "KITCHEN", "NIGHT"},
		{"EXT. ROOFTOP GARDEN - DAY", "EXT", "ROOFTOP GARDEN", "DAY"},
		{"INT./EXT. VAN - MOMENTS LATER", "INT/EXT", "VAN", "MOMENTS LATER"},
		{"I/E car - continuous", "INT/EXT", "CAR", "CONTINUOUS"},
		{"WAREHOUSE", "", "WAREHOUSE", ""},
		{"int. server room", "INT", "SERVER ROOM", ""},
	}
	for _, tt := range tests {
		ie, loc, tod := ParseSlugline(tt.in)
		if ie != tt.intExt || loc != tt.loc || tod != tt.tod {
			t.Fatalf("ParseSlugline(%q) = (%q, %q, %q), want (%q, %q, %q)", tt.in, ie, loc, tod, tt.intExt, tt.loc, tt.tod)
		}
	}
}

func TestAngleFor(t *testing.T) {
	tests := map[string]string{
		"CU":         "close-up",
		"close_up":   "close-up",
		"Wide Shot":  "wide",
		"ECU":        "extreme close-up",
		"ots":        "over-the-shoulder",
		"EST.":       "establishing",
		"dutch tilt": DefaultAngle,
		"":           DefaultAngle,
	}
	for in, want := range tests {
		if got := AngleFor(in); got != want {
			t.Fatalf("AngleFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShotAngles(t *testing.T) {
	got := ShotAngles(types.ShotList{Scenes: []types.ShotScene{
		{Number: 1, Slugline: "INT. KITCHEN - NIGHT", Shots: []types.Shot{{ShotType: "WS"}, {ShotType: "CU"}}},
		{Number: 3, Slugline: "INT. KITCHEN - DAY", Shots: []types.Shot{{ShotType: "CU"}, {ShotType: "OTS"}}},
	}})
	want := map[string][]string{"KITCHEN": {"close-up", "over-the-shoulder", "wide"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ShotAngles = %v, want %v", got, want)
	}
}

func TestExtract(t *testing.T) {
	sp := types.Screenplay{Scenes: []types.Scene{
		{Number: 1, Slugline: "INT. KITCHEN - NIGHT", Elements: []types.Element{
			{Type: types.ElementAction, Text: "A cramped, smoky kitchen lit by one bulb. Pots hang everywhere."},
		}},
		{Number: 2, Slugline: "EXT. STREET - DAY", IntExt: "EXT", Location: "street", TimeOfDay: "day"},
		{Number: 4, Slugline: "INT. KITCHEN - DAY", Elements: []types.Element{
			{Type: types.ElementAction, Text: "The kitchen is bright now."},
		}},
		{Number: 3, Slugline: "INT. KITCHEN - NIGHT"},
	}}
	got := Extract(sp)
	if len(got) != 2 {
		t.Fatalf("expected 2 settings, got %d: %+v", len(got), got)
	}
	k := got[0]
	if k.ID != "int-kitchen" || k.IntExt != "INT" || k.Name != "KITCHEN" {
		t.Fatalf("unexpected key: %+v", k)
	}
	if k.Description != "A cramped, smoky kitchen lit by one bulb." {
		t.Fatalf("unexpected description %q", k.Description)
	}
	if !reflect.DeepEqual(k.Moods, []string{"cramped", "smoky"}) {
		t.Fatalf("unexpected moods %v", k.Moods)
	}
	if !reflect.DeepEqual(k.TimeVariants, []string{"DAY", "NIGHT"}) || !reflect.DeepEqual(k.Scenes, []int{1, 3, 4}) {
		t.Fatalf("unexpected variants %v scenes %v", k.TimeVariants, k.Scenes)
	}
	st := got[1]
	if st.ID != "ext-street" || st.Description != "" || len(st.Moods) != 0 {
		t.Fatalf("unexpected street setting: %+v", st)
	}
}
