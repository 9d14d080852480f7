package clips

import (
	"reflect"
	"testing"

	"github.com/forPelevin/vismanifest/internal/types"
)

func TestDurations(t *testing.T) {
	cases := []struct {
		in   float64
		want []int
	}{
		{in: 0, want: []int{4}},
		{in: 3, want: []int{4}},
		{in: 4, want: []int{4}},
		{in: 5, want: []int{8}},
		{in: 8, want: []int{8}},
		{in: 10, want: []int{8, 4}},
		{in: 12, want: []int{8, 4}},
		{in: 12.5, want: []int{8, 8}},
		{in: 17, want: []int{8, 8, 4}},
		{in: 24, want: []int{8, 8, 8}},
	}
	for _, tc := range cases {
		got := Durations(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Durations(%v) = %v, want %v", tc.in, got, tc.want)
		}
		sum := 0
		for _, d := range got {
			if d != types.ClipShort && d != types.ClipLong {
				t.Fatalf("Durations(%v) produced invalid block %d", tc.in, d)
			}
			sum += d
		}
		if float64(sum) < tc.in {
			t.Fatalf("Durations(%v) covers only %d", tc.in, sum)
		}
	}
}

func TestDurations_ClampsHugeRequests(t *testing.T) {
	got := Durations(1e10)
	if want := types.MaxShotDuration / types.ClipLong; len(got) != want {
		t.Fatalf("expected %d blocks, got %d", want, len(got))
	}
	if len(Durations(types.MaxShotDuration)) != len(got) {
		t.Fatalf("clamped request should match the cap")
	}
}

func TestDecompose_TenUnitShot(t *testing.T) {
	frames, clips := Decompose([]types.ShotInitFrame{
		{ShotID: "1A", Scene: 1, GlobalOrder: 1, Duration: 10, Prompt: "wide on the kitchen", CharacterStateIDs: []string{"maya_clean_s0"}},
	})
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}
	if clips[0].Duration != 8 || clips[1].Duration != 4 {
		t.Fatalf("unexpected durations %d, %d", clips[0].Duration, clips[1].Duration)
	}
	if clips[0].RequiresSequential || !clips[1].RequiresSequential {
		t.Fatalf("unexpected sequential flags %v, %v", clips[0].RequiresSequential, clips[1].RequiresSequential)
	}
	if clips[0].ID != "clip_0001_0" || clips[1].ID != "clip_0001_1" {
		t.Fatalf("unexpected clip ids %q, %q", clips[0].ID, clips[1].ID)
	}
	if len(frames) != 2 || !frames[0].IsFirstFrame || frames[0].IsLastFrame || frames[1].IsFirstFrame || !frames[1].IsLastFrame {
		t.Fatalf("unexpected frame flags: %+v", frames)
	}
	if frames[1].VeoBlockIndex != 1 || clips[1].FirstFrame.VeoBlockIndex != 1 {
		t.Fatalf("expected block index 1 on the second frame")
	}
	if clips[1].Prompt != "wide on the kitchen" || clips[1].Scene != 1 {
		t.Fatalf("clip should copy prompt and scene, got %+v", clips[1])
	}
}

func TestDecompose_SequentialMonotonic(t *testing.T) {
	_, clips := Decompose([]types.ShotInitFrame{
		{ShotID: "2B", GlobalOrder: 3, Duration: 30},
		{ShotID: "1A", GlobalOrder: 1, Duration: 6},
	})
	if clips[0].ShotID != "1A" {
		t.Fatalf("expected global order sorting, got %s first", clips[0].ShotID)
	}
	for _, c := range clips {
		if (c.BlockIndex == 0) == c.RequiresSequential {
			t.Fatalf("clip %s: block %d requires_sequential=%v", c.ID, c.BlockIndex, c.RequiresSequential)
		}
	}
}

func TestBundle(t *testing.T) {
	frames, clips := Decompose([]types.ShotInitFrame{
		{ShotID: "1A", GlobalOrder: 1, Duration: 10},
		{ShotID: "1B", GlobalOrder: 2, Duration: 3},
	})
	b := Bundle(clips, frames)
	if b.TotalClips != 3 || b.ParallelEligible != 2 || b.Sequential != 1 {
		t.Fatalf("unexpected counts: %+v", b)
	}
	if b.RequestedDuration != 13 || b.ClipDuration != 16 {
		t.Fatalf("unexpected durations: requested=%v clip=%d", b.RequestedDuration, b.ClipDuration)
	}
	if len(b.Chains) != 2 || len(b.Chains[0].ClipIDs) != 2 || b.Chains[1].Duration != 4 {
		t.Fatalf("unexpected chains: %+v", b.Chains)
	}
}
