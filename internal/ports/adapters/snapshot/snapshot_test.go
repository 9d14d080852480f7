package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/forPelevin/vismanifest/internal/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	a := New()
	in := types.ClipBundle{TotalClips: 2, ParallelEligible: 1, Sequential: 1, ClipDuration: 12,
		Chains: []types.ClipChain{{ShotID: "1A", ClipIDs: []string{"clip_0001_0", "clip_0001_1"}, Duration: 12}}}

	if err := a.Save(context.Background(), dir, "clip_bundles.json", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var out types.ClipBundle
	if err := a.Load(context.Background(), dir, "clip_bundles.json", &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.TotalClips != 2 || len(out.Chains) != 1 || out.Chains[0].ClipIDs[1] != "clip_0001_1" {
		t.Fatalf("unexpected bundle: %+v", out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "clip_bundles.json" && e.Name() != lockName {
			t.Fatalf("unexpected leftover file %s", e.Name())
		}
	}
}

func TestSaveIsByteStable(t *testing.T) {
	dir := t.TempDir()
	a := New()
	v := map[string]any{"b": 1, "a": []string{"x", "y"}}

	if err := a.Save(context.Background(), dir, "s.json", v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first, _ := os.ReadFile(filepath.Join(dir, "s.json"))
	if err := a.Save(context.Background(), dir, "s.json", v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, _ := os.ReadFile(filepath.Join(dir, "s.json"))
	if !bytes.Equal(first, second) {
		t.Fatalf("snapshots differ:\n%s\n%s", first, second)
	}
}

func TestLoadMissing(t *testing.T) {
	var v map[string]any
	err := New().Load(context.Background(), t.TempDir(), "absent.json", &v)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSaveRespectsHeldLock(t *testing.T) {
	dir := t.TempDir()
	held := flock.New(filepath.Join(dir, lockName))
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = held.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := New().Save(ctx, dir, "s.json", 1); err == nil {
		t.Fatal("expected save to fail while the lock is held")
	}
}
