package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forPelevin/vismanifest/internal/dispatch"
	"github.com/forPelevin/vismanifest/internal/domain/clips"
	"github.com/forPelevin/vismanifest/internal/domain/manifest"
	"github.com/forPelevin/vismanifest/internal/domain/prompts"
	"github.com/forPelevin/vismanifest/internal/ports"
	"github.com/forPelevin/vismanifest/internal/types"
)

// Snapshot names inside a run directory.
const (
	ManifestFile = "manifest.json"
	SummaryFile  = "manifest_summary.json"
	BatchFile    = "prompt_batch.json"
	BundleFile   = "clip_bundles.json"
	DispatchFile = "dispatch_results.json"
)

type Deps struct {
	Source    ports.ArtifactSource
	Store     ports.SnapshotStore
	Generator ports.ClipGenerator
	Logger    *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	return Usecase{d: d}
}

type Input struct {
	Paths     types.ArtifactPaths
	ProjectID string
	Title     string
	Style     types.StyleBible
	Prompts   prompts.Options
	OutDir    string
}

type Result struct {
	Manifest *types.VisualManifest
	Batch    types.PromptBatch
	Bundle   types.ClipBundle
	Summary  types.ManifestSummary
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Logger

	arts, err := u.d.Source.Load(ctx, in.Paths)
	if err != nil {
		return Result{}, err
	}
	log.Info("artifacts loaded",
		"scenes", len(arts.Screenplay.Scenes),
		"shot_scenes", len(arts.ShotList.Scenes),
		"roster", len(arts.Roster.Characters),
	)

	m, err := manifest.Build(arts, manifest.Options{
		ProjectID: in.ProjectID,
		Title:     in.Title,
		Style:     in.Style,
		Logger:    log.With("component", "manifest"),
	})
	if err != nil {
		return Result{}, fmt.Errorf("build manifest: %w", err)
	}
	log.Info("manifest built",
		"characters", len(m.Characters),
		"settings", len(m.Settings),
		"state_changes", len(m.StateChanges),
		"setting_state_changes", len(m.SettingStateChanges),
		"frames", len(m.InitFrames),
		"clips", len(m.Clips),
	)

	batch := prompts.NewBuilder(in.Prompts).Build(m)
	log.Info("prompt batch built",
		"character_references", len(batch.CharacterReferences),
		"setting_references", len(batch.SettingReferences),
		"character_states", len(batch.CharacterStates),
		"setting_states", len(batch.SettingStates),
		"init_frames", len(batch.InitFrames),
		"total", batch.Total(),
	)

	res := Result{
		Manifest: m,
		Batch:    batch,
		Bundle:   clips.Bundle(m.Clips, m.InitFrames),
		Summary:  manifest.Summarize(m, batch),
	}

	if in.OutDir == "" {
		return res, nil
	}
	snapshots := []struct {
		name string
		v    any
	}{
		{ManifestFile, res.Manifest},
		{SummaryFile, res.Summary},
		{BatchFile, res.Batch},
		{BundleFile, res.Bundle},
	}
	for _, s := range snapshots {
		if err := u.d.Store.Save(ctx, in.OutDir, s.name, s.v); err != nil {
			return Result{}, fmt.Errorf("save %s: %w", s.name, err)
		}
	}
	log.Info("snapshots written", "dir", in.OutDir, "files", len(snapshots))
	return res, nil
}

// Dispatch replays the clips of a previously written manifest through the
// generator and records the frame chain.
func (u Usecase) Dispatch(ctx context.Context, runDir string, maxParallel int) ([]dispatch.Result, error) {
	var m types.VisualManifest
	if err := u.d.Store.Load(ctx, runDir, ManifestFile, &m); err != nil {
		return nil, err
	}
	if err := manifest.Validate(&m); err != nil {
		return nil, err
	}
	results, err := dispatch.Runner{
		Gen:         u.d.Generator,
		MaxParallel: maxParallel,
		Logger:      u.d.Logger.With("component", "dispatch"),
	}.Run(ctx, m.Clips)
	if err != nil {
		return nil, err
	}
	if err := u.d.Store.Save(ctx, runDir, DispatchFile, results); err != nil {
		return nil, fmt.Errorf("save %s: %w", DispatchFile, err)
	}
	u.d.Logger.Info("dispatch complete", "clips", len(results), "dir", runDir)
	return results, nil
}

// Inspect reads back the summary and clip bundle of a run directory.
func (u Usecase) Inspect(ctx context.Context, runDir string) (types.ManifestSummary, types.ClipBundle, error) {
	var s types.ManifestSummary
	if err := u.d.Store.Load(ctx, runDir, SummaryFile, &s); err != nil {
		return types.ManifestSummary{}, types.ClipBundle{}, err
	}
	var b types.ClipBundle
	if err := u.d.Store.Load(ctx, runDir, BundleFile, &b); err != nil {
		return types.ManifestSummary{}, types.ClipBundle{}, err
	}
	return s, b, nil
}
