package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/forPelevin/vismanifest/internal/dispatch"
	"github.com/forPelevin/vismanifest/internal/domain/prompts"
	"github.com/forPelevin/vismanifest/internal/ports"
	"github.com/forPelevin/vismanifest/internal/ports/adapters/dryrun"
	"github.com/forPelevin/vismanifest/internal/ports/adapters/jsonfile"
	"github.com/forPelevin/vismanifest/internal/ports/adapters/snapshot"
	"github.com/forPelevin/vismanifest/internal/textutil"
	"github.com/forPelevin/vismanifest/internal/types"
	"github.com/forPelevin/vismanifest/internal/usecase"
)

type Config struct {
	Paths  types.ArtifactPaths
	OutDir string

	// ProjectID defaults to a name-based UUID of the screenplay path, so
	// rebuilding the same inputs lands in the same run directory.
	ProjectID string
	Title     string
	Style     types.StyleBible
	Prompts   prompts.Options
	Logger    *slog.Logger
}

// Validate checks that every input artifact exists before anything is parsed.
func (c Config) Validate() error {
	for _, f := range []struct{ kind, path string }{
		{jsonfile.KindScreenplay, c.Paths.Screenplay},
		{jsonfile.KindShotList, c.Paths.ShotList},
		{jsonfile.KindRoster, c.Paths.Roster},
	} {
		if f.path == "" {
			return &types.MissingArtifactError{Kind: f.kind}
		}
		if _, err := os.Stat(f.path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return &types.MissingArtifactError{Kind: f.kind, Path: f.path}
			}
			return fmt.Errorf("stat %s: %w", f.kind, err)
		}
	}
	return nil
}

// Run builds the manifest and writes its snapshots into a run directory under
// OutDir. It returns the run directory alongside the results.
func Run(ctx context.Context, cfg Config) (string, usecase.Result, error) {
	log := logger(cfg.Logger)
	if err := cfg.Validate(); err != nil {
		return "", usecase.Result{}, err
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = ProjectID(cfg.Paths.Screenplay)
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.Paths.Screenplay, projectID)
	log.Info("output run dir", "dir", runOutDir, "project", projectID)

	uc := usecase.New(usecase.Deps{
		Source: jsonfile.New(),
		Store:  snapshot.New(),
		Logger: log,
	})
	res, err := uc.Run(ctx, usecase.Input{
		Paths:     cfg.Paths,
		ProjectID: projectID,
		Title:     cfg.Title,
		Style:     cfg.Style,
		Prompts:   cfg.Prompts,
		OutDir:    runOutDir,
	})
	if err != nil {
		return "", usecase.Result{}, err
	}
	return runOutDir, res, nil
}

// Dispatch rehearses clip generation for a run directory with the dry-run
// generator.
func Dispatch(ctx context.Context, runDir string, maxParallel int, log *slog.Logger) ([]dispatch.Result, error) {
	log = logger(log)
	uc := usecase.New(usecase.Deps{
		Store:     snapshot.New(),
		Generator: dryrun.New(log.With("component", "dryrun")),
		Logger:    log,
	})
	return uc.Dispatch(ctx, runDir, maxParallel)
}

func Inspect(ctx context.Context, runDir string) (types.ManifestSummary, types.ClipBundle, error) {
	return usecase.New(usecase.Deps{Store: snapshot.New()}).Inspect(ctx, runDir)
}

// ProjectID derives a stable identifier from the screenplay location.
func ProjectID(screenplayPath string) string {
	abs, err := filepath.Abs(screenplayPath)
	if err != nil {
		abs = screenplayPath
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("vismanifest:"+filepath.ToSlash(abs))).String()
}

func buildRunOutDir(outRoot, screenplay, projectID string) string {
	name := strings.TrimSuffix(filepath.Base(screenplay), filepath.Ext(screenplay))
	name = textutil.Slug(name)
	if name == "" {
		name = "screenplay"
	}
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s", name, hash(projectID)[:8]))
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// ensure adapters implement ports
var _ ports.ArtifactSource = (*jsonfile.Adapter)(nil)
var _ ports.SnapshotStore = (*snapshot.Adapter)(nil)
var _ ports.ClipGenerator = (*dryrun.Adapter)(nil)
