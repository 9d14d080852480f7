// Package jsonfile reads the input artifacts from JSON files, validating each
// document against its schema before decoding it.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/forPelevin/vismanifest/internal/types"
)

// Artifact kinds, as named in errors.
const (
	KindScreenplay = "screenplay"
	KindShotList   = "shot list"
	KindRoster     = "roster"
)

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

var (
	resolveOnce sync.Once
	resolved    map[string]*jsonschema.Resolved
	resolveErr  error
)

func schemas() (map[string]*jsonschema.Resolved, error) {
	resolveOnce.Do(func() {
		resolved = map[string]*jsonschema.Resolved{}
		for kind, s := range map[string]*jsonschema.Schema{
			KindScreenplay: screenplaySchema,
			KindShotList:   shotListSchema,
			KindRoster:     rosterSchema,
		} {
			r, err := s.Resolve(nil)
			if err != nil {
				resolveErr = fmt.Errorf("resolve %s schema: %w", kind, err)
				return
			}
			resolved[kind] = r
		}
	})
	return resolved, resolveErr
}

// Load reads all three documents. Every path is checked for existence before
// anything is parsed.
func (a *Adapter) Load(ctx context.Context, p types.ArtifactPaths) (types.Artifacts, error) {
	for _, f := range []struct{ kind, path string }{
		{KindScreenplay, p.Screenplay},
		{KindShotList, p.ShotList},
		{KindRoster, p.Roster},
	} {
		if err := exists(f.kind, f.path); err != nil {
			return types.Artifacts{}, err
		}
	}

	var out types.Artifacts
	if err := a.decode(ctx, KindScreenplay, p.Screenplay, &out.Screenplay); err != nil {
		return types.Artifacts{}, err
	}
	if err := a.decode(ctx, KindShotList, p.ShotList, &out.ShotList); err != nil {
		return types.Artifacts{}, err
	}
	if err := out.ShotList.Validate(); err != nil {
		return types.Artifacts{}, fmt.Errorf("invalid %s %s: %w", KindShotList, p.ShotList, err)
	}
	if err := a.decode(ctx, KindRoster, p.Roster, &out.Roster); err != nil {
		return types.Artifacts{}, err
	}
	return out, nil
}

func exists(kind, path string) error {
	if path == "" {
		return &types.MissingArtifactError{Kind: kind}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &types.MissingArtifactError{Kind: kind, Path: path}
		}
		return fmt.Errorf("stat %s: %w", kind, err)
	}
	if info.IsDir() {
		return &types.MissingArtifactError{Kind: kind, Path: path}
	}
	return nil
}

func (a *Adapter) decode(ctx context.Context, kind, path string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &types.MissingArtifactError{Kind: kind, Path: path}
		}
		return fmt.Errorf("read %s: %w", kind, err)
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse %s %s: %w", kind, path, err)
	}
	rs, err := schemas()
	if err != nil {
		return err
	}
	if err := rs[kind].Validate(doc); err != nil {
		return fmt.Errorf("invalid %s %s: %w", kind, path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s %s: %w", kind, path, err)
	}
	return nil
}
