package manifest

import (
	"fmt"
	"strings"

	"github.com/forPelevin/vismanifest/internal/types"
)

// Validate checks that every state id referenced by a frame or clip exists in
// its owner's timeline. The first violation is returned as a
// *types.ReferenceError.
func Validate(m *types.VisualManifest) error {
	chars := map[string]types.CharacterSheet{}
	for _, c := range m.Characters {
		chars[c.ID] = c
	}
	sets := map[string]types.SettingBase{}
	for _, s := range m.Settings {
		sets[s.ID] = s
	}

	check := func(source string, f types.ShotInitFrame) error {
		for _, id := range f.CharacterStateIDs {
			owner := ownerOf(id)
			c, ok := chars[owner]
			if !ok {
				return &types.ReferenceError{Source: source, Owner: "unknown character " + owner, StateID: id}
			}
			if _, ok := c.State(id); !ok {
				return &types.ReferenceError{Source: source, Owner: "character " + c.Name, StateID: id}
			}
		}
		if id := f.SettingStateID; id != "" {
			owner := ownerOf(id)
			s, ok := sets[owner]
			if !ok {
				return &types.ReferenceError{Source: source, Owner: "unknown setting " + owner, StateID: id}
			}
			if _, ok := s.State(id); !ok {
				return &types.ReferenceError{Source: source, Owner: "setting " + s.ID, StateID: id}
			}
		}
		return nil
	}

	for _, f := range m.InitFrames {
		if err := check(fmt.Sprintf("init frame %s/%d", f.ShotID, f.VeoBlockIndex), f); err != nil {
			return err
		}
	}
	for _, c := range m.Clips {
		if err := check("clip "+c.ID, c.FirstFrame); err != nil {
			return err
		}
		if c.RequiresSequential != (c.BlockIndex > 0) {
			return fmt.Errorf("%w: clip %s has block index %d but requires_sequential=%v",
				types.ErrMalformedReference, c.ID, c.BlockIndex, c.RequiresSequential)
		}
	}
	return nil
}

// ownerOf extracts the owner id from a state id. Owner ids are slugs and never
// contain an underscore.
func ownerOf(stateID string) string {
	if i := strings.IndexByte(stateID, '_'); i >= 0 {
		return stateID[:i]
	}
	return stateID
}
