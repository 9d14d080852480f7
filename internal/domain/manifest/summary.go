package manifest

import "github.com/forPelevin/vismanifest/internal/types"

// Summarize counts the manifest's entities. Image totals come from the prompt
// batch built for it, one image per request.
func Summarize(m *types.VisualManifest, batch types.PromptBatch) types.ManifestSummary {
	s := types.ManifestSummary{
		ProjectID:           m.ProjectID,
		Title:               m.Title,
		Characters:          len(m.Characters),
		Settings:            len(m.Settings),
		StateChanges:        len(m.StateChanges),
		SettingStateChanges: len(m.SettingStateChanges),
		InitFrames:          len(m.InitFrames),
		Clips:               len(m.Clips),
	}
	for _, c := range m.Characters {
		if c.IsPhysical {
			s.PhysicalCharacters++
		}
		s.CharacterStates += len(c.States)
	}
	for _, st := range m.Settings {
		s.SettingStates += len(st.States)
	}
	s.Images = types.ImageTotals{
		CharacterReferences: len(batch.CharacterReferences),
		SettingReferences:   len(batch.SettingReferences),
		CharacterStates:     len(batch.CharacterStates),
		SettingStates:       len(batch.SettingStates),
		InitFrames:          len(batch.InitFrames),
		Total:               batch.Total(),
	}
	return s
}
