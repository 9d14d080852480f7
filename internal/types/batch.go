package types

// Prompt categories, in emission order.
const (
	PromptCharacterReference = "character_reference"
	PromptSettingReference   = "setting_reference"
	PromptCharacterState     = "character_state"
	PromptSettingState       = "setting_state"
	PromptInitFrame          = "init_frame"
)

type GenerationRequest struct {
	ID             string            `json:"id"`
	Category       string            `json:"category"`
	Prompt         string            `json:"prompt"`
	NegativePrompt string            `json:"negative_prompt"`
	ReferenceIDs   []string          `json:"reference_ids"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Metadata       map[string]string `json:"metadata"`
}

type PromptBatch struct {
	ProjectID           string              `json:"project_id"`
	Title               string              `json:"title"`
	CharacterReferences []GenerationRequest `json:"character_references"`
	SettingReferences   []GenerationRequest `json:"setting_references"`
	CharacterStates     []GenerationRequest `json:"character_states"`
	SettingStates       []GenerationRequest `json:"setting_states"`
	InitFrames          []GenerationRequest `json:"init_frames"`
}

// Total counts every request in the batch.
func (b PromptBatch) Total() int {
	return len(b.CharacterReferences) + len(b.SettingReferences) +
		len(b.CharacterStates) + len(b.SettingStates) + len(b.InitFrames)
}

// All returns the requests in category order.
func (b PromptBatch) All() []GenerationRequest {
	out := make([]GenerationRequest, 0, b.Total())
	out = append(out, b.CharacterReferences...)
	out = append(out, b.SettingReferences...)
	out = append(out, b.CharacterStates...)
	out = append(out, b.SettingStates...)
	out = append(out, b.InitFrames...)
	return out
}

type ImageTotals struct {
	CharacterReferences int `json:"character_references"`
	SettingReferences   int `json:"setting_references"`
	CharacterStates     int `json:"character_states"`
	SettingStates       int `json:"setting_states"`
	InitFrames          int `json:"init_frames"`
	Total               int `json:"total"`
}

type ManifestSummary struct {
	ProjectID           string      `json:"project_id"`
	Title               string      `json:"title"`
	Characters          int         `json:"characters"`
	PhysicalCharacters  int         `json:"physical_characters"`
	CharacterStates     int         `json:"character_states"`
	Settings            int         `json:"settings"`
	SettingStates       int         `json:"setting_states"`
	StateChanges        int         `json:"state_changes"`
	SettingStateChanges int         `json:"setting_state_changes"`
	InitFrames          int         `json:"init_frames"`
	Clips               int         `json:"clips"`
	Images              ImageTotals `json:"images"`
}

// ClipChain is the ordered run of clips realizing one shot.
type ClipChain struct {
	ShotID   string   `json:"shot_id"`
	ClipIDs  []string `json:"clip_ids"`
	Duration int      `json:"duration"`
}

type ClipBundle struct {
	TotalClips        int         `json:"total_clips"`
	ParallelEligible  int         `json:"parallel_eligible"`
	Sequential        int         `json:"sequential"`
	RequestedDuration float64     `json:"requested_duration"`
	ClipDuration      int         `json:"clip_duration"`
	Chains            []ClipChain `json:"chains"`
}
