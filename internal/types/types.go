package types

import "fmt"

// Element types inside a screenplay scene.
const (
	ElementAction    = "action"
	ElementCharacter = "character"
	ElementDialogue  = "dialogue"

	ElementParenthetical = "parenthetical"
	ElementTransition    = "transition"
)

// Roster roles.
const (
	RoleProtagonist = "protagonist"
	RoleAntagonist  = "antagonist"
	RoleSupporting  = "supporting"
)

type Screenplay struct {
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
}

type Scene struct {
	Number            int       `json:"scene_number"`
	Slugline          string    `json:"slugline"`
	IntExt            string    `json:"int_ext"`
	TimeOfDay         string    `json:"time_of_day"`
	Location          string    `json:"location"`
	Elements          []Element `json:"elements"`
	CharactersPresent []string  `json:"characters_present,omitempty"`
}

type Element struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ActionText joins every action element of the scene.
func (s Scene) ActionText() string {
	var out string
	for _, el := range s.Elements {
		if el.Type != ElementAction {
			continue
		}
		if out != "" {
			out += " "
		}
		out += el.Text
	}
	return out
}

type ShotList struct {
	Scenes []ShotScene `json:"scenes"`
}

type ShotScene struct {
	Number   int    `json:"scene_number"`
	Slugline string `json:"slugline"`
	Shots    []Shot `json:"shots"`
}

type Shot struct {
	ShotID       string   `json:"shot_id"`
	Scene        int      `json:"scene_number"`
	Shot         int      `json:"shot_number"`
	GlobalOrder  int      `json:"global_order"`
	ShotType     string   `json:"shot_type"`
	Duration     float64  `json:"duration"`
	VisualPrompt string   `json:"visual_prompt"`
	Characters   []string `json:"characters,omitempty"`
}

// MaxShotDuration bounds the requested duration of a single shot.
const MaxShotDuration = 3600

// Validate rejects shot lists whose identities would collide once clips are
// derived: a repeated shot_id, a repeated explicit global_order, or a
// duration above MaxShotDuration.
func (l ShotList) Validate() error {
	ids := map[string]int{}
	orders := map[int]string{}
	for _, ss := range l.Scenes {
		for _, sh := range ss.Shots {
			scene := sh.Scene
			if scene == 0 {
				scene = ss.Number
			}
			if prev, ok := ids[sh.ShotID]; ok {
				return fmt.Errorf("%w: duplicate shot_id %q in scenes %d and %d", ErrInvalidShotList, sh.ShotID, prev, scene)
			}
			ids[sh.ShotID] = scene
			if sh.GlobalOrder > 0 {
				if prev, ok := orders[sh.GlobalOrder]; ok {
					return fmt.Errorf("%w: global_order %d used by shots %q and %q", ErrInvalidShotList, sh.GlobalOrder, prev, sh.ShotID)
				}
				orders[sh.GlobalOrder] = sh.ShotID
			}
			if sh.Duration > MaxShotDuration {
				return fmt.Errorf("%w: shot %q duration %g exceeds %d", ErrInvalidShotList, sh.ShotID, sh.Duration, MaxShotDuration)
			}
		}
	}
	return nil
}

type Roster struct {
	Characters []RosterEntry `json:"characters"`
}

type RosterEntry struct {
	Role       string `json:"role"`
	Name       string `json:"name"`
	Descriptor string `json:"descriptor"`
}

// ArtifactPaths locates the three input documents.
type ArtifactPaths struct {
	Screenplay string
	ShotList   string
	Roster     string
}

// Artifacts bundles the three parsed input documents.
type Artifacts struct {
	Screenplay Screenplay
	ShotList   ShotList
	Roster     Roster
}
