package characters

import (
	"regexp"
	"strings"

	"github.com/forPelevin/vismanifest/internal/textutil"
	"github.com/forPelevin/vismanifest/internal/types"
)

// MaxIntroDescription caps the description taken from an action introduction.
const MaxIntroDescription = 240

const minKeyLen = 2

var (
	// NAME, age, description sentence.
	reIntro = regexp.MustCompile(`\b([A-Z][A-Z0-9'\- ]*[A-Z0-9])(?:\s*\([^)]*\))?,\s*((?:early |mid-|mid |late )?\d{1,3}s?|ageless|ancient|elderly|teen(?:age)?)\s*,\s*([^.!?]+[.!?])`)

	reCueTag = regexp.MustCompile(`\(([^)]*)\)`)
	reVoice  = regexp.MustCompile(`(?i)\b(V\.?O\.?|O\.?S\.?|O\.?C\.?|filtered|on radio|on phone|over intercom|voice)\b`)
)

var stopList = map[string]struct{}{
	"CUT TO": {}, "CUT TO BLACK": {}, "SMASH CUT": {}, "SMASH CUT TO": {}, "MATCH CUT": {}, "JUMP CUT": {},
	"FADE IN": {}, "FADE OUT": {}, "FADE TO BLACK": {}, "DISSOLVE TO": {}, "BACK TO": {}, "BACK TO SCENE": {},
	"INT": {}, "EXT": {}, "INT/EXT": {}, "I/E": {}, "CONTINUED": {}, "CONT'D": {}, "MORE": {},
	"V.O": {}, "V.O.": {}, "O.S": {}, "O.S.": {}, "O.C.": {},
	"POV": {}, "CLOSE ON": {}, "CLOSE UP": {}, "ANGLE ON": {}, "WIDE": {}, "WIDE SHOT": {}, "INSERT": {},
	"ESTABLISHING": {}, "INTERCUT": {}, "MONTAGE": {}, "END MONTAGE": {}, "SERIES OF SHOTS": {}, "FLASHBACK": {},
	"END FLASHBACK": {}, "LATER": {}, "MOMENTS LATER": {}, "CONTINUOUS": {}, "SUPER": {}, "TITLE": {},
	"TITLE CARD": {}, "THE END": {}, "END": {}, "BLACK": {}, "SILENCE": {}, "OMITTED": {},
	"CGI": {}, "VFX": {}, "SFX": {}, "HUD": {}, "LED": {}, "GPS": {}, "CCTV": {}, "DNA": {}, "UI": {},
}

// IsStopWord reports screenplay formatting tokens that look like names.
func IsStopWord(name string) bool {
	key := Normalize(name)
	if len(key) < minKeyLen {
		return true
	}
	_, ok := stopList[key]
	return ok
}

type collector struct {
	out   map[string]Candidate
	order int
}

func (c *collector) touch(name string) (Candidate, bool) {
	name = strings.TrimSpace(name)
	if name == "" || IsStopWord(name) {
		return Candidate{}, false
	}
	cand, ok := c.out[name]
	if !ok {
		cand = Candidate{Name: name, Scenes: map[int]struct{}{}, Order: c.order}
		c.order++
	}
	return cand, true
}

func (c *collector) put(cand Candidate) { c.out[cand.Name] = cand }

// Collect gathers raw name candidates from the roster, dialogue cues, scene
// presence lists and action-line introductions. The result is unmerged.
func Collect(roster types.Roster, sp types.Screenplay) map[string]Candidate {
	c := &collector{out: map[string]Candidate{}}

	for _, r := range roster.Characters {
		name, voice := ParseCue(r.Name)
		cand, ok := c.touch(name)
		if !ok {
			continue
		}
		cand.Role = strings.ToLower(strings.TrimSpace(r.Role))
		cand.Descriptor = strings.TrimSpace(r.Descriptor)
		if voice {
			cand.VoiceCues++
		}
		c.put(cand)
	}

	for _, sc := range sp.Scenes {
		var speaker string
		for _, el := range sc.Elements {
			switch el.Type {
			case types.ElementCharacter:
				name, voice := ParseCue(el.Text)
				cand, ok := c.touch(name)
				if !ok {
					speaker = ""
					continue
				}
				cand.Scenes[sc.Number] = struct{}{}
				if voice {
					cand.VoiceCues++
				} else {
					cand.OnScreenCues++
				}
				c.put(cand)
				speaker = cand.Name
			case types.ElementParenthetical:
			case types.ElementTransition:
				speaker = ""
			case types.ElementDialogue:
				if speaker == "" {
					continue
				}
				cand := c.out[speaker]
				cand.DialogueLines++
				c.put(cand)
			default:
				speaker = ""
				for _, in := range Introductions(el.Text) {
					cand, ok := c.touch(in.Name)
					if !ok {
						continue
					}
					cand.Scenes[sc.Number] = struct{}{}
					cand.OnScreenCues++
					if cand.Age == "" {
						cand.Age = in.Age
					}
					if cand.Description == "" {
						cand.Description = in.Description
					}
					c.put(cand)
				}
			}
		}
		for _, name := range sc.CharactersPresent {
			cand, ok := c.touch(stripTags(name))
			if !ok {
				continue
			}
			cand.Scenes[sc.Number] = struct{}{}
			c.put(cand)
		}
	}
	return c.out
}

// ParseCue strips trailing annotations from a dialogue cue and reports
// whether any of them marks an off-screen voice.
func ParseCue(cue string) (string, bool) {
	voice := false
	for _, m := range reCueTag.FindAllStringSubmatch(cue, -1) {
		if reVoice.MatchString(m[1]) {
			voice = true
		}
	}
	return stripTags(cue), voice
}

func stripTags(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(reCueTag.ReplaceAllString(s, " "), " "))
}

// Intro is a character introduction found in action text.
type Intro struct {
	Name        string
	Age         string
	Description string
}

// Introductions finds "NAME, age, description." patterns in action text.
func Introductions(text string) []Intro {
	var out []Intro
	for _, m := range reIntro.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if !textutil.IsAllCaps(name) {
			continue
		}
		out = append(out, Intro{
			Name:        name,
			Age:         strings.TrimSpace(m[2]),
			Description: textutil.Truncate(strings.TrimSpace(m[3]), MaxIntroDescription),
		})
	}
	return out
}
