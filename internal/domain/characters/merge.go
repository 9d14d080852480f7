package characters

import (
	"regexp"
	"sort"
	"strings"

	"github.com/forPelevin/vismanifest/internal/textutil"
)

// foldMaxLen is the longest normalized key treated as a regex fragment.
const foldMaxLen = 4

// Candidate is everything collected about one raw character name.
type Candidate struct {
	Name        string
	Role        string
	Descriptor  string
	Description string
	Age         string
	Scenes      map[int]struct{}
	Aliases     []string

	DialogueLines int
	VoiceCues     int
	OnScreenCues  int

	// Order is the first-seen position; lower wins ties.
	Order int
}

// VoiceOnly reports a character that only ever speaks off screen.
func (c Candidate) VoiceOnly() bool {
	return c.VoiceCues > 0 && c.OnScreenCues == 0
}

// SceneList returns the appearance scenes in ascending order.
func (c Candidate) SceneList() []int {
	out := make([]int, 0, len(c.Scenes))
	for s := range c.Scenes {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

var (
	reParenthetical = regexp.MustCompile(`\([^)]*\)`)
	reLeadArticle   = regexp.MustCompile(`^(THE|A|AN)\s+`)
	reNumSuffix     = regexp.MustCompile(`(\s*#\s*|\s+|-)\d+$`)
	reSpaces        = regexp.MustCompile(`\s+`)
)

// Normalize maps a raw name to its grouping key.
func Normalize(name string) string {
	s := strings.ToUpper(name)
	s = reParenthetical.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	s = reLeadArticle.ReplaceAllString(s, "")
	s = reNumSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Merge collapses name variants that refer to the same character.
//
// Names are grouped by Normalize. Groups whose key has at most four
// characters are folded into the longest other key containing them. Within a
// group the canonical name is picked by better(); the canonical entry gets
// the union of scenes and aliases, the longest description and the summed
// dialogue counts. The result is keyed by canonical name, and merging it
// again returns the same map.
func Merge(in map[string]Candidate) map[string]Candidate {
	if len(in) == 0 {
		return map[string]Candidate{}
	}
	raw := make([]Candidate, 0, len(in))
	for name, c := range in {
		if c.Name == "" {
			c.Name = name
		}
		raw = append(raw, c)
	}
	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].Order != raw[j].Order {
			return raw[i].Order < raw[j].Order
		}
		return raw[i].Name < raw[j].Name
	})

	var groups []*group
	byKey := map[string]*group{}
	for _, c := range raw {
		key := Normalize(c.Name)
		if key == "" {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, c)
	}

	var kept []*group
	for _, g := range groups {
		if len(g.key) <= foldMaxLen {
			if target := foldTarget(g.key, groups); target != nil {
				target.folded = append(target.folded, g.members...)
				continue
			}
		}
		kept = append(kept, g)
	}

	out := make(map[string]Candidate, len(kept))
	for _, g := range kept {
		canon := g.members[0]
		for _, m := range g.members[1:] {
			if better(m, canon) {
				canon = m
			}
		}
		all := append(append([]Candidate(nil), g.members...), g.folded...)
		out[canon.Name] = combine(canon, all)
	}
	return out
}

type group struct {
	key     string
	members []Candidate
	folded  []Candidate
}

func foldTarget(key string, groups []*group) *group {
	var best *group
	for _, g := range groups {
		if g.key == key || len(g.key) <= len(key) || !strings.Contains(g.key, key) {
			continue
		}
		if best == nil || len(g.key) > len(best.key) {
			best = g
		}
	}
	return best
}

// better reports whether a should replace b as the canonical variant.
func better(a, b Candidate) bool {
	ad, bd := a.Descriptor != "", b.Descriptor != ""
	if ad != bd {
		return ad
	}
	ac, bc := textutil.IsAllCaps(a.Name), textutil.IsAllCaps(b.Name)
	if ac != bc {
		return !ac
	}
	if ad && bd && len(a.Name) != len(b.Name) {
		return len(a.Name) > len(b.Name)
	}
	if len(a.Scenes) != len(b.Scenes) {
		return len(a.Scenes) > len(b.Scenes)
	}
	return a.Order < b.Order
}

func combine(canon Candidate, all []Candidate) Candidate {
	out := Candidate{
		Name:       canon.Name,
		Role:       canon.Role,
		Descriptor: canon.Descriptor,
		Age:        canon.Age,
		Scenes:     map[int]struct{}{},
		Order:      canon.Order,
	}
	aliases := map[string]struct{}{}
	for _, c := range all {
		for s := range c.Scenes {
			out.Scenes[s] = struct{}{}
		}
		aliases[c.Name] = struct{}{}
		for _, a := range c.Aliases {
			aliases[a] = struct{}{}
		}
		if len(c.Description) > len(out.Description) {
			out.Description = c.Description
		}
		if out.Descriptor == "" {
			out.Descriptor = c.Descriptor
		}
		if out.Role == "" {
			out.Role = c.Role
		}
		if out.Age == "" {
			out.Age = c.Age
		}
		if c.Order < out.Order {
			out.Order = c.Order
		}
		out.DialogueLines += c.DialogueLines
		out.VoiceCues += c.VoiceCues
		out.OnScreenCues += c.OnScreenCues
	}
	for a := range aliases {
		out.Aliases = append(out.Aliases, a)
	}
	sort.Strings(out.Aliases)
	return out
}
