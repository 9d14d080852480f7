// Package settings extracts locations from the screenplay and maps the shot
// breakdown onto them.
package settings

import (
	"regexp"
	"sort"
	"strings"

	"github.com/forPelevin/vismanifest/internal/textutil"
	"github.com/forPelevin/vismanifest/internal/types"
)

// MaxDescription caps a setting's base description.
const MaxDescription = 240

var reMood = regexp.MustCompile(`(?i)\b(tense|quiet|silent|eerie|chaotic|serene|gloomy|bustling|desolate|cozy|sterile|ominous|cramped|abandoned|dim|dark|bright|warm|cold|humid|smoky|crowded|empty|peaceful|claustrophobic|lush|grimy|pristine|cluttered|tranquil|foreboding)\b`)

// Moods returns the mood keywords found in text, lowercased and sorted.
func Moods(text string) []string {
	set := map[string]struct{}{}
	for _, m := range reMood.FindAllString(text, -1) {
		set[strings.ToLower(m)] = struct{}{}
	}
	return sortedKeys(set)
}

// ID derives the setting id from its interior/exterior flag and location.
func ID(intExt, location string) string {
	if intExt == "" {
		return textutil.Slug(location)
	}
	return textutil.Slug(intExt + " " + location)
}

// SceneKey resolves the setting key of a scene, falling back to its slugline
// for fields the scene does not carry.
func SceneKey(sc types.Scene) (intExt, location, tod string) {
	intExt, location, tod = ParseSlugline(sc.Slugline)
	if v := NormalizeIntExt(sc.IntExt); v != "" {
		intExt = v
	}
	if v := NormalizeLocation(sc.Location); v != "" {
		location = v
	}
	if v := strings.ToUpper(strings.TrimSpace(sc.TimeOfDay)); v != "" {
		tod = v
	}
	return intExt, location, tod
}

type entry struct {
	base   types.SettingBase
	tods   map[string]struct{}
	scenes map[int]struct{}
}

// Extract builds one SettingBase per (interior/exterior, location) pair, in
// order of first appearance. States and angles are filled in later.
func Extract(sp types.Screenplay) []types.SettingBase {
	var order []string
	byID := map[string]*entry{}
	for _, sc := range sp.Scenes {
		intExt, loc, tod := SceneKey(sc)
		if loc == "" {
			continue
		}
		id := ID(intExt, loc)
		e, ok := byID[id]
		if !ok {
			e = &entry{
				base:   types.SettingBase{ID: id, IntExt: intExt, Name: loc},
				tods:   map[string]struct{}{},
				scenes: map[int]struct{}{},
			}
			byID[id] = e
			order = append(order, id)
		}
		if e.base.Description == "" {
			if text := firstAction(sc); text != "" {
				e.base.Description = textutil.Truncate(textutil.FirstSentence(text), MaxDescription)
				e.base.Moods = Moods(text)
			}
		}
		if tod != "" {
			e.tods[tod] = struct{}{}
		}
		e.scenes[sc.Number] = struct{}{}
	}

	out := make([]types.SettingBase, 0, len(order))
	for _, id := range order {
		e := byID[id]
		e.base.TimeVariants = sortedKeys(e.tods)
		e.base.Scenes = make([]int, 0, len(e.scenes))
		for s := range e.scenes {
			e.base.Scenes = append(e.base.Scenes, s)
		}
		sort.Ints(e.base.Scenes)
		if e.base.Moods == nil {
			e.base.Moods = []string{}
		}
		out = append(out, e.base)
	}
	return out
}

func firstAction(sc types.Scene) string {
	for _, el := range sc.Elements {
		if el.Type == types.ElementAction && strings.TrimSpace(el.Text) != "" {
			return strings.TrimSpace(el.Text)
		}
	}
	return ""
}
