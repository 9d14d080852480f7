package settings

import (
	"sort"
	"strings"

	"github.com/forPelevin/vismanifest/internal/types"
)

// DefaultAngle is used for shot types missing from the table.
const DefaultAngle = "medium"

var angleTable = map[string]string{
	"ECU":               "extreme close-up",
	"EXTREME CLOSE UP":  "extreme close-up",
	"XCU":               "extreme close-up",
	"CU":                "close-up",
	"CLOSE":             "close-up",
	"CLOSE UP":          "close-up",
	"MCU":               "medium close-up",
	"MEDIUM CLOSE UP":   "medium close-up",
	"MS":                "medium",
	"MED":               "medium",
	"MEDIUM":            "medium",
	"MWS":               "medium wide",
	"MLS":               "medium wide",
	"MEDIUM WIDE":       "medium wide",
	"WS":                "wide",
	"WIDE":              "wide",
	"LS":                "wide",
	"LONG":              "wide",
	"FULL":              "wide",
	"EWS":               "establishing",
	"ELS":               "establishing",
	"EST":               "establishing",
	"ESTABLISHING":      "establishing",
	"EXTREME WIDE":      "establishing",
	"OTS":               "over-the-shoulder",
	"OVER THE SHOULDER": "over-the-shoulder",
	"POV":               "point-of-view",
	"LOW":               "low angle",
	"LOW ANGLE":         "low angle",
	"HIGH":              "high angle",
	"HIGH ANGLE":        "high angle",
	"TWO":               "two-shot",
	"2S":                "two-shot",
	"INSERT":            "insert",
	"AERIAL":            "aerial",
	"DRONE":             "aerial",
	"OVERHEAD":          "aerial",
}

// AngleFor maps a shot-type token such as "CU" or "wide_shot" to a camera angle.
func AngleFor(shotType string) string {
	t := strings.ToUpper(strings.NewReplacer("_", " ", "-", " ", ".", "").Replace(shotType))
	t = strings.Join(strings.Fields(t), " ")
	t = strings.TrimSuffix(t, " SHOT")
	if a, ok := angleTable[t]; ok {
		return a
	}
	return DefaultAngle
}

// ShotAngles accumulates the requested camera angles per location, keyed by
// NormalizeLocation. Each list is sorted.
func ShotAngles(shots types.ShotList) map[string][]string {
	sets := map[string]map[string]struct{}{}
	for _, sc := range shots.Scenes {
		_, loc, _ := ParseSlugline(sc.Slugline)
		if loc == "" {
			continue
		}
		set, ok := sets[loc]
		if !ok {
			set = map[string]struct{}{}
			sets[loc] = set
		}
		for _, sh := range sc.Shots {
			set[AngleFor(sh.ShotType)] = struct{}{}
		}
	}
	out := make(map[string][]string, len(sets))
	for loc, set := range sets {
		out[loc] = sortedKeys(set)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
