package settings

import (
	"regexp"
	"strings"
)

var (
	rePrefix = regexp.MustCompile(`(?i)^\s*(INT\.?\s*/\s*EXT\.?|EXT\.?\s*/\s*INT\.?|I\s*/\s*E\.?|INT\.?|EXT\.?)\s+`)
	reTOD    = regexp.MustCompile(`(?i)\s+[-–—]+\s*(DAY|NIGHT|MORNING|EVENING|DUSK|DAWN|CONTINUOUS|LATER|MOMENTS LATER|SUNSET|SUNRISE|AFTERNOON|SAME TIME|NOON|MIDNIGHT)\s*$`)
)

// ParseSlugline splits "INT. KITCHEN - NIGHT" into ("INT", "KITCHEN", "NIGHT").
// Missing parts come back empty.
func ParseSlugline(s string) (intExt, location, tod string) {
	rest := strings.TrimSpace(s)
	if m := rePrefix.FindStringSubmatch(rest); m != nil {
		intExt = NormalizeIntExt(m[1])
		rest = rest[len(m[0]):]
	}
	if m := reTOD.FindStringSubmatchIndex(rest); m != nil {
		tod = strings.ToUpper(rest[m[2]:m[3]])
		rest = rest[:m[0]]
	}
	return intExt, NormalizeLocation(rest), tod
}

// NormalizeIntExt maps the prefix spellings to INT, EXT or INT/EXT.
func NormalizeIntExt(s string) string {
	u := strings.ToUpper(strings.NewReplacer(".", "", " ", "").Replace(s))
	switch u {
	case "INT", "INTERIOR":
		return "INT"
	case "EXT", "EXTERIOR":
		return "EXT"
	case "INT/EXT", "EXT/INT", "I/E":
		return "INT/EXT"
	case "":
		return ""
	default:
		return u
	}
}

// NormalizeLocation uppercases and collapses whitespace.
func NormalizeLocation(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}
