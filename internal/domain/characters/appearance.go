package characters

import (
	"regexp"
	"strings"

	"github.com/forPelevin/vismanifest/internal/types"
)

var (
	reBuild = regexp.MustCompile(`(?i)\b(wiry|stocky|slender|slight|muscular|heavyset|heavy-set|lanky|petite|broad-shouldered|athletic|gaunt|rotund|burly|hulking|willowy|frail|thickset)\b`)

	reWardrobe = regexp.MustCompile(`(?i)\b(?:wearing|dressed in|clad in)\s+([^,.;]+)`)

	reDisembodied = regexp.MustCompile(`(?i)\b(system|voice|network|program|computer|a\.?i\.?|machine|algorithm|intercom|radio|narrator|announcer|hologram|signal|mainframe)\b`)
)

// Appearance derives the base visual description of a merged candidate. The
// roster descriptor takes precedence over the introduction sentence.
func Appearance(c Candidate) types.CharacterAppearance {
	desc := strings.TrimSpace(c.Descriptor)
	if desc == "" {
		desc = strings.TrimSpace(c.Description)
	}
	app := types.CharacterAppearance{
		Name:        c.Name,
		Description: desc,
		Age:         c.Age,
	}
	src := desc + " " + c.Description
	if m := reBuild.FindStringSubmatch(src); m != nil {
		app.Build = strings.ToLower(m[1])
	}
	if m := reWardrobe.FindStringSubmatch(src); m != nil {
		app.Wardrobe = strings.TrimSpace(m[1])
	}
	return app
}

// IsPhysical reports whether the character needs any imagery. Disembodied
// entities are detected by name, by descriptor when the character is the
// antagonist, or by only ever being heard off screen with nothing describing
// them.
func IsPhysical(c Candidate) bool {
	if reDisembodied.MatchString(Normalize(c.Name)) {
		return false
	}
	if c.Role == types.RoleAntagonist && reDisembodied.MatchString(c.Descriptor) {
		return false
	}
	if c.VoiceOnly() && strings.TrimSpace(c.Descriptor) == "" && strings.TrimSpace(c.Description) == "" {
		return false
	}
	return true
}
