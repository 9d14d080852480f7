package states

import (
	"regexp"
	"strings"

	"github.com/forPelevin/vismanifest/internal/textutil"
	"github.com/forPelevin/vismanifest/internal/types"
)

// MaxDescription caps the sentence kept for a detected change.
const MaxDescription = 200

// Family is one category's pattern set.
type Family struct {
	Category   string
	Cumulative bool
	Pattern    *regexp.Regexp
}

var CharacterFamilies = []Family{
	{
		Category:   types.CategoryInjury,
		Cumulative: true,
		Pattern:    regexp.MustCompile(`(?i)\b(bleed(s|ing)?|bloodied|bloody|blood|bruise[sd]?|wound(s|ed)?|gash(es|ed)?|limp(s|ing)?|bandage[sd]?|sling|scar(s|red)?|injur(y|ed|ies)|cut (on|across) (his|her|their))\b`),
	},
	{
		Category:   types.CategoryCostume,
		Cumulative: true,
		Pattern:    regexp.MustCompile(`(?i)\b(changes into|changed into|now wears|now wearing|dressed in|puts on|pulls on|strips off|takes off|disguise[sd]?|uniform)\b`),
	},
	{
		Category:   types.CategoryDirt,
		Cumulative: true,
		Pattern:    regexp.MustCompile(`(?i)\b(mud(dy)?|dirt(y)?|grime|grimy|soot(y)?|dust(y|-covered)?|filth(y)?|sweat(-soaked|y|ing)?|soaked|drenched|stain(s|ed)?|ash-covered)\b`),
	},
	{
		Category:   types.CategoryEmotional,
		Cumulative: false,
		Pattern:    regexp.MustCompile(`(?i)\b(tears?|crying|cries|sob(s|bing)?|terrified|furious|trembl(es|ing)|shaking|grief-stricken|smil(es|ing)|grin(s|ning)?|pale|hollow-eyed|panic(s|ked)?)\b`),
	},
	{
		Category:   types.CategoryProp,
		Cumulative: true,
		Pattern:    regexp.MustCompile(`(?i)\b(carr(y|ies|ying)|clutch(es|ing)|grip(s|ping)|wield(s|ing)|holster(s|ed)|picks up|straps on|shoulders)\b`),
	},
}

var SettingFamilies = []Family{
	{
		Category:   types.CategoryDamage,
		Cumulative: true,
		Pattern:    regexp.MustCompile(`(?i)\b(shatter(s|ed)?|smash(es|ed)|broken|burn(s|ing|ed|t)|scorch(ed)?|collaps(es|ed|ing)|rubble|crack(s|ed)|explod(es|ed)|bullet holes?|caved in)\b`),
	},
	{
		Category:   types.CategoryWeather,
		Cumulative: false,
		Pattern:    regexp.MustCompile(`(?i)\b(rain(s|ing)?|downpour|snow(s|ing)?|storm(s|ing)?|fog(gy)?|mist|hail|thunder|lightning|blizzard|gale)\b`),
	},
	{
		Category:   types.CategoryLighting,
		Cumulative: false,
		Pattern:    regexp.MustCompile(`(?i)\b(lights? (flicker|die|dies|cut out|go out|goes out)|power (fails|cuts out|goes out)|darkness falls|plunged into darkness|emergency lights?|dawn breaks|sun (sets|rises)|candlelight|strobe)\b`),
	},
	{
		Category:   types.CategoryClutter,
		Cumulative: true,
		Pattern:    regexp.MustCompile(`(?i)\b(scattered|strewn|littered|piled|heaps of|overturned|ransacked|trashed|in disarray)\b`),
	},
	{
		Category:   types.CategoryModification,
		Cumulative: true,
		Pattern:    regexp.MustCompile(`(?i)\b(barricade[sd]?|boarded up|rearranged|installed|repainted|sealed off|taped off|fortified|converted into)\b`),
	},
}

// Match is one pattern hit inside an action text.
type Match struct {
	Category    string
	Cumulative  bool
	Description string
}

// Detect runs every family over text and returns each hit trimmed to its
// containing sentence. Identical (category, sentence) pairs are reported once.
func Detect(families []Family, text string) []Match {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []Match
	seen := map[string]struct{}{}
	for _, f := range families {
		for _, loc := range f.Pattern.FindAllStringIndex(text, -1) {
			sentence := textutil.Truncate(textutil.SentenceAround(text, loc[0]), MaxDescription)
			if sentence == "" {
				continue
			}
			key := f.Category + "\x00" + sentence
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Match{Category: f.Category, Cumulative: f.Cumulative, Description: sentence})
		}
	}
	return out
}
