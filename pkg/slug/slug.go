package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. Accented
// letters are folded to their base letter and any other run of
// non-alphanumeric characters becomes a single hyphen.
//
// Examples:
//   - "Trail Runner GTX" → "trail-runner-gtx"
//   - "Doudoune Légère" → "doudoune-legere"
//   - "Gore-Tex® / 3L" → "gore-tex-3l"
func Generate(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.TrimSpace(name))
	if err != nil {
		folded = name
	}

	s := nonAlnum.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(s, "-")
}
