package content

import "strings"

// seeAlsoMarker starts the cross-reference tail appended to hadith citations
// on the site; everything from it onward is dropped.
const seeAlsoMarker = " См."

var citationAbbrevs = strings.NewReplacer(
	"св. х.", "Свод хадисов",
	"Св. х.", "Свод хадисов",
)

// NormalizeCitation rewrites a raw hadith citation paragraph into the form
// shown to subscribers: the "see also" tail is cut, abbreviations are spelled
// out and multi-source citations get one source per line.
//
// The function is idempotent: normalizing an already-normalized citation
// returns it unchanged.
func NormalizeCitation(raw string) string {
	s := raw
	if i := strings.Index(s, seeAlsoMarker); i >= 0 {
		s = s[:i]
	}
	s = citationAbbrevs.Replace(s)
	s = strings.ReplaceAll(s, "; ", ";\n")
	return strings.TrimSpace(s)
}

// expandAbbrevs spells out the same abbreviations inside dua bodies.
func expandAbbrevs(s string) string {
	return citationAbbrevs.Replace(s)
}
