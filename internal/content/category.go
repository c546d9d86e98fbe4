package content

import (
	"fmt"
	"strings"
)

// Category is one of the three daily content kinds. It drives how a document
// is located, parsed, rendered and illustrated.
type Category string

const (
	Ayah   Category = "ayah"
	Hadith Category = "hadith"
	Dua    Category = "dua"
)

// Categories lists every category in mailing order.
var Categories = []Category{Ayah, Hadith, Dua}

func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Ayah:
		return Ayah, nil
	case Hadith:
		return Hadith, nil
	case Dua:
		return Dua, nil
	default:
		return "", fmt.Errorf("unknown content category %q", s)
	}
}

func (c Category) String() string { return string(c) }

// Item is the canonical result of fetching one remote document.
type Item struct {
	// URL is the stable identifier of the source document. For duas it is
	// also the never-repeat key.
	URL string

	// Locator is the chapter:verse reference, set for Ayah only. It may name
	// several verses joined by ", " (e.g. "3:7, 8").
	Locator string

	// Body is the main text: verse, hadith or dua, with source-language
	// renderings already prepended where applicable.
	Body string

	// Source is the hadith's citation or the dua's page title; empty for Ayah.
	Source string
}
