package content

import (
	"fmt"
	"path/filepath"
	"strings"
)

// signature closes every outbound message.
const signature = "©️*Твой Проповедник*"

// quranMarker flags a Qur'an-sourced dua (case-insensitive match against the
// body) and selects the Qur'an image variant.
const quranMarker = "св. коран"

// duaLabels emphasizes the fixed section labels inside a dua body. Longer
// variants are listed first so "Транскрипция дуа:" is not re-matched by
// "Транскрипция:" after replacement.
var duaLabels = strings.NewReplacer(
	"Транскрипция дуа:", "\n*Транскрипция:*",
	"Перевод дуа:", "\n*Перевод: *",
	"Транскрипция:", "\n*Транскрипция:*",
	"Перевод:", "\n*Перевод: *",
)

// Render converts a canonical item into the outbound Markdown message text.
// Pure function; image selection is separate (see Images.For).
func Render(item Item, cat Category) string {
	var b strings.Builder
	switch cat {
	case Ayah:
		fmt.Fprintf(&b, "💬 *Аят дня. %s*\n\n", item.Locator)
		b.WriteString(item.Body)
		b.WriteString("\n\n")
	case Hadith:
		b.WriteString("📖 *Хадис дня*\n")
		fmt.Fprintf(&b, "📚 *%s*\n\n", item.Source)
		b.WriteString(item.Body)
		b.WriteString("\n\n")
	case Dua:
		fmt.Fprintf(&b, "🤲 *%s*\n\n", item.Source)
		b.WriteString(duaLabels.Replace(item.Body))
		b.WriteString("\n\n")
	}
	b.WriteString(signature)
	return b.String()
}

// Images holds the picture paths attached to outgoing messages.
type Images struct {
	AyahBase      string // template the locator is stamped onto
	AyahAnnotated string // stamped output, regenerated per run
	Hadith        string
	Dua           string
	DuaQuran      string
	Font          string // TTF used for stamping
}

// DefaultImages resolves the asset layout shipped alongside the binary.
func DefaultImages(assetsDir string) Images {
	if assetsDir == "" {
		assetsDir = "."
	}
	return Images{
		AyahBase:      filepath.Join(assetsDir, "img", "ayah.png"),
		AyahAnnotated: filepath.Join(assetsDir, "img", "ayah_day.png"),
		Hadith:        filepath.Join(assetsDir, "img", "hadith.jpg"),
		Dua:           filepath.Join(assetsDir, "img", "dua.png"),
		DuaQuran:      filepath.Join(assetsDir, "img", "dua_quran.jpg"),
		Font:          filepath.Join(assetsDir, "fonts", "QANELAS-SEMIBOLD.TTF"),
	}
}

// For picks the image accompanying the rendered item. Duas quoting the
// Qur'an get a distinct picture.
func (im Images) For(cat Category, item Item) string {
	switch cat {
	case Ayah:
		return im.AyahAnnotated
	case Hadith:
		return im.Hadith
	default:
		if strings.Contains(strings.ToLower(item.Body), quranMarker) {
			return im.DuaQuran
		}
		return im.Dua
	}
}
