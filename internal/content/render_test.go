package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderAyah(t *testing.T) {
	item := Item{
		Locator: "3:7",
		Body:    "ARABIC\n«Он Тот, Кто ниспослал тебе Писание» (Св. Коран, 3:7).",
	}
	got := Render(item, Ayah)
	want := "💬 *Аят дня. 3:7*\n\n" +
		"ARABIC\n«Он Тот, Кто ниспослал тебе Писание» (Св. Коран, 3:7).\n\n" +
		"©️*Твой Проповедник*"
	assert.Equal(t, want, got)
}

func TestRenderHadith(t *testing.T) {
	item := Item{
		Body:   "Поистине, дела оцениваются по намерениям.",
		Source: "Хадис от 'Умара;\nСвод хадисов аль-Бухари",
	}
	got := Render(item, Hadith)
	want := "📖 *Хадис дня*\n" +
		"📚 *Хадис от 'Умара;\nСвод хадисов аль-Бухари*\n\n" +
		"Поистине, дела оцениваются по намерениям.\n\n" +
		"©️*Твой Проповедник*"
	assert.Equal(t, want, got)
}

func TestRenderDua(t *testing.T) {
	item := Item{
		Body:   "Транскрипция дуа: бисмил-ляях\nПеревод дуа: С именем Аллаха",
		Source: "Дуа перед едой",
	}
	got := Render(item, Dua)
	want := "🤲 *Дуа перед едой*\n\n" +
		"\n*Транскрипция:* бисмил-ляях\n" +
		"\n*Перевод: * С именем Аллаха\n\n" +
		"©️*Твой Проповедник*"
	assert.Equal(t, want, got)
}

func TestRenderDuaShortLabels(t *testing.T) {
	// The short label forms must not double-replace the long ones.
	item := Item{
		Body:   "Транскрипция: аллаахумма\nПеревод: О Аллах",
		Source: "Дуа",
	}
	got := Render(item, Dua)
	assert.Contains(t, got, "\n*Транскрипция:* аллаахумма")
	assert.Contains(t, got, "\n*Перевод: * О Аллах")
	assert.NotContains(t, got, "**")
}

func TestImagesFor(t *testing.T) {
	im := DefaultImages("assets")

	assert.Equal(t, im.AyahAnnotated, im.For(Ayah, Item{}))
	assert.Equal(t, im.Hadith, im.For(Hadith, Item{}))
	assert.Equal(t, im.Dua, im.For(Dua, Item{Body: "обычная дуа"}))
	assert.Equal(t, im.DuaQuran, im.For(Dua, Item{Body: "цитата из Св. Коран, 2:255"}))
}
