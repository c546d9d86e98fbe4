package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCitation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "cuts see-also tail",
			in:   "Хадис от Абу Хурайры; св. х. аль-Бухари. См. также: другие хадисы.",
			want: "Хадис от Абу Хурайры;\nСвод хадисов аль-Бухари.",
		},
		{
			name: "expands capitalized abbreviation",
			in:   "Св. х. Муслима",
			want: "Свод хадисов Муслима",
		},
		{
			name: "splits multiple sources onto lines",
			in:   "Хадис от Ибн Мас'уда; св. х. Ахмада; св. х. ат-Тирмизи",
			want: "Хадис от Ибн Мас'уда;\nСвод хадисов Ахмада;\nСвод хадисов ат-Тирмизи",
		},
		{
			name: "empty input stays empty",
			in:   "",
			want: "",
		},
		{
			name: "see-also only collapses to empty",
			in:   " См. также: другие хадисы.",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCitation(tt.in))
		})
	}
}

func TestNormalizeCitationIdempotent(t *testing.T) {
	inputs := []string{
		"Хадис от Абу Хурайры; св. х. аль-Бухари. См. также: прочее.",
		"Св. х. Муслима",
		"уже нормализованный;\nСвод хадисов аль-Бухари",
	}
	for _, in := range inputs {
		once := NormalizeCitation(in)
		assert.Equal(t, once, NormalizeCitation(once), "second pass must not change %q", in)
	}
}
