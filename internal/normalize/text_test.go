package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "single sentence without terminator",
			text: "a casting rumor with no period",
			want: []string{"a casting rumor with no period"},
		},
		{
			name: "two sentences",
			text: "The finale aired last night. Fans were not ready.",
			want: []string{"The finale aired last night.", "Fans were not ready."},
		},
		{
			name: "terminator run stays together",
			text: "They renewed it?! Finally. More next year",
			want: []string{"They renewed it?!", "Finally.", "More next year"},
		},
		{
			name: "trailing terminator without whitespace keeps going",
			text: "Season 3.5 recap. Done.",
			want: []string{"Season 3.5 recap.", "Done."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}

func TestSurface(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "case folds", in: "Jenna ORTEGA", want: "jenna ortega"},
		{name: "whitespace collapses", in: "  the   bear  ", want: "the bear"},
		{name: "nfkc folds fullwidth", in: "ＷＥＤＮＥＳＤＡＹ", want: "wednesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Surface(tt.in))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, `"quoted" and 'single' - dash`, CleanText("“quoted” and ‘single’ – dash"))
	assert.Equal(t, "a b", CleanText("a\x00\n\n   b"))
}

func TestHasPronoun(t *testing.T) {
	assert.True(t, HasPronoun("She was amazing in the finale."))
	assert.True(t, HasPronoun("THEY deserve the award."))
	assert.False(t, HasPronoun("The theme song slaps."))
	// "the" and "theory" must not match "they"/"he" substrings
	assert.False(t, HasPronoun("The theory is wrong."))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"it's", "season", "3"}, Tokens("It's Season 3!"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abcd", 2))
	assert.Equal(t, "hél", Truncate("héllo", 3))

	// The cut never lands inside a multi-byte rune.
	cut := Truncate(strings.Repeat("ß", 600), 500)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, 500, utf8.RuneCountInString(cut))
}
