package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconScore(t *testing.T) {
	lex := NewLexicon()
	require.NoError(t, lex.Load(context.Background()))

	tests := []struct {
		name string
		text string
		pos  float64
		neg  float64
		neu  float64
	}{
		{
			name: "empty text is neutral",
			text: "",
			neu:  1,
		},
		{
			name: "no lexicon hit is neutral",
			text: "The episode aired on Thursday.",
			neu:  1,
		},
		{
			name: "one positive term",
			text: "That finale was amazing.",
			pos:  0.5,
			neu:  0.5,
		},
		{
			name: "saturated positive",
			text: "Amazing, incredible, the best finale ever.",
			pos:  1,
		},
		{
			name: "mixed saturates both ways",
			text: "I love it and I hate it.",
			pos:  0.5,
			neg:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := lex.Score(context.Background(), tt.text)
			require.NoError(t, err)

			assert.InDelta(t, tt.pos, fs.Pos, 1e-9)
			assert.InDelta(t, tt.neg, fs.Neg, 1e-9)
			assert.InDelta(t, tt.neu, fs.Neu, 1e-9)
			assert.InDelta(t, 1.0, fs.Pos+fs.Neg+fs.Neu, 1e-9)
		})
	}
}

func TestLexiconSupportAndDesire(t *testing.T) {
	lex := NewLexicon()

	fs, err := lex.Score(context.Background(), "She is iconic, a legend. Renew it, we need season two!")
	require.NoError(t, err)

	assert.InDelta(t, 2.0/3.0, fs.Support, 1e-9)
	assert.Equal(t, 1.0, fs.Desire)
}
