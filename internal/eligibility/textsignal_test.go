// internal/eligibility/textsignal_test.go
package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifier_Classify(t *testing.T) {
	tiers := [][]string{
		{"machine learning", "software"},
		{"physics", "science"},
		{"art"},
	}
	c := KeywordClassifier{}

	tests := []struct {
		name string
		text string
		want int
	}{
		{"first tier wins over later tiers", "Software for physics labs", 0},
		{"case insensitive", "MACHINE LEARNING", 0},
		{"second tier", "Applied Physics", 1},
		{"word prefix match", "Fine Arts", 2},
		{"term inside a word does not match", "Smart city startups", NoTier},
		{"later occurrence at a word start", "party art", 2},
		{"no match", "Hospitality Management", NoTier},
		{"blank text", "   ", NoTier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text, tiers))
		})
	}
}

func TestKeywordClassifier_Count(t *testing.T) {
	c := KeywordClassifier{}
	terms := []string{"urgent", "shortage", "critical", "gap"}

	assert.Equal(t, 0, c.Count("", terms))
	assert.Equal(t, 1, c.Count("An urgent need", terms))
	assert.Equal(t, 3, c.Count("URGENT: a critical shortage of nurses", terms))
	assert.Equal(t, 1, c.Count("urgent urgent urgent", terms), "each term counts once")
	assert.Equal(t, 0, c.Count("anything", []string{""}))
	assert.Equal(t, 0, c.Count("an uncritical, nonurgent plan", terms))
	assert.Equal(t, 1, c.Count("escassez-urgente", []string{"urgent"}))
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "a b", joinText(" a ", "", "b"))
	assert.Equal(t, "", joinText("", "  "))
	assert.Equal(t, 5.0, textLength("saúde"))
	assert.Equal(t, 0.0, textLength("   "))
}
