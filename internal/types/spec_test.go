package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordBounds_AllClassesOrdered(t *testing.T) {
	for _, length := range []Length{LengthShort, LengthMedium, LengthLong} {
		minWords, maxWords := WordBounds(length)
		assert.Greater(t, minWords, 0)
		assert.LessOrEqual(t, minWords, maxWords, "bounds for %s", length)
	}
}

func TestWordBounds_UnknownFallsBackToMedium(t *testing.T) {
	minWords, maxWords := WordBounds(Length("epic"))
	assert.Equal(t, 1000, minWords)
	assert.Equal(t, 1500, maxWords)
}

func TestApplyWordBounds_FillsZeroValues(t *testing.T) {
	spec := GenerationSpec{Topic: "go generics", Length: LengthShort}
	spec.ApplyWordBounds()
	assert.Equal(t, 600, spec.MinWords)
	assert.Equal(t, 1000, spec.MaxWords)
}

func TestApplyWordBounds_KeepsExplicitValues(t *testing.T) {
	spec := GenerationSpec{Topic: "go generics", Length: LengthLong, MinWords: 100, MaxWords: 200}
	spec.ApplyWordBounds()
	assert.Equal(t, 100, spec.MinWords)
	assert.Equal(t, 200, spec.MaxWords)
}

func TestValidate_RejectsBadEnums(t *testing.T) {
	spec := GenerationSpec{
		Topic:  "topic",
		Style:  Style("florid"),
		Length: LengthMedium,
		Tone:   ToneInformative,
	}
	spec.ApplyWordBounds()
	assert.Error(t, spec.Validate())
}

func TestValidate_RejectsInvertedBounds(t *testing.T) {
	spec := GenerationSpec{
		Topic:    "topic",
		Style:    StyleTechnical,
		Length:   LengthMedium,
		Tone:     ToneInformative,
		MinWords: 500,
		MaxWords: 100,
	}
	assert.Error(t, spec.Validate())
}

func TestValidate_AcceptsCompleteSpec(t *testing.T) {
	spec := GenerationSpec{
		Topic:  "observability in go services",
		Style:  StyleTechnical,
		Length: LengthMedium,
		Tone:   ToneEducational,
	}
	spec.ApplyWordBounds()
	require.NoError(t, spec.Validate())
}
