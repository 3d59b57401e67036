// Package types defines the shared data model for the blog generation pipeline.
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Style is the writing style for a generated post.
type Style string

// Supported writing styles.
const (
	StyleTechnical    Style = "technical"
	StyleCasual       Style = "casual"
	StyleProfessional Style = "professional"
)

// Length is the target length class for a generated post.
type Length string

// Supported length classes.
const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Tone is the intended tone for a generated post.
type Tone string

// Supported tones.
const (
	ToneInformative Tone = "informative"
	TonePersuasive  Tone = "persuasive"
	ToneEducational Tone = "educational"
)

// wordBounds maps each length class to its min/max word counts.
var wordBounds = map[Length][2]int{
	LengthShort:  {600, 1000},
	LengthMedium: {1000, 1500},
	LengthLong:   {1500, 2500},
}

// WordBounds returns the min and max word counts for a length class.
// Unknown classes fall back to the medium bounds.
func WordBounds(l Length) (minWords, maxWords int) {
	bounds, ok := wordBounds[l]
	if !ok {
		bounds = wordBounds[LengthMedium]
	}
	return bounds[0], bounds[1]
}

// GenerationSpec describes what to generate. It is immutable once a run
// starts; ApplyWordBounds must be called before handing it to the workflow.
type GenerationSpec struct {
	Topic      string   `json:"topic" validate:"required"`
	Style      Style    `json:"style" validate:"oneof=technical casual professional"`
	Length     Length   `json:"length" validate:"oneof=short medium long"`
	Tone       Tone     `json:"tone" validate:"oneof=informative persuasive educational"`
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	MinWords   int      `json:"min_words" validate:"gte=0"`
	MaxWords   int      `json:"max_words" validate:"gte=0"`
}

// ApplyWordBounds fills zero word bounds from the length-class table.
// Explicitly provided bounds are kept.
func (s *GenerationSpec) ApplyWordBounds() {
	minWords, maxWords := WordBounds(s.Length)
	if s.MinWords == 0 {
		s.MinWords = minWords
	}
	if s.MaxWords == 0 {
		s.MaxWords = maxWords
	}
}

var specValidator = validator.New()

// Validate checks the spec's field values and bound ordering.
func (s *GenerationSpec) Validate() error {
	if err := specValidator.Struct(s); err != nil {
		return fmt.Errorf("invalid generation spec: %w", err)
	}
	if s.MaxWords > 0 && s.MinWords > s.MaxWords {
		return fmt.Errorf("invalid generation spec: min_words %d exceeds max_words %d", s.MinWords, s.MaxWords)
	}
	return nil
}
