package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixClassifier_Approved(t *testing.T) {
	v := PrefixClassifier{}.Classify("APPROVED\nGreat structure and pacing.")
	assert.True(t, v.Approved)
}

func TestPrefixClassifier_ApprovedCaseInsensitive(t *testing.T) {
	v := PrefixClassifier{}.Classify("approved")
	assert.True(t, v.Approved)
}

func TestPrefixClassifier_RejectedCarriesFeedback(t *testing.T) {
	v := PrefixClassifier{}.Classify("REJECTED\nThe introduction does not state the thesis.")
	assert.False(t, v.Approved)
	assert.Equal(t, "The introduction does not state the thesis.", v.Feedback)
}

func TestPrefixClassifier_RejectedWithoutBodyUsesDefaultFeedback(t *testing.T) {
	v := PrefixClassifier{}.Classify("REJECTED")
	assert.False(t, v.Approved)
	assert.Equal(t, "Content needs improvement", v.Feedback)
}

func TestPrefixClassifier_UnparseableFailsClosed(t *testing.T) {
	for _, raw := range []string{
		"",
		"The draft looks acceptable to me.",
		"MAYBE this could be approved",
		"Verdict: APPROVED", // prefix only, not substring
	} {
		v := PrefixClassifier{}.Classify(raw)
		assert.False(t, v.Approved, "input %q must not be approved", raw)
		assert.NotEmpty(t, v.Feedback)
	}
}
