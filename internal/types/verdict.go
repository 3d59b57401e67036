package types

import "strings"

// Verdict is the evaluator model's judgment mapped to a tagged value.
type Verdict struct {
	Approved bool
	Feedback string
}

// VerdictClassifier maps raw model output to a Verdict. Keeping this an
// interface lets the matching strategy (prefix matching, structured
// output, function calling) change without touching the workflow loop.
type VerdictClassifier interface {
	Classify(raw string) Verdict
}

// PrefixClassifier is the default classifier: the uppercased first token
// must be APPROVED or REJECTED. Anything else is an unparseable response
// and counts as a rejection, never an approval.
type PrefixClassifier struct{}

// Classify implements VerdictClassifier.
func (PrefixClassifier) Classify(raw string) Verdict {
	trimmed := strings.TrimSpace(raw)
	upper := strings.ToUpper(trimmed)

	switch {
	case strings.HasPrefix(upper, "APPROVED"):
		return Verdict{Approved: true, Feedback: "Content meets quality standards"}
	case strings.HasPrefix(upper, "REJECTED"):
		feedback := "Content needs improvement"
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			if rest := strings.TrimSpace(trimmed[idx+1:]); rest != "" {
				feedback = rest
			}
		}
		return Verdict{Approved: false, Feedback: feedback}
	default:
		return Verdict{Approved: false, Feedback: "Unable to determine approval status from evaluation response"}
	}
}
