package types

// Draft is a generated post body moving through the refine/evaluate loop.
// A draft that fails a stage carries Err instead of being destroyed, so the
// loop can keep working with the previous content.
type Draft struct {
	Content   string         `json:"content"`
	WordCount int            `json:"word_count"`
	Topic     string         `json:"topic"`
	Spec      GenerationSpec `json:"spec"`
	Iteration int            `json:"iteration"`
	Err       error          `json:"-"`
}

// Failed reports whether the last stage that touched this draft errored.
func (d *Draft) Failed() bool {
	return d != nil && d.Err != nil
}

// CheckResults records which mechanical checks passed.
type CheckResults struct {
	Structure bool `json:"structure"`
	WordCount bool `json:"word_count"`
	Markdown  bool `json:"markdown"`
}

// AllPassed reports whether every mechanical check passed.
func (c CheckResults) AllPassed() bool {
	return c.Structure && c.WordCount && c.Markdown
}

// Evaluation is the evaluator's judgment of a draft.
type Evaluation struct {
	Approved bool         `json:"approved"`
	Feedback string       `json:"feedback"`
	Checks   CheckResults `json:"checks"`
	// MechanicalOnly is true when a failed mechanical check short-circuited
	// the evaluation and the model was never consulted.
	MechanicalOnly bool `json:"mechanical_only"`
}
