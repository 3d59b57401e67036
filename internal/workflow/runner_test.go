package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/blog-agent/internal/types"
)

type stubRetriever struct{ calls int }

func (s *stubRetriever) SearchAndSynthesize(context.Context, string, int) types.SynthesisResult {
	s.calls++
	return types.SynthesisResult{Summary: "context summary", SourceCount: 2}
}

type stubComposer struct {
	draft types.Draft
	calls int
}

func (s *stubComposer) ComposeDraft(_ context.Context, _ types.SynthesisResult, spec types.GenerationSpec) types.Draft {
	s.calls++
	d := s.draft
	d.Spec = spec
	d.Topic = spec.Topic
	return d
}

type stubRefiner struct {
	fail  bool
	calls int
}

func (s *stubRefiner) RefineDraft(_ context.Context, draft types.Draft, feedback string) types.Draft {
	s.calls++
	if s.fail {
		failed := draft
		failed.Err = errors.New("refine failed")
		return failed
	}
	return types.Draft{
		Content:   draft.Content + " refined",
		WordCount: draft.WordCount + 1,
		Topic:     draft.Topic,
		Spec:      draft.Spec,
		Iteration: draft.Iteration + 1,
	}
}

type stubEvaluator struct {
	verdicts []types.Evaluation
	calls    int
}

func (s *stubEvaluator) EvaluateDraft(context.Context, types.Draft, types.GenerationSpec) types.Evaluation {
	s.calls++
	if len(s.verdicts) == 0 {
		return types.Evaluation{Approved: true}
	}
	v := s.verdicts[0]
	if len(s.verdicts) > 1 {
		s.verdicts = s.verdicts[1:]
	}
	return v
}

type stubIngestor struct {
	path  string
	err   error
	calls int
}

func (s *stubIngestor) IngestFinal(context.Context, types.Draft, types.GenerationSpec) (string, error) {
	s.calls++
	return s.path, s.err
}

func fastConfig() Config {
	return Config{MaxIterations: 5, TopK: 5, IterationPause: time.Millisecond}
}

func composedDraft() types.Draft {
	return types.Draft{Content: "# T\n\n## A\n\nbody\n\n## B\n\nend", WordCount: 800, Iteration: 1}
}

func runSpec() types.GenerationSpec {
	spec := types.GenerationSpec{
		Topic:  "testing in go",
		Style:  types.StyleTechnical,
		Length: types.LengthMedium,
		Tone:   types.ToneInformative,
	}
	spec.ApplyWordBounds()
	return spec
}

func TestGenerate_ApprovedFirstEvaluation(t *testing.T) {
	retriever := &stubRetriever{}
	composer := &stubComposer{draft: composedDraft()}
	refiner := &stubRefiner{}
	evaluator := &stubEvaluator{verdicts: []types.Evaluation{{Approved: true}}}
	ingestor := &stubIngestor{path: "/content/posts/2025-01-01-testing-in-go.md"}

	r := NewRunner(retriever, composer, refiner, evaluator, ingestor, fastConfig())
	result := r.Generate(context.Background(), runSpec())

	assert.Equal(t, StatusApproved, result.Status)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, ingestor.path, result.FilePath)
	assert.Equal(t, 1, evaluator.calls, "first evaluation must see the as-composed draft")
	assert.Zero(t, refiner.calls)
	assert.Equal(t, 1, ingestor.calls)
}

func TestGenerate_RejectionFeedbackReachesRefinerVerbatim(t *testing.T) {
	var captured []string
	refiner := &capturingRefiner{feedbacks: &captured}
	evaluator := &stubEvaluator{verdicts: []types.Evaluation{
		{Approved: false, Feedback: "conclusion trails off; fix the second section"},
		{Approved: true},
	}}
	ingestor := &stubIngestor{path: "/tmp/post.md"}

	r := NewRunner(&stubRetriever{}, &stubComposer{draft: composedDraft()}, refiner, evaluator, ingestor, fastConfig())
	result := r.Generate(context.Background(), runSpec())

	assert.Equal(t, StatusApproved, result.Status)
	assert.Equal(t, 2, result.Iterations)
	require.Len(t, captured, 1)
	assert.Equal(t, "conclusion trails off; fix the second section", captured[0])
}

type capturingRefiner struct {
	feedbacks *[]string
}

func (c *capturingRefiner) RefineDraft(_ context.Context, draft types.Draft, feedback string) types.Draft {
	*c.feedbacks = append(*c.feedbacks, feedback)
	next := draft
	next.Iteration++
	return next
}

func TestGenerate_ExhaustsAfterCap(t *testing.T) {
	refiner := &stubRefiner{}
	evaluator := &stubEvaluator{verdicts: []types.Evaluation{
		{Approved: false, Feedback: "still not good enough"},
	}}
	ingestor := &stubIngestor{path: "/content/posts/2025-01-01-testing-in-go.md"}

	r := NewRunner(&stubRetriever{}, &stubComposer{draft: composedDraft()}, refiner, evaluator, ingestor, fastConfig())
	result := r.Generate(context.Background(), runSpec())

	assert.Equal(t, StatusExhausted, result.Status)
	assert.Equal(t, 5, result.Iterations)
	assert.Equal(t, 5, evaluator.calls)
	assert.Equal(t, 4, refiner.calls, "no refinement after the final rejection")
	assert.Equal(t, 1, ingestor.calls, "exhausted drafts are persisted without approval")
	assert.Equal(t, ingestor.path, result.FilePath)
	assert.Equal(t, "still not good enough", result.Feedback)
	assert.Equal(t, 5, result.Draft.Iteration)
	assert.NotEmpty(t, result.Draft.Content, "exhausted runs still return the last draft")
}

func TestGenerate_ExhaustedDryRunSkipsIngestion(t *testing.T) {
	evaluator := &stubEvaluator{verdicts: []types.Evaluation{
		{Approved: false, Feedback: "reject"},
	}}
	ingestor := &stubIngestor{path: "/should/not/appear.md"}
	cfg := fastConfig()
	cfg.DryRun = true

	r := NewRunner(&stubRetriever{}, &stubComposer{draft: composedDraft()}, &stubRefiner{}, evaluator, ingestor, cfg)
	result := r.Generate(context.Background(), runSpec())

	assert.Equal(t, StatusExhausted, result.Status)
	assert.Empty(t, result.FilePath)
	assert.Zero(t, ingestor.calls)
}

func TestGenerate_ComposeFailure(t *testing.T) {
	composer := &stubComposer{draft: types.Draft{Err: errors.New("model offline")}}
	evaluator := &stubEvaluator{}

	r := NewRunner(&stubRetriever{}, composer, &stubRefiner{}, evaluator, &stubIngestor{}, fastConfig())
	result := r.Generate(context.Background(), runSpec())

	assert.Equal(t, StatusFailed, result.Status)
	require.Error(t, result.Err)
	assert.Zero(t, evaluator.calls)
}

func TestGenerate_RefineFailureKeepsLooping(t *testing.T) {
	refiner := &stubRefiner{fail: true}
	evaluator := &stubEvaluator{verdicts: []types.Evaluation{
		{Approved: false, Feedback: "reject"},
		{Approved: true},
	}}
	ingestor := &stubIngestor{path: "/tmp/post.md"}

	r := NewRunner(&stubRetriever{}, &stubComposer{draft: composedDraft()}, refiner, evaluator, ingestor, fastConfig())
	result := r.Generate(context.Background(), runSpec())

	assert.Equal(t, StatusApproved, result.Status)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, composedDraft().Content, result.Draft.Content, "failed refinement re-evaluates the previous content")
}

func TestGenerate_DryRunSkipsIngestion(t *testing.T) {
	ingestor := &stubIngestor{path: "/should/not/appear.md"}
	cfg := fastConfig()
	cfg.DryRun = true

	r := NewRunner(&stubRetriever{}, &stubComposer{draft: composedDraft()}, &stubRefiner{}, &stubEvaluator{}, ingestor, cfg)
	result := r.Generate(context.Background(), runSpec())

	assert.Equal(t, StatusApproved, result.Status)
	assert.Empty(t, result.FilePath)
	assert.Zero(t, ingestor.calls)
}

func TestGenerate_IngestFailure(t *testing.T) {
	ingestor := &stubIngestor{path: "/tmp/partial.md", err: errors.New("store down")}

	r := NewRunner(&stubRetriever{}, &stubComposer{draft: composedDraft()}, &stubRefiner{}, &stubEvaluator{}, ingestor, fastConfig())
	result := r.Generate(context.Background(), runSpec())

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "/tmp/partial.md", result.FilePath)
	require.Error(t, result.Err)
}

func TestGenerate_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evaluator := &stubEvaluator{verdicts: []types.Evaluation{{Approved: false, Feedback: "reject"}}}
	r := NewRunner(&stubRetriever{}, &stubComposer{draft: composedDraft()}, &stubRefiner{}, evaluator, &stubIngestor{}, fastConfig())
	result := r.Generate(ctx, runSpec())

	assert.Equal(t, StatusFailed, result.Status)
	assert.ErrorIs(t, result.Err, context.Canceled)
}
