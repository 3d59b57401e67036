package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/blog-agent/internal/types"
)

// Defaults for the refine/evaluate loop.
const (
	DefaultMaxIterations  = 5
	DefaultTopK           = 5
	DefaultIterationPause = 100 * time.Millisecond
)

// Status is the terminal outcome of a generation run.
type Status string

// Run outcomes. Exhausted means the iteration cap was reached without
// approval. The last draft is still persisted and returned (never block
// publication indefinitely); callers must inspect Status, not just
// content, to detect an unapproved post.
const (
	StatusApproved  Status = "approved"
	StatusExhausted Status = "exhausted"
	StatusFailed    Status = "failed"
)

// Result is what a generation run produced.
type Result struct {
	Draft      types.Draft
	Status     Status
	Iterations int
	FilePath   string
	Feedback   string
	Err        error
}

// Config tunes a runner.
type Config struct {
	MaxIterations  int
	TopK           int
	IterationPause time.Duration
	DryRun         bool
	Verbose        bool
}

// DefaultRunnerConfig returns the default loop settings.
func DefaultRunnerConfig() Config {
	return Config{
		MaxIterations:  DefaultMaxIterations,
		TopK:           DefaultTopK,
		IterationPause: DefaultIterationPause,
	}
}

// Agent interfaces let tests drive the runner with scripted stages.
type (
	retrieverAgent interface {
		SearchAndSynthesize(ctx context.Context, topic string, topK int) types.SynthesisResult
	}
	composerAgent interface {
		ComposeDraft(ctx context.Context, synth types.SynthesisResult, spec types.GenerationSpec) types.Draft
	}
	refinerAgent interface {
		RefineDraft(ctx context.Context, draft types.Draft, feedback string) types.Draft
	}
	evaluatorAgent interface {
		EvaluateDraft(ctx context.Context, draft types.Draft, spec types.GenerationSpec) types.Evaluation
	}
	ingestorAgent interface {
		IngestFinal(ctx context.Context, draft types.Draft, spec types.GenerationSpec) (string, error)
	}
)

// Runner wires the five agents into the generation pipeline.
type Runner struct {
	retriever retrieverAgent
	composer  composerAgent
	refiner   refinerAgent
	evaluator evaluatorAgent
	ingestor  ingestorAgent
	config    Config
}

// NewRunner creates a runner. Zero config fields fall back to defaults.
func NewRunner(retriever retrieverAgent, composer composerAgent, refiner refinerAgent, evaluator evaluatorAgent, ingestor ingestorAgent, config Config) *Runner {
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if config.IterationPause <= 0 {
		config.IterationPause = DefaultIterationPause
	}
	return &Runner{
		retriever: retriever,
		composer:  composer,
		refiner:   refiner,
		evaluator: evaluator,
		ingestor:  ingestor,
		config:    config,
	}
}

// Generate runs the full pipeline for one spec. The first evaluation sees
// the draft exactly as composed; evaluator feedback is handed to the
// refiner verbatim. The run ends approved, exhausted after the iteration
// cap, or failed. Exhausted runs still persist the last draft.
func (r *Runner) Generate(ctx context.Context, spec types.GenerationSpec) Result {
	machine, err := newRunMachine(spec.Topic)
	if err != nil {
		return Result{Status: StatusFailed, Err: err}
	}

	r.verbosef("Retrieving context for %q (top %d)", spec.Topic, r.config.TopK)
	synth := r.retriever.SearchAndSynthesize(ctx, spec.Topic, r.config.TopK)
	_ = machine.send(eventRetrieved)
	r.verbosef("Retrieved context from %d documents", synth.SourceCount)

	draft := r.composer.ComposeDraft(ctx, synth, spec)
	if draft.Failed() {
		_ = machine.send(eventFail)
		return Result{Status: StatusFailed, Err: fmt.Errorf("compose failed: %w", draft.Err)}
	}
	_ = machine.send(eventComposed)
	r.verbosef("Composed initial draft: %d words", draft.WordCount)

	var feedback string
	for iteration := 1; ; iteration++ {
		eval := r.evaluator.EvaluateDraft(ctx, draft, spec)
		feedback = eval.Feedback

		if eval.Approved {
			_ = machine.send(eventApprove)
			r.verbosef("Draft approved on evaluation %d", iteration)
			return r.ingest(ctx, machine, draft, spec, iteration, StatusApproved, "")
		}

		r.verbosef("Evaluation %d rejected: %s", iteration, eval.Feedback)
		if iteration >= r.config.MaxIterations {
			_ = machine.send(eventExhaust)
			r.verbosef("Iteration budget exhausted after %d evaluations, persisting last draft anyway", iteration)
			return r.ingest(ctx, machine, draft, spec, iteration, StatusExhausted, feedback)
		}
		_ = machine.send(eventReject)

		select {
		case <-ctx.Done():
			_ = machine.send(eventFail)
			return Result{Draft: draft, Status: StatusFailed, Iterations: iteration, Err: ctx.Err()}
		case <-time.After(r.config.IterationPause):
		}

		next := r.refiner.RefineDraft(ctx, draft, feedback)
		if next.Failed() {
			r.verbosef("Refinement failed, re-evaluating previous draft: %v", next.Err)
		}
		draft = next
		_ = machine.send(eventRefined)
	}
}

// ingest persists the final draft, approved or exhausted. Feedback is
// the last rejection feedback, kept on exhausted results.
func (r *Runner) ingest(ctx context.Context, machine *runMachine, draft types.Draft, spec types.GenerationSpec, iterations int, status Status, feedback string) Result {
	terminal := eventIngested
	if status == StatusExhausted {
		terminal = eventExhaust
	}

	if r.config.DryRun {
		_ = machine.send(terminal)
		return Result{Draft: draft, Status: status, Iterations: iterations, Feedback: feedback}
	}

	path, err := r.ingestor.IngestFinal(ctx, draft, spec)
	if err != nil {
		_ = machine.send(eventFail)
		return Result{Draft: draft, Status: StatusFailed, Iterations: iterations, FilePath: path, Feedback: feedback, Err: err}
	}
	_ = machine.send(terminal)
	return Result{Draft: draft, Status: status, Iterations: iterations, FilePath: path, Feedback: feedback}
}

func (r *Runner) verbosef(format string, args ...any) {
	if r.config.Verbose {
		fmt.Printf("[VERBOSE] "+format+"\n", args...)
	}
}
