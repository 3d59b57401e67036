// Package workflow orchestrates the generation pipeline: retrieval,
// composition, the refine/evaluate loop, and final ingestion.
package workflow

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Run lifecycle states.
const (
	StateRetrieving = "retrieving"
	StateComposing  = "composing"
	StateEvaluating = "evaluating"
	StateRefining   = "refining"
	StateIngesting  = "ingesting"
	StateApproved   = "approved"
	StateExhausted  = "exhausted"
	StateFailed     = "failed"
)

// Run lifecycle events.
const (
	eventRetrieved = "retrieved"
	eventComposed  = "composed"
	eventApprove   = "approve"
	eventReject    = "reject"
	eventRefined   = "refined"
	eventIngested  = "ingested"
	eventExhaust   = "exhaust"
	eventFail      = "fail"
)

type runContext struct {
	Topic string
}

// runMachine enforces the legal order of pipeline stages. The runner
// drives the agents and reports each stage result as an event; an event
// that does not change state signals a sequencing bug.
type runMachine struct {
	interpreter *statekit.Interpreter[runContext]
}

func newRunMachine(topic string) (*runMachine, error) {
	builder := statekit.NewMachine[runContext]("blog-run").
		WithInitial(statekit.StateID(StateRetrieving)).
		WithContext(runContext{Topic: topic})

	builder.State(StateRetrieving).
		On(eventRetrieved).Target(StateComposing).
		On(eventFail).Target(StateFailed).
		Done()

	builder.State(StateComposing).
		On(eventComposed).Target(StateEvaluating).
		On(eventFail).Target(StateFailed).
		Done()

	// Exhaustion also passes through ingestion: the last draft is
	// persisted without approval (leniency policy).
	builder.State(StateEvaluating).
		On(eventApprove).Target(StateIngesting).
		On(eventReject).Target(StateRefining).
		On(eventExhaust).Target(StateIngesting).
		On(eventFail).Target(StateFailed).
		Done()

	builder.State(StateRefining).
		On(eventRefined).Target(StateEvaluating).
		On(eventFail).Target(StateFailed).
		Done()

	builder.State(StateIngesting).
		On(eventIngested).Target(StateApproved).
		On(eventExhaust).Target(StateExhausted).
		On(eventFail).Target(StateFailed).
		Done()

	builder.State(StateApproved).Done()
	builder.State(StateExhausted).Done()
	builder.State(StateFailed).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &runMachine{interpreter: interpreter}, nil
}

// send fires an event and errors when the machine did not move, which
// means the event is illegal in the current state.
func (m *runMachine) send(event string) error {
	before := m.current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := m.current()

	if before == after {
		return fmt.Errorf("event %q is not valid in state %q", event, before)
	}
	return nil
}

func (m *runMachine) current() string {
	return string(m.interpreter.State().Value)
}
