package agentline

import (
	"errors"
	"fmt"
	"time"
)

// Agent is a named, stateful transformation step. Implementations are
// registered into a Workflow and invoked by the Runner one step at a time.
// Run receives the current state and the shared execution context and
// returns the new state plus an Outcome telling the runner what to do next.
type Agent[S any] interface {
	// Name is a stable identifier, unique within a workflow. It is used
	// for routing with Next.
	Name() string
	Run(state S, ctx *Ctx) (S, Outcome, error)
}

// Func wraps a plain function as an Agent.
func Func[S any](name string, fn func(state S, ctx *Ctx) (S, Outcome, error)) Agent[S] {
	return &funcAgent[S]{name: name, fn: fn}
}

type funcAgent[S any] struct {
	name string
	fn   func(S, *Ctx) (S, Outcome, error)
}

func (a *funcAgent[S]) Name() string                          { return a.name }
func (a *funcAgent[S]) Run(state S, ctx *Ctx) (S, Outcome, error) { return a.fn(state, ctx) }

// OutcomeKind discriminates the control-flow signal carried by an Outcome.
type OutcomeKind string

const (
	// OutcomeContinue follows the default edge configured via Builder.Then.
	OutcomeContinue OutcomeKind = "continue"
	// OutcomeDone completes the workflow, returning the final state.
	OutcomeDone OutcomeKind = "done"
	// OutcomeNext jumps to a specific agent by name.
	OutcomeNext OutcomeKind = "next"
	// OutcomeRetry re-runs the current agent, counted against the retry budget.
	OutcomeRetry OutcomeKind = "retry"
	// OutcomeWait sleeps, then re-runs, counted against the retry budget.
	OutcomeWait OutcomeKind = "wait"
	// OutcomeFail stops the workflow with an error.
	OutcomeFail OutcomeKind = "fail"
)

// Outcome is the control-flow signal an Agent returns to the Runner. It is
// the only channel by which an agent steers execution; construct one with
// Continue, Done, Next, Retry, Wait or Fail.
type Outcome struct {
	kind   OutcomeKind
	step   string
	reason string
	delay  time.Duration
}

// Continue follows the workflow's default next step (set via Builder.Then).
func Continue() Outcome { return Outcome{kind: OutcomeContinue} }

// Done completes the workflow and returns the final state.
func Done() Outcome { return Outcome{kind: OutcomeDone} }

// Next jumps to the agent registered under step.
func Next(step string) Outcome { return Outcome{kind: OutcomeNext, step: step} }

// Retry re-runs the current agent. The reason is surfaced in events and in
// the retry-budget error message.
func Retry(reason string) Outcome { return Outcome{kind: OutcomeRetry, reason: reason} }

// Wait sleeps for d, then re-runs the current agent.
func Wait(d time.Duration) Outcome { return Outcome{kind: OutcomeWait, delay: d} }

// Fail stops the workflow with an error carrying msg.
func Fail(msg string) Outcome { return Outcome{kind: OutcomeFail, reason: msg} }

// Kind returns the outcome's discriminator.
func (o Outcome) Kind() OutcomeKind { return o.kind }

// Step returns the jump target of a Next outcome, or "".
func (o Outcome) Step() string { return o.step }

// Reason returns the retry reason or failure message, or "".
func (o Outcome) Reason() string { return o.reason }

// Delay returns the sleep duration of a Wait outcome.
func (o Outcome) Delay() time.Duration { return o.delay }

func (o Outcome) String() string {
	switch o.kind {
	case OutcomeNext:
		return fmt.Sprintf("next(%s)", o.step)
	case OutcomeRetry:
		return fmt.Sprintf("retry(%s)", o.reason)
	case OutcomeWait:
		return fmt.Sprintf("wait(%s)", o.delay)
	case OutcomeFail:
		return fmt.Sprintf("fail(%s)", o.reason)
	default:
		return string(o.kind)
	}
}

// ErrorKind classifies a StepError by what the caller can do about it.
type ErrorKind string

const (
	// KindInvalid marks bad input or an agent logic error. Don't retry, fix the code.
	KindInvalid ErrorKind = "invalid"
	// KindTransient marks a transient failure (network, rate limit). Retrying might help.
	KindTransient ErrorKind = "transient"
	// KindFailed marks an explicit abort requested via Fail.
	KindFailed ErrorKind = "failed"
	// KindOther covers everything else. Inspect the message for details.
	KindOther ErrorKind = "other"
)

// StepError is the error type for agent steps. The Runner never inspects
// the kind; classification exists for the caller of Run.
type StepError struct {
	Kind    ErrorKind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *StepError) Error() string {
	switch e.Kind {
	case KindInvalid, KindTransient:
		return string(e.Kind) + ": " + e.Message
	default:
		return e.Message
	}
}

func (e *StepError) Unwrap() error { return e.Err }

// Invalid creates a KindInvalid error.
func Invalid(format string, args ...any) *StepError {
	return &StepError{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// Transient creates a KindTransient error.
func Transient(format string, args ...any) *StepError {
	return &StepError{Kind: KindTransient, Message: fmt.Sprintf(format, args...)}
}

// Failed creates a KindFailed error.
func Failed(format string, args ...any) *StepError {
	return &StepError{Kind: KindFailed, Message: fmt.Sprintf(format, args...)}
}

// Other creates a KindOther error.
func Other(format string, args ...any) *StepError {
	return &StepError{Kind: KindOther, Message: fmt.Sprintf(format, args...)}
}

// Kind reports the classification of err. Errors that are not StepErrors
// (directly or wrapped) report KindOther.
func Kind(err error) ErrorKind {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOther
}
