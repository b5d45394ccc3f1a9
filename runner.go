package agentline

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

const (
	// DefaultMaxSteps bounds the total number of agent invocations in one Run.
	DefaultMaxSteps = 10_000
	// DefaultMaxRetries bounds consecutive Retry/Wait outcomes at a single step.
	DefaultMaxRetries = 3
)

// StepEvent describes one completed agent invocation. Step hooks receive it
// synchronously, after the state has been replaced and before the outcome is
// interpreted.
type StepEvent struct {
	RunID    string
	Workflow string
	Step     string
	Outcome  Outcome
	Elapsed  time.Duration
	// Steps is the zero-based index of this invocation within the run.
	Steps int
	// Retries is the consecutive-retry count going into this invocation.
	Retries int
}

// ErrorEvent describes a terminal error. Error hooks receive it synchronously,
// before Run returns the error.
type ErrorEvent struct {
	RunID    string
	Workflow string
	Step     string
	Err      error
}

// Runner drives a Workflow against an initial state, invoking agents in
// sequence according to their outcomes. A Runner is reusable: all per-run
// bookkeeping is local to a Run call, so independent calls may execute
// concurrently as long as the agents themselves tolerate it (give each run
// its own Ctx).
type Runner[S any] struct {
	wf         *Workflow[S]
	maxSteps   int
	maxRetries int
	onStep     func(StepEvent)
	onError    func(ErrorEvent)
}

// NewRunner wraps a validated workflow with default execution policy.
func NewRunner[S any](wf *Workflow[S]) *Runner[S] {
	return &Runner[S]{
		wf:         wf,
		maxSteps:   DefaultMaxSteps,
		maxRetries: DefaultMaxRetries,
	}
}

// WithMaxSteps caps total agent invocations per run. This is the
// infinite-loop guard.
func (r *Runner[S]) WithMaxSteps(n int) *Runner[S] {
	r.maxSteps = n
	return r
}

// WithMaxRetries caps consecutive Retry/Wait outcomes at a single step.
func (r *Runner[S]) WithMaxRetries(n int) *Runner[S] {
	r.maxRetries = n
	return r
}

// WithStepHook installs a callback fired once per completed invocation.
// A hook that blocks delays the workflow.
func (r *Runner[S]) WithStepHook(fn func(StepEvent)) *Runner[S] {
	r.onStep = fn
	return r
}

// WithErrorHook installs a callback fired once before Run returns an error.
func (r *Runner[S]) WithErrorHook(fn func(ErrorEvent)) *Runner[S] {
	r.onError = fn
	return r
}

// WithLogging installs step and error hooks that print each transition and
// each error to stderr.
func (r *Runner[S]) WithLogging() *Runner[S] {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339Nano,
	}))
	r.onStep = func(ev StepEvent) {
		logger.Info("step",
			"workflow", ev.Workflow,
			"step", ev.Step,
			"outcome", ev.Outcome.String(),
			"elapsed", ev.Elapsed,
			"steps", ev.Steps,
			"retries", ev.Retries,
			"run_id", ev.RunID,
		)
	}
	r.onError = func(ev ErrorEvent) {
		logger.Error("workflow error",
			"workflow", ev.Workflow,
			"step", ev.Step,
			"error", ev.Err,
			"run_id", ev.RunID,
		)
	}
	return r
}

// Workflow returns the wrapped workflow.
func (r *Runner[S]) Workflow() *Workflow[S] { return r.wf }

// Run executes the workflow from its start step until an agent returns Done,
// something fails, or a safety budget is exhausted. Agent errors are never
// retried by the runner; only explicit Retry/Wait outcomes re-invoke a step.
func (r *Runner[S]) Run(state S, ctx *Ctx) (S, error) {
	runID := uuid.NewString()
	current := r.wf.start
	retries := 0

	for steps := 0; steps < r.maxSteps; steps++ {
		agent := r.wf.agent(current)
		if agent == nil {
			// Reachable only when an agent jumps to a name the builder
			// never saw; Next targets are resolved at run time.
			return state, r.fail(runID, current, Other("unknown step: %s", current))
		}

		began := time.Now()
		next, outcome, err := agent.Run(state, ctx)
		elapsed := time.Since(began)
		if err != nil {
			return state, r.fail(runID, current, err)
		}
		state = next

		if r.onStep != nil {
			r.onStep(StepEvent{
				RunID:    runID,
				Workflow: r.wf.name,
				Step:     current,
				Outcome:  outcome,
				Elapsed:  elapsed,
				Steps:    steps,
				Retries:  retries,
			})
		}

		switch outcome.kind {
		case OutcomeDone:
			return state, nil

		case OutcomeFail:
			return state, r.fail(runID, current, Failed("%s", outcome.reason))

		case OutcomeNext:
			current = outcome.step
			retries = 0

		case OutcomeContinue:
			target, ok := r.wf.next(current)
			if !ok {
				return state, r.fail(runID, current, Other(
					"step %q returned continue but no default next step is configured", current))
			}
			current = target
			retries = 0

		case OutcomeRetry:
			retries++
			if retries > r.maxRetries {
				return state, r.fail(runID, current, Other(
					"step %q exceeded max retries (%d): %s", current, r.maxRetries, outcome.reason))
			}

		case OutcomeWait:
			retries++
			if retries > r.maxRetries {
				return state, r.fail(runID, current, Other(
					"step %q exceeded max retries (%d) while waiting", current, r.maxRetries))
			}
			time.Sleep(outcome.delay)
		}
	}

	return state, r.fail(runID, current, Other(
		"max steps exceeded (possible infinite loop) in workflow %q", r.wf.name))
}

func (r *Runner[S]) fail(runID, step string, err error) error {
	if r.onError != nil {
		r.onError(ErrorEvent{RunID: runID, Workflow: r.wf.name, Step: step, Err: err})
	}
	return err
}
