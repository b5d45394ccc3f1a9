package agentline

import (
	"strings"
	"testing"
	"time"
)

// retryAgent retries until its attempt counter reaches succeedOn.
type retryAgent struct {
	name      string
	attempts  int
	succeedOn int
	onSuccess Outcome
}

func (a *retryAgent) Name() string { return a.name }

func (a *retryAgent) Run(state int, _ *Ctx) (int, Outcome, error) {
	a.attempts++
	if a.attempts >= a.succeedOn {
		return state, a.onSuccess, nil
	}
	return state, Retry("not ready"), nil
}

func mustBuild[S any](t *testing.T, b *Builder[S]) *Workflow[S] {
	t.Helper()
	wf, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return wf
}

func TestRetrySucceedsWithinBudget(t *testing.T) {
	agent := &retryAgent{name: "flaky", succeedOn: 3, onSuccess: Done()}
	wf := mustBuild(t, New[int]("test").Register(agent))

	var events []StepEvent
	runner := NewRunner(wf).WithStepHook(func(ev StepEvent) {
		events = append(events, ev)
	})

	_, err := runner.Run(0, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("step hook fired %d times, want 3", len(events))
	}
	for i, want := range []int{0, 1, 2} {
		if events[i].Retries != want {
			t.Errorf("event %d retries = %d, want %d", i, events[i].Retries, want)
		}
		if events[i].Step != "flaky" {
			t.Errorf("event %d step = %q, want %q", i, events[i].Step, "flaky")
		}
	}
}

func TestRetryExceedsBudget(t *testing.T) {
	invocations := 0
	agent := Func("always_retry", func(s int, _ *Ctx) (int, Outcome, error) {
		invocations++
		return s, Retry("never ready"), nil
	})
	wf := mustBuild(t, New[int]("test").Register(agent))

	const budget = 2
	_, err := NewRunner(wf).WithMaxRetries(budget).Run(0, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if invocations != budget+1 {
		t.Errorf("invocations = %d, want %d", invocations, budget+1)
	}
	if !strings.Contains(err.Error(), "exceeded max retries (2)") {
		t.Errorf("err = %q, want retry-budget message", err)
	}
	if !strings.Contains(err.Error(), "never ready") {
		t.Errorf("err = %q, want the last retry reason embedded", err)
	}
}

func TestWaitSleepsAndReruns(t *testing.T) {
	waited := false
	agent := Func("wait_once", func(s int, _ *Ctx) (int, Outcome, error) {
		if !waited {
			waited = true
			return s, Wait(time.Millisecond), nil
		}
		return s, Done(), nil
	})
	wf := mustBuild(t, New[int]("test").Register(agent))

	if _, err := NewRunner(wf).Run(0, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestWaitCountsAgainstRetryBudget(t *testing.T) {
	agent := Func("always_wait", func(s int, _ *Ctx) (int, Outcome, error) {
		return s, Wait(time.Microsecond), nil
	})
	wf := mustBuild(t, New[int]("test").Register(agent))

	_, err := NewRunner(wf).WithMaxRetries(1).Run(0, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "while waiting") {
		t.Errorf("err = %q, want wait-budget message", err)
	}
}

func TestTransitionResetsRetryCounter(t *testing.T) {
	a := &retryAgent{name: "a", succeedOn: 3, onSuccess: Continue()}
	b := &retryAgent{name: "b", succeedOn: 3, onSuccess: Done()}
	wf := mustBuild(t, New[int]("test").Register(a).Register(b).Then("b"))

	var retries []int
	runner := NewRunner(wf).WithMaxRetries(2).WithStepHook(func(ev StepEvent) {
		retries = append(retries, ev.Retries)
	})

	// Each step retries twice; a shared budget of 2 would abort, a
	// per-step one succeeds.
	if _, err := runner.Run(0, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []int{0, 1, 2, 0, 1, 2}
	if len(retries) != len(want) {
		t.Fatalf("step hook fired %d times, want %d", len(retries), len(want))
	}
	for i := range want {
		if retries[i] != want[i] {
			t.Errorf("event %d retries = %d, want %d", i, retries[i], want[i])
		}
	}
}

func TestJumpResetsRetryCounter(t *testing.T) {
	a := &retryAgent{name: "a", succeedOn: 3, onSuccess: Next("b")}
	b := &retryAgent{name: "b", succeedOn: 3, onSuccess: Done()}
	wf := mustBuild(t, New[int]("test").Register(a).Register(b))

	if _, err := NewRunner(wf).WithMaxRetries(2).Run(0, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestContinueWithoutDefaultEdge(t *testing.T) {
	agent := Func("dangling", func(s int, _ *Ctx) (int, Outcome, error) {
		return s, Continue(), nil
	})
	wf := mustBuild(t, New[int]("test").Register(agent))

	_, err := NewRunner(wf).Run(0, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"dangling"`) {
		t.Errorf("err = %q, want the step name", err)
	}
	if !strings.Contains(err.Error(), "no default next step") {
		t.Errorf("err = %q, want missing-edge message", err)
	}
}

func TestFailOutcome(t *testing.T) {
	agent := Func("doomed", func(s int, _ *Ctx) (int, Outcome, error) {
		return s, Fail("reason"), nil
	})
	wf := mustBuild(t, New[int]("test").Register(agent))

	_, err := NewRunner(wf).Run(0, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "reason" {
		t.Errorf("err = %q, want %q", err.Error(), "reason")
	}
	if Kind(err) != KindFailed {
		t.Errorf("kind = %q, want %q", Kind(err), KindFailed)
	}
}

func TestStepBudgetExceeded(t *testing.T) {
	invocations := 0
	agent := Func("spinner", func(s int, _ *Ctx) (int, Outcome, error) {
		invocations++
		return s, Next("spinner"), nil
	})
	wf := mustBuild(t, New[int]("looper").Register(agent))

	_, err := NewRunner(wf).WithMaxSteps(5).Run(0, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if invocations != 5 {
		t.Errorf("invocations = %d, want 5", invocations)
	}
	if !strings.Contains(err.Error(), "max steps exceeded") {
		t.Errorf("err = %q, want step-budget message", err)
	}
	if !strings.Contains(err.Error(), `"looper"`) {
		t.Errorf("err = %q, want the workflow name", err)
	}
}

func TestAgentErrorPropagatesKindUnchanged(t *testing.T) {
	agent := Func("broken", func(s int, _ *Ctx) (int, Outcome, error) {
		return s, Outcome{}, Transient("rate limited")
	})
	wf := mustBuild(t, New[int]("test").Register(agent))

	var hookErr error
	_, err := NewRunner(wf).WithErrorHook(func(ev ErrorEvent) {
		hookErr = ev.Err
	}).Run(0, nil)

	if Kind(err) != KindTransient {
		t.Errorf("kind = %q, want %q", Kind(err), KindTransient)
	}
	if hookErr != err {
		t.Error("error hook did not receive the returned error")
	}
}

func TestErrorHookFiresBeforeReturn(t *testing.T) {
	agent := Func("doomed", func(s int, _ *Ctx) (int, Outcome, error) {
		return s, Fail("broken"), nil
	})
	wf := mustBuild(t, New[int]("wf").Register(agent))

	var events []ErrorEvent
	_, err := NewRunner(wf).WithErrorHook(func(ev ErrorEvent) {
		events = append(events, ev)
	}).Run(0, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(events) != 1 {
		t.Fatalf("error hook fired %d times, want 1", len(events))
	}
	if events[0].Step != "doomed" || events[0].Workflow != "wf" {
		t.Errorf("event = %+v, want step doomed in workflow wf", events[0])
	}
	if events[0].RunID == "" {
		t.Error("event missing run ID")
	}
}

func TestRuntimeJumpToUnknownStep(t *testing.T) {
	agent := Func("jumper", func(s int, _ *Ctx) (int, Outcome, error) {
		return s, Next("nowhere"), nil
	})
	wf := mustBuild(t, New[int]("test").Register(agent))

	_, err := NewRunner(wf).Run(0, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unknown step: nowhere") {
		t.Errorf("err = %q, want unknown-step message", err)
	}
}

func TestIncrementUntilThree(t *testing.T) {
	increment := Func("increment", func(s int, _ *Ctx) (int, Outcome, error) {
		return s + 1, Continue(), nil
	})
	stopAtThree := Func("stop-at-3", func(s int, _ *Ctx) (int, Outcome, error) {
		if s >= 3 {
			return s, Done(), nil
		}
		return s, Next("increment"), nil
	})
	wf := mustBuild(t, New[int]("counter").
		Register(increment).
		Register(stopAtThree).
		StartAt("increment").
		Then("stop-at-3"))

	final, err := NewRunner(wf).Run(0, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if final != 3 {
		t.Errorf("final state = %d, want 3", final)
	}
}

func TestRunnerIsReusable(t *testing.T) {
	agent := Func("add_one", func(s int, _ *Ctx) (int, Outcome, error) {
		return s + 1, Done(), nil
	})
	wf := mustBuild(t, New[int]("test").Register(agent))
	runner := NewRunner(wf)

	for i := 0; i < 3; i++ {
		final, err := runner.Run(i, nil)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if final != i+1 {
			t.Errorf("run %d: final = %d, want %d", i, final, i+1)
		}
	}
}

func TestStepEventFields(t *testing.T) {
	agent := Func("step", func(s int, _ *Ctx) (int, Outcome, error) {
		return s, Done(), nil
	})
	wf := mustBuild(t, New[int]("wf").Register(agent))

	var got StepEvent
	_, err := NewRunner(wf).WithStepHook(func(ev StepEvent) { got = ev }).Run(0, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.Workflow != "wf" || got.Step != "step" || got.Steps != 0 || got.Retries != 0 {
		t.Errorf("event = %+v", got)
	}
	if got.Outcome.Kind() != OutcomeDone {
		t.Errorf("outcome = %v, want done", got.Outcome)
	}
	if got.RunID == "" {
		t.Error("event missing run ID")
	}
	if got.Elapsed < 0 {
		t.Errorf("elapsed = %v", got.Elapsed)
	}
}
