package agentline

import "errors"

// ErrMissingStart is returned by Build when no agent was registered and no
// start step was designated.
var ErrMissingStart = errors.New("workflow missing start step")

// DuplicateAgentError is returned by Build when two agents were registered
// under the same name.
type DuplicateAgentError struct {
	Name string
}

func (e *DuplicateAgentError) Error() string { return "duplicate agent name: " + e.Name }

// UnknownStepError is returned by Build when the start step or a default-edge
// target does not reference a registered agent.
type UnknownStepError struct {
	Step string
}

func (e *UnknownStepError) Error() string { return "unknown step: " + e.Step }

// Builder accumulates agent registrations and routing edges, then produces a
// validated Workflow. All validation happens in Build; until then the builder
// only records what it was told.
type Builder[S any] struct {
	name        string
	start       string
	chainLast   string
	agents      map[string]Agent[S]
	defaultNext map[string]string
	duplicate   string
}

// New creates a Builder for a workflow with the given name.
func New[S any](name string) *Builder[S] {
	return &Builder[S]{
		name:        name,
		agents:      make(map[string]Agent[S]),
		defaultNext: make(map[string]string),
	}
}

// Register adds an agent keyed by its name. The first registered agent
// becomes the provisional start step. A second registration under an
// existing name is not rejected here; it surfaces as a DuplicateAgentError
// at Build time.
func (b *Builder[S]) Register(a Agent[S]) *Builder[S] {
	name := a.Name()
	if _, exists := b.agents[name]; exists {
		b.duplicate = name
	}
	b.agents[name] = a

	if b.start == "" {
		b.start = name
	}
	if b.chainLast == "" {
		b.chainLast = name
	}
	return b
}

// StartAt overrides the start step and resets the chain tail to step.
func (b *Builder[S]) StartAt(step string) *Builder[S] {
	b.start = step
	b.chainLast = step
	return b
}

// Then wires a default edge from the current chain tail to next and advances
// the tail. With no prior registration or StartAt call, next becomes the
// start step instead.
func (b *Builder[S]) Then(next string) *Builder[S] {
	if b.chainLast == "" {
		b.start = next
		b.chainLast = next
		return b
	}
	b.defaultNext[b.chainLast] = next
	b.chainLast = next
	return b
}

// Build validates the accumulated graph and returns an immutable Workflow.
// Duplicate registrations are reported first, then a missing start step,
// then unknown start or edge targets.
func (b *Builder[S]) Build() (*Workflow[S], error) {
	if b.duplicate != "" {
		return nil, &DuplicateAgentError{Name: b.duplicate}
	}
	if b.start == "" {
		return nil, ErrMissingStart
	}
	if _, ok := b.agents[b.start]; !ok {
		return nil, &UnknownStepError{Step: b.start}
	}
	for _, target := range b.defaultNext {
		if _, ok := b.agents[target]; !ok {
			return nil, &UnknownStepError{Step: target}
		}
	}
	return &Workflow[S]{
		name:        b.name,
		start:       b.start,
		agents:      b.agents,
		defaultNext: b.defaultNext,
	}, nil
}

// Workflow is a validated, immutable mapping from step name to agent plus
// the default-edge routing table. Only Build constructs one.
type Workflow[S any] struct {
	name        string
	start       string
	agents      map[string]Agent[S]
	defaultNext map[string]string
}

// Name returns the workflow's name.
func (w *Workflow[S]) Name() string { return w.name }

// Start returns the name of the start step.
func (w *Workflow[S]) Start() string { return w.start }

func (w *Workflow[S]) agent(name string) Agent[S] {
	return w.agents[name]
}

func (w *Workflow[S]) next(from string) (string, bool) {
	n, ok := w.defaultNext[from]
	return n, ok
}
