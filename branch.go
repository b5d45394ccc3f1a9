package agentline

import (
	"github.com/expr-lang/expr"
)

// Rule pairs a condition with a jump target. When is an expr-lang expression
// evaluated against the Ctx key/value store; Then names the step to jump to
// when it holds.
type Rule struct {
	When string
	Then string
}

// Branch builds an agent that routes by evaluating its rules in order against
// the Ctx store and jumping to the first one whose condition is truthy. When
// no rule matches, the agent returns fallback. State passes through untouched.
//
// Store entries are exposed to the expression as string variables, e.g. a
// prior step's ctx.Set("sentiment", "positive") makes
// `sentiment == "positive"` a usable condition.
func Branch[S any](name string, rules []Rule, fallback Outcome) Agent[S] {
	return &branchAgent[S]{name: name, rules: rules, fallback: fallback}
}

type branchAgent[S any] struct {
	name     string
	rules    []Rule
	fallback Outcome
}

func (b *branchAgent[S]) Name() string { return b.name }

func (b *branchAgent[S]) Run(state S, ctx *Ctx) (S, Outcome, error) {
	env := make(map[string]any, len(ctx.store))
	for k, v := range ctx.store {
		env[k] = v
	}

	for _, rule := range b.rules {
		program, err := expr.Compile(rule.When, expr.Env(env))
		if err != nil {
			return state, Outcome{}, Invalid("compile condition %q: %v", rule.When, err)
		}
		result, err := expr.Run(program, env)
		if err != nil {
			return state, Outcome{}, Invalid("evaluate condition %q: %v", rule.When, err)
		}
		if isTruthy(result) {
			return state, Next(rule.Then), nil
		}
	}
	return state, b.fallback, nil
}

// isTruthy converts an expression result to a boolean.
func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
