// Package agentline is a small library for building agent workflows: define
// agents, wire them into a workflow, and let the runner execute them. Agents
// communicate through a shared context (Ctx) and steer control flow with
// outcomes (Continue, Next, Retry, Wait, Done, Fail).
//
// A workflow is built once, validated once, and immutable afterwards:
//
//	type State struct{ N int }
//
//	wf, err := agentline.New[State]("demo").
//		Register(agentline.Func("add_one", func(s State, ctx *agentline.Ctx) (State, agentline.Outcome, error) {
//			s.N++
//			return s, agentline.Done(), nil
//		})).
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := agentline.NewRunner(wf).Run(State{}, agentline.NewCtx())
//
// The runner owns two safety nets, a step budget and a consecutive-retry
// budget, and exposes optional hooks for observing each transition and each
// terminal error. Everything else is agent logic.
package agentline
