// Package runner coordinates message exchange with the Anthropic Messages API
// and dispatches SkedulesLive operation calls.
//
// Invariants:
//   - every tool_use appended by the model is followed, before the next model
//     call, by exactly one tool_result referencing the same invocation ID.
//   - invocations within a round run sequentially in listed order.
//   - the loop is a bounded state machine, never unbounded recursion.
//
// Flow:
//
//	user(text) -> assistant(tool_use...) -> user(tool_result...) -> assistant(text)
package runner
