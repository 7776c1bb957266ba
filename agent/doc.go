// Package agent implements the multi-turn tool-calling loop that drives a
// reasoning model from an initial claim to a reviewed fact-check report.
//
// A run cycles through three phases: an intent-inference turn, an optional
// planning turn, and acting turns in which the model may call any registered
// tool. Tool calls within a turn are dispatched concurrently and merged back
// into the conversation with function responses ordered first. The run ends
// when the designated submission tool returns a passing review verdict, when
// the message budget is exhausted, or when the model transport fails; every
// outcome is folded into a Result carrying the processed trace.
package agent
