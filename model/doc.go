// Package model defines the normalized model-invocation contract consumed by
// the agent loop: a Request carrying the conversation, the tool catalogue and
// an allowed-function constraint, and a single Response whose parts are text
// or function call requests. Provider adapters live in subpackages (gemini,
// openai, anthropic) and must be safe for concurrent use.
package model
