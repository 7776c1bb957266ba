package agent

import "github.com/bettersg/checkmate-agent/core"

// flattenAndOrganise flattens the per-call result slices produced by a
// fan-out of concurrent tool dispatches into a single ordered list, then
// stably partitions it so that all function response parts precede all other
// parts. Relative order within each group matches input order. Putting
// responses first keeps the terminal-condition scan cheap and the merged
// turn deterministic.
func flattenAndOrganise(results [][]core.Part) []core.Part {
	var responses, others []core.Part
	for _, sublist := range results {
		for _, p := range sublist {
			if _, ok := p.(core.FunctionResponsePart); ok {
				responses = append(responses, p)
			} else {
				others = append(others, p)
			}
		}
	}
	return append(responses, others...)
}
