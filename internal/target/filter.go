package target

import "strings"

// FilterPolyT removes candidates whose core contains a run of maxRun or
// more consecutive T's. Such runs act as RNA polymerase III terminators
// and truncate the sgRNA transcript.
func FilterPolyT(candidates []Candidate, maxRun int) []Candidate {
	if maxRun < 1 {
		return candidates
	}

	run := strings.Repeat("T", maxRun)
	kept := candidates[:0:0]
	for _, c := range candidates {
		if strings.Contains(c.Core, run) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
