package target

import "sort"

// Rank normalizes the three scored dimensions across the targets of one
// locus and sums them into a final score:
//
//   - restriction: 1 if any enzyme matched, 0 otherwise
//   - AT-content: min-max normalized, the highest AT-content maps to 1
//   - structure: min-max normalized and inverted, the fewest paired
//     bases maps to 1
//
// When every target of the locus shares the same value for a dimension
// the normalized score is 1 for all of them. The result is sorted by
// descending score; ties keep their extraction order.
//
// Scores are only comparable between targets of the same locus.
func Rank(scored []Scored) []Ranked {
	if len(scored) == 0 {
		return nil
	}

	minAT, maxAT := scored[0].ATContent, scored[0].ATContent
	minPaired, maxPaired := scored[0].Paired, scored[0].Paired
	for _, s := range scored[1:] {
		if s.ATContent < minAT {
			minAT = s.ATContent
		}
		if s.ATContent > maxAT {
			maxAT = s.ATContent
		}
		if s.Paired < minPaired {
			minPaired = s.Paired
		}
		if s.Paired > maxPaired {
			maxPaired = s.Paired
		}
	}

	ranked := make([]Ranked, len(scored))
	for i, s := range scored {
		r := Ranked{Scored: s}

		if len(s.Enzymes) > 0 {
			r.RestrictionScore = 1
		}
		r.ATScore = normalize(s.ATContent, minAT, maxAT)
		r.StructureScore = 1 - normalize(float64(s.Paired), float64(minPaired), float64(maxPaired))
		if minPaired == maxPaired {
			// zero-range dimension, constant by policy
			r.StructureScore = 1
		}

		r.Score = r.RestrictionScore + r.ATScore + r.StructureScore
		ranked[i] = r
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// normalize maps v from [min,max] onto [0,1]. A zero-range dimension
// maps to the constant 1 rather than dividing by zero.
func normalize(v, min, max float64) float64 {
	if max == min {
		return 1
	}
	return (v - min) / (max - min)
}
