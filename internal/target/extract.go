package target

// Extract enumerates every candidate target within seq: each position
// where a 20-nt window is immediately followed by the PAM pattern, on
// the requested strand(s). The antisense strand is scanned as the
// reverse complement of seq, but positions are always reported in
// sense-strand coordinates. Sequences shorter than core+PAM yield no
// candidates.
//
// Candidates are returned in scan order, sense strand first. That order
// seeds the stable tie-break used during ranking.
func Extract(seq, pam string, strand Strand) []Candidate {
	var candidates []Candidate

	if strand == Sense || strand == Both {
		candidates = append(candidates, scan(seq, pam, "+")...)
	}
	if strand == Antisense || strand == Both {
		anti := scan(ReverseComplement(seq), pam, "-")
		window := CoreLength + len(pam)
		for i := range anti {
			// where the reverse complement of the site starts on the sense strand
			anti[i].Pos = len(seq) - anti[i].Pos - window
		}
		candidates = append(candidates, anti...)
	}
	return candidates
}

// scan finds core+PAM windows along one already-oriented sequence.
func scan(seq, pam, strand string) (candidates []Candidate) {
	window := CoreLength + len(pam)
	for i := 0; i+window <= len(seq); i++ {
		if !matchAt(seq, pam, i+CoreLength) {
			continue
		}

		core := seq[i : i+CoreLength]
		if !plainDNA(core) {
			continue
		}

		candidates = append(candidates, Candidate{
			Core:   core,
			PAM:    seq[i+CoreLength : i+window],
			Strand: strand,
			Pos:    i,
		})
	}
	return
}

// plainDNA returns true if seq contains only unambiguous upper-case bases.
func plainDNA(seq string) bool {
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}
