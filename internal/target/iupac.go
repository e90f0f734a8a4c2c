package target

// iupacMask maps a nucleotide code to the set of plain bases it stands
// for. bit0=A bit1=C bit2=G bit3=T
var iupacMask [256]byte

func init() {
	set := func(c byte, bits byte) { iupacMask[c] = bits }
	set('A', 1)
	set('C', 2)
	set('G', 4)
	set('T', 8)
	set('R', 1|4)     // A/G
	set('Y', 2|8)     // C/T
	set('S', 2|4)     // C/G
	set('W', 1|8)     // A/T
	set('K', 4|8)     // G/T
	set('M', 1|2)     // A/C
	set('B', 2|4|8)   // C/G/T
	set('D', 1|4|8)   // A/G/T
	set('H', 1|2|8)   // A/C/T
	set('V', 1|2|4)   // A/C/G
	set('N', 1|2|4|8) // any
	set('X', 1|2|4|8) // any
}

// baseMatch returns true if pattern base p (possibly an ambiguity code)
// can stand for sequence base s. A non-ACGT sequence base never matches.
func baseMatch(s, p byte) bool {
	if s != 'A' && s != 'C' && s != 'G' && s != 'T' {
		return false
	}
	return iupacMask[p]&iupacMask[s] != 0
}

// matchAt returns true if pattern matches seq starting at offset i.
func matchAt(seq, pattern string, i int) bool {
	if i+len(pattern) > len(seq) {
		return false
	}
	for j := 0; j < len(pattern); j++ {
		if !baseMatch(seq[i+j], pattern[j]) {
			return false
		}
	}
	return true
}

// containsPattern reports whether an ambiguity-coded pattern occurs
// anywhere within seq.
func containsPattern(seq, pattern string) bool {
	if len(pattern) == 0 || len(pattern) > len(seq) {
		return false
	}
	for i := 0; i+len(pattern) <= len(seq); i++ {
		if matchAt(seq, pattern, i) {
			return true
		}
	}
	return false
}

// ExpandPattern enumerates every plain ACGT sequence an ambiguity-coded
// pattern stands for, in a stable order.
func ExpandPattern(pattern string) []string {
	seqs := []string{""}
	for i := 0; i < len(pattern); i++ {
		mask := iupacMask[pattern[i]]
		var bases []byte
		for b, bit := range map[byte]byte{'A': 1, 'C': 2, 'G': 4, 'T': 8} {
			if mask&bit != 0 {
				bases = append(bases, b)
			}
		}
		// map iteration order is random, keep the expansion stable
		sortBytes(bases)

		var next []string
		for _, s := range seqs {
			for _, b := range bases {
				next = append(next, s+string(b))
			}
		}
		seqs = next
	}
	return seqs
}

func sortBytes(b []byte) {
	for i := 1; i < len(b); i++ {
		for j := i; j > 0 && b[j] < b[j-1]; j-- {
			b[j], b[j-1] = b[j-1], b[j]
		}
	}
}
