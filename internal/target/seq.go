package target

import "strings"

var complement = map[byte]byte{
	'A': 'T',
	'T': 'A',
	'G': 'C',
	'C': 'G',
	'N': 'N',
	'a': 't',
	't': 'a',
	'g': 'c',
	'c': 'g',
	'n': 'n',
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// Bases without a complement (gaps, ambiguity codes) pass through unchanged.
func ReverseComplement(seq string) string {
	rc := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c, ok := complement[seq[len(seq)-1-i]]
		if !ok {
			c = seq[len(seq)-1-i]
		}
		rc[i] = c
	}
	return string(rc)
}

// Transcribe converts a DNA sequence to its RNA form (T becomes U).
func Transcribe(seq string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'T':
			return 'U'
		case 't':
			return 'u'
		}
		return r
	}, seq)
}

// ATContent returns the fraction of A and T bases in a sequence.
// An empty sequence has an AT-content of 0.
func ATContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}

	at := 0
	for i := 0; i < len(seq); i++ {
		if seq[i] == 'A' || seq[i] == 'T' || seq[i] == 'a' || seq[i] == 't' {
			at++
		}
	}
	return float64(at) / float64(len(seq))
}
