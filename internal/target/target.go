// Package target finds and ranks CRISPR/Cas9 target sites within a locus.
package target

// CoreLength is the length of a Cas9 protospacer without its PAM.
const CoreLength = 20

// Strand selects which strand(s) of a locus to scan for candidates.
type Strand int

const (
	// Sense scans the locus sequence as imported
	Sense Strand = iota
	// Antisense scans the reverse complement
	Antisense
	// Both scans the sense strand first, then the antisense strand
	Both
)

// Candidate is a protospacer plus its PAM, found on one strand of a locus.
type Candidate struct {
	// the 20-nt core sequence (without PAM)
	Core string `json:"core"`

	// the PAM immediately 3' of the core
	PAM string `json:"pam"`

	// "+" for sense, "-" for antisense
	Strand string `json:"strand"`

	// offset of the site within the locus's sense-strand sequence. For
	// antisense candidates this is where the reverse complement of
	// core+PAM begins.
	Pos int `json:"position"`
}

// Seq returns the core and PAM as one contiguous sequence.
func (c Candidate) Seq() string {
	return c.Core + c.PAM
}

// Scored is a Candidate annotated with every per-target measurement.
type Scored struct {
	Candidate

	// fraction of A/T bases in the core
	ATContent float64 `json:"at_content"`

	// number of paired bases within the spacer region of the fold
	Paired int `json:"paired"`

	// dot-bracket notation of the whole sgRNA fold
	Notation string `json:"notation,omitempty"`

	// the spacer window of Notation
	NotationCore string `json:"notation_core,omitempty"`

	// names of restriction enzymes cutting within the core
	Enzymes []string `json:"enzymes"`
}

// Ranked is a Scored target with its per-locus normalized dimension
// scores. Scores are normalized against the sibling targets of one locus
// and are meaningless when compared across loci.
type Ranked struct {
	Scored

	// 1 if any restriction enzyme matched, 0 otherwise
	RestrictionScore float64 `json:"restriction_score"`

	// min-max normalized AT-content, highest AT maps to 1
	ATScore float64 `json:"at_score"`

	// inverted min-max normalized pairing count, fewest paired maps to 1
	StructureScore float64 `json:"structure_score"`

	// sum of the three dimension scores, in [0,3]
	Score float64 `json:"score"`
}
