package target

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Enzyme is a restriction enzyme and its recognition sequence. The
// recognition sequence may contain IUPAC ambiguity codes.
type Enzyme struct {
	Name  string `json:"name"`
	Recog string `json:"recognition"`
}

// DefaultEnzymes returns the built-in restriction enzyme list. Callers
// get a fresh slice: per-request replacement lists never touch shared
// state.
func DefaultEnzymes() []Enzyme {
	return []Enzyme{
		{"AatII", "GACGTC"},
		{"AvaI", "CYCGRG"},
		{"BamHI", "GGATCC"},
		{"BglII", "AGATCT"},
		{"ClaI", "ATCGAT"},
		{"DdeI", "CTNAG"},
		{"EcoRI", "GAATTC"},
		{"EcoRV", "GATATC"},
		{"HindIII", "AAGCTT"},
		{"HinfI", "GANTC"},
		{"KpnI", "GGTACC"},
		{"NcoI", "CCATGG"},
		{"NdeI", "CATATG"},
		{"NotI", "GCGGCCGC"},
		{"PstI", "CTGCAG"},
		{"SacI", "GAGCTC"},
		{"SalI", "GTCGAC"},
		{"SmaI", "CCCGGG"},
		{"SpeI", "ACTAGT"},
		{"StyI", "CCWWGG"},
		{"XbaI", "TCTAGA"},
		{"XhoI", "CTCGAG"},
	}
}

// ParseEnzymes reads a replacement enzyme list: one enzyme per line,
// either "name<TAB>recognition" or a bare recognition sequence (the
// sequence then doubles as the name). Blank lines and #-comments are
// skipped.
func ParseEnzymes(r io.Reader) ([]Enzyme, error) {
	var enzymes []Enzyme

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		cols := strings.Split(text, "\t")
		enz := Enzyme{Name: cols[0], Recog: cols[0]}
		if len(cols) > 1 {
			enz.Recog = cols[1]
		}

		enz.Recog = strings.ToUpper(strings.TrimSpace(enz.Recog))
		if err := checkRecog(enz.Recog); err != nil {
			return nil, fmt.Errorf("enzyme list line %d: %v", line, err)
		}
		enzymes = append(enzymes, enz)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(enzymes) == 0 {
		return nil, fmt.Errorf("enzyme list is empty")
	}
	return enzymes, nil
}

// NormalizeEnzymes upper-cases and validates a caller-supplied enzyme
// list, e.g. one attached to a single request. The input slice is not
// modified.
func NormalizeEnzymes(enzymes []Enzyme) ([]Enzyme, error) {
	if len(enzymes) == 0 {
		return nil, fmt.Errorf("enzyme list is empty")
	}

	out := make([]Enzyme, len(enzymes))
	for i, enz := range enzymes {
		enz.Recog = strings.ToUpper(strings.TrimSpace(enz.Recog))
		if enz.Name == "" {
			enz.Name = enz.Recog
		}
		if err := checkRecog(enz.Recog); err != nil {
			return nil, err
		}
		out[i] = enz
	}
	return out, nil
}

// checkRecog validates that a recognition sequence holds only IUPAC codes.
func checkRecog(recog string) error {
	if recog == "" {
		return fmt.Errorf("empty recognition sequence")
	}
	for i := 0; i < len(recog); i++ {
		if iupacMask[recog[i]] == 0 {
			return fmt.Errorf("invalid base %q in recognition sequence %s", recog[i], recog)
		}
	}
	return nil
}

// Annotate reports which enzymes cut within the candidate core. The
// result is sorted by name so it does not depend on the order of the
// supplied list.
func Annotate(core string, enzymes []Enzyme) []string {
	var matched []string
	for _, enz := range enzymes {
		if containsPattern(core, enz.Recog) {
			matched = append(matched, enz.Name)
		}
	}
	sort.Strings(matched)
	return matched
}
