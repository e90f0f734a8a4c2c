// Package oligo assembles the ordering list for a chosen target:
// plasmid build oligos, repair oligos and diagnostic primers.
package oligo

import (
	"fmt"

	"github.com/hillstub/yeastriction/internal/genome"
	"github.com/hillstub/yeastriction/internal/target"
)

// flank is the repair-oligo homology arm length on each side of the ORF.
const flank = 60

// Oligo is one orderable primer: a display name and its sequence.
type Oligo struct {
	Name string `json:"primer_name"`
	Seq  string `json:"primer_sequence"`
}

// BuildMethod describes how a spacer is turned into plasmid cloning
// oligos: a fixed head and tail around the 20-nt core, optionally also
// ordered as the reverse complement.
type BuildMethod struct {
	Name string `json:"name"`

	// sequence 5' of the spacer
	head string

	// sequence 3' of the spacer
	tail string

	// also order the reverse complement as a second oligo
	reverse bool
}

// plasmid backbone homology arms shared by the supported build methods
const (
	buildHead = "tgcgcatgtttcggcgttcgaaacttctccgcagtgaaagataaatgatc"
	rosTail   = "gttttagagctagaaatagcaagttaaaataag"
	melTail   = "gttttagagctagaaatagcaagttaaaataaggctagtccgttatcaac"
)

// BuildMethods returns the supported plasmid build methods.
func BuildMethods() []BuildMethod {
	return []BuildMethod{
		{Name: "pROS", head: buildHead, tail: rosTail},
		{Name: "pMEL", head: buildHead, tail: melTail, reverse: true},
	}
}

// BuildMethodByName finds a build method.
func BuildMethodByName(name string) (BuildMethod, error) {
	for _, m := range BuildMethods() {
		if m.Name == name {
			return m, nil
		}
	}
	return BuildMethod{}, fmt.Errorf("unknown build method %s", name)
}

// BuildOligos renders a target's core into the cloning oligos of one
// build method, named after the locus.
func (m BuildMethod) BuildOligos(displayName, core string) []Oligo {
	fw := m.head + core + m.tail

	oligos := []Oligo{
		{Name: displayName + " " + m.Name + " fw", Seq: fw},
	}
	if m.reverse {
		oligos = append(oligos, Oligo{
			Name: displayName + " " + m.Name + " rv",
			Seq:  target.ReverseComplement(fw),
		})
	}
	return oligos
}

// RepairOligos joins the 60-bp flanks on either side of the ORF into
// the repair fragment that bridges the cut site after deletion. Loci
// without both flanks get no repair oligos.
func RepairOligos(l *genome.Locus) []Oligo {
	if l.StartORF < flank || l.EndORF+flank > len(l.Seq) {
		return nil
	}

	fw := l.Seq[l.StartORF-flank:l.StartORF] + l.Seq[l.EndORF:l.EndORF+flank]
	return []Oligo{
		{Name: l.DisplayName() + "_repair oligo fw", Seq: fw},
		{Name: l.DisplayName() + "_repair oligo rv", Seq: target.ReverseComplement(fw)},
	}
}

// DiagnosticOligos wraps a designed primer pair in the naming scheme of
// the ordering table. Empty primer sequences yield no rows.
func DiagnosticOligos(l *genome.Locus, fw, rv string) []Oligo {
	if fw == "" || rv == "" {
		return nil
	}
	return []Oligo{
		{Name: l.DisplayName() + "_dg fw", Seq: fw},
		{Name: l.DisplayName() + "_dg rv", Seq: rv},
	}
}
