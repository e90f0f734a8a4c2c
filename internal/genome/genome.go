// Package genome holds the read-only reference data: strains, their
// loci and the files they were imported from.
package genome

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Locus is one gene/ORF region of a strain: its full sequence with
// flanking DNA plus the ORF coordinates within it. Immutable once
// imported.
type Locus struct {
	// systematic ORF name, e.g. YOR202W
	ORF string `json:"orf"`

	// gene symbol, e.g. HIS3. May be empty.
	Symbol string `json:"symbol,omitempty"`

	// genomic sequence of the region, ORF plus flanks
	Seq string `json:"-"`

	// ORF start within Seq, 0-based
	StartORF int `json:"-"`

	// ORF end within Seq, exclusive
	EndORF int `json:"-"`
}

// DisplayName returns the gene symbol when one exists, the ORF name
// otherwise.
func (l *Locus) DisplayName() string {
	if l.Symbol != "" {
		return l.Symbol
	}
	return l.ORF
}

// ORFSequence returns the coding region of the locus.
func (l *Locus) ORFSequence() string {
	return l.Seq[l.StartORF:l.EndORF]
}

// Strain is a named genome with its loci. Read-only after construction
// so concurrent requests may share it without locking.
type Strain struct {
	Name string

	loci  map[string]*Locus
	order []string
}

// Locus looks a locus up by its ORF name.
func (s *Strain) Locus(orf string) (*Locus, bool) {
	l, ok := s.loci[orf]
	return l, ok
}

// Loci returns every locus in import order.
func (s *Strain) Loci() []*Locus {
	loci := make([]*Locus, len(s.order))
	for i, orf := range s.order {
		loci[i] = s.loci[orf]
	}
	return loci
}

// IndexBase returns the bowtie index prefix for this strain within the
// genomes directory.
func (s *Strain) IndexBase(dir string) string {
	return filepath.Join(dir, s.Name)
}

// Registry is the set of imported strains. Built once at startup (or
// after an import) and read concurrently afterwards.
type Registry struct {
	strains map[string]*Strain
}

// NewRegistry builds a Registry from already-parsed strains.
func NewRegistry(strains ...*Strain) *Registry {
	reg := &Registry{strains: make(map[string]*Strain, len(strains))}
	for _, s := range strains {
		reg.strains[s.Name] = s
	}
	return reg
}

// Strain looks a strain up by name.
func (r *Registry) Strain(name string) (*Strain, bool) {
	s, ok := r.strains[name]
	return s, ok
}

// Strains returns the sorted strain names.
func (r *Registry) Strains() []string {
	names := make([]string, 0, len(r.strains))
	for name := range r.strains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDir builds a Registry from every <strain>.tab file in dir that
// has a sibling FASTA file of the same name. A strain that fails to
// parse fails the whole load: reference data is either consistent or
// absent.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read genomes dir %s: %w", dir, err)
	}

	reg := &Registry{strains: make(map[string]*Strain)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tab") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".tab")
		fastaPath, err := findFASTA(dir, name)
		if err != nil {
			return nil, err
		}

		strain, err := loadStrain(name, filepath.Join(dir, entry.Name()), fastaPath)
		if err != nil {
			return nil, err
		}
		reg.strains[name] = strain
	}
	return reg, nil
}

// findFASTA locates the sequence file paired with a strain's ORF table.
func findFASTA(dir, name string) (string, error) {
	for _, ext := range []string{".fasta", ".fa"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("strain %s: no FASTA file next to %s.tab", name, name)
}

func loadStrain(name, tabPath, fastaPath string) (*Strain, error) {
	tab, err := os.Open(tabPath)
	if err != nil {
		return nil, fmt.Errorf("strain %s: %w", name, err)
	}
	defer tab.Close()

	fasta, err := os.Open(fastaPath)
	if err != nil {
		return nil, fmt.Errorf("strain %s: %w", name, err)
	}
	defer fasta.Close()

	return ParseStrain(name, tab, fasta)
}
