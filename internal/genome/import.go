package genome

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// orfEntry is one row of the ORF table before it is joined with its
// sequence.
type orfEntry struct {
	orf    string
	symbol string
	start  int // 1-based, inclusive, as in the table
	end    int
}

// ParseStrain joins an ORF table with its FASTA sequences into a
// Strain. Every validation problem fails the whole strain: there is no
// partial import.
//
// The table is tab-separated with a header naming at least the columns
// orf, start_orf and end_orf (symbol is optional). Coordinates are
// 1-based inclusive in the file and converted to 0-based half-open
// here. Each orf must have a FASTA record of the same ID and its
// coordinates must fall within that record's sequence.
func ParseStrain(name string, tab, fasta io.Reader) (*Strain, error) {
	entries, err := parseORFTable(tab)
	if err != nil {
		return nil, fmt.Errorf("strain %s: %w", name, err)
	}

	records, err := ParseFASTA(fasta)
	if err != nil {
		return nil, fmt.Errorf("strain %s: %w", name, err)
	}
	seqs := make(map[string]string, len(records))
	for _, rec := range records {
		seqs[rec.ID] = rec.Seq
	}

	strain := &Strain{
		Name: name,
		loci: make(map[string]*Locus, len(entries)),
	}

	symbolCount := make(map[string]int)
	for _, e := range entries {
		seq, ok := seqs[e.orf]
		if !ok {
			return nil, fmt.Errorf("strain %s: orf %s has no FASTA record", name, e.orf)
		}
		if e.start < 1 || e.end < e.start || e.end > len(seq) {
			return nil, fmt.Errorf(
				"strain %s: orf %s coordinates %d..%d outside sequence of length %d",
				name, e.orf, e.start, e.end, len(seq),
			)
		}

		strain.loci[e.orf] = &Locus{
			ORF:      e.orf,
			Symbol:   e.symbol,
			Seq:      seq,
			StartORF: e.start - 1,
			EndORF:   e.end,
		}
		strain.order = append(strain.order, e.orf)
		if e.symbol != "" {
			symbolCount[e.symbol]++
		}
	}

	// a symbol pointing at several loci identifies none of them
	for _, l := range strain.loci {
		if symbolCount[l.Symbol] > 1 {
			l.Symbol = ""
		}
	}

	return strain, nil
}

// parseORFTable reads the tab-separated ORF table.
func parseORFTable(r io.Reader) ([]orfEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty ORF table")
	}

	cols := map[string]int{}
	for i, h := range strings.Split(scanner.Text(), "\t") {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, required := range []string{"orf", "start_orf", "end_orf"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("ORF table is missing the %s column", required)
		}
	}

	var entries []orfEntry
	seen := make(map[string]bool)
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		e := orfEntry{
			orf:    get("orf"),
			symbol: get("symbol"),
		}
		if e.orf == "" {
			return nil, fmt.Errorf("line %d: empty orf name", line)
		}
		if seen[e.orf] {
			return nil, fmt.Errorf("line %d: duplicate orf %s", line, e.orf)
		}
		seen[e.orf] = true

		var err error
		if e.start, err = strconv.Atoi(get("start_orf")); err != nil {
			return nil, fmt.Errorf("line %d: bad start_orf: %v", line, err)
		}
		if e.end, err = strconv.Atoi(get("end_orf")); err != nil {
			return nil, fmt.Errorf("line %d: bad end_orf: %v", line, err)
		}

		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("ORF table has no data rows")
	}
	return entries, nil
}

// ImportStrain validates a tab+FASTA pair and, only when both parse
// cleanly, writes them into the genomes directory. Returns the parsed
// strain so the caller can refresh its registry and build the aligner
// index.
func ImportStrain(dir, name string, tab, fasta []byte) (*Strain, string, error) {
	strain, err := ParseStrain(name, strings.NewReader(string(tab)), strings.NewReader(string(fasta)))
	if err != nil {
		return nil, "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("strain %s: %w", name, err)
	}

	tabPath := filepath.Join(dir, name+".tab")
	fastaPath := filepath.Join(dir, name+".fasta")
	if err := os.WriteFile(tabPath, tab, 0o644); err != nil {
		return nil, "", fmt.Errorf("strain %s: %w", name, err)
	}
	if err := os.WriteFile(fastaPath, fasta, 0o644); err != nil {
		return nil, "", fmt.Errorf("strain %s: %w", name, err)
	}

	return strain, fastaPath, nil
}
