// Package bowtie screens candidate targets for off-target sites by
// aligning PAM-variant reads against a strain's genome index with the
// external bowtie aligner.
package bowtie

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hillstub/yeastriction/internal/target"
)

// Screener invokes bowtie against per-strain genome indexes.
type Screener struct {
	// path to the bowtie executable
	Bowtie string

	// directory holding the per-strain index files
	IndexDir string

	// PAM contexts that count as valid off-target sites. Each pattern
	// is expanded over its ambiguity codes, so the default NGG+NAG
	// yields 8 reads per candidate.
	PAMs []string

	// mismatches tolerated across the core (bowtie -v)
	MaxMismatch int

	// alignments reported per read before bowtie stops (bowtie -k).
	// a single read reaching this count has a hit besides its own site.
	MaxReported int
}

// Screen aligns every candidate's PAM-variant reads in one bowtie run
// and drops candidates with a genomic hit other than their own
// originating site. Candidates keep their order.
//
// Any aligner problem (missing index, failed start, non-zero exit,
// context timeout, unparseable output) is returned as an error: a
// broken screen must never pass for "no off-targets".
func (s *Screener) Screen(ctx context.Context, strain string, candidates []target.Candidate) ([]target.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	index := filepath.Join(s.IndexDir, strain)
	if !indexExists(index) {
		return nil, fmt.Errorf("no bowtie index for strain %s at %s", strain, index)
	}

	in, err := s.writeReads(candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bowtie input: %w", err)
	}
	defer os.Remove(in)

	out, err := s.run(ctx, index, in)
	if err != nil {
		return nil, err
	}

	hits, err := parseHits(out, len(candidates))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bowtie output: %w", err)
	}

	var kept []target.Candidate
	for i, c := range candidates {
		if hits[i] >= s.MaxReported {
			continue // some read aligned at a second genomic site
		}
		kept = append(kept, c)
	}
	return kept, nil
}

// writeReads builds the FASTA of query reads: one read per candidate
// per concrete off-target PAM.
func (s *Screener) writeReads(candidates []target.Candidate) (string, error) {
	var reads strings.Builder
	for i, c := range candidates {
		variant := 0
		for _, pam := range s.PAMs {
			for _, concrete := range target.ExpandPattern(pam) {
				fmt.Fprintf(&reads, ">cand_%d_%d\n%s%s\n", i, variant, c.Core, concrete)
				variant++
			}
		}
	}

	f, err := os.CreateTemp("", "bowtie-in-*.fa")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(reads.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), f.Close()
}

// run executes bowtie, reporting only the read name column of each
// alignment.
func (s *Screener) run(ctx context.Context, index, in string) ([]byte, error) {
	cmd := exec.CommandContext(
		ctx,
		s.Bowtie,
		"-k", strconv.Itoa(s.MaxReported),
		"-v", strconv.Itoa(s.MaxMismatch),
		index,
		"--suppress", "2,3,4,5,6,7,8",
		"-f", in,
	)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("bowtie timed out: %w", ctx.Err())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to execute bowtie: %v: %s", err, stderr.String())
	}
	return out, nil
}

// parseHits tallies reported alignments per variant read and returns,
// for each candidate, the highest count any single read of it reached.
// Every variant read aligns at the candidate's own genomic site under
// the mismatch tolerance, so one alignment per read is clean; the same
// read counted twice has found a second site. Reads are named
// cand_<candidate>_<variant> by writeReads.
func parseHits(out []byte, n int) ([]int, error) {
	perRead := make(map[string]int)
	hits := make([]int, n)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name := strings.Fields(line)[0]
		parts := strings.Split(name, "_")
		if len(parts) != 3 || parts[0] != "cand" {
			return nil, fmt.Errorf("unexpected read name %q", name)
		}

		i, err := strconv.Atoi(parts[1])
		if err != nil || i < 0 || i >= n {
			return nil, fmt.Errorf("unexpected read name %q", name)
		}
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return nil, fmt.Errorf("unexpected read name %q", name)
		}

		perRead[name]++
		if perRead[name] > hits[i] {
			hits[i] = perRead[name]
		}
	}
	return hits, nil
}

// indexExists checks for the first index file bowtie-build writes.
func indexExists(base string) bool {
	for _, ext := range []string{".1.ebwt", ".1.bt2"} {
		if _, err := os.Stat(base + ext); err == nil {
			return true
		}
	}
	return false
}

// Build creates a bowtie index for a strain's FASTA file. Used after a
// genome import.
func Build(ctx context.Context, bowtieBuild, fastaPath, indexBase string) error {
	cmd := exec.CommandContext(ctx, bowtieBuild, fastaPath, indexBase)

	if out, err := cmd.CombinedOutput(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("bowtie-build timed out: %w", ctx.Err())
		}
		return fmt.Errorf("failed to execute bowtie-build: %v: %s", err, string(out))
	}
	return nil
}
