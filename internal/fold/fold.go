// Package fold predicts sgRNA secondary structure with the external
// RNAfold tool and measures how much of the spacer is base-paired.
package fold

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/hillstub/yeastriction/internal/target"
)

// Structure is the folding result for one candidate's sgRNA.
type Structure struct {
	// dot-bracket notation for the whole spacer+scaffold sequence
	Notation string

	// the spacer window of Notation
	NotationCore string

	// number of bracket characters (paired bases) within the spacer
	Paired int
}

// Folder invokes RNAfold to compute the maximum-expected-accuracy
// structure of a spacer joined to the sgRNA scaffold.
type Folder struct {
	// path to the RNAfold executable
	RNAfold string

	// folding temperature in celsius
	Temperature float64

	// scaffold sequence appended 3' of the spacer
	Scaffold string
}

// structure lines are runs of dots and brackets followed by RNAfold's
// annotation block, e.g. "((((....)))).... {  0.50 MEA=22.30}"
var structureLine = regexp.MustCompile(`^([.()]+)\s+[{(]`)

// Fold computes the MEA structure of core+scaffold and counts the
// paired bases within the core window. Fewer paired bases leave the
// spacer more available for genomic binding.
func (f *Folder) Fold(ctx context.Context, core string) (Structure, error) {
	rna := target.Transcribe(core + f.Scaffold)

	cmd := exec.CommandContext(
		ctx,
		f.RNAfold,
		"--MEA",
		"-T", strconv.FormatFloat(f.Temperature, 'f', -1, 64),
		"--noLP",
		"-d2",
		"--noPS",
	)
	cmd.Stdin = strings.NewReader(rna + "\n")

	out, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return Structure{}, fmt.Errorf("RNAfold timed out: %w", ctx.Err())
	}
	if err != nil {
		return Structure{}, fmt.Errorf("failed to execute RNAfold: %v: %s", err, string(out))
	}

	notation, err := parseNotation(string(out), len(rna))
	if err != nil {
		return Structure{}, err
	}

	window := notation[:len(core)]
	return Structure{
		Notation:     notation,
		NotationCore: window,
		Paired:       strings.Count(window, "(") + strings.Count(window, ")"),
	}, nil
}

// parseNotation scrapes the dot-bracket string from RNAfold's output.
// RNAfold prints one structure line per algorithm (MFE, ensemble,
// centroid, MEA); the MEA line is last, so the scan keeps the final
// match.
func parseNotation(out string, length int) (string, error) {
	notation := ""
	for _, line := range strings.Split(out, "\n") {
		m := structureLine.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil && len(m[1]) == length {
			notation = m[1]
		}
	}

	if notation == "" {
		return "", fmt.Errorf("no dot-bracket structure in RNAfold output")
	}
	return notation, nil
}
