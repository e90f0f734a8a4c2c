// Package primer3 designs diagnostic primer pairs around a deleted ORF
// with the external primer3_core tool.
package primer3

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/hillstub/yeastriction/internal/genome"
)

// flank is how much locus sequence stays on each side of the ORF after
// the knockout; primers are placed outside this window so they confirm
// the deletion junction.
const flank = 60

// Designer invokes primer3_core for diagnostic primer design.
type Designer struct {
	// path to the primer3_core executable
	Core string

	// optional path to primer3's thermodynamic parameters
	ConfDir string
}

// Diagnostic designs one primer pair flanking the knockout site of a
// locus: the template is the locus sequence with the ORF (minus its
// repair flanks) removed. Loci without enough flanking sequence return
// empty primers, not an error.
func (d *Designer) Diagnostic(ctx context.Context, l *genome.Locus) (fw, rv string, err error) {
	if l.StartORF <= 85 || len(l.Seq)-l.EndORF <= 85 {
		return "", "", nil
	}

	knockout := l.Seq[:l.StartORF-flank] + l.Seq[l.EndORF+flank:]
	if len(knockout) <= 50 {
		return "", "", nil
	}

	out, err := d.run(ctx, l.ORF, knockout, l.StartORF)
	if err != nil {
		return "", "", err
	}

	results, err := parseOutput(out)
	if err != nil {
		return "", "", err
	}
	return results["PRIMER_LEFT_0_SEQUENCE"], results["PRIMER_RIGHT_0_SEQUENCE"], nil
}

// run writes a Boulder-IO settings record to primer3_core's stdin and
// returns its stdout.
func (d *Designer) run(ctx context.Context, id, template string, startORF int) (string, error) {
	settings := map[string]string{
		"SEQUENCE_ID":                id,
		"SEQUENCE_TEMPLATE":          template,
		"PRIMER_TASK":                "generic",
		"PRIMER_PICK_LEFT_PRIMER":    "1",
		"PRIMER_PICK_INTERNAL_OLIGO": "0",
		"PRIMER_PICK_RIGHT_PRIMER":   "1",
		"PRIMER_NUM_RETURN":          "1",
		"PRIMER_PRODUCT_SIZE_RANGE":  "250-750",
		"PRIMER_GC_CLAMP":            "1",
		// primers must sit on opposite sides of the deletion junction
		"SEQUENCE_PRIMER_PAIR_OK_REGION_LIST": fmt.Sprintf(
			"0,%d,%d,%d",
			startORF-flank,
			startORF+flank,
			len(template)-(startORF+flank),
		),
	}
	if d.ConfDir != "" {
		settings["PRIMER_THERMODYNAMIC_PARAMETERS_PATH"] = d.ConfDir
	}

	cmd := exec.CommandContext(ctx, d.Core)
	cmd.Stdin = strings.NewReader(boulderIO(settings))

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if ctx.Err() != nil {
		return "", fmt.Errorf("primer3 timed out: %w", ctx.Err())
	}
	if err != nil {
		return "", fmt.Errorf("failed to execute primer3: %v: %s", err, stderr.String())
	}
	return string(out), nil
}

// boulderIO renders settings as KEY=value lines closed by a bare "=".
// Keys are sorted so the record is reproducible.
func boulderIO(settings map[string]string) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, settings[k])
	}
	b.WriteString("=\n")
	return b.String()
}

// parseOutput reads primer3's Boulder-IO response into a map.
func parseOutput(out string) (map[string]string, error) {
	results := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "=" {
			continue
		}

		k, v, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("unexpected primer3 output line %q", line)
		}
		results[k] = v
	}

	if msg, failed := results["PRIMER_ERROR"]; failed {
		return nil, fmt.Errorf("primer3 error: %s", msg)
	}
	return results, nil
}
