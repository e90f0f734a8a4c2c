package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hillstub/yeastriction/internal/fold"
	"github.com/hillstub/yeastriction/internal/genome"
	"github.com/hillstub/yeastriction/internal/target"
)

// fakeScreener rejects candidates whose core it has been told is
// duplicated elsewhere in the genome.
type fakeScreener struct {
	offTargets map[string]bool
	err        error
	calls      int
}

func (f *fakeScreener) Screen(_ context.Context, _ string, candidates []target.Candidate) ([]target.Candidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	var kept []target.Candidate
	for _, c := range candidates {
		if f.offTargets[c.Core] {
			continue
		}
		kept = append(kept, c)
	}
	return kept, nil
}

// fakeFolder pairs a fixed number of spacer bases, or fails for
// selected cores.
type fakeFolder struct {
	paired map[string]int
	fail   map[string]bool
}

func (f *fakeFolder) Fold(_ context.Context, core string) (fold.Structure, error) {
	if f.fail[core] {
		return fold.Structure{}, fmt.Errorf("backtrack failed")
	}

	paired := f.paired[core]
	notation := strings.Repeat("(", paired) + strings.Repeat(".", len(core)-paired)
	return fold.Structure{Notation: notation, NotationCore: notation, Paired: paired}, nil
}

// locus with two NGG candidates on the sense strand
func testLocus(t *testing.T) *genome.Locus {
	t.Helper()

	// cores at 0 and 3, PAMs AGG/TGG right after
	seq := "GCAACGTACGTACGTACGTCAGGACGTACGTACGTACGTACGTACGTTGG" +
		strings.Repeat("C", 20)
	return &genome.Locus{ORF: "YGL234W", Symbol: "ADE5", Seq: seq, StartORF: 0, EndORF: 50}
}

func newPipeline(s Screener, f Folder) *Pipeline {
	return &Pipeline{
		Screener: s,
		Folder:   f,
		Enzymes:  target.DefaultEnzymes(),
		PAM:      "NGG",
		MaxPolyT: 6,
		Workers:  2,
		Timeout:  5 * time.Second,
	}
}

func Test_Run(t *testing.T) {
	l := testLocus(t)
	p := newPipeline(
		&fakeScreener{},
		&fakeFolder{paired: map[string]int{}},
	)

	result, err := p.Run(context.Background(), "cenpk", l, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Targets) == 0 {
		t.Fatal("Run() found no targets")
	}
	for _, tgt := range result.Targets {
		if len(tgt.Core) != target.CoreLength {
			t.Errorf("target core %s has length %d", tgt.Core, len(tgt.Core))
		}
		if tgt.Score < 0 || tgt.Score > 3 {
			t.Errorf("score %f outside [0,3]", tgt.Score)
		}
	}
}

// a candidate with an exact duplicate elsewhere in the genome must not
// appear in the result set
func Test_RunOffTargetRejection(t *testing.T) {
	l := testLocus(t)
	all := target.Extract(l.ORFSequence(), "NGG", target.Both)
	if len(all) < 2 {
		t.Fatalf("test locus yields %d candidates, want at least 2", len(all))
	}

	duplicated := all[0].Core
	p := newPipeline(
		&fakeScreener{offTargets: map[string]bool{duplicated: true}},
		&fakeFolder{paired: map[string]int{}},
	)

	result, err := p.Run(context.Background(), "cenpk", l, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, tgt := range result.Targets {
		if tgt.Core == duplicated {
			t.Errorf("off-target candidate %s survived screening", duplicated)
		}
	}
	if len(result.Targets) != len(all)-1 {
		t.Errorf("got %d targets, want %d", len(result.Targets), len(all)-1)
	}
}

// screening problems are request-fatal, not an empty result
func Test_RunScreenerFailure(t *testing.T) {
	p := newPipeline(
		&fakeScreener{err: fmt.Errorf("index missing")},
		&fakeFolder{},
	)

	if _, err := p.Run(context.Background(), "cenpk", testLocus(t), nil); err == nil {
		t.Error("Run() expected an error when screening fails")
	}
}

// a fold failure excludes one candidate and is counted, the rest rank
func Test_RunFoldFailureNonFatal(t *testing.T) {
	l := testLocus(t)
	all := target.Extract(l.ORFSequence(), "NGG", target.Both)

	p := newPipeline(
		&fakeScreener{},
		&fakeFolder{fail: map[string]bool{all[0].Core: true}},
	)

	result, err := p.Run(context.Background(), "cenpk", l, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Excluded != 1 {
		t.Errorf("Excluded = %d, want 1", result.Excluded)
	}
	if len(result.Targets) != len(all)-1 {
		t.Errorf("got %d targets, want %d", len(result.Targets), len(all)-1)
	}
}

// a zero-value worker count must not wedge the fold stage
func Test_RunZeroWorkers(t *testing.T) {
	l := testLocus(t)
	p := newPipeline(&fakeScreener{}, &fakeFolder{paired: map[string]int{}})
	p.Workers = 0

	result, err := p.Run(context.Background(), "cenpk", l, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Targets) == 0 {
		t.Error("Run() found no targets with the default worker limit")
	}
}

// a locus shorter than core+PAM is a valid empty result and the
// screener is never consulted
func Test_RunShortLocus(t *testing.T) {
	screener := &fakeScreener{}
	p := newPipeline(screener, &fakeFolder{})

	l := &genome.Locus{ORF: "YXX000W", Seq: "ATGAAATTTTTTGGGTAA", StartORF: 0, EndORF: 18}
	result, err := p.Run(context.Background(), "cenpk", l, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Targets) != 0 {
		t.Errorf("got %d targets from an 18-nt locus, want 0", len(result.Targets))
	}
	if screener.calls != 0 {
		t.Error("screener consulted despite zero candidates")
	}
}

// a request-scoped enzyme list changes annotation without touching the
// pipeline's default list
func Test_RunEnzymeOverride(t *testing.T) {
	l := testLocus(t)
	p := newPipeline(&fakeScreener{}, &fakeFolder{paired: map[string]int{}})

	defaultLen := len(p.Enzymes)
	override := []target.Enzyme{{Name: "FakeI", Recog: "ACGTACGTAC"}}

	result, err := p.Run(context.Background(), "cenpk", l, override)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, tgt := range result.Targets {
		for _, name := range tgt.Enzymes {
			if name != "FakeI" {
				t.Errorf("override annotation produced enzyme %s", name)
			}
		}
	}
	if len(p.Enzymes) != defaultLen {
		t.Error("request-scoped override mutated the shared default list")
	}
}
