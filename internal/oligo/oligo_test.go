package oligo

import (
	"strings"
	"testing"

	"github.com/hillstub/yeastriction/internal/genome"
	"github.com/hillstub/yeastriction/internal/target"
)

const core = "ACGTACGTACGTACGTACGT"

func Test_BuildOligos(t *testing.T) {
	ros, err := BuildMethodByName("pROS")
	if err != nil {
		t.Fatal(err)
	}

	oligos := ros.BuildOligos("ADE2", core)
	if len(oligos) != 1 {
		t.Fatalf("pROS yielded %d oligos, want 1", len(oligos))
	}
	if oligos[0].Name != "ADE2 pROS fw" {
		t.Errorf("name = %s, want 'ADE2 pROS fw'", oligos[0].Name)
	}
	if !strings.Contains(oligos[0].Seq, core) {
		t.Error("pROS oligo does not contain the spacer")
	}
	if !strings.HasPrefix(oligos[0].Seq, buildHead) || !strings.HasSuffix(oligos[0].Seq, rosTail) {
		t.Error("pROS oligo lost its fixed head or tail")
	}

	mel, err := BuildMethodByName("pMEL")
	if err != nil {
		t.Fatal(err)
	}

	oligos = mel.BuildOligos("ADE2", core)
	if len(oligos) != 2 {
		t.Fatalf("pMEL yielded %d oligos, want 2", len(oligos))
	}
	if oligos[1].Seq != target.ReverseComplement(oligos[0].Seq) {
		t.Error("pMEL rv oligo is not the reverse complement of fw")
	}

	if _, err := BuildMethodByName("pNONE"); err == nil {
		t.Error("BuildMethodByName() expected an error for an unknown method")
	}
}

func Test_RepairOligos(t *testing.T) {
	seq := strings.Repeat("A", 60) + strings.Repeat("C", 100) + strings.Repeat("G", 60)
	l := &genome.Locus{ORF: "YOR202W", Symbol: "HIS3", Seq: seq, StartORF: 60, EndORF: 160}

	oligos := RepairOligos(l)
	if len(oligos) != 2 {
		t.Fatalf("got %d repair oligos, want 2", len(oligos))
	}

	wantFw := strings.Repeat("A", 60) + strings.Repeat("G", 60)
	if oligos[0].Seq != wantFw {
		t.Errorf("repair fw = %s, want the joined 60-bp flanks", oligos[0].Seq)
	}
	if oligos[1].Seq != target.ReverseComplement(wantFw) {
		t.Error("repair rv is not the reverse complement of fw")
	}
	if oligos[0].Name != "HIS3_repair oligo fw" {
		t.Errorf("name = %s, want HIS3_repair oligo fw", oligos[0].Name)
	}
}

// a locus flush against its sequence edge cannot produce repair oligos
func Test_RepairOligosShortFlanks(t *testing.T) {
	l := &genome.Locus{ORF: "YOR202W", Seq: strings.Repeat("C", 100), StartORF: 10, EndORF: 90}
	if oligos := RepairOligos(l); oligos != nil {
		t.Errorf("RepairOligos() = %v, want nil for short flanks", oligos)
	}
}

func Test_DiagnosticOligos(t *testing.T) {
	l := &genome.Locus{ORF: "YOR202W", Seq: "ACGT", StartORF: 0, EndORF: 4}

	if oligos := DiagnosticOligos(l, "", ""); oligos != nil {
		t.Errorf("DiagnosticOligos() = %v, want nil without primers", oligos)
	}

	oligos := DiagnosticOligos(l, "AAAA", "TTTT")
	if len(oligos) != 2 || oligos[0].Name != "YOR202W_dg fw" || oligos[1].Seq != "TTTT" {
		t.Errorf("DiagnosticOligos() = %v", oligos)
	}
}
