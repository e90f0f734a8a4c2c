package genome

import (
	"strings"
	"testing"
)

const testTab = "orf\tsymbol\tstart_orf\tend_orf\n" +
	"YAL001C\tTFC3\t101\t400\n" +
	"YAL002W\t\t51\t250\n"

var testFASTA = ">YAL001C\n" +
	"GATTACA" + longSeq + "\n" +
	">YAL002W\n" +
	longSeq + "\n"

func Test_ParseStrain(t *testing.T) {
	strain, err := ParseStrain("cenpk", strings.NewReader(testTab), strings.NewReader(testFASTA))
	if err != nil {
		t.Fatalf("ParseStrain() error = %v", err)
	}

	if len(strain.Loci()) != 2 {
		t.Fatalf("got %d loci, want 2", len(strain.Loci()))
	}

	l, ok := strain.Locus("YAL001C")
	if !ok {
		t.Fatal("YAL001C not found")
	}
	if l.Symbol != "TFC3" {
		t.Errorf("symbol = %s, want TFC3", l.Symbol)
	}
	if l.DisplayName() != "TFC3" {
		t.Errorf("display name = %s, want TFC3", l.DisplayName())
	}
	if l.StartORF != 100 || l.EndORF != 400 {
		t.Errorf("coordinates = %d..%d, want 100..400 (0-based half-open)", l.StartORF, l.EndORF)
	}
	if got := len(l.ORFSequence()); got != 300 {
		t.Errorf("ORF length = %d, want 300", got)
	}

	l, _ = strain.Locus("YAL002W")
	if l.DisplayName() != "YAL002W" {
		t.Errorf("display name = %s, want the orf name when no symbol", l.DisplayName())
	}
}

func Test_ParseStrainErrors(t *testing.T) {
	type args struct {
		tab   string
		fasta string
	}
	tests := []struct {
		name string
		args args
	}{
		{
			"coordinates beyond sequence bounds",
			args{
				"orf\tsymbol\tstart_orf\tend_orf\nYAL001C\t\t1\t99999\n",
				">YAL001C\n" + longSeq + "\n",
			},
		},
		{
			"start after end",
			args{
				"orf\tsymbol\tstart_orf\tend_orf\nYAL001C\t\t200\t100\n",
				">YAL001C\n" + longSeq + "\n",
			},
		},
		{
			"orf without FASTA record",
			args{
				"orf\tsymbol\tstart_orf\tend_orf\nYAL009W\t\t1\t50\n",
				">YAL001C\n" + longSeq + "\n",
			},
		},
		{
			"duplicate orf",
			args{
				"orf\tsymbol\tstart_orf\tend_orf\nYAL001C\t\t1\t50\nYAL001C\t\t1\t50\n",
				">YAL001C\n" + longSeq + "\n",
			},
		},
		{
			"missing column",
			args{
				"orf\tstart_orf\nYAL001C\t1\n",
				">YAL001C\n" + longSeq + "\n",
			},
		},
		{
			"no data rows",
			args{
				"orf\tsymbol\tstart_orf\tend_orf\n",
				">YAL001C\n" + longSeq + "\n",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStrain("cenpk", strings.NewReader(tt.args.tab), strings.NewReader(tt.args.fasta)); err == nil {
				t.Error("ParseStrain() expected an error")
			}
		})
	}
}

// a symbol shared by two loci identifies neither and is cleared on both
func Test_ParseStrainDuplicateSymbols(t *testing.T) {
	tab := "orf\tsymbol\tstart_orf\tend_orf\n" +
		"YAL001C\tDUP1\t1\t50\n" +
		"YAL002W\tDUP1\t1\t50\n"
	fasta := ">YAL001C\n" + longSeq + "\n>YAL002W\n" + longSeq + "\n"

	strain, err := ParseStrain("cenpk", strings.NewReader(tab), strings.NewReader(fasta))
	if err != nil {
		t.Fatalf("ParseStrain() error = %v", err)
	}

	for _, l := range strain.Loci() {
		if l.Symbol != "" {
			t.Errorf("locus %s kept duplicated symbol %s", l.ORF, l.Symbol)
		}
	}
}

func Test_ParseFASTA(t *testing.T) {
	records, err := ParseFASTA(strings.NewReader(">seq1 description here\nacgt\nACGT\n>seq2\nTTTT\n"))
	if err != nil {
		t.Fatalf("ParseFASTA() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != "seq1" || records[0].Seq != "ACGTACGT" {
		t.Errorf("record 0 = %+v, want seq1/ACGTACGT", records[0])
	}
	if records[1].ID != "seq2" || records[1].Seq != "TTTT" {
		t.Errorf("record 1 = %+v, want seq2/TTTT", records[1])
	}

	if _, err := ParseFASTA(strings.NewReader("ACGT\n")); err == nil {
		t.Error("ParseFASTA() expected an error for sequence before header")
	}
	if _, err := ParseFASTA(strings.NewReader("")); err == nil {
		t.Error("ParseFASTA() expected an error for empty input")
	}
}

func Test_ImportStrain(t *testing.T) {
	dir := t.TempDir()

	strain, fastaPath, err := ImportStrain(dir, "cenpk", []byte(testTab), []byte(testFASTA))
	if err != nil {
		t.Fatalf("ImportStrain() error = %v", err)
	}
	if strain.Name != "cenpk" {
		t.Errorf("strain name = %s, want cenpk", strain.Name)
	}
	if fastaPath == "" {
		t.Error("ImportStrain() returned empty fasta path")
	}

	// the files should now round-trip through LoadDir
	reg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if _, ok := reg.Strain("cenpk"); !ok {
		t.Error("imported strain not found after LoadDir()")
	}
}

// a validation failure must leave nothing on disk
func Test_ImportStrainNoPartialWrite(t *testing.T) {
	dir := t.TempDir()

	badTab := "orf\tsymbol\tstart_orf\tend_orf\nYAL001C\t\t1\t99999\n"
	if _, _, err := ImportStrain(dir, "cenpk", []byte(badTab), []byte(testFASTA)); err == nil {
		t.Fatal("ImportStrain() expected an error")
	}

	reg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(reg.Strains()) != 0 {
		t.Errorf("found strains %v after failed import", reg.Strains())
	}
}

// longSeq is 500 bases of filler for coordinate checks
var longSeq = strings.Repeat("ACGGT", 100)
