package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hillstub/yeastriction/config"
)

const importTab = "orf\tsymbol\tstart_orf\tend_orf\n" +
	"YGL234W\tADE5\t1\t50\n"

var importFASTA = ">YGL234W\n" +
	"GCAACGTACGTACGTACGTCAGGACGTACGTACGTACGTACGTACGTTGG" +
	strings.Repeat("C", 20) + "\n"

// imports stay refused until they are switched on, no matter how the
// command is reached
func Test_importFilesGated(t *testing.T) {
	var c config.Config
	c.Genome.Dir = t.TempDir()

	err := importFiles(c, "cenpk.tab", "cenpk.fasta")
	if err == nil {
		t.Fatal("importFiles() expected an error while imports are disabled")
	}
	if !strings.Contains(err.Error(), "disabled") {
		t.Errorf("importFiles() error = %v, want a disabled-import refusal", err)
	}
}

func Test_importFiles(t *testing.T) {
	dir := t.TempDir()

	tabPath := filepath.Join(dir, "s288c.tab")
	if err := os.WriteFile(tabPath, []byte(importTab), 0o644); err != nil {
		t.Fatal(err)
	}
	fastaPath := filepath.Join(dir, "s288c.fasta")
	if err := os.WriteFile(fastaPath, []byte(importFASTA), 0o644); err != nil {
		t.Fatal(err)
	}

	// stand-in indexer so the import flow runs end to end
	stub := filepath.Join(dir, "bowtie-build")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	genomes := t.TempDir()
	var c config.Config
	c.Import.Allow = true
	c.Genome.Dir = genomes
	c.OffTarget.BowtieBuild = stub
	c.Pipeline.Timeout = 5 * time.Second

	if err := importFiles(c, tabPath, fastaPath); err != nil {
		t.Fatalf("importFiles() error = %v", err)
	}

	for _, name := range []string{"s288c.tab", "s288c.fasta"} {
		if _, err := os.Stat(filepath.Join(genomes, name)); err != nil {
			t.Errorf("imported file %s missing: %v", name, err)
		}
	}
}

func Test_importFilesMismatchedNames(t *testing.T) {
	var c config.Config
	c.Import.Allow = true
	c.Genome.Dir = t.TempDir()

	if err := importFiles(c, "cenpk.tab", "other.fasta"); err == nil {
		t.Error("importFiles() expected an error for mismatched strain names")
	}
}
