package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hillstub/yeastriction/config"
	"github.com/hillstub/yeastriction/internal/bowtie"
	"github.com/hillstub/yeastriction/internal/genome"
)

// importCmd adds a strain to the genomes directory.
var importCmd = &cobra.Command{
	Use:   "import [orf-table.tab] [sequences.fasta]",
	Short: "Import a strain and build its off-target index",
	Long: `Import a strain into the genomes directory.

The ORF table lists orf, symbol, start_orf and end_orf columns; the
FASTA file carries one record per ORF with flanking sequence included.
Both file names must share the strain name, e.g. cenpk.tab and
cenpk.fasta. After validation the files are copied into the genomes
directory and a bowtie index is built from the sequences.

Imports are disabled by default, set YR_IMPORT_ALLOW=true to enable.`,
	Run:  runImport,
	Args: cobra.ExactArgs(2),
}

func runImport(cmd *cobra.Command, args []string) {
	c, err := config.New()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	if err := importFiles(c, args[0], args[1]); err != nil {
		log.Fatalf("%v", err)
	}
}

// importFiles validates and imports one strain's ORF table and FASTA
// file, then builds its off-target index. Refused while imports are
// disabled in the settings, same as the HTTP endpoint.
func importFiles(c config.Config, tabPath, fastaPath string) error {
	if !c.Import.Allow {
		return fmt.Errorf("genome import is disabled, set YR_IMPORT_ALLOW=true to enable it")
	}

	name := strainStem(tabPath)
	if other := strainStem(fastaPath); other != name {
		return fmt.Errorf("file names disagree on the strain: %s vs %s", name, other)
	}

	tab, err := os.ReadFile(tabPath)
	if err != nil {
		return err
	}
	fasta, err := os.ReadFile(fastaPath)
	if err != nil {
		return err
	}

	strain, imported, err := genome.ImportStrain(c.Genome.Dir, name, tab, fasta)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Pipeline.Timeout)
	defer cancel()
	if err := bowtie.Build(ctx, c.OffTarget.BowtieBuild, imported, strain.IndexBase(c.Genome.Dir)); err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	log.Printf("imported strain %s with %d loci", strain.Name, len(strain.Loci()))
	return nil
}

// strainStem strips the extension from an import file name.
func strainStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func init() {
	RootCmd.AddCommand(importCmd)
}
