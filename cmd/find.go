package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hillstub/yeastriction/config"
	"github.com/hillstub/yeastriction/internal/genome"
	"github.com/hillstub/yeastriction/internal/pipeline"
)

// findCmd searches loci for Cas9 targets from the command line.
var findCmd = &cobra.Command{
	Use:   "find [strain] [locus] ...",
	Short: "Find ranked Cas9 targets in one or more loci",
	Long: `Find ranked Cas9 targets in one or more loci of a strain.

Loci are named by systematic ORF name (YOR202W) or gene symbol (HIS3).
Scores are normalized within each locus and are not comparable across
loci. Requires bowtie and RNAfold on the PATH or configured via YR_
variables.`,
	Run:  runFind,
	Args: cobra.MinimumNArgs(2),
}

func runFind(cmd *cobra.Command, args []string) {
	c, err := config.New()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	reg, err := genome.LoadDir(c.Genome.Dir)
	if err != nil {
		log.Fatalf("failed to load genomes: %v", err)
	}

	strain, ok := reg.Strain(args[0])
	if !ok {
		log.Fatalf("unknown strain %s, available: %s", args[0], strings.Join(reg.Strains(), ", "))
	}

	pipe := newPipeline(c)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	for _, name := range args[1:] {
		l := locusByName(strain, name)
		result, err := pipe.Run(context.Background(), strain.Name, l, nil)
		if err != nil {
			log.Fatalf("%v", err)
		}

		if len(result.Targets) == 0 {
			log.Printf("no targets found in %s", l.DisplayName())
			continue
		}
		if result.Excluded > 0 {
			log.Printf("%s: %d candidate(s) excluded, fold failed", l.DisplayName(), result.Excluded)
		}

		writeTargetTable(w, l, result)
	}
}

// locusByName resolves a locus by ORF name first, then by gene symbol.
func locusByName(strain *genome.Strain, name string) *genome.Locus {
	if l, ok := strain.Locus(name); ok {
		return l
	}
	for _, l := range strain.Loci() {
		if strings.EqualFold(l.Symbol, name) {
			return l
		}
	}
	log.Fatalf("unknown locus %s in strain %s", name, strain.Name)
	return nil
}

// writeTargetTable prints one locus's ranked targets, best first.
func writeTargetTable(w *tabwriter.Writer, l *genome.Locus, result *pipeline.Result) {
	fmt.Fprintf(w, "%s\t(%d targets)\t\t\t\t\t\n", l.DisplayName(), len(result.Targets))
	fmt.Fprintln(w, "sequence\tpam\tstrand\tpos\tat\tpaired\tscore\tenzymes")
	for _, t := range result.Targets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%d\t%.2f\t%s\n",
			t.Core, t.PAM, t.Strand, t.Pos,
			t.ATContent, t.Paired, t.Score,
			strings.Join(t.Enzymes, ","))
	}
	fmt.Fprintln(w)
}

func init() {
	RootCmd.AddCommand(findCmd)
}
