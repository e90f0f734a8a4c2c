// Package cmd is for command line interactions with the yeastriction application
package cmd

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hillstub/yeastriction/config"
	"github.com/hillstub/yeastriction/internal/bowtie"
	"github.com/hillstub/yeastriction/internal/fold"
	"github.com/hillstub/yeastriction/internal/pipeline"
	"github.com/hillstub/yeastriction/internal/primer3"
	"github.com/hillstub/yeastriction/internal/target"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "yeastriction",
	Short: `Find CRISPR/Cas9 target sites in yeast genes.
Candidates are screened against off-targets and ranked per locus`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initSettings)

	RootCmd.PersistentFlags().String("genomes", "./data", "directory with strain .tab/.fasta files and aligner indexes")
	RootCmd.PersistentFlags().String("enzymes", "", "path to a replacement restriction enzyme list")
	must(viper.BindPFlag("genome.dir", RootCmd.PersistentFlags().Lookup("genomes")))
	must(viper.BindPFlag("enzymes", RootCmd.PersistentFlags().Lookup("enzymes")))
}

// initSettings wires Viper to the environment: every setting can be set
// via YR_ variables, e.g. YR_IMPORT_ALLOW or YR_OFF_TARGET_BOWTIE.
func initSettings() {
	config.SetDefaults()
	viper.SetEnvPrefix("yr")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

func must(err error) {
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// loadEnzymes returns the configured restriction enzyme list: the
// built-in default or the file named in the settings.
func loadEnzymes(c config.Config) []target.Enzyme {
	if c.Enzymes == "" {
		return target.DefaultEnzymes()
	}

	f, err := os.Open(c.Enzymes)
	if err != nil {
		log.Fatalf("failed to open enzyme list: %v", err)
	}
	defer f.Close()

	enzymes, err := target.ParseEnzymes(f)
	if err != nil {
		log.Fatalf("failed to parse enzyme list %s: %v", c.Enzymes, err)
	}
	return enzymes
}

// newPipeline assembles the target-finding pipeline from settings.
func newPipeline(c config.Config) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Screener: &bowtie.Screener{
			Bowtie:      c.OffTarget.Bowtie,
			IndexDir:    c.Genome.Dir,
			PAMs:        c.OffTarget.PAMs,
			MaxMismatch: c.OffTarget.MaxMismatch,
			MaxReported: c.OffTarget.MaxReported,
		},
		Folder: &fold.Folder{
			RNAfold:     c.Fold.RNAfold,
			Temperature: c.Fold.Temperature,
			Scaffold:    c.Fold.Scaffold,
		},
		Enzymes:  loadEnzymes(c),
		PAM:      c.Extract.PAM,
		MaxPolyT: c.Extract.MaxPolyT,
		Workers:  c.Pipeline.Workers,
		Timeout:  c.Pipeline.Timeout,
	}
}

// newDesigner assembles the diagnostic primer designer from settings.
func newDesigner(c config.Config) *primer3.Designer {
	return &primer3.Designer{Core: c.Primer3.Core, ConfDir: c.Primer3.ConfDir}
}
