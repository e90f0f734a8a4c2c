// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// scaffold is the default sgRNA scaffold appended 3' of the spacer
// before secondary structure prediction.
const scaffold = "GTTTTAGAGCTAGAAATAGCAAGTTAAAATAAGGCTAGTCCGTTATCAACTTGAAAAAGTGGCACCGAGTCGGTGGTGCTTTTTT"

// GenomeConfig is settings for reference genome storage
type GenomeConfig struct {
	// directory holding <strain>.tab, <strain>.fasta and the bowtie index files
	Dir string `mapstructure:"dir"`
}

// ExtractConfig is settings for candidate extraction and filtering
type ExtractConfig struct {
	// the PAM pattern candidates must be followed by (N is a wildcard)
	PAM string `mapstructure:"pam"`

	// discard candidates with a run of this many consecutive T's
	MaxPolyT int `mapstructure:"max-poly-t"`
}

// OffTargetConfig is settings for the off-target screening step
type OffTargetConfig struct {
	// path to the bowtie executable
	Bowtie string `mapstructure:"bowtie"`

	// path to the bowtie-build executable
	BowtieBuild string `mapstructure:"bowtie-build"`

	// PAM contexts that count as valid off-target sites
	PAMs []string `mapstructure:"pams"`

	// mismatches tolerated across the 20-nt core (bowtie -v)
	MaxMismatch int `mapstructure:"max-mismatch"`

	// alignments reported per read before bowtie stops looking (bowtie -k)
	MaxReported int `mapstructure:"max-reported"`
}

// FoldConfig is settings for secondary structure prediction
type FoldConfig struct {
	// path to the RNAfold executable
	RNAfold string `mapstructure:"rnafold"`

	// folding temperature in celsius
	Temperature float64 `mapstructure:"temperature"`

	// scaffold sequence appended after the spacer before folding
	Scaffold string `mapstructure:"scaffold"`
}

// Primer3Config is settings for diagnostic primer design
type Primer3Config struct {
	// path to the primer3_core executable
	Core string `mapstructure:"core"`

	// path to primer3's thermodynamic parameters directory
	ConfDir string `mapstructure:"conf-dir"`
}

// PipelineConfig is settings for per-request orchestration
type PipelineConfig struct {
	// number of concurrent folding processes per request
	Workers int `mapstructure:"workers"`

	// budget for all external process work in one request
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig is settings for the HTTP server
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ImportConfig gates the genome import surface
type ImportConfig struct {
	// genome import stays unreachable unless this is set
	Allow bool `mapstructure:"allow"`
}

// Config is the root-level settings struct and is a mix of settings
// from the environment (YR_ prefix, .env supported) and command line arguments
type Config struct {
	Genome GenomeConfig `mapstructure:"genome"`

	Extract ExtractConfig `mapstructure:"extract"`

	OffTarget OffTargetConfig `mapstructure:"off-target"`

	Fold FoldConfig `mapstructure:"fold"`

	Primer3 Primer3Config `mapstructure:"primer3"`

	Pipeline PipelineConfig `mapstructure:"pipeline"`

	Server ServerConfig `mapstructure:"server"`

	Import ImportConfig `mapstructure:"import"`

	// optional path to a replacement restriction enzyme list
	Enzymes string `mapstructure:"enzymes"`
}

// SetDefaults registers every setting's fallback value with Viper.
// Called from cmd before flags are bound so flags win over defaults.
func SetDefaults() {
	viper.SetDefault("genome.dir", "./data")
	viper.SetDefault("extract.pam", "NGG")
	viper.SetDefault("extract.max-poly-t", 6)
	viper.SetDefault("off-target.bowtie", "bowtie")
	viper.SetDefault("off-target.bowtie-build", "bowtie-build")
	viper.SetDefault("off-target.pams", []string{"NGG", "NAG"})
	viper.SetDefault("off-target.max-mismatch", 3)
	viper.SetDefault("off-target.max-reported", 2)
	viper.SetDefault("fold.rnafold", "RNAfold")
	viper.SetDefault("fold.temperature", 30.0)
	viper.SetDefault("fold.scaffold", scaffold)
	viper.SetDefault("primer3.core", "primer3_core")
	viper.SetDefault("primer3.conf-dir", "")
	viper.SetDefault("pipeline.workers", 4)
	viper.SetDefault("pipeline.timeout", 2*time.Minute)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("import.allow", false)
	viper.SetDefault("enzymes", "")
}

// New returns a new Config struct populated by Viper settings
// (environment and/or command line arguments)
func New() (Config, error) {
	// a missing .env is fine, the environment may be set directly
	_ = godotenv.Load()

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
