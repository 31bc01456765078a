// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	// Root is the directory with the intein_finder assets (PSSMs, intein DB).
	// It can be moved with the INTEIN_FINDER_ROOT environment variable
	Root = rootDir()

	// PSSMDir is the default directory of the superfamily PSSM (.smp) files
	PSSMDir = filepath.Join(Root, "assets", "intein_superfamily_members")

	// InteinDB is the default FASTA file of reference inteins
	InteinDB = filepath.Join(Root, "assets", "intein_sequences", "inbase.faa")

	// PSSMs are the conserved domain models searched with rpsblast by default
	PSSMs = []string{
		"cd00081.smp",
		"cd00085.smp",
		"cd09643.smp",
		"COG1372.smp",
		"COG1403.smp",
		"COG2356.smp",
		"pfam01844.smp",
		"pfam04231.smp",
		"pfam05551.smp",
		"pfam07510.smp",
		"pfam12639.smp",
		"pfam13391.smp",
		"pfam13392.smp",
		"pfam13395.smp",
		"pfam13403.smp",
		"pfam14414.smp",
		"pfam14623.smp",
		"pfam14890.smp",
		"PRK11295.smp",
		"PRK15137.smp",
		"smart00305.smp",
		"smart00306.smp",
		"smart00507.smp",
		"TIGR01443.smp",
		"TIGR01445.smp",
		"TIGR02646.smp",
		"pfam05204.smp",
		"pfam14528.smp",
		"pfam14527.smp",
	}
)

// SearchConfig is settings for the homology searches
type SearchConfig struct {
	// report rpsblast hits with an evalue at or below this
	EvalueRPSBlast float64 `mapstructure:"evalue-rpsblast" yaml:"evalue-rpsblast"`

	// report mmseqs hits with an evalue at or below this
	EvalueMMseqs float64 `mapstructure:"evalue-mmseqs" yaml:"evalue-mmseqs"`

	// mmseqs sensitivity (-s)
	Sensitivity float64 `mapstructure:"sensitivity" yaml:"sensitivity"`

	// mmseqs --num-iterations
	Iterations int `mapstructure:"iterations" yaml:"iterations"`

	// directory with the default PSSM files
	PSSMDir string `mapstructure:"pssm-dir" yaml:"pssm-dir"`

	// optional file listing .smp paths, whitespace delimited
	PSSMList string `mapstructure:"pssm-list" yaml:"pssm-list"`

	// queries shorter than this are not searched
	MinQueryLength int `mapstructure:"min-query-len" yaml:"min-query-len"`
}

// AlignmentConfig is settings for the alignment based residue checks
type AlignmentConfig struct {
	// number of best-evalue hits aligned serially before batching
	Serial int `mapstructure:"serial" yaml:"serial"`

	// residues added to each side of the region in the clipped query
	Padding int `mapstructure:"padding" yaml:"padding"`

	// 1 accepts only L1 residues at the intein ends, 2 also accepts L2
	Strictness int `mapstructure:"strictness" yaml:"strictness"`

	// keep alignment input/output files for debugging
	KeepFiles bool `mapstructure:"keep-files" yaml:"keep-files"`
}

// RegionConfig is settings for refining regions
type RegionConfig struct {
	// winning alignments need an evalue at or below this to refine a region
	RefineEvalue float64 `mapstructure:"refine-evalue" yaml:"refine-evalue"`

	// drop regions outside of [MinLength, MaxLength]
	GateLength bool `mapstructure:"gate-length" yaml:"gate-length"`

	// the shortest region kept when GateLength is set
	MinLength int `mapstructure:"min-len" yaml:"min-len"`

	// the longest region kept when GateLength is set
	MaxLength int `mapstructure:"max-len" yaml:"max-len"`
}

// ExecConfig has the paths (or names on the PATH) of external programs
type ExecConfig struct {
	MakeProfileDB string `mapstructure:"makeprofiledb" yaml:"makeprofiledb"`
	RPSBlast      string `mapstructure:"rpsblast" yaml:"rpsblast"`
	MMseqs        string `mapstructure:"mmseqs" yaml:"mmseqs"`
	Mafft         string `mapstructure:"mafft" yaml:"mafft"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// whether to log progress to stderr
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	// number of workers for rpsblast splits and alignment batches
	CPUs int `mapstructure:"cpus" yaml:"cpus"`

	Search    SearchConfig    `mapstructure:"search" yaml:"search"`
	Alignment AlignmentConfig `mapstructure:"alignment" yaml:"alignment"`
	Region    RegionConfig    `mapstructure:"region" yaml:"region"`
	Exec      ExecConfig      `mapstructure:"exec" yaml:"exec"`
}

// New returns a new Config struct populated by Viper settings
// (defaults, an optional settings file and command line arguments)
func New() *Config {
	if settings := viper.GetString("settings"); settings != "" {
		viper.SetConfigFile(settings)
		if err := viper.MergeInConfig(); err != nil {
			log.Fatalf("failed to read settings file %s: %v", settings, err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode into struct, %v", err)
	}

	return c
}

// Validate checks that the settings are usable for a run
func (c *Config) Validate() error {
	if c.CPUs < 1 {
		return fmt.Errorf("cpus must be >= 1, got %d", c.CPUs)
	}
	if c.Search.EvalueRPSBlast > 0.1 {
		return fmt.Errorf("search.evalue-rpsblast should be <= 0.1, got %g", c.Search.EvalueRPSBlast)
	}
	if c.Search.EvalueMMseqs > 0.1 {
		return fmt.Errorf("search.evalue-mmseqs should be <= 0.1, got %g", c.Search.EvalueMMseqs)
	}
	if c.Alignment.Strictness != 1 && c.Alignment.Strictness != 2 {
		return fmt.Errorf("alignment.strictness must be 1 or 2, got %d", c.Alignment.Strictness)
	}
	if c.Alignment.Serial < 1 {
		return fmt.Errorf("alignment.serial must be >= 1, got %d", c.Alignment.Serial)
	}
	if c.Alignment.Padding < 0 {
		return fmt.Errorf("alignment.padding must be >= 0, got %d", c.Alignment.Padding)
	}
	if c.Region.MinLength > c.Region.MaxLength {
		return fmt.Errorf("region.min-len (%d) is larger than region.max-len (%d)", c.Region.MinLength, c.Region.MaxLength)
	}
	return nil
}

// PSSMPaths returns the .smp files to build the profile database from
func (c *Config) PSSMPaths() []string {
	paths := make([]string, len(PSSMs))
	for i, p := range PSSMs {
		paths[i] = filepath.Join(c.Search.PSSMDir, p)
	}
	return paths
}

// Write saves the settings as YAML (for reproducing a run)
func (c *Config) Write(filename string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	return os.WriteFile(filename, out, 0644)
}

// rootDir is the directory of the running binary unless overridden
func rootDir() string {
	if root := os.Getenv("INTEIN_FINDER_ROOT"); root != "" {
		return root
	}

	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func init() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("cpus", 1)

	viper.SetDefault("search.evalue-rpsblast", 1e-3)
	viper.SetDefault("search.evalue-mmseqs", 1e-3)
	viper.SetDefault("search.sensitivity", 5.7)
	viper.SetDefault("search.iterations", 2)
	viper.SetDefault("search.pssm-dir", PSSMDir)
	viper.SetDefault("search.pssm-list", "")
	viper.SetDefault("search.min-query-len", 0)

	viper.SetDefault("alignment.serial", 5)
	viper.SetDefault("alignment.padding", 10)
	viper.SetDefault("alignment.strictness", 1)
	viper.SetDefault("alignment.keep-files", false)

	viper.SetDefault("region.refine-evalue", 1e-3)
	viper.SetDefault("region.gate-length", false)
	viper.SetDefault("region.min-len", 114)
	viper.SetDefault("region.max-len", 628)

	viper.SetDefault("exec.makeprofiledb", "makeprofiledb")
	viper.SetDefault("exec.rpsblast", "rpsblast")
	viper.SetDefault("exec.mmseqs", "mmseqs")
	viper.SetDefault("exec.mafft", "mafft")
}
