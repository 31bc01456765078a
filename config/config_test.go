package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNew_defaults(t *testing.T) {
	c := New()

	if c.CPUs != 1 {
		t.Errorf("CPUs = %d, want 1", c.CPUs)
	}
	if c.Alignment.Serial != 5 {
		t.Errorf("Alignment.Serial = %d, want 5", c.Alignment.Serial)
	}
	if c.Alignment.Padding != 10 {
		t.Errorf("Alignment.Padding = %d, want 10", c.Alignment.Padding)
	}
	if c.Region.MinLength != 114 || c.Region.MaxLength != 628 {
		t.Errorf("Region length range = [%d, %d], want [114, 628]", c.Region.MinLength, c.Region.MaxLength)
	}
	if c.Exec.Mafft != "mafft" {
		t.Errorf("Exec.Mafft = %s, want mafft", c.Exec.Mafft)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			CPUs: 2,
			Search: SearchConfig{
				EvalueRPSBlast: 1e-3,
				EvalueMMseqs:   1e-5,
			},
			Alignment: AlignmentConfig{
				Serial:     5,
				Padding:    10,
				Strictness: 1,
			},
			Region: RegionConfig{
				MinLength: 114,
				MaxLength: 628,
			},
		}
	}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"strictness 2", func(c *Config) { c.Alignment.Strictness = 2 }, false},
		{"no cpus", func(c *Config) { c.CPUs = 0 }, true},
		{"loose rpsblast evalue", func(c *Config) { c.Search.EvalueRPSBlast = 1 }, true},
		{"loose mmseqs evalue", func(c *Config) { c.Search.EvalueMMseqs = 0.5 }, true},
		{"strictness 3", func(c *Config) { c.Alignment.Strictness = 3 }, true},
		{"no serial alignments", func(c *Config) { c.Alignment.Serial = 0 }, true},
		{"negative padding", func(c *Config) { c.Alignment.Padding = -1 }, true},
		{"inverted length range", func(c *Config) { c.Region.MinLength = 700 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_PSSMPaths(t *testing.T) {
	c := &Config{Search: SearchConfig{PSSMDir: "pssms"}}

	paths := c.PSSMPaths()
	if len(paths) != len(PSSMs) {
		t.Fatalf("PSSMPaths() returned %d paths, want %d", len(paths), len(PSSMs))
	}
	if paths[0] != filepath.Join("pssms", "cd00081.smp") {
		t.Errorf("PSSMPaths()[0] = %s", paths[0])
	}
}

func TestConfig_Write(t *testing.T) {
	c := New()
	c.Region.RefineEvalue = 1e-10
	filename := filepath.Join(t.TempDir(), "settings.yaml")

	if err := c.Write(filename); err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}

	var read Config
	if err := yaml.Unmarshal(contents, &read); err != nil {
		t.Fatal(err)
	}
	if read.Region.RefineEvalue != 1e-10 {
		t.Errorf("round tripped refine-evalue = %g, want 1e-10", read.Region.RefineEvalue)
	}
	if read.Alignment.Serial != c.Alignment.Serial {
		t.Errorf("round tripped serial = %d, want %d", read.Alignment.Serial, c.Alignment.Serial)
	}
}
