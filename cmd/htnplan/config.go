package main

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional --config YAML shape: persisted default flag
// values, never plan/task data (this tool keeps no persisted state of its
// own beyond what the user asks it to write).
type fileConfig struct {
	LmgMaxCandidates int  `yaml:"lmg_max_candidates"`
	LmgMaxMGroups    int  `yaml:"lmg_max_mgroups"`
	NoGroundPrune    bool `yaml:"no_ground_prune"`
	NoH2             bool `yaml:"no_h2"`
	NoIrrelevance    bool `yaml:"no_irrelevance"`
	LogDir           string `yaml:"log_dir"`
}

// loadConfig reads path, if non-empty, and applies any value the user did
// not already override on the command line. A missing --config is not an
// error: the flag defaults to none per spec.md §6.4.
func loadConfig(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading config %s: %v", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("parsing config %s: %v", path, err)
	}

	if lmgMaxCandidates == 0 {
		lmgMaxCandidates = cfg.LmgMaxCandidates
	}
	if lmgMaxMGroups == 0 {
		lmgMaxMGroups = cfg.LmgMaxMGroups
	}
	if !noGroundPrune {
		noGroundPrune = cfg.NoGroundPrune
	}
	if !noH2 {
		noH2 = cfg.NoH2
	}
	if !noIrrelevance {
		noIrrelevance = cfg.NoIrrelevance
	}
	if logDir == "" {
		logDir = cfg.LogDir
	}
}
