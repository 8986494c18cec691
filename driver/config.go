// Package driver is the external surface spec.md §6 names but excludes from
// the core: parse/compile/interpret/run over .pls source and .cpls compiled
// AST files, plus the ambient configuration and logging those operations
// need. Grounded on the teacher's Repl()/Load()/Import() surface
// (interpreter.go) and, for configuration, davidkellis-able's
// pkg/driver/lockfile.go YAML document handling.
package driver

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional please.yaml/please.yml run configuration: whether
// to run the optimizer, a trace level, and a search path. cmd/please reads
// Optimize for the REPL only and prints TraceLevel in its startup log line;
// the trace level does not change the log level, and SearchPath is not
// read anywhere.
type Config struct {
	Optimize   bool   `yaml:"optimize"`
	TraceLevel string `yaml:"trace_level"`
	SearchPath string `yaml:"search_path"`
}

// DefaultConfig mirrors what running without a config file does: optimize
// on, warn-level tracing, search the current directory.
func DefaultConfig() Config {
	return Config{Optimize: true, TraceLevel: "warn", SearchPath: "."}
}

// LoadConfig reads path (please.yaml/please.yml) into a Config, starting
// from DefaultConfig so a partial document only overrides what it sets —
// grounded directly on lockfile.go's yaml.NewDecoder/KnownFields(true)
// pattern, generalized from a lockfile to a run config.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FindConfig looks for please.yaml then please.yml in dir, returning
// DefaultConfig if neither exists.
func FindConfig(dir string) Config {
	for _, name := range []string{"please.yaml", "please.yml"} {
		path := dir + string(os.PathSeparator) + name
		if _, err := os.Stat(path); err == nil {
			if cfg, err := LoadConfig(path); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}
