// Package config loads and validates workload configurations for the
// tlstats demo CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/tlstats/pkg/jsonschema"
)

// Workload describes a simulated workload run.
//
// Example YAML:
//
//	name: "checkout simulation"
//	workers: 8
//	duration: 10s
//	interval: 1s
//	failureRate: 0.05
//	listen: ":9090"
type Workload struct {
	// Name of the workload (for reporting)
	Name string `json:"name" yaml:"name"`

	// Workers is the number of concurrent writer goroutines
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Duration is how long the workload runs
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Interval is the aggregation period
	Interval Duration `json:"interval,omitempty" yaml:"interval,omitempty"`

	// FailureRate is the fraction of simulated requests that fail (0..1)
	FailureRate float64 `json:"failureRate,omitempty" yaml:"failureRate,omitempty"`

	// Listen, when set, serves aggregated stats on /metrics at this address
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// DefaultWorkload returns a small workload suitable for a quick demo run.
func DefaultWorkload() *Workload {
	return &Workload{
		Name:        "demo",
		Workers:     4,
		Duration:    Duration(10 * time.Second),
		Interval:    Duration(time.Second),
		FailureRate: 0.05,
	}
}

// Load reads a workload config from a YAML file, validates it against the
// workload schema and fills in defaults for omitted fields.
func Load(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes a YAML workload config.
func Parse(data []byte) (*Workload, error) {
	// Schema validation works on JSON, so round-trip the raw YAML first.
	// This checks what the user actually wrote, before defaults are mixed
	// in.
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := jsonschema.Validate(string(rawJSON), workloadSchema); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := DefaultWorkload()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (w *Workload) applyDefaults() {
	def := DefaultWorkload()
	if w.Name == "" {
		w.Name = def.Name
	}
	if w.Workers <= 0 {
		w.Workers = def.Workers
	}
	if w.Duration <= 0 {
		w.Duration = def.Duration
	}
	if w.Interval <= 0 {
		w.Interval = def.Interval
	}
	if w.FailureRate < 0 {
		w.FailureRate = 0
	}
	if w.FailureRate > 1 {
		w.FailureRate = 1
	}
}

// Duration is a time.Duration that unmarshals from YAML strings like "30s"
// and marshals to JSON as a duration string.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
