package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
	"github.com/ritikaseth1003/GreenLint/internal/scoring"
)

// ProjectConfig holds project-level settings loaded from .greenlint.yml.
// Zero values mean "use the built-in defaults".
type ProjectConfig struct {
	Weights          map[string]int `yaml:"weights,omitempty"`
	Alpha            float64        `yaml:"alpha,omitempty"`
	Beta             float64        `yaml:"beta,omitempty"`
	Gamma            float64        `yaml:"gamma,omitempty"`
	DepthSensitivity float64        `yaml:"depthSensitivity,omitempty"`
	ScalingConstant  float64        `yaml:"scalingConstant,omitempty"`
	CCThreshold      int            `yaml:"ccThreshold,omitempty"`
	DisableSeverity  bool           `yaml:"disableSeverity,omitempty"`
	ExcludeDirs      []string       `yaml:"excludeDirs,omitempty"`
	Format           string         `yaml:"format,omitempty"`
	Radon            bool           `yaml:"radon,omitempty"`
	Pylint           bool           `yaml:"pylint,omitempty"`
	Verbose          bool           `yaml:"verbose,omitempty"`
}

// Load attempts to read .greenlint.yml or .greenlint.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{".greenlint.yml", ".greenlint.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// EngineConfig converts the project settings into a scoring engine config.
// Weight overrides are layered on top of the default table; categories the
// file does not mention keep their stock weight.
func (c *ProjectConfig) EngineConfig() scoring.Config {
	cfg := scoring.Config{
		DisableSeverity:  c.DisableSeverity,
		CCThreshold:      c.CCThreshold,
		Alpha:            c.Alpha,
		Beta:             c.Beta,
		Gamma:            c.Gamma,
		DepthSensitivity: c.DepthSensitivity,
		ScalingConstant:  c.ScalingConstant,
	}
	if len(c.Weights) > 0 {
		table := energy.DefaultWeights()
		for cat, w := range c.Weights {
			table[energy.IssueCategory(cat)] = w
		}
		cfg.Weights = table
	}
	return cfg
}
