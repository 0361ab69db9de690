package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/openfreight/ecoscore/internal/errors"
)

// weightTolerance is the allowed absolute deviation of the weight sum from 1.0.
const weightTolerance = 1e-9

// Weights holds the relative contribution of each sub-metric to the overall
// sustainability score. The six weights must sum to 1.0.
type Weights struct {
	PSI float64 `yaml:"psi" json:"psi"`
	RES float64 `yaml:"res" json:"res"`
	CEI float64 `yaml:"cei" json:"cei"`
	RUR float64 `yaml:"rur" json:"rur"`
	EER float64 `yaml:"eer" json:"eer"`
	WRS float64 `yaml:"wrs" json:"wrs"`
}

// Sum returns the total of all six weights.
func (w Weights) Sum() float64 {
	return w.PSI + w.RES + w.CEI + w.RUR + w.EER + w.WRS
}

// Validate checks that all weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"psi": w.PSI, "res": w.RES, "cei": w.CEI,
		"rur": w.RUR, "eer": w.EER, "wrs": w.WRS,
	} {
		if v < 0 || math.IsNaN(v) {
			return errors.NewConfigurationError(
				fmt.Sprintf("weight %q must be non-negative, got %v", name, v), nil)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return errors.NewConfigurationError(
			fmt.Sprintf("metric weights must sum to 1.0, got %v", w.Sum()), nil)
	}
	return nil
}

// Capacity describes the reference container a shipment is scored against
// for resource utilization.
type Capacity struct {
	Volume    float64 `yaml:"volume" json:"volume"`
	MaxWeight float64 `yaml:"max_weight" json:"max_weight"`
}

// Validate checks that both capacity limits are positive.
func (c Capacity) Validate() error {
	if c.Volume <= 0 || c.MaxWeight <= 0 {
		return errors.NewConfigurationError(
			fmt.Sprintf("container capacity must be positive, got volume=%v max_weight=%v",
				c.Volume, c.MaxWeight), nil)
	}
	return nil
}

// Predictor holds the regression model hyperparameters.
type Predictor struct {
	Trees        int     `yaml:"trees" json:"trees"`
	Seed         int64   `yaml:"seed" json:"seed"`
	TestFraction float64 `yaml:"test_fraction" json:"test_fraction"`
	MinLeaf      int     `yaml:"min_leaf" json:"min_leaf"`
}

// Validate checks the predictor hyperparameters.
func (p Predictor) Validate() error {
	if p.Trees <= 0 {
		return errors.NewConfigurationError(
			fmt.Sprintf("predictor trees must be positive, got %d", p.Trees), nil)
	}
	if p.TestFraction <= 0 || p.TestFraction >= 1 {
		return errors.NewConfigurationError(
			fmt.Sprintf("predictor test_fraction must be in (0,1), got %v", p.TestFraction), nil)
	}
	if p.MinLeaf <= 0 {
		return errors.NewConfigurationError(
			fmt.Sprintf("predictor min_leaf must be positive, got %d", p.MinLeaf), nil)
	}
	return nil
}

// Config is the full configuration for the scoring core.
type Config struct {
	Weights      Weights   `yaml:"weights" json:"weights"`
	Capacity     Capacity  `yaml:"capacity" json:"capacity"`
	Predictor    Predictor `yaml:"predictor" json:"predictor"`
	BatchWorkers int       `yaml:"batch_workers" json:"batch_workers"`
	DataDir      string    `yaml:"data_dir" json:"data_dir"`
}

// Default returns the built-in configuration. Weights and capacity match the
// standard scoring constants; the predictor defaults to a 100-tree forest
// with a fixed seed for reproducible splits.
func Default() Config {
	return Config{
		Weights: Weights{
			PSI: 0.20,
			RES: 0.20,
			CEI: 0.20,
			RUR: 0.15,
			EER: 0.15,
			WRS: 0.10,
		},
		Capacity: Capacity{
			Volume:    67.6,
			MaxWeight: 26755,
		},
		Predictor: Predictor{
			Trees:        100,
			Seed:         42,
			TestFraction: 0.2,
			MinLeaf:      1,
		},
		BatchWorkers: 4,
		DataDir:      getEnvOrDefault("ECOSCORE_DATA_DIR", "./data"),
	}
}

// Load reads a YAML config file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.NewConfigurationError(
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.NewConfigurationError(
			fmt.Sprintf("failed to parse config file %s", path), err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Capacity.Validate(); err != nil {
		return err
	}
	if err := c.Predictor.Validate(); err != nil {
		return err
	}
	if c.BatchWorkers <= 0 {
		return errors.NewConfigurationError(
			fmt.Sprintf("batch_workers must be positive, got %d", c.BatchWorkers), nil)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ECOSCORE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("ECOSCORE_BATCH_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil && workers > 0 {
			c.BatchWorkers = workers
		}
	}
	if v := os.Getenv("ECOSCORE_PREDICTOR_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Predictor.Seed = seed
		}
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
