package trajectory

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/se3interp/spatialmath"
)

// DefaultTimeEpsilon is the tolerance used when clamping queries to the ends of a trajectory.
const DefaultTimeEpsilon = 1e-5

// Config tunes the tolerances of a Trajectory. Zero values are replaced with defaults, so the zero
// Config validates waypoint poses.
type Config struct {
	TimeEpsilon           float64 `json:"time_epsilon,omitempty"`
	ValidityEpsilon       float64 `json:"validity_epsilon,omitempty"`
	DisablePoseValidation bool    `json:"disable_pose_validation,omitempty"`
}

// NewDefaultConfig returns the default tolerances with waypoint pose validation enabled.
func NewDefaultConfig() Config {
	return Config{
		TimeEpsilon:     DefaultTimeEpsilon,
		ValidityEpsilon: spatialmath.DefaultValidityEpsilon,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var err error
	if cfg.TimeEpsilon < 0 {
		err = multierr.Append(err, goutils.NewConfigValidationError(path,
			errors.Errorf("time_epsilon cannot be negative, got %v", cfg.TimeEpsilon)))
	}
	if cfg.ValidityEpsilon < 0 {
		err = multierr.Append(err, goutils.NewConfigValidationError(path,
			errors.Errorf("validity_epsilon cannot be negative, got %v", cfg.ValidityEpsilon)))
	}
	return err
}

func (cfg Config) withDefaults() Config {
	if cfg.TimeEpsilon == 0 {
		cfg.TimeEpsilon = DefaultTimeEpsilon
	}
	if cfg.ValidityEpsilon == 0 {
		cfg.ValidityEpsilon = spatialmath.DefaultValidityEpsilon
	}
	return cfg
}
