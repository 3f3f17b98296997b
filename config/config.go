// Package config defines the waypoint files read by the sampling tool.
package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/se3interp/spatialmath"
	"go.viam.com/se3interp/trajectory"
)

// Waypoint is a timed pose, given as a position and roll, pitch, yaw angles in radians.
type Waypoint struct {
	Time  float64 `json:"time"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Pose returns the rigid transform of the waypoint.
func (w Waypoint) Pose() spatialmath.Pose {
	return spatialmath.NewPoseFromEuler(
		r3.Vector{X: w.X, Y: w.Y, Z: w.Z},
		&spatialmath.EulerAngles{Roll: w.Roll, Pitch: w.Pitch, Yaw: w.Yaw},
	)
}

// Config describes a trajectory to interpolate and how to sample it.
type Config struct {
	ConfigFilePath string `json:"-"`

	Period        float64            `json:"period"`
	Step          float64            `json:"step,omitempty"`
	Waypoints     []Waypoint         `json:"waypoints"`
	StartVelocity spatialmath.Twist  `json:"start_velocity"`
	EndVelocity   spatialmath.Twist  `json:"end_velocity"`
	Trajectory    *trajectory.Config `json:"trajectory,omitempty"`
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (cfg *Config) Validate() error {
	var err error
	if cfg.Period <= 0 {
		err = multierr.Append(err, goutils.NewConfigValidationFieldRequiredError(cfg.ConfigFilePath, "period"))
	}
	if cfg.Step < 0 {
		err = multierr.Append(err, goutils.NewConfigValidationError(cfg.ConfigFilePath,
			errors.Errorf("step cannot be negative, got %v", cfg.Step)))
	}
	if len(cfg.Waypoints) < 2 {
		err = multierr.Append(err, goutils.NewConfigValidationError(cfg.ConfigFilePath,
			trajectory.NewTooFewWaypointsError(len(cfg.Waypoints))))
	}
	for i := 1; i < len(cfg.Waypoints); i++ {
		if cfg.Waypoints[i].Time <= cfg.Waypoints[i-1].Time {
			err = multierr.Append(err, goutils.NewConfigValidationError(fmt.Sprintf("waypoints.%d", i),
				trajectory.NewNonIncreasingTimesError(i, cfg.Waypoints[i-1].Time, cfg.Waypoints[i].Time)))
		}
	}
	if cfg.Trajectory != nil {
		err = multierr.Append(err, cfg.Trajectory.Validate("trajectory"))
	}
	return err
}

// SampleStep returns the sampling step, which defaults to the period.
func (cfg *Config) SampleStep() float64 {
	if cfg.Step == 0 {
		return cfg.Period
	}
	return cfg.Step
}

// TrajectoryConfig returns the trajectory tolerances, which default to trajectory.NewDefaultConfig.
func (cfg *Config) TrajectoryConfig() trajectory.Config {
	if cfg.Trajectory == nil {
		return trajectory.NewDefaultConfig()
	}
	return *cfg.Trajectory
}

// Times returns the time of every waypoint.
func (cfg *Config) Times() []float64 {
	times := make([]float64, len(cfg.Waypoints))
	for i, w := range cfg.Waypoints {
		times[i] = w.Time
	}
	return times
}

// Poses returns the pose of every waypoint.
func (cfg *Config) Poses() []spatialmath.Pose {
	poses := make([]spatialmath.Pose, len(cfg.Waypoints))
	for i, w := range cfg.Waypoints {
		poses[i] = w.Pose()
	}
	return poses
}

// Velocities returns the start and end velocities.
func (cfg *Config) Velocities() []spatialmath.Twist {
	return []spatialmath.Twist{cfg.StartVelocity, cfg.EndVelocity}
}

// String prints out a table of the waypoints, with columns of time, translation and orientation in degrees.
func (cfg Config) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Time", "Translation", "Orientation"})
	for i, w := range cfg.Waypoints {
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%.3f", w.Time),
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", w.X, w.Y, w.Z),
			fmt.Sprintf(
				"Roll:%.2f, Pitch:%.2f, Yaw:%.2f",
				mgl64.RadToDeg(w.Roll),
				mgl64.RadToDeg(w.Pitch),
				mgl64.RadToDeg(w.Yaw),
			),
		})
	}
	return t.Render()
}
