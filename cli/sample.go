package cli

import (
	"os"
	"path/filepath"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/se3interp/config"
	"go.viam.com/se3interp/export"
	"go.viam.com/se3interp/spatialmath"
	"go.viam.com/se3interp/trajectory"
)

// SampleAction fits a trajectory through the waypoint file and writes its samples as CSV,
// and optionally as a plot.
func SampleAction(c *cli.Context) error {
	logger := loggerFrom(c)
	cfg, samples, err := sampleWaypointFile(c)
	if err != nil {
		return err
	}

	if out := c.Path(sampleFlagCSV); out != "" {
		if err := writeCSVFile(out, samples); err != nil {
			return err
		}
		logger.Infof("wrote %d samples to %s", len(samples), out)
	} else if err := export.WriteCSV(c.App.Writer, samples); err != nil {
		return err
	}

	if out := c.Path(sampleFlagPlot); out != "" {
		title := c.String(sampleFlagTitle)
		if title == "" {
			title = filepath.Base(cfg.ConfigFilePath)
		}
		if err := export.SavePlot(out, title, samples); err != nil {
			return errors.Wrapf(err, "failed to save plot to %q", out)
		}
		logger.Infof("saved plot to %s", out)
	}
	return nil
}

// DescribeAction prints the waypoints of the file and a summary of the speeds of the trajectory through them.
func DescribeAction(c *cli.Context) error {
	cfg, samples, err := sampleWaypointFile(c)
	if err != nil {
		return err
	}
	summary, err := export.Summarize(samples)
	if err != nil {
		return errors.Wrap(err, "cannot summarize trajectory")
	}
	printf(c.App.Writer, "%s", cfg.String())
	printf(c.App.Writer, "%s", summary.String())
	return nil
}

// sampleWaypointFile reads the waypoint file, fits a trajectory through it and samples it.
func sampleWaypointFile(c *cli.Context) (*config.Config, []trajectory.Sample, error) {
	logger := loggerFrom(c)

	cfg, err := config.Read(c.Path(sampleFlagWaypoints))
	if err != nil {
		return nil, nil, err
	}

	tr := trajectory.New(cfg.TrajectoryConfig(), logger.Sublogger("trajectory"))
	if err := tr.Init(cfg.Times(), cfg.Poses(), cfg.Velocities(), cfg.Period); err != nil {
		return nil, nil, errors.Wrapf(err, "cannot fit a trajectory through %q", cfg.ConfigFilePath)
	}

	step := cfg.SampleStep()
	if c.IsSet(sampleFlagStep) {
		step = c.Float64(sampleFlagStep)
	}
	samples, err := tr.Sample(step)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugw("sampled trajectory", "samples", len(samples), "step", step,
		"start", tr.StartTime(), "end", tr.EndTime())
	return cfg, samples, nil
}

func writeCSVFile(path string, samples []trajectory.Sample) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %q", path)
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return export.WriteCSV(f, samples)
}

// DurationAction prints the minimum duration of the move between two poses.
func DurationAction(c *cli.Context) error {
	from, err := poseFromFlag(c, durationFlagFrom)
	if err != nil {
		return err
	}
	to, err := poseFromFlag(c, durationFlagTo)
	if err != nil {
		return err
	}
	duration, err := trajectory.MinimumDuration(from, to, c.Float64(durationFlagVelocityScale), c.Float64(durationFlagPeriod))
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%g", duration)
	return nil
}

func poseFromFlag(c *cli.Context, name string) (spatialmath.Pose, error) {
	values := c.Float64Slice(name)
	if len(values) != 6 {
		return spatialmath.Pose{}, errors.Errorf("--%s needs 6 values x,y,z,roll,pitch,yaw, got %d", name, len(values))
	}
	return spatialmath.NewPoseFromEuler(
		r3.Vector{X: values[0], Y: values[1], Z: values[2]},
		&spatialmath.EulerAngles{Roll: values[3], Pitch: values[4], Yaw: values[5]},
	), nil
}
