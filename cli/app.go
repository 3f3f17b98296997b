// Package cli contains the se3interp command line application.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/se3interp/logging"
)

const (
	debugFlag    = "debug"
	logLevelFlag = "log-level"

	sampleFlagWaypoints = "waypoints"
	sampleFlagCSV       = "csv"
	sampleFlagPlot      = "plot"
	sampleFlagStep      = "step"
	sampleFlagTitle     = "title"

	durationFlagFrom          = "from"
	durationFlagTo            = "to"
	durationFlagVelocityScale = "velocity-scale"
	durationFlagPeriod        = "period"

	loggerMetadataKey = "logger"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut. Logs go to errOut so that CSV written to out stays clean.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "se3interp",
		Usage:           "interpolate smooth SE(3) trajectories through timed waypoints",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  logLevelFlag,
				Value: logging.INFO.String(),
				Usage: "minimum level to log: debug, info, warn or error",
			},
		},
		Before: setupLogger,
		After: func(c *cli.Context) error {
			//nolint:errcheck
			loggerFrom(c).Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "sample",
				Usage:     "sample the trajectory through a waypoint file at a fixed step",
				UsageText: fmt.Sprintf("se3interp sample --%s <FILE> [other options]", sampleFlagWaypoints),
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:     sampleFlagWaypoints,
						Aliases:  []string{"w"},
						Required: true,
						Usage:    "load waypoints from `FILE`",
					},
					&cli.PathFlag{
						Name:  sampleFlagCSV,
						Usage: "write samples as CSV to `FILE` instead of stdout",
					},
					&cli.PathFlag{
						Name:  sampleFlagPlot,
						Usage: "save a plot of the sampled translation to `FILE`",
					},
					&cli.Float64Flag{
						Name:  sampleFlagStep,
						Usage: "sampling step in seconds, overriding the waypoint file",
					},
					&cli.StringFlag{
						Name:  sampleFlagTitle,
						Usage: "title of the plot",
					},
				},
				Action: SampleAction,
			},
			{
				Name:      "describe",
				Usage:     "print the waypoints and the speeds reached between them",
				UsageText: fmt.Sprintf("se3interp describe --%s <FILE> [--%s S]", sampleFlagWaypoints, sampleFlagStep),
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:     sampleFlagWaypoints,
						Aliases:  []string{"w"},
						Required: true,
						Usage:    "load waypoints from `FILE`",
					},
					&cli.Float64Flag{
						Name:  sampleFlagStep,
						Usage: "sampling step in seconds used to measure speeds, overriding the waypoint file",
					},
				},
				Action: DescribeAction,
			},
			{
				Name:  "duration",
				Usage: "print the minimum duration of a move between two poses",
				UsageText: fmt.Sprintf("se3interp duration --%s x,y,z,roll,pitch,yaw --%s x,y,z,roll,pitch,yaw",
					durationFlagFrom, durationFlagTo),
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     durationFlagFrom,
						Required: true,
						Usage:    "start pose as x,y,z,roll,pitch,yaw",
					},
					&cli.Float64SliceFlag{
						Name:     durationFlagTo,
						Required: true,
						Usage:    "goal pose as x,y,z,roll,pitch,yaw",
					},
					&cli.Float64Flag{
						Name:  durationFlagVelocityScale,
						Value: 1,
						Usage: "fraction of the maximum velocities to move at",
					},
					&cli.Float64Flag{
						Name:  durationFlagPeriod,
						Value: 0.02,
						Usage: "control period in seconds the duration is rounded to",
					},
				},
				Action: DurationAction,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	level, err := logging.LevelFromString(c.String(logLevelFlag))
	if err != nil {
		return err
	}
	if c.Bool(debugFlag) {
		level = logging.DEBUG
	}
	logger := logging.NewBlankLogger(c.App.Name)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(level)
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[loggerMetadataKey] = logger
	return nil
}

func loggerFrom(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerMetadataKey].(logging.Logger); ok {
		return logger
	}
	return logging.NewBlankLogger(c.App.Name)
}

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
