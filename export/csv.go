// Package export writes sampled trajectories to CSV files and PNG plots.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"go.viam.com/se3interp/trajectory"
)

// CSVHeader lists the columns written by WriteCSV.
var CSVHeader = []string{"t", "x", "y", "z", "roll", "pitch", "yaw", "vx", "vy", "vz", "wx", "wy", "wz"}

// WriteCSV writes one row per sample, after a header row.
func WriteCSV(w io.Writer, samples []trajectory.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	row := make([]string, len(CSVHeader))
	for _, s := range samples {
		pt := s.Pose.Point()
		ea := s.Pose.EulerAngles()
		v := s.Velocity
		for i, value := range []float64{
			s.Time,
			pt.X, pt.Y, pt.Z,
			ea.Roll, ea.Pitch, ea.Yaw,
			v.Linear.X, v.Linear.Y, v.Linear.Z,
			v.Angular.X, v.Angular.Y, v.Angular.Z,
		} {
			row[i] = strconv.FormatFloat(value, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write csv row at time %v", s.Time)
		}
	}
	cw.Flush()
	return cw.Error()
}
