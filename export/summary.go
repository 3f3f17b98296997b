package export

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"go.uber.org/multierr"

	"go.viam.com/se3interp/trajectory"
)

// Summary holds the peak and mean speeds reached by a sampled trajectory.
type Summary struct {
	Samples          int
	Duration         float64
	MaxLinearSpeed   float64
	MeanLinearSpeed  float64
	MaxAngularSpeed  float64
	MeanAngularSpeed float64
}

// Summarize computes the speeds of the samples.
func Summarize(samples []trajectory.Sample) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, stats.ErrEmptyInput
	}
	linear := make(stats.Float64Data, 0, len(samples))
	angular := make(stats.Float64Data, 0, len(samples))
	for _, s := range samples {
		linear = append(linear, s.Velocity.Linear.Norm())
		angular = append(angular, s.Velocity.Angular.Norm())
	}

	summary := Summary{
		Samples:  len(samples),
		Duration: samples[len(samples)-1].Time - samples[0].Time,
	}
	var err, errs error
	summary.MaxLinearSpeed, err = linear.Max()
	errs = multierr.Append(errs, err)
	summary.MeanLinearSpeed, err = linear.Mean()
	errs = multierr.Append(errs, err)
	summary.MaxAngularSpeed, err = angular.Max()
	errs = multierr.Append(errs, err)
	summary.MeanAngularSpeed, err = angular.Mean()
	errs = multierr.Append(errs, err)
	return summary, errs
}

func (s Summary) String() string {
	return fmt.Sprintf("%d samples over %.3fs, linear speed max %.4f mean %.4f m/s, angular speed max %.4f mean %.4f rad/s",
		s.Samples, s.Duration, s.MaxLinearSpeed, s.MeanLinearSpeed, s.MaxAngularSpeed, s.MeanAngularSpeed)
}
