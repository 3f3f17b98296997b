package trajectory

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/se3interp/spatialmath"
)

const (
	// MaxLinearVelocity is the translation speed (m/s) used by MinimumDuration at a velocity scale of 1.
	MaxLinearVelocity = 0.15
	// MaxAngularVelocity is the rotation speed (rad/s) used by MinimumDuration at a velocity scale of 1.
	MaxAngularVelocity = 2 * math.Pi
)

// RoundToPeriod rounds a duration to the nearest whole number of periods, and to one period if
// that would be zero, so that a control loop running at period lands on its end.
func RoundToPeriod(period, duration float64) float64 {
	rounded := period * math.Round(duration/period)
	if rounded < DefaultTimeEpsilon {
		return period
	}
	return rounded
}

// MinimumDuration returns the shortest period aligned duration in which the screw motion from
// `from` to `to`, followed at constant rate, stays under MaxLinearVelocity and MaxAngularVelocity
// scaled by velocityScale on every axis.
func MinimumDuration(from, to spatialmath.Pose, velocityScale, period float64) (float64, error) {
	if period <= 0 {
		return 0, NewNonPositivePeriodError(period)
	}
	if velocityScale <= 0 {
		return 0, NewNonPositiveVelocityScaleError(velocityScale)
	}
	move := spatialmath.Log(spatialmath.PoseBetween(from, to)).ChangeReference(from)

	linear := MaxLinearVelocity * velocityScale
	angular := MaxAngularVelocity * velocityScale
	durations := []float64{
		math.Abs(move.Linear.X) / linear,
		math.Abs(move.Linear.Y) / linear,
		math.Abs(move.Linear.Z) / linear,
		math.Abs(move.Angular.X) / angular,
		math.Abs(move.Angular.Y) / angular,
		math.Abs(move.Angular.Z) / angular,
	}
	return RoundToPeriod(period, floats.Max(durations)), nil
}
