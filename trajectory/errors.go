package trajectory

import "github.com/pkg/errors"

// ErrNotInitialized is returned when a trajectory is queried before a successful Init.
var ErrNotInitialized = errors.New("trajectory is not initialized")

// NewNonPositivePeriodError is returned when the control period is not strictly positive.
func NewNonPositivePeriodError(period float64) error {
	return errors.Errorf("period must be strictly positive, got %v", period)
}

// NewNonPositiveStepError is returned when sampling is requested with a step that is not strictly positive.
func NewNonPositiveStepError(step float64) error {
	return errors.Errorf("sampling step must be strictly positive, got %v", step)
}

// NewNonPositiveVelocityScaleError is returned when a velocity scale is not strictly positive.
func NewNonPositiveVelocityScaleError(scale float64) error {
	return errors.Errorf("velocity scale must be strictly positive, got %v", scale)
}

// NewMismatchedLengthError is returned when there are not as many times as poses.
func NewMismatchedLengthError(times, poses int) error {
	return errors.Errorf("got %d times for %d poses, expected as many of each", times, poses)
}

// NewTooFewWaypointsError is returned when a trajectory is requested through fewer than two waypoints.
func NewTooFewWaypointsError(waypoints int) error {
	return errors.Errorf("a trajectory needs at least 2 waypoints, got %d", waypoints)
}

// NewNonIncreasingTimesError is returned when waypoint times are not strictly increasing.
func NewNonIncreasingTimesError(index int, previous, current float64) error {
	return errors.Errorf("waypoint times must be strictly increasing, time %d (%v) does not follow %v", index, current, previous)
}

// NewBoundaryVelocityCountError is returned when the boundary velocities are not exactly a start
// and an end velocity.
func NewBoundaryVelocityCountError(count int) error {
	return errors.Errorf("expected 2 boundary velocities, got %d", count)
}

// NewInvalidPoseError wraps the reason why the waypoint at index is not a rigid transform.
func NewInvalidPoseError(index int, err error) error {
	return errors.Wrapf(err, "waypoint %d is not a valid pose", index)
}
