package spline

import "github.com/pkg/errors"

// NewMismatchedLengthError is returned when there are not as many times as sample points.
func NewMismatchedLengthError(times, points int) error {
	return errors.Errorf("got %d times for %d points, expected as many of each", times, points)
}

// NewTooFewPointsError is returned when a spline is requested through fewer than two points.
func NewTooFewPointsError(points int) error {
	return errors.Errorf("a spline needs at least 2 points, got %d", points)
}

// NewNonIncreasingTimesError is returned when the knot times are not strictly increasing.
func NewNonIncreasingTimesError(index int, previous, current float64) error {
	return errors.Errorf("times must be strictly increasing, time %d (%v) does not follow %v", index, current, previous)
}

// NewBoundaryRateCountError is returned when the boundary rates are not exactly a start and an end rate.
func NewBoundaryRateCountError(count int) error {
	return errors.Errorf("expected 2 boundary rates, got %d", count)
}
