// Package spline fits clamped cubic splines through twist valued samples.
//
// Every component of a twist is interpolated independently, but the tridiagonal system only
// depends on the knot times, so it is eliminated once with a twist valued right-hand side.
package spline

import "go.viam.com/se3interp/spatialmath"

// Solve fits a clamped cubic spline through points at the given times. boundaryRates holds the
// first derivative imposed at the first and at the last point. The spline is twice continuously
// differentiable; the returned slice holds one segment per interval, in time order.
// Nothing is returned if the inputs are rejected.
func Solve(times []float64, points, boundaryRates []spatialmath.Twist) ([]Segment, error) {
	if err := validate(times, points, boundaryRates); err != nil {
		return nil, err
	}
	if len(points) == 2 {
		return []Segment{hermite(times[0], times[1], points[0], points[1], boundaryRates[0], boundaryRates[1])}, nil
	}
	return solveClamped(times, points, boundaryRates[0], boundaryRates[1]), nil
}

func validate(times []float64, points, boundaryRates []spatialmath.Twist) error {
	if len(times) != len(points) {
		return NewMismatchedLengthError(len(times), len(points))
	}
	if len(points) < 2 {
		return NewTooFewPointsError(len(points))
	}
	for i := 1; i < len(times); i++ {
		// written so that NaN is rejected too
		if !(times[i] > times[i-1]) {
			return NewNonIncreasingTimesError(i, times[i-1], times[i])
		}
	}
	if len(boundaryRates) != 2 {
		return NewBoundaryRateCountError(len(boundaryRates))
	}
	return nil
}

// hermite returns the cubic through (t0, x0) and (t1, x1) with derivative xd0 at t0 and xd1 at t1.
func hermite(t0, t1 float64, x0, x1, xd0, xd1 spatialmath.Twist) Segment {
	h := t1 - t0
	slope := x1.Sub(x0).Mul(1 / h)
	return Segment{
		Start:    t0,
		Duration: h,
		A:        x0,
		B:        xd0,
		C:        slope.Mul(3).Sub(xd0.Mul(2)).Sub(xd1).Mul(1 / h),
		D:        xd0.Add(xd1).Sub(slope.Mul(2)).Mul(1 / (h * h)),
	}
}

// solveClamped solves for the second order coefficients c of
//
//	h[i-1]*c[i-1] + 2*(h[i-1]+h[i])*c[i] + h[i]*c[i+1] = alpha[i]
//
// with the clamped end rows 2*h[0]*c[0] + h[0]*c[1] and h[n-1]*c[n-1] + 2*h[n-1]*c[n], by forward
// elimination and back substitution.
func solveClamped(times []float64, x []spatialmath.Twist, rate0, rateN spatialmath.Twist) []Segment {
	n := len(x) - 1
	h := make([]float64, n)
	slopes := make([]spatialmath.Twist, n)
	for i := 0; i < n; i++ {
		h[i] = times[i+1] - times[i]
		slopes[i] = x[i+1].Sub(x[i]).Mul(1 / h[i])
	}

	alpha := make([]spatialmath.Twist, n+1)
	alpha[0] = slopes[0].Sub(rate0).Mul(3)
	for i := 1; i < n; i++ {
		alpha[i] = slopes[i].Sub(slopes[i-1]).Mul(3)
	}
	alpha[n] = rateN.Sub(slopes[n-1]).Mul(3)

	l := make([]float64, n+1)
	mu := make([]float64, n+1)
	z := make([]spatialmath.Twist, n+1)
	l[0] = 2 * h[0]
	mu[0] = 0.5
	z[0] = alpha[0].Mul(1 / l[0])
	for i := 1; i < n; i++ {
		l[i] = 2*(times[i+1]-times[i-1]) - h[i-1]*mu[i-1]
		mu[i] = h[i] / l[i]
		z[i] = alpha[i].Sub(z[i-1].Mul(h[i-1])).Mul(1 / l[i])
	}
	l[n] = h[n-1] * (2 - mu[n-1])
	z[n] = alpha[n].Sub(z[n-1].Mul(h[n-1])).Mul(1 / l[n])

	c := make([]spatialmath.Twist, n+1)
	c[n] = z[n]
	segments := make([]Segment, n)
	for j := n - 1; j >= 0; j-- {
		c[j] = z[j].Sub(c[j+1].Mul(mu[j]))
		segments[j] = Segment{
			Start:    times[j],
			Duration: h[j],
			A:        x[j],
			B:        slopes[j].Sub(c[j+1].Add(c[j].Mul(2)).Mul(h[j] / 3)),
			C:        c[j],
			D:        c[j+1].Sub(c[j]).Mul(1 / (3 * h[j])),
		}
	}
	return segments
}
