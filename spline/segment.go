package spline

import "go.viam.com/se3interp/spatialmath"

// Segment is one cubic piece of a spline, valid on [Start, Start+Duration).
// At local time tau = t - Start its value is A + B*tau + C*tau^2 + D*tau^3.
type Segment struct {
	Start    float64
	Duration float64
	A        spatialmath.Twist
	B        spatialmath.Twist
	C        spatialmath.Twist
	D        spatialmath.Twist
}

// End returns the time at which the segment stops.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// Evaluate returns the value of the segment and its first derivative at local time tau.
func (s Segment) Evaluate(tau float64) (x, dx spatialmath.Twist) {
	x = s.A.Add(s.B.Add(s.C.Add(s.D.Mul(tau)).Mul(tau)).Mul(tau))
	dx = s.B.Add(s.C.Mul(2).Add(s.D.Mul(3 * tau)).Mul(tau))
	return x, dx
}

// Acceleration returns the second derivative of the segment at local time tau.
func (s Segment) Acceleration(tau float64) spatialmath.Twist {
	return s.C.Mul(2).Add(s.D.Mul(6 * tau))
}
