package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Twist is an element of se(3). It is used both as a spatial velocity and as a tangent space coordinate
// (the output of Log); the type does not track which, callers do.
type Twist struct {
	Angular r3.Vector `json:"angular"`
	Linear  r3.Vector `json:"linear"`
}

// NewTwistFromArray builds a twist from [wx, wy, wz, vx, vy, vz].
func NewTwistFromArray(a [6]float64) Twist {
	return Twist{
		Angular: r3.Vector{X: a[0], Y: a[1], Z: a[2]},
		Linear:  r3.Vector{X: a[3], Y: a[4], Z: a[5]},
	}
}

// Array returns the twist as [wx, wy, wz, vx, vy, vz].
func (tw Twist) Array() [6]float64 {
	return [6]float64{tw.Angular.X, tw.Angular.Y, tw.Angular.Z, tw.Linear.X, tw.Linear.Y, tw.Linear.Z}
}

// Add returns tw + o.
func (tw Twist) Add(o Twist) Twist {
	return Twist{Angular: tw.Angular.Add(o.Angular), Linear: tw.Linear.Add(o.Linear)}
}

// Sub returns tw - o.
func (tw Twist) Sub(o Twist) Twist {
	return Twist{Angular: tw.Angular.Sub(o.Angular), Linear: tw.Linear.Sub(o.Linear)}
}

// Mul returns tw scaled by s.
func (tw Twist) Mul(s float64) Twist {
	return Twist{Angular: tw.Angular.Mul(s), Linear: tw.Linear.Mul(s)}
}

// Norm returns the euclidean norm of the six components.
func (tw Twist) Norm() float64 {
	return math.Sqrt(tw.Angular.Norm2() + tw.Linear.Norm2())
}

// IsZero returns whether every component is exactly zero.
func (tw Twist) IsZero() bool {
	return tw == Twist{}
}

// AlmostEqual returns whether every component of tw and o differs by at most tol.
func (tw Twist) AlmostEqual(o Twist, tol float64) bool {
	a, b := tw.Array(), o.Array()
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// ChangeReference re-expresses the twist in the frame of p by rotating both parts with p's rotation.
// The translation of p is not used: linear parts are velocities of the frame origin, not screw moments.
func (tw Twist) ChangeReference(p Pose) Twist {
	return Twist{Angular: rotate(p.Rotation, tw.Angular), Linear: rotate(p.Rotation, tw.Linear)}
}
