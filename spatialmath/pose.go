// Package spatialmath defines the rigid transform algebra used to interpolate poses in SE(3).
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// DefaultValidityEpsilon is the tolerance used when checking that a rotation block is orthonormal.
const DefaultValidityEpsilon = 1e-4

// Pose is an element of SE(3): a 3x3 rotation block and a translation.
// A Pose may temporarily hold a non orthonormal rotation while it is being built; use Validate to check it.
type Pose struct {
	Rotation    mgl64.Mat3
	Translation r3.Vector
}

// NewZeroPose returns the identity transform.
func NewZeroPose() Pose {
	return Pose{Rotation: mgl64.Ident3()}
}

// NewPose returns a pose made of the given rotation block and translation.
func NewPose(rotation mgl64.Mat3, translation r3.Vector) Pose {
	return Pose{Rotation: rotation, Translation: translation}
}

// NewPoseFromPoint returns a pure translation.
func NewPoseFromPoint(pt r3.Vector) Pose {
	return Pose{Rotation: mgl64.Ident3(), Translation: pt}
}

// NewPoseFromAxisAngle returns a pose rotated by the given axis angle and translated by pt.
func NewPoseFromAxisAngle(pt r3.Vector, aa *R4AA) Pose {
	return Pose{Rotation: aa.RotationMatrix(), Translation: pt}
}

// NewPoseFromQuaternion returns a pose whose rotation is the (normalized) quaternion q.
func NewPoseFromQuaternion(pt r3.Vector, q quat.Number) Pose {
	mq := mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}
	return Pose{Rotation: mq.Normalize().Mat4().Mat3(), Translation: pt}
}

// Point returns the translation of the pose.
func (p Pose) Point() r3.Vector {
	return p.Translation
}

// Orientation returns the rotation of the pose as a unit quaternion.
func (p Pose) Orientation() quat.Number {
	mq := mgl64.Mat4ToQuat(p.Rotation.Mat4())
	return quat.Number{Real: mq.W, Imag: mq.V[0], Jmag: mq.V[1], Kmag: mq.V[2]}
}

// AxisAngles returns the rotation of the pose in axis angle representation.
func (p Pose) AxisAngles() *R4AA {
	return QuatToR4AA(p.Orientation())
}

// IsValid reports whether the rotation block satisfies RtR = I and det(R) = 1 within eps.
func (p Pose) IsValid(eps float64) bool {
	return p.Validate(eps) == nil
}

// Validate returns an error describing why the pose is not a proper rigid transform.
func (p Pose) Validate(eps float64) error {
	for _, v := range []float64{p.Translation.X, p.Translation.Y, p.Translation.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("translation is not finite")
		}
	}
	rtr := p.Rotation.Transpose().Mul3(p.Rotation)
	if !mat3AlmostEqual(rtr, mgl64.Ident3(), eps) {
		return errors.New("rotation block is not orthonormal")
	}
	if det := p.Rotation.Det(); math.Abs(det-1) > eps {
		return errors.Errorf("rotation block determinant is %f, expected 1", det)
	}
	return nil
}

// Compose returns the transform a*b, i.e. b expressed in the frame a is expressed in.
func Compose(a, b Pose) Pose {
	return Pose{
		Rotation:    a.Rotation.Mul3(b.Rotation),
		Translation: a.Translation.Add(rotate(a.Rotation, b.Translation)),
	}
}

// PoseInverse returns the inverse of a rigid transform, using the transpose of its rotation block.
func PoseInverse(p Pose) Pose {
	rt := p.Rotation.Transpose()
	return Pose{Rotation: rt, Translation: rotate(rt, p.Translation).Mul(-1)}
}

// PoseBetween returns the pose that takes a to b, i.e. inv(a)*b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// PoseAlmostEqual returns whether every element of two poses differs by at most tol.
func PoseAlmostEqual(a, b Pose, tol float64) bool {
	if !mat3AlmostEqual(a.Rotation, b.Rotation, tol) {
		return false
	}
	d := a.Translation.Sub(b.Translation)
	return math.Abs(d.X) <= tol && math.Abs(d.Y) <= tol && math.Abs(d.Z) <= tol
}

// Interpolate returns the pose a fraction `by` of the way along the screw motion from a to b.
// `by` is expected in [0, 1]; values outside extrapolate along the same screw.
func Interpolate(a, b Pose, by float64) Pose {
	return Compose(a, Exp(Log(PoseBetween(a, b)).Mul(by)))
}

// mat3AlmostEqual compares element-wise absolute differences. mgl64's ApproxEqualThreshold is relative, and
// squares the threshold against zero entries.
func mat3AlmostEqual(a, b mgl64.Mat3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func rotate(m mgl64.Mat3, v r3.Vector) r3.Vector {
	w := m.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: w[0], Y: w[1], Z: w[2]}
}

// skew returns the matrix v^ such that v^ * u = v x u.
func skew(v r3.Vector) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v.Z, v.Y},
		mgl64.Vec3{v.Z, 0, -v.X},
		mgl64.Vec3{-v.Y, v.X, 0},
	)
}
