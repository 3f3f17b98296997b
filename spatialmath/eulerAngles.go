package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// EulerAngles are three angles (in radians) used to represent the rotation of an object in 3D Euclidean space.
// The Tait–Bryan angle formalism is used, with rotations around (z, y', x”) in that order.
// Euler angles are terrible, don't use them except to read waypoints written by people.
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// RotationMatrix returns Rz(yaw) * Ry(pitch) * Rx(roll).
func (ea *EulerAngles) RotationMatrix() mgl64.Mat3 {
	return mgl64.Rotate3DZ(ea.Yaw).Mul3(mgl64.Rotate3DY(ea.Pitch)).Mul3(mgl64.Rotate3DX(ea.Roll))
}

// NewPoseFromEuler builds a pose from a translation and roll, pitch, yaw angles.
func NewPoseFromEuler(pt r3.Vector, ea *EulerAngles) Pose {
	return Pose{Rotation: ea.RotationMatrix(), Translation: pt}
}

// EulerAngles returns the rotation of the pose as roll, pitch, yaw.
func (p Pose) EulerAngles() *EulerAngles {
	m := p.Rotation
	sy := math.Sqrt(m.At(0, 0)*m.At(0, 0) + m.At(1, 0)*m.At(1, 0))
	if sy < 1e-6 {
		// gimbal lock, yaw is folded into roll
		return &EulerAngles{
			Roll:  math.Atan2(-m.At(1, 2), m.At(1, 1)),
			Pitch: math.Atan2(-m.At(2, 0), sy),
			Yaw:   0,
		}
	}
	return &EulerAngles{
		Roll:  math.Atan2(m.At(2, 1), m.At(2, 2)),
		Pitch: math.Atan2(-m.At(2, 0), sy),
		Yaw:   math.Atan2(m.At(1, 0), m.At(0, 0)),
	}
}
