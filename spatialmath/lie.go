package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Zefran and Kumar, Two Methods for Interpolating Rigid Body Motions, ICRA 1998 pp.2922-2927.

const (
	// ExpSmallAngle is the rotation angle (radians) under which Exp uses Taylor expansions of the cardinal functions.
	ExpSmallAngle = 0.001
	// LogEpsilon classifies the rotation of a pose as near identity or near a half turn when the sine of its angle
	// drops below it.
	LogEpsilon = 1e-4
	// HalfTurnLambda replaces the exact limit 1/pi^2 of the second order coefficient of Log near a half turn.
	// It is an empirically tuned value, not a derivation: Log is only accurate on (-pi+delta, pi-delta).
	HalfTurnLambda = 0.101
)

type logRegime int

const (
	logGeneral logRegime = iota
	logIdentity
	logHalfTurn
)

func (r logRegime) String() string {
	switch r {
	case logGeneral:
		return "general"
	case logIdentity:
		return "identity"
	case logHalfTurn:
		return "half-turn"
	default:
		return "unknown"
	}
}

// classifyLog selects the formula used by Log from the sine and cosine of the rotation angle.
func classifyLog(si, co float64) logRegime {
	if si >= LogEpsilon {
		return logGeneral
	}
	if co >= 0 {
		return logIdentity
	}
	return logHalfTurn
}

type expRegime int

const (
	expGeneral expRegime = iota
	expSmall
)

func (r expRegime) String() string {
	if r == expSmall {
		return "small-angle"
	}
	return "general"
}

func classifyExp(angle float64) expRegime {
	if angle < ExpSmallAngle {
		return expSmall
	}
	return expGeneral
}

// cardinals returns (1-cos t)/t^2, sin(t)/t and (t-sin t)/t^3.
func cardinals(t float64) (cc, sc, dsc float64) {
	switch classifyExp(t) {
	case expSmall:
		return 0.5, 1 - t*t/6, 1. / 6
	default:
		s := math.Sin(t)
		return (1 - math.Cos(t)) / (t * t), s / t, (t - s) / (t * t * t)
	}
}

// Log returns the twist X such that Exp(X) = p.
// The result is accurate for rotation angles in (-pi+delta, pi-delta). Close to a half turn the angular part is
// still correct but the linear part uses HalfTurnLambda and is only approximate.
func Log(p Pose) Twist {
	r := p.Rotation
	s := r3.Vector{
		X: r.At(2, 1) - r.At(1, 2),
		Y: r.At(0, 2) - r.At(2, 0),
		Z: r.At(1, 0) - r.At(0, 1),
	}
	si := 0.5 * s.Norm()
	co := 0.5 * (r.Trace() - 1)
	angle := math.Atan2(si, co)

	var w r3.Vector
	var lambda float64
	switch classifyLog(si, co) {
	case logIdentity:
		w = s.Mul(angle / (2*si + LogEpsilon))
		lambda = 1. / 12
	case logHalfTurn:
		w = halfTurnAxis(r, s, co).Mul(angle)
		lambda = HalfTurnLambda
	default:
		w = s.Mul(angle / (2 * si))
		lambda = 0.5 * (2*si - angle*(1+co)) / (angle * angle * si)
	}

	pt := p.Translation
	wxp := w.Cross(pt)
	v := pt.Sub(wxp.Mul(0.5)).Add(w.Cross(wxp).Mul(lambda))
	return Twist{Angular: w, Linear: v}
}

// halfTurnAxis recovers the unit rotation axis of r when its angle is close to pi, where the skew part s vanishes.
// The symmetric part of r is co*I + (1-co)*a*a^T; the axis is read from the column with the largest diagonal
// entry and its sign is taken from s.
func halfTurnAxis(r mgl64.Mat3, s r3.Vector, co float64) r3.Vector {
	k := 0
	for i := 1; i < 3; i++ {
		if r.At(i, i) > r.At(k, k) {
			k = i
		}
	}
	var a [3]float64
	a[k] = math.Sqrt(math.Max(0, (r.At(k, k)-co)/(1-co)))
	if a[k] == 0 {
		return r3.Vector{X: 1}
	}
	for j := 0; j < 3; j++ {
		if j != k {
			a[j] = (r.At(j, k) + r.At(k, j)) / (2 * (1 - co) * a[k])
		}
	}
	axis := r3.Vector{X: a[0], Y: a[1], Z: a[2]}.Normalize()
	if axis.Dot(s) < 0 {
		axis = axis.Mul(-1)
	}
	return axis
}

// Exp returns the rigid transform reached by following the twist v for unit time.
func Exp(v Twist) Pose {
	w := v.Angular
	cc, sc, dsc := cardinals(w.Norm())

	k := skew(w)
	rot := mgl64.Ident3().Add(k.Mul(sc)).Add(k.Mul3(k).Mul(cc))

	wxv := w.Cross(v.Linear)
	pt := v.Linear.Add(wxv.Mul(cc)).Add(w.Cross(wxv).Mul(dsc))
	return Pose{Rotation: rot, Translation: pt}
}
