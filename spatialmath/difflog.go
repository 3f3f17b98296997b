package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// diffSmallAngle is the angle under which the derivatives of the cardinal functions use their Taylor expansion.
// It is larger than ExpSmallAngle since the closed forms divide by t^4 and t^5; the expansions keep their t^4
// terms so that both sides agree to 1e-12 there.
const diffSmallAngle = 0.1

// cardinalRates returns cc'(t)/t and dsc'(t)/t, the derivatives of (1-cos t)/t^2 and (t-sin t)/t^3 divided by t.
func cardinalRates(t float64) (a, b float64) {
	if t < diffSmallAngle {
		t2 := t * t
		t4 := t2 * t2
		return -1./12 + t2/180 - t4/6720, -1./60 + t2/1260 - t4/60480
	}
	s, c := math.Sincos(t)
	t2 := t * t
	a = (t*s - 2*(1-c)) / (t2 * t2)
	b = (t*(1-c) - 3*(t-s)) / (t2 * t2 * t)
	return a, b
}

// inverseJacobianCoeff returns the coefficient of w^2 in the inverse of I + cc*w^ + dsc*w^2.
func inverseJacobianCoeff(t float64) float64 {
	if t < diffSmallAngle {
		t2 := t * t
		return 1./12 + t2/720 + t2*t2/30240
	}
	s, c := math.Sincos(t)
	return (1 - t*s/(2*(1-c))) / (t * t)
}

// jacobian returns I + cc*w^ + dsc*w^2, the matrix that maps the rate of a rotation vector w to the angular
// velocity of exp(w^), and the translation part of a twist to the translation of its exponential.
func jacobian(w r3.Vector) mgl64.Mat3 {
	cc, _, dsc := cardinals(w.Norm())
	k := skew(w)
	return mgl64.Ident3().Add(k.Mul(cc)).Add(k.Mul3(k).Mul(dsc))
}

func inverseJacobian(w r3.Vector) mgl64.Mat3 {
	lambda := inverseJacobianCoeff(w.Norm())
	k := skew(w)
	return mgl64.Ident3().Sub(k.Mul(0.5)).Add(k.Mul3(k).Mul(lambda))
}

// jacobianRate returns d/dt(jacobian(w(t))) * v for a rotation vector moving at rate wd.
func jacobianRate(w, wd, v r3.Vector) r3.Vector {
	t := w.Norm()
	cc, _, dsc := cardinals(t)
	a, b := cardinalRates(t)
	wwd := w.Dot(wd)

	wxv := w.Cross(v)
	wdxv := wd.Cross(v)
	return wxv.Mul(a * wwd).
		Add(wdxv.Mul(cc)).
		Add(w.Cross(wxv).Mul(b * wwd)).
		Add(wd.Cross(wxv).Add(w.Cross(wdxv)).Mul(dsc))
}

// InvDiffLog converts the rate xd of a tangent coordinate x into the velocity of Exp(x): the angular velocity
// of its rotation and the derivative of its translation, both expressed in the frame x is relative to.
// It is linear in xd and reduces to the identity at x = 0.
func InvDiffLog(x, xd Twist) Twist {
	j := jacobian(x.Angular)
	return Twist{
		Angular: rotate(j, xd.Angular),
		Linear:  rotate(j, xd.Linear).Add(jacobianRate(x.Angular, xd.Angular, x.Linear)),
	}
}

// DiffLog converts a velocity at Exp(x) into the rate of the tangent coordinate x. It is the inverse of
// InvDiffLog for a fixed x.
func DiffLog(x, vel Twist) Twist {
	jinv := inverseJacobian(x.Angular)
	wd := rotate(jinv, vel.Angular)
	vd := rotate(jinv, vel.Linear.Sub(jacobianRate(x.Angular, wd, x.Linear)))
	return Twist{Angular: wd, Linear: vd}
}
