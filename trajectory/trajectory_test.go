package trajectory

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/se3interp/logging"
	"go.viam.com/se3interp/spatialmath"
)

const period = 0.02

func randomVector(rnd *rand.Rand, scale float64) r3.Vector {
	return r3.Vector{X: rnd.Float64()*2 - 1, Y: rnd.Float64()*2 - 1, Z: rnd.Float64()*2 - 1}.Mul(scale)
}

func randomPose(rnd *rand.Rand) spatialmath.Pose {
	return spatialmath.Exp(spatialmath.Twist{Angular: randomVector(rnd, 0.5), Linear: randomVector(rnd, 0.5)})
}

func randomWaypoints(rnd *rand.Rand, n int) ([]float64, []spatialmath.Pose, []spatialmath.Twist) {
	times := make([]float64, n)
	poses := make([]spatialmath.Pose, n)
	for i := range times {
		times[i] = float64(i) * 0.5
		poses[i] = randomPose(rnd)
	}
	velocities := []spatialmath.Twist{
		{Angular: randomVector(rnd, 0.5), Linear: randomVector(rnd, 0.1)},
		{Angular: randomVector(rnd, 0.5), Linear: randomVector(rnd, 0.1)},
	}
	return times, poses, velocities
}

func newTestTrajectory(t *testing.T) *Trajectory {
	return New(NewDefaultConfig(), logging.NewTestLogger(t))
}

func twistAlmostEqual(t *testing.T, a, b spatialmath.Twist, tol float64) {
	t.Helper()
	ea, eb := a.Array(), b.Array()
	for i := range ea {
		test.That(t, ea[i], test.ShouldAlmostEqual, eb[i], tol)
	}
}

func TestIdentityWaypoints(t *testing.T) {
	tr := newTestTrajectory(t)
	identity := spatialmath.NewZeroPose()
	err := tr.InitAtRest([]float64{0, 1}, []spatialmath.Pose{identity, identity}, period)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tr.State(), test.ShouldEqual, Ready)

	pose, velocity, err := tr.Query(0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(pose, identity, 1e-12), test.ShouldBeTrue)
	test.That(t, velocity.Norm(), test.ShouldAlmostEqual, 0)
}

func TestBoundaryReproduction(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	times, poses, velocities := randomWaypoints(rnd, 5)
	tr := newTestTrajectory(t)
	test.That(t, tr.Init(times, poses, velocities, period), test.ShouldBeNil)

	pose, velocity, err := tr.Query(times[0])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose, test.ShouldResemble, poses[0])
	test.That(t, velocity, test.ShouldResemble, velocities[0])

	pose, velocity, err = tr.Query(times[4])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose, test.ShouldResemble, poses[4])
	test.That(t, velocity, test.ShouldResemble, velocities[1])

	// out of range queries clamp
	pose, _, err = tr.Query(-3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose, test.ShouldResemble, poses[0])
	pose, _, err = tr.Query(100)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose, test.ShouldResemble, poses[4])

	// the spline itself meets the boundary values
	const h = 2 * DefaultTimeEpsilon
	pose, velocity, err = tr.Query(times[0] + h)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(pose, poses[0], 1e-3), test.ShouldBeTrue)
	twistAlmostEqual(t, velocity, velocities[0], 1e-2)
	pose, velocity, err = tr.Query(times[4] - h)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(pose, poses[4], 1e-3), test.ShouldBeTrue)
	twistAlmostEqual(t, velocity, velocities[1], 1e-2)

	// and passes through every interior waypoint
	for i := 1; i < 4; i++ {
		pose, _, err = tr.Query(times[i])
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.PoseAlmostEqual(pose, poses[i], 1e-6), test.ShouldBeTrue)
	}
}

func TestVelocityIsPoseDerivative(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	times, poses, velocities := randomWaypoints(rnd, 4)
	tr := newTestTrajectory(t)
	test.That(t, tr.Init(times, poses, velocities, period), test.ShouldBeNil)

	const h = 1e-5
	for _, tm := range []float64{0.1, 0.37, 0.5, 0.81, 1.2, 1.44} {
		before, _, err := tr.Query(tm - h)
		test.That(t, err, test.ShouldBeNil)
		after, _, err := tr.Query(tm + h)
		test.That(t, err, test.ShouldBeNil)
		_, velocity, err := tr.Query(tm)
		test.That(t, err, test.ShouldBeNil)

		// for a rotation this small the skew part of R is the rotation vector
		spin := after.Rotation.Mul3(before.Rotation.Transpose())
		w := r3.Vector{
			X: spin.At(2, 1) - spin.At(1, 2),
			Y: spin.At(0, 2) - spin.At(2, 0),
			Z: spin.At(1, 0) - spin.At(0, 1),
		}
		numeric := spatialmath.Twist{
			Angular: w.Mul(0.5 / (2 * h)),
			Linear:  after.Translation.Sub(before.Translation).Mul(1 / (2 * h)),
		}
		twistAlmostEqual(t, velocity, numeric, 1e-5)
		test.That(t, tr.LastSolution().Time, test.ShouldEqual, tm)
	}
}

func TestRejectedInitKeepsTrajectory(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	times, poses, velocities := randomWaypoints(rnd, 3)
	tr := newTestTrajectory(t)
	test.That(t, tr.Init(times, poses, velocities, period), test.ShouldBeNil)
	poseBefore, velocityBefore, err := tr.Query(0.3)
	test.That(t, err, test.ShouldBeNil)

	err = tr.Init([]float64{0, 1, 0.5}, poses, velocities, period)
	test.That(t, err, test.ShouldBeError, NewNonIncreasingTimesError(2, 1, 0.5))

	test.That(t, tr.State(), test.ShouldEqual, Ready)
	test.That(t, tr.EndTime(), test.ShouldAlmostEqual, times[2])
	test.That(t, tr.FinalPose(), test.ShouldResemble, poses[2])
	poseAfter, velocityAfter, err := tr.Query(0.3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poseAfter, test.ShouldResemble, poseBefore)
	test.That(t, velocityAfter, test.ShouldResemble, velocityBefore)
}

func TestInitRejects(t *testing.T) {
	identity := spatialmath.NewZeroPose()
	two := []spatialmath.Pose{identity, identity}
	rest := []spatialmath.Twist{{}, {}}
	scaled := spatialmath.NewPose(identity.Rotation.Mul(2), r3.Vector{})

	for _, tc := range []struct {
		name       string
		times      []float64
		poses      []spatialmath.Pose
		velocities []spatialmath.Twist
		period     float64
		expected   error
	}{
		{"zero period", []float64{0, 1}, two, rest, 0, NewNonPositivePeriodError(0)},
		{"negative period", []float64{0, 1}, two, rest, -1, NewNonPositivePeriodError(-1)},
		{"mismatched", []float64{0, 1, 2}, two, rest, period, NewMismatchedLengthError(3, 2)},
		{"single waypoint", []float64{0}, two[:1], rest, period, NewTooFewWaypointsError(1)},
		{"repeated time", []float64{0, 0}, two, rest, period, NewNonIncreasingTimesError(1, 0, 0)},
		{"one velocity", []float64{0, 1}, two, rest[:1], period, NewBoundaryVelocityCountError(1)},
		{"three velocities", []float64{0, 1}, two, []spatialmath.Twist{{}, {}, {}}, period, NewBoundaryVelocityCountError(3)},
		{
			"invalid pose", []float64{0, 1}, []spatialmath.Pose{identity, scaled}, rest, period,
			NewInvalidPoseError(1, scaled.Validate(spatialmath.DefaultValidityEpsilon)),
		},
		// rounding the final time to a whole period makes it precede the previous waypoint
		{"rounded before previous", []float64{0, 1.1, 1.2}, []spatialmath.Pose{identity, identity, identity}, rest, 1, NewNonIncreasingTimesError(2, 1.1, 1)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestTrajectory(t)
			err := tr.Init(tc.times, tc.poses, tc.velocities, tc.period)
			test.That(t, err, test.ShouldBeError, tc.expected)
			test.That(t, tr.State(), test.ShouldEqual, Uninitialized)
			_, _, err = tr.Query(0.5)
			test.That(t, err, test.ShouldBeError, ErrNotInitialized)
		})
	}
}

func TestInitWithoutPoseValidation(t *testing.T) {
	identity := spatialmath.NewZeroPose()
	scaled := spatialmath.NewPose(identity.Rotation.Mul(1.01), r3.Vector{})
	// the zero config still validates
	tr := New(Config{}, logging.NewTestLogger(t))
	test.That(t, tr.InitAtRest([]float64{0, 1}, []spatialmath.Pose{identity, scaled}, period), test.ShouldNotBeNil)

	tr = New(Config{DisablePoseValidation: true}, logging.NewTestLogger(t))
	test.That(t, tr.InitAtRest([]float64{0, 1}, []spatialmath.Pose{identity, scaled}, period), test.ShouldBeNil)
}

func TestInitAcceptsNearlyOrthonormalPoses(t *testing.T) {
	rot := mgl64.Rotate3DZ(0.3)
	rot.Set(0, 2, rot.At(0, 2)+1e-6)
	nudged := spatialmath.NewPose(rot, r3.Vector{X: 0.1})
	tr := newTestTrajectory(t)
	test.That(t, tr.InitAtRest([]float64{0, 1}, []spatialmath.Pose{spatialmath.NewZeroPose(), nudged}, period), test.ShouldBeNil)
	test.That(t, tr.State(), test.ShouldEqual, Ready)
}

func TestNilLogger(t *testing.T) {
	tr := New(NewDefaultConfig(), nil)
	err := tr.InitAtRest([]float64{0, 1.013}, []spatialmath.Pose{spatialmath.NewZeroPose(), spatialmath.NewZeroPose()}, 0.1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tr.InitAtRest([]float64{0}, []spatialmath.Pose{spatialmath.NewZeroPose()}, 0.1), test.ShouldNotBeNil)
}

func TestFinalTimeRounding(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	tr := New(NewDefaultConfig(), logger)
	identity := spatialmath.NewZeroPose()
	final := spatialmath.NewPoseFromPoint(r3.Vector{X: 0.1})
	times := []float64{0.5, 1.013}
	test.That(t, tr.InitAtRest(times, []spatialmath.Pose{identity, final}, 0.1), test.ShouldBeNil)

	test.That(t, tr.StartTime(), test.ShouldEqual, 0.5)
	test.That(t, tr.EndTime(), test.ShouldAlmostEqual, 1.0)
	test.That(t, tr.Period(), test.ShouldEqual, 0.1)
	// the caller's slice is left alone
	test.That(t, times[1], test.ShouldEqual, 1.013)

	rounded := logs.FilterMessage("final time rounded to the period").All()
	test.That(t, rounded, test.ShouldHaveLength, 1)
	test.That(t, rounded[0].ContextMap()["requested"], test.ShouldEqual, 1.013)
	test.That(t, logs.FilterMessage("trajectory initialized").Len(), test.ShouldEqual, 1)

	pose, _, err := tr.Query(1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose, test.ShouldResemble, final)

	// already on the period, nothing to log
	test.That(t, tr.InitAtRest([]float64{0, 0.4}, []spatialmath.Pose{identity, final}, 0.1), test.ShouldBeNil)
	test.That(t, logs.FilterMessage("final time rounded to the period").Len(), test.ShouldEqual, 1)
}

func TestIsFinished(t *testing.T) {
	tr := newTestTrajectory(t)
	test.That(t, tr.IsFinished(0), test.ShouldBeTrue)
	test.That(t, tr.State(), test.ShouldEqual, Uninitialized)

	identity := spatialmath.NewZeroPose()
	test.That(t, tr.InitAtRest([]float64{0, 1}, []spatialmath.Pose{identity, identity}, period), test.ShouldBeNil)
	test.That(t, tr.IsFinished(0), test.ShouldBeFalse)
	test.That(t, tr.IsFinished(0.5), test.ShouldBeFalse)
	test.That(t, tr.IsFinished(1+DefaultTimeEpsilon/2), test.ShouldBeFalse)
	test.That(t, tr.IsFinished(-DefaultTimeEpsilon/2), test.ShouldBeFalse)
	test.That(t, tr.State(), test.ShouldEqual, Ready)

	test.That(t, tr.IsFinished(1.1), test.ShouldBeTrue)
	test.That(t, tr.State(), test.ShouldEqual, Finished)
	// finished is sticky
	test.That(t, tr.IsFinished(0.5), test.ShouldBeTrue)
	_, _, err := tr.Query(0.5)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, tr.InitAtRest([]float64{0, 1}, []spatialmath.Pose{identity, identity}, period), test.ShouldBeNil)
	test.That(t, tr.State(), test.ShouldEqual, Ready)
	test.That(t, tr.IsFinished(0.5), test.ShouldBeFalse)
	test.That(t, tr.IsFinished(-1), test.ShouldBeTrue)
}

func TestSample(t *testing.T) {
	tr := newTestTrajectory(t)
	_, err := tr.Sample(period)
	test.That(t, err, test.ShouldBeError, ErrNotInitialized)

	rnd := rand.New(rand.NewSource(4))
	times, poses, velocities := randomWaypoints(rnd, 3)
	test.That(t, tr.Init(times, poses, velocities, period), test.ShouldBeNil)

	_, err = tr.Sample(0)
	test.That(t, err, test.ShouldBeError, NewNonPositiveStepError(0))

	samples, err := tr.Sample(period)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, samples, test.ShouldHaveLength, 50)
	test.That(t, tr.NumTimesCalled(), test.ShouldEqual, 50)
	test.That(t, tr.State(), test.ShouldEqual, Ready)
	test.That(t, samples[0].Time, test.ShouldAlmostEqual, period)
	last := samples[len(samples)-1]
	test.That(t, last.Time, test.ShouldAlmostEqual, 1.0)
	test.That(t, last.Pose, test.ShouldResemble, poses[2])
	test.That(t, last.Velocity, test.ShouldResemble, velocities[1])
	test.That(t, tr.LastSolution(), test.ShouldResemble, last)

	for i := 1; i < len(samples); i++ {
		test.That(t, samples[i].Time, test.ShouldBeGreaterThan, samples[i-1].Time)
		test.That(t, samples[i].Pose.IsValid(1e-9), test.ShouldBeTrue)
	}
}

func TestSegments(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	times, poses, velocities := randomWaypoints(rnd, 4)
	tr := newTestTrajectory(t)
	test.That(t, tr.Segments(), test.ShouldBeEmpty)
	test.That(t, tr.InitialPose(), test.ShouldResemble, spatialmath.NewZeroPose())
	test.That(t, tr.Init(times, poses, velocities, period), test.ShouldBeNil)

	segments := tr.Segments()
	test.That(t, segments, test.ShouldHaveLength, 3)
	test.That(t, tr.InitialPose(), test.ShouldResemble, poses[0])
	// the spline starts at the origin of its own frame
	test.That(t, segments[0].A.Norm(), test.ShouldAlmostEqual, 0)
	for i, seg := range segments {
		test.That(t, seg.Start, test.ShouldEqual, times[i])
	}
	segments[0].Start = 42
	test.That(t, tr.Segments()[0].Start, test.ShouldEqual, times[0])
}

func TestStateString(t *testing.T) {
	test.That(t, Uninitialized.String(), test.ShouldEqual, "uninitialized")
	test.That(t, Ready.String(), test.ShouldEqual, "ready")
	test.That(t, Finished.String(), test.ShouldEqual, "finished")
	test.That(t, State(math.MaxInt8).String(), test.ShouldEqual, "unknown")
}
