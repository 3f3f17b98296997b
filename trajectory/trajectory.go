// Package trajectory interpolates rigid body poses through timed waypoints.
//
// Waypoints are expressed relative to the first one, mapped to se(3) with the logarithm, and a
// clamped cubic spline is fit through the resulting twists. A query evaluates the spline and maps
// it back with the exponential, which yields a pose and a velocity that are continuous in time.
//
// Zefran and Kumar, Two Methods for Interpolating Rigid Body Motions, ICRA 1998 pp.2922-2927.
package trajectory

import (
	"sort"

	"go.viam.com/se3interp/logging"
	"go.viam.com/se3interp/spatialmath"
	"go.viam.com/se3interp/spline"
)

// State is the lifecycle state of a Trajectory.
type State int

const (
	// Uninitialized trajectories have never been successfully initialized.
	Uninitialized State = iota
	// Ready trajectories can be queried.
	Ready
	// Finished trajectories have been asked whether a time past their end is finished.
	// They can still be queried, and Init makes them Ready again.
	Finished
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Sample is a pose and the velocity of the moving frame at a point in time. The velocity holds the
// angular velocity and the derivative of the translation, both in the frame the waypoints are
// expressed in.
type Sample struct {
	Time     float64
	Pose     spatialmath.Pose
	Velocity spatialmath.Twist
}

// Trajectory is a smooth pose trajectory through timed waypoints.
// Init is not safe to call concurrently with Query; callers sharing a Trajectory between
// goroutines must serialize them.
type Trajectory struct {
	cfg    Config
	logger logging.Logger

	state  State
	period float64

	times         []float64
	poses         []spatialmath.Pose
	startVelocity spatialmath.Twist
	endVelocity   spatialmath.Twist
	segments      []spline.Segment

	last           Sample
	numTimesCalled int
}

// New returns an uninitialized trajectory. A nil logger discards logs.
func New(cfg Config, logger logging.Logger) *Trajectory {
	if logger == nil {
		logger = logging.NewBlankLogger("trajectory")
	}
	return &Trajectory{cfg: cfg.withDefaults(), logger: logger}
}

// InitAtRest is Init with zero start and end velocities.
func (tr *Trajectory) InitAtRest(times []float64, poses []spatialmath.Pose, period float64) error {
	return tr.Init(times, poses, []spatialmath.Twist{{}, {}}, period)
}

// Init fits the trajectory through poses at times. velocities holds the velocity at the first and at
// the last waypoint, expressed like the values Query returns. The last time is moved to the closest
// whole number of periods after the first one, so a control loop running at period ends exactly on
// the last waypoint.
// If Init fails the trajectory is left as it was.
func (tr *Trajectory) Init(times []float64, poses []spatialmath.Pose, velocities []spatialmath.Twist, period float64) error {
	if err := tr.validate(times, poses, velocities, period); err != nil {
		tr.logger.Debugw("rejected waypoints", "error", err)
		return err
	}

	n := len(times)
	knots := make([]float64, n)
	copy(knots, times)
	knots[n-1] = knots[0] + RoundToPeriod(period, times[n-1]-times[0])
	if !(knots[n-1] > knots[n-2]) {
		err := NewNonIncreasingTimesError(n-1, knots[n-2], knots[n-1])
		tr.logger.Debugw("rejected waypoints after rounding the final time", "error", err)
		return err
	}
	if knots[n-1] != times[n-1] {
		tr.logger.Infow("final time rounded to the period", "requested", times[n-1], "rounded", knots[n-1], "period", period)
	}

	waypoints := make([]spatialmath.Pose, n)
	copy(waypoints, poses)
	reference := waypoints[0]
	toReference := spatialmath.PoseInverse(reference)

	points := make([]spatialmath.Twist, n)
	for i, pose := range waypoints {
		points[i] = spatialmath.Log(spatialmath.Compose(toReference, pose))
	}
	rates := []spatialmath.Twist{
		spatialmath.DiffLog(points[0], velocities[0].ChangeReference(toReference)),
		spatialmath.DiffLog(points[n-1], velocities[1].ChangeReference(toReference)),
	}
	segments, err := spline.Solve(knots, points, rates)
	if err != nil {
		return err
	}

	tr.period = period
	tr.times = knots
	tr.poses = waypoints
	tr.startVelocity = velocities[0]
	tr.endVelocity = velocities[1]
	tr.segments = segments
	tr.last = Sample{Time: knots[0], Pose: reference, Velocity: velocities[0]}
	tr.numTimesCalled = 0
	tr.state = Ready
	tr.logger.Debugw("trajectory initialized", "waypoints", n, "start", knots[0], "end", knots[n-1])
	return nil
}

func (tr *Trajectory) validate(times []float64, poses []spatialmath.Pose, velocities []spatialmath.Twist, period float64) error {
	// written so that NaN is rejected too
	if !(period > 0) {
		return NewNonPositivePeriodError(period)
	}
	if len(times) != len(poses) {
		return NewMismatchedLengthError(len(times), len(poses))
	}
	if len(times) < 2 {
		return NewTooFewWaypointsError(len(times))
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return NewNonIncreasingTimesError(i, times[i-1], times[i])
		}
	}
	if len(velocities) != 2 {
		return NewBoundaryVelocityCountError(len(velocities))
	}
	if !tr.cfg.DisablePoseValidation {
		for i, pose := range poses {
			if err := pose.Validate(tr.cfg.ValidityEpsilon); err != nil {
				return NewInvalidPoseError(i, err)
			}
		}
	}
	return nil
}

// Query returns the pose and velocity at time t. Times before the first waypoint or after the last
// one are clamped, and the waypoints and boundary velocities given to Init are returned unchanged there.
func (tr *Trajectory) Query(t float64) (spatialmath.Pose, spatialmath.Twist, error) {
	if tr.state == Uninitialized {
		return spatialmath.Pose{}, spatialmath.Twist{}, ErrNotInitialized
	}
	tr.numTimesCalled++

	n := len(tr.times)
	eps := tr.cfg.TimeEpsilon
	var sample Sample
	switch {
	case t >= tr.times[n-1]-eps:
		sample = Sample{Time: t, Pose: tr.poses[n-1], Velocity: tr.endVelocity}
	case t <= tr.times[0]+eps:
		sample = Sample{Time: t, Pose: tr.poses[0], Velocity: tr.startVelocity}
	default:
		seg := tr.segments[tr.segmentIndex(t)]
		x, dx := seg.Evaluate(t - seg.Start)
		reference := tr.poses[0]
		sample = Sample{
			Time:     t,
			Pose:     spatialmath.Compose(reference, spatialmath.Exp(x)),
			Velocity: spatialmath.InvDiffLog(x, dx).ChangeReference(reference),
		}
	}
	tr.last = sample
	return sample.Pose, sample.Velocity, nil
}

// segmentIndex returns i such that times[i] <= t < times[i+1], clamped to a valid segment.
func (tr *Trajectory) segmentIndex(t float64) int {
	i := sort.Search(len(tr.times), func(k int) bool { return tr.times[k] > t }) - 1
	if i < 0 {
		return 0
	}
	if i >= len(tr.segments) {
		return len(tr.segments) - 1
	}
	return i
}

// IsFinished returns true if the trajectory was never initialized, or once t falls outside of its
// time span. It keeps returning true until the next successful Init.
func (tr *Trajectory) IsFinished(t float64) bool {
	if tr.state != Ready {
		return true
	}
	eps := tr.cfg.TimeEpsilon
	if t > tr.times[len(tr.times)-1]+eps || t < tr.times[0]-eps {
		tr.state = Finished
		return true
	}
	return false
}

// Sample queries the trajectory every step after its start, up to and including its end.
// The queries count towards NumTimesCalled, but the State is left as is.
func (tr *Trajectory) Sample(step float64) ([]Sample, error) {
	if tr.state == Uninitialized {
		return nil, ErrNotInitialized
	}
	if !(step > 0) {
		return nil, NewNonPositiveStepError(step)
	}
	start, end := tr.StartTime(), tr.EndTime()
	count := int((end - start + tr.cfg.TimeEpsilon) / step)
	samples := make([]Sample, 0, count)
	for k := 1; k <= count; k++ {
		t := start + float64(k)*step
		pose, velocity, err := tr.Query(t)
		if err != nil {
			return nil, err
		}
		samples = append(samples, Sample{Time: t, Pose: pose, Velocity: velocity})
	}
	return samples, nil
}

// State returns the lifecycle state of the trajectory.
func (tr *Trajectory) State() State {
	return tr.state
}

// LastSolution returns the result of the last Query, or the first waypoint if there was none.
func (tr *Trajectory) LastSolution() Sample {
	return tr.last
}

// NumTimesCalled returns the number of queries since the last successful Init.
func (tr *Trajectory) NumTimesCalled() int {
	return tr.numTimesCalled
}

// Period returns the control period given to Init.
func (tr *Trajectory) Period() float64 {
	return tr.period
}

// InitialPose returns the first waypoint, the frame the spline is expressed in.
func (tr *Trajectory) InitialPose() spatialmath.Pose {
	if len(tr.poses) == 0 {
		return spatialmath.NewZeroPose()
	}
	return tr.poses[0]
}

// FinalPose returns the last waypoint.
func (tr *Trajectory) FinalPose() spatialmath.Pose {
	if len(tr.poses) == 0 {
		return spatialmath.NewZeroPose()
	}
	return tr.poses[len(tr.poses)-1]
}

// StartTime returns the time of the first waypoint.
func (tr *Trajectory) StartTime() float64 {
	if len(tr.times) == 0 {
		return 0
	}
	return tr.times[0]
}

// EndTime returns the time of the last waypoint, after rounding to the period.
func (tr *Trajectory) EndTime() float64 {
	if len(tr.times) == 0 {
		return 0
	}
	return tr.times[len(tr.times)-1]
}

// Segments returns a copy of the spline segments, expressed relative to InitialPose.
func (tr *Trajectory) Segments() []spline.Segment {
	segments := make([]spline.Segment, len(tr.segments))
	copy(segments, tr.segments)
	return segments
}
