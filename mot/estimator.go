package mot

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// StateEstimator is the per-track motion model.
type StateEstimator interface {
	// Predict executes the prediction step and returns the prior position
	Predict() Point
	// Correct folds a measurement into the state and returns the posterior position.
	// A nil measurement means the object was not observed: the prior is kept as is
	Correct(measurement *Point) (Point, error)
}

// EstimatorFactory creates a StateEstimator seeded at the given position.
type EstimatorFactory func(initial Point) StateEstimator

// KalmanEstimator is a constant-velocity 2D Kalman filter over the object center.
// It implements StateEstimator interface.
type KalmanEstimator struct {
	tracker *kalman_filter.Kalman2D
	prior   Point
}

// NewKalmanEstimator creates a filter seeded at initial with time step dt (seconds)
func NewKalmanEstimator(initial Point, dt float64, params KalmanParams) *KalmanEstimator {
	kf := kalman_filter.NewKalman2D(dt, params.UX, params.UY, params.StdDevA, params.StdDevMx, params.StdDevMy, kalman_filter.WithState2D(initial.X, initial.Y))
	return &KalmanEstimator{
		tracker: kf,
		prior:   initial,
	}
}

// KalmanFactory returns an EstimatorFactory producing KalmanEstimator for a clip of given fps.
func KalmanFactory(fps float64, params KalmanParams) EstimatorFactory {
	dt := 1.0
	if fps > 0 {
		dt = 1.0 / fps
	}
	return func(initial Point) StateEstimator {
		return NewKalmanEstimator(initial, dt, params)
	}
}

// Predict execute Kalman filter's first step but without re-evaluating state vector based on Kalman gain
func (estimator *KalmanEstimator) Predict() Point {
	estimator.tracker.Predict()
	stateX, stateY := estimator.tracker.GetState()
	estimator.prior = Point{X: stateX, Y: stateY}
	return estimator.prior
}

// Correct execute Kalman filter's second step (evalute state vector based on Kalman gain)
func (estimator *KalmanEstimator) Correct(measurement *Point) (Point, error) {
	if measurement == nil {
		return estimator.prior, nil
	}
	err := estimator.tracker.Update(measurement.X, measurement.Y)
	if err != nil {
		return estimator.prior, errors.Wrap(err, "Can't update object tracker")
	}
	stateX, stateY := estimator.tracker.GetState()
	return Point{X: stateX, Y: stateY}, nil
}
