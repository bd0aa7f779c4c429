package ml

import (
	"context"
	"fmt"
	"time"

	"shipment-predictor/internal/features"

	"github.com/rs/zerolog/log"
)

// MetricsInterface defines metrics methods needed by the predictor
type MetricsInterface interface {
	MLPredictionsInc()
	MLFailuresInc()
	MLLatencyObserve(float64)
	MLPredictionScoresObserve(float64)
	MLTimeoutsInc()
	MLFallbackUseInc()
}

const (
	// DecisionThreshold is compared with strict greater-than: a model
	// probability of exactly 0.5 is class 0.
	DecisionThreshold = 0.5

	// Result substituted when the classifier fails.
	FallbackProbability = 0.5
	FallbackClass       = ClassOnTime
)

// Prediction is the thresholded classifier output for one row.
type Prediction struct {
	ProbOnTime float64
	Class      int
	// Fallback is set when the classifier failed and the fixed fallback
	// result was substituted; Cause holds the failure.
	Fallback bool
	Cause    error
}

type Predictor struct {
	clf     Classifier
	metrics MetricsInterface
	timeout time.Duration
}

func NewPredictor(clf Classifier) *Predictor {
	return NewPredictorWithMetrics(clf, nil, 0)
}

// NewPredictorWithMetrics creates a predictor. A zero timeout leaves the
// caller's context deadline in charge.
func NewPredictorWithMetrics(clf Classifier, metrics MetricsInterface, timeout time.Duration) *Predictor {
	return &Predictor{clf: clf, metrics: metrics, timeout: timeout}
}

// Predict never returns an error: any classifier failure yields
// probability 0.5 and class 1 with Fallback set.
func (p *Predictor) Predict(ctx context.Context, row features.Row) Prediction {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.MLLatencyObserve(time.Since(start).Seconds())
		}
	}()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	probs, err := p.call(ctx, row)
	if err == nil {
		err = checkProbabilities(probs)
	}
	if err != nil {
		log.Warn().
			Err(err).
			Int("columns", len(row.Columns)).
			Bool("deadline_exceeded", ctx.Err() == context.DeadlineExceeded).
			Msg("classifier failed, using fallback prediction")
		if p.metrics != nil {
			p.metrics.MLFailuresInc()
			p.metrics.MLFallbackUseInc()
			if ctx.Err() == context.DeadlineExceeded {
				p.metrics.MLTimeoutsInc()
			}
		}
		return Prediction{
			ProbOnTime: FallbackProbability,
			Class:      FallbackClass,
			Fallback:   true,
			Cause:      err,
		}
	}

	prob := probs[ClassOnTime]
	if p.metrics != nil {
		p.metrics.MLPredictionsInc()
		p.metrics.MLPredictionScoresObserve(prob)
	}

	log.Debug().
		Floats64("probabilities", probs).
		Msg("prediction successful")

	return Prediction{ProbOnTime: prob, Class: Threshold(prob)}
}

// call runs the classifier, turning a panic into an error.
func (p *Predictor) call(ctx context.Context, row features.Row) (probs []float64, err error) {
	if p == nil || p.clf == nil {
		return nil, fmt.Errorf("no classifier loaded")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	return p.clf.PredictProba(ctx, row)
}

// Threshold maps an on-time probability to a class.
func Threshold(prob float64) int {
	if prob > DecisionThreshold {
		return ClassOnTime
	}
	return ClassDelayed
}
