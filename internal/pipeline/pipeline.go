// Package pipeline runs one delivery prediction end to end: encode the
// shipment, align it to the trained schema, ask the classifier and apply
// the business-rule override.
package pipeline

import (
	"context"
	"fmt"

	"shipment-predictor/internal/features"
	"shipment-predictor/internal/ml"
	"shipment-predictor/internal/rules"
	"shipment-predictor/internal/shipment"

	"github.com/rs/zerolog/log"
)

// MetricsInterface defines the request metrics the pipeline records.
type MetricsInterface interface {
	PredictionServed(class int)
	RuleOverride(rule string)
	InputErrorInc()
}

// Result is the verdict shown to the user. Class and ProbOnTime are final;
// the Model* fields keep what the classifier said before the override.
type Result struct {
	Class      int             `json:"predicted_class"`
	ProbOnTime float64         `json:"probability_on_time"`
	ModelProb  float64         `json:"model_probability_on_time"`
	ModelClass int             `json:"model_class"`
	Fallback   bool            `json:"fallback"`
	Overridden bool            `json:"overridden"`
	Triggers   []rules.Trigger `json:"triggers,omitempty"`
}

// ProbDelayed is the complement of the displayed on-time probability.
func (r Result) ProbDelayed() float64 { return 1 - r.ProbOnTime }

// Pipeline holds the schema and predictor loaded at startup. Both are
// read-only, so one Pipeline serves every request.
type Pipeline struct {
	schema    *features.Schema
	predictor *ml.Predictor
	metrics   MetricsInterface
}

func New(schema *features.Schema, predictor *ml.Predictor, metrics MetricsInterface) *Pipeline {
	return &Pipeline{schema: schema, predictor: predictor, metrics: metrics}
}

func (p *Pipeline) Schema() *features.Schema { return p.schema }

// Run predicts one shipment. It fails only when the input cannot be
// encoded; classifier failures are absorbed by the predictor's fallback.
func (p *Pipeline) Run(ctx context.Context, in shipment.Input) (Result, error) {
	vec, err := features.Encode(in)
	if err != nil {
		if p.metrics != nil {
			p.metrics.InputErrorInc()
		}
		return Result{}, fmt.Errorf("prediction rejected: %w", err)
	}

	row := features.Align(vec, p.schema)
	pred := p.predictor.Predict(ctx, row)

	triggers := rules.Triggers(in)
	class, prob := rules.Decide(len(triggers) > 0, pred.ProbOnTime)

	res := Result{
		Class:      class,
		ProbOnTime: prob,
		ModelProb:  pred.ProbOnTime,
		ModelClass: pred.Class,
		Fallback:   pred.Fallback,
		Overridden: len(triggers) > 0,
		Triggers:   triggers,
	}

	if res.ModelClass != res.Class {
		log.Debug().
			Int("model_class", res.ModelClass).
			Int("final_class", res.Class).
			Float64("model_prob", res.ModelProb).
			Interface("triggers", triggers).
			Msg("rule override disagrees with model verdict")
	}

	if p.metrics != nil {
		p.metrics.PredictionServed(res.Class)
		for _, t := range triggers {
			p.metrics.RuleOverride(string(t))
		}
	}

	return res, nil
}

// FormatProb renders a probability with three decimals.
func FormatProb(p float64) string {
	return fmt.Sprintf("%.3f", p)
}
