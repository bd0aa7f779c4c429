package ml

import (
	"context"
	"fmt"
	"time"

	"shipment-predictor/internal/features"

	"github.com/go-resty/resty/v2"
)

// RemoteClassifier calls an external model server over HTTP.
type RemoteClassifier struct {
	url  string
	rest *resty.Client
}

// ProbaRequest is the body sent to a model server and to the inference
// script: the aligned row with its column names.
type ProbaRequest struct {
	Columns  []string  `json:"columns"`
	Features []float64 `json:"features"`
}

// ProbaResponse is what a model server or the inference script returns.
type ProbaResponse struct {
	Probabilities []float64 `json:"probabilities"`
	Error         string    `json:"error,omitempty"`
}

func NewRemoteClassifier(url string, timeout time.Duration) *RemoteClassifier {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second)
	}
	r.SetHeader("Accept", "application/json")
	return &RemoteClassifier{url: url, rest: r}
}

func (c *RemoteClassifier) PredictProba(ctx context.Context, row features.Row) ([]float64, error) {
	out := &ProbaResponse{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(ProbaRequest{Columns: row.Columns, Features: row.Values}).
		SetResult(out).
		SetError(out).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("model server request failed: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("model server: %s", out.Error)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("model server returned %s", resp.Status())
	}
	return out.Probabilities, nil
}
