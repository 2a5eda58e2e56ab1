package leadform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Wire field names, before the variant prefix is applied.
const (
	FormNameField     = "form-name"
	EstimateLowField  = "estimateLow"
	EstimateHighField = "estimateHigh"
)

// Submission is the captured lead handed to the form-collection transport.
type Submission struct {
	FormName    string   `json:"formName"`
	FieldPrefix string   `json:"fieldPrefix,omitempty"`
	Data        FormData `json:"data"`
	Estimate    Estimate `json:"estimate"`
}

// Values encodes the submission as form values: the form identifier, the
// three data fields and both estimate bounds, the latter five prefixed with
// FieldPrefix.
func (s Submission) Values() url.Values {
	values := url.Values{}
	values.Set(FormNameField, s.FormName)
	values.Set(s.FieldPrefix+string(FieldSquareFootage), s.Data.SquareFootage)
	values.Set(s.FieldPrefix+string(FieldSolarValue), s.Data.SolarValue)
	values.Set(s.FieldPrefix+string(FieldEmail), s.Data.Email)
	values.Set(s.FieldPrefix+EstimateLowField, FormatNumber(s.Estimate.Low))
	values.Set(s.FieldPrefix+EstimateHighField, FormatNumber(s.Estimate.High))
	return values
}

// Encode returns the application/x-www-form-urlencoded body.
func (s Submission) Encode() string {
	return s.Values().Encode()
}

// ParseSubmission reverses Values for the given prefix. Missing estimate
// bounds decode as zero; malformed ones are an error.
func ParseSubmission(values url.Values, prefix string) (Submission, error) {
	sub := Submission{
		FormName:    strings.TrimSpace(values.Get(FormNameField)),
		FieldPrefix: prefix,
		Data: FormData{
			SquareFootage: values.Get(prefix + string(FieldSquareFootage)),
			SolarValue:    values.Get(prefix + string(FieldSolarValue)),
			Email:         values.Get(prefix + string(FieldEmail)),
		},
	}
	var err error
	if sub.Estimate.Low, err = parseBound(values.Get(prefix + EstimateLowField)); err != nil {
		return Submission{}, fmt.Errorf("leadform: %s: %w", EstimateLowField, err)
	}
	if sub.Estimate.High, err = parseBound(values.Get(prefix + EstimateHighField)); err != nil {
		return Submission{}, fmt.Errorf("leadform: %s: %w", EstimateHighField, err)
	}
	return sub, nil
}

func parseBound(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// FormatNumber renders v with the shortest exact decimal representation
// (70.5, not 70.500000).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Adapter hands a submission to the external form-processing transport.
type Adapter interface {
	Submit(ctx context.Context, sub Submission) error
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(ctx context.Context, sub Submission) error

// Submit calls f.
func (f AdapterFunc) Submit(ctx context.Context, sub Submission) error {
	return f(ctx, sub)
}
