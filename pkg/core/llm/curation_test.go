package llm

import (
	"context"
	"errors"
	"testing"
)

type scriptedProvider struct {
	response string
	err      error
}

func (p *scriptedProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return p.response, p.err
}

var baseEstimate = ValuationEstimate{
	EstimatedValue: 250000,
	MonthlyRent:    1100,
	Confidence:     "medium",
}

func TestCurateEstimateAcceptsCleanJSON(t *testing.T) {
	p := &scriptedProvider{response: `{"estimated_value": 240000, "monthly_rent": 1150, "confidence": "high", "rationale": "comparables support a small discount"}`}
	got, curated := CurateEstimate(context.Background(), p, baseEstimate, "evidence")
	if !curated {
		t.Fatal("expected curation to apply")
	}
	if got.EstimatedValue != 240000 || got.Confidence != "high" {
		t.Errorf("curated = %+v", got)
	}
}

func TestCurateEstimateRepairsFencedJSON(t *testing.T) {
	p := &scriptedProvider{response: "```json\n{'estimated_value': 260000, 'monthly_rent': 1200, 'confidence': 'medium',}\n```"}
	got, curated := CurateEstimate(context.Background(), p, baseEstimate, "evidence")
	if !curated {
		t.Fatal("expected repaired JSON to be accepted")
	}
	if got.EstimatedValue != 260000 {
		t.Errorf("EstimatedValue = %v, want 260000", got.EstimatedValue)
	}
}

func TestCurateEstimateKeepsOriginalOnFailure(t *testing.T) {
	cases := map[string]*scriptedProvider{
		"provider error":    {err: errors.New("timeout")},
		"unavailable":       {err: ErrUnavailable},
		"garbage output":    {response: "I think the house is nice"},
		"implausible value": {response: `{"estimated_value": 9000000, "monthly_rent": 1000, "confidence": "high"}`},
		"negative value":    {response: `{"estimated_value": -5, "monthly_rent": 1000, "confidence": "high"}`},
	}
	for name, p := range cases {
		got, curated := CurateEstimate(context.Background(), p, baseEstimate, "evidence")
		if curated {
			t.Errorf("%s: curation should have been rejected", name)
		}
		if got != baseEstimate {
			t.Errorf("%s: estimate mutated to %+v", name, got)
		}
	}
}

func TestCurateEstimateBackfillsMissingFields(t *testing.T) {
	p := &scriptedProvider{response: `{"estimated_value": 255000}`}
	got, curated := CurateEstimate(context.Background(), p, baseEstimate, "evidence")
	if !curated {
		t.Fatal("expected curation to apply")
	}
	if got.MonthlyRent != baseEstimate.MonthlyRent || got.Confidence != baseEstimate.Confidence {
		t.Errorf("missing fields not backfilled: %+v", got)
	}
}

func TestNoopProviderUnavailable(t *testing.T) {
	_, err := (&NoopProvider{}).GenerateResponse(context.Background(), "p", "s", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
