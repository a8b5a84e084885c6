package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	log "github.com/sirupsen/logrus"
)

// ValuationEstimate is the machine-built estimate handed to the model for a
// sanity pass, and the shape the model must answer in.
type ValuationEstimate struct {
	EstimatedValue float64 `json:"estimated_value"`
	MonthlyRent    float64 `json:"monthly_rent"`
	Confidence     string  `json:"confidence"` // low, medium, high
	Rationale      string  `json:"rationale,omitempty"`
}

const curationSystem = `You are a UK residential property analyst. You review
machine-generated valuation estimates against the evidence provided and adjust
them only when the evidence clearly contradicts them. Respond with JSON only:
{"estimated_value": number, "monthly_rent": number, "confidence": "low"|"medium"|"high", "rationale": string}`

// CurateEstimate asks the provider to review an estimate against local market
// evidence. Any failure (no provider, transport error, unusable JSON,
// implausible numbers) returns the original estimate unchanged with
// curated=false. Curation can refine a report, never break one.
func CurateEstimate(ctx context.Context, provider Provider, estimate ValuationEstimate, evidence string) (ValuationEstimate, bool) {
	if provider == nil {
		return estimate, false
	}

	prompt := fmt.Sprintf(
		"Estimate under review:\n%s\n\nLocal market evidence:\n%s\n\nReturn the reviewed estimate as JSON.",
		mustJSON(estimate), evidence)

	raw, err := provider.GenerateResponse(ctx, prompt, curationSystem, map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			log.Warnf("[LLM] curation call failed: %v", err)
		}
		return estimate, false
	}

	var curated ValuationEstimate
	if err := parseModelJSON(raw, &curated); err != nil {
		log.Warnf("[LLM] curation output unusable: %v", err)
		return estimate, false
	}

	// Reject implausible revisions: a curated value must stay positive and
	// within 3x of the deterministic estimate in either direction.
	if curated.EstimatedValue <= 0 ||
		(estimate.EstimatedValue > 0 &&
			(curated.EstimatedValue > estimate.EstimatedValue*3 ||
				curated.EstimatedValue < estimate.EstimatedValue/3)) {
		log.Warnf("[LLM] curated value %v rejected against estimate %v",
			curated.EstimatedValue, estimate.EstimatedValue)
		return estimate, false
	}
	if curated.MonthlyRent <= 0 {
		curated.MonthlyRent = estimate.MonthlyRent
	}
	if curated.Confidence == "" {
		curated.Confidence = estimate.Confidence
	}
	return curated, true
}

// parseModelJSON decodes model output, tolerating markdown fences and the
// usual LLM JSON defects. Strategies in order: strict decode, json-repair,
// hjson.
func parseModelJSON(raw string, v interface{}) error {
	cleaned := stripCodeFence(raw)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}
	if repaired, err := jsonrepair.RepairJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}
	if err := hjson.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}
	return fmt.Errorf("no parsing strategy accepted the model output")
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
