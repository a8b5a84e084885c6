package appraisal

import (
	"encoding/json"
	"math"
)

// ProfitResult carries +Inf in ROI when equity is zero, which encoding/json
// rejects. Serialize ROI as null in that case; ROIUndefined still tells the
// reader why.
func (p ProfitResult) MarshalJSON() ([]byte, error) {
	type alias ProfitResult
	out := struct {
		alias
		ROI *float64 `json:"ROI"`
	}{alias: alias(p)}
	if !p.ROIUndefined && !math.IsInf(p.ROI, 0) && !math.IsNaN(p.ROI) {
		out.ROI = &p.ROI
	}
	return json.Marshal(out)
}

func (s ScenarioSummary) MarshalJSON() ([]byte, error) {
	type alias ScenarioSummary
	out := struct {
		alias
		ROI *float64 `json:"roi"`
	}{alias: alias(s)}
	if !math.IsInf(s.ROI, 0) && !math.IsNaN(s.ROI) {
		out.ROI = &s.ROI
	}
	return json.Marshal(out)
}
