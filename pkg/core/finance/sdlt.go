// Package finance implements the cost and finance model: SDLT banding,
// mortgage amortization, bridging finance, cost benchmark lookup, and
// purchase/selling transaction costs. All functions are pure over the injected
// Settings; nothing here touches I/O.
package finance

import (
	"errors"
	"fmt"

	"btr_valuation/pkg/core/config"
)

// ErrUnknownBenchmark is returned when a cost benchmark key is not registered.
// This is a configuration error and is never silently defaulted.
var ErrUnknownBenchmark = errors.New("unknown cost benchmark key")

// Model exposes the cost and finance calculations over one Settings value.
// Safe for concurrent use: Settings is read-only.
type Model struct {
	Settings *config.Settings
}

// NewModel creates a finance model. A nil settings argument gets the defaults.
func NewModel(settings *config.Settings) *Model {
	if settings == nil {
		settings = config.Defaults()
	}
	return &Model{Settings: settings}
}

// Benchmark returns the £ amount registered under key.
func (m *Model) Benchmark(key string) (float64, error) {
	v, ok := m.Settings.CostBenchmarks[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBenchmark, key)
	}
	return v, nil
}

// StampDuty calculates SDLT for an investment purchase.
//
// Each band taxes only the portion of the price falling within it:
// £0-125k at 2%, £125k-250k at 5%, £250k-925k at 10%, £925k-1.5M at 12%,
// and the remainder above £1.5M at the top rate. Investment/second-home
// purchases then pay a surcharge on the FULL price (3%).
//
// For price = £130,000: 2%*125,000 + 5%*5,000 + 3%*130,000 = £6,650.
func (m *Model) StampDuty(price float64) float64 {
	return m.stampDuty(price, true)
}

// StampDutyStandard calculates SDLT without the investor surcharge.
func (m *Model) StampDutyStandard(price float64) float64 {
	return m.stampDuty(price, false)
}

func (m *Model) stampDuty(price float64, additionalProperty bool) float64 {
	if price <= 0 {
		return 0
	}
	thresholds := m.Settings.Transaction.SDLTThresholds
	rates := m.Settings.Transaction.SDLTRates

	duty := 0.0
	remaining := price
	for i := range thresholds {
		bandSize := thresholds[i]
		if i > 0 {
			bandSize = thresholds[i] - thresholds[i-1]
		}
		if remaining > bandSize {
			duty += bandSize * rates[i]
			remaining -= bandSize
		} else {
			duty += remaining * rates[i]
			remaining = 0
			break
		}
	}
	// Portion above the top threshold is taxed at the top rate.
	if remaining > 0 {
		duty += remaining * rates[len(rates)-1]
	}

	if additionalProperty {
		duty += price * m.Settings.Transaction.SDLTSurchargePct
	}
	return duty
}
