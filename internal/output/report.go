package output

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Report is everything a formatter can render for one run
type Report struct {
	Configuration domain.SimulationConfiguration  `json:"configuration"`
	Result        *domain.SimulationResult        `json:"result"`
	Detection     domain.DetectionResult          `json:"detection"`
	Retirement    *calculation.RetirementEstimate `json:"retirement,omitempty"`
	Assumptions   []string                        `json:"assumptions"`
}

// NewReport bundles a run for formatting
func NewReport(cfg domain.SimulationConfiguration, result *domain.SimulationResult, detection domain.DetectionResult) *Report {
	return &Report{
		Configuration: cfg,
		Result:        result,
		Detection:     detection,
		Assumptions:   DefaultAssumptions,
	}
}

// States returns the state series, empty when there is no result
func (r *Report) States() []domain.FinancialState {
	if r == nil || r.Result == nil {
		return nil
	}
	return r.Result.States
}

// YearlyStates samples the series at the start of each simulated year and
// always includes the final state
func (r *Report) YearlyStates() []domain.FinancialState {
	states := r.States()
	if len(states) == 0 {
		return nil
	}
	step := calculation.PeriodsPerYear(r.Configuration.BaseParameters.TimeInterval)
	var out []domain.FinancialState
	for i := 0; i < len(states); i += step {
		out = append(out, states[i])
	}
	if (len(states)-1)%step != 0 {
		out = append(out, states[len(states)-1])
	}
	return out
}

// SaveConfiguration writes a configuration back out as YAML
func SaveConfiguration(cfg *domain.SimulationConfiguration, filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

func impactString(m domain.Milestone) string {
	if m.FinancialImpact == nil {
		return ""
	}
	return FormatCurrency(*m.FinancialImpact)
}
