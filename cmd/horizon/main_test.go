package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planYAML = `
base_parameters:
  annual_salary: 110000
  tax_rate: 30
  current_age: 59
  retirement_age: 60
  monthly_living_expenses: 3000
  initial_cash: 20000
  initial_investments: 600000
  investment_return_rate: 7
  desired_retirement_income: 20000
  simulation_years: 3
  start_date: 2025-01-01
  loans:
    - id: car
      label: Car loan
      principal: 10000
      interest_rate: 5.5
      payment_amount: 500
      payment_frequency: monthly
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCommand(t *testing.T) {
	out, _, err := execute(t, "validate", writePlan(t, planYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := strings.Replace(planYAML, "simulation_years: 3", "simulation_years: 0", 1)
	_, errOut, err := execute(t, "validate", writePlan(t, bad))
	require.Error(t, err)
	assert.Contains(t, errOut, "base_parameters.simulation_years: must be between 1 and 100")
}

func TestMilestonesCommand(t *testing.T) {
	out, _, err := execute(t, "milestones", "--all", writePlan(t, planYAML))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "Date,Type,Category,Title,Impact,ID", lines[0])
	assert.Contains(t, out, "loan_payoff")
}

func TestSimulateCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "simulate", "-f", "json", writePlan(t, planYAML))
	require.NoError(t, err)
	assert.Contains(t, out, `"states"`)
	assert.Contains(t, out, `"retirement"`)
}

func TestSimulateCommand_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "simulate", "-f", "pdf", writePlan(t, planYAML))
	assert.ErrorContains(t, err, `unknown format "pdf"`)
}

func TestRetirementCommand(t *testing.T) {
	out, _, err := execute(t, "retirement", writePlan(t, planYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "A retirement income of $20000.00 is sustainable from")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "horizon dev")
}

func TestMissingInput(t *testing.T) {
	_, _, err := execute(t, "simulate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "csv", extension("milestones-csv"))
	assert.Equal(t, "json", extension("json"))
	assert.Equal(t, "txt", extension("console"))
}
