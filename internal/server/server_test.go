package server

import (
	"net"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/config"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/rgehrsitz/horizon/internal/milestone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const planJSON = `{
  "baseParameters": {
    "annualSalary": "120000",
    "taxRate": "30",
    "monthlyLivingExpenses": "3000",
    "initialCash": "20000",
    "simulationYears": 3,
    "startDate": "2025-01-01T00:00:00Z",
    "loans": [{
      "id": "car",
      "label": "Car loan",
      "principal": "10000",
      "interestRate": "5.5",
      "paymentAmount": "500",
      "paymentFrequency": "monthly"
    }]
  }
}`

func newTestServer() *Server {
	return New(calculation.NewEngine(), milestone.NewDetector(milestone.Options{}), config.ServerSettings{}, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != "" {
		req.SetBodyString(body)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}, nil)
	s.Handler(ctx)
	return ctx
}

func TestHandler_Healthz(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
}

func TestHandler_Routing(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		method, path string
		want         int
	}{
		{fasthttp.MethodPost, "/healthz", fasthttp.StatusMethodNotAllowed},
		{fasthttp.MethodGet, "/v1/simulate", fasthttp.StatusMethodNotAllowed},
		{fasthttp.MethodGet, "/v1/milestones", fasthttp.StatusMethodNotAllowed},
		{fasthttp.MethodGet, "/v2/anything", fasthttp.StatusNotFound},
	}
	for _, tt := range tests {
		ctx := do(t, s, tt.method, tt.path, "")
		assert.Equal(t, tt.want, ctx.Response.StatusCode(), "%s %s", tt.method, tt.path)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
		assert.Equal(t, tt.want, body.Status)
	}
}

func TestHandler_BadBody(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/simulate", "{")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Contains(t, body.Message, "invalid request body")
	assert.Empty(t, body.Errors)
}

func TestHandler_ValidationFailure(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/milestones", `{"baseParameters":{"simulationYears":0}}`)
	assert.Equal(t, fasthttp.StatusUnprocessableEntity, ctx.Response.StatusCode())

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "configuration validation failed", body.Message)

	var fields []string
	for _, f := range body.Errors {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "base_parameters.simulation_years")
	assert.Contains(t, fields, "base_parameters.start_date")
}

func TestHandler_Simulate(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/simulate", planJSON)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var body SimulateResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	require.NotNil(t, body.Result)
	assert.Len(t, body.Result.States, 37)
}

func TestHandler_Milestones(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/milestones", planJSON)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var body MilestonesResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Empty(t, body.Errors)
	require.NotNil(t, body.FinalState)

	var payoff *domain.Milestone
	for i := range body.Milestones {
		if body.Milestones[i].Type == domain.MilestoneLoanPayoff {
			payoff = &body.Milestones[i]
		}
	}
	require.NotNil(t, payoff, "car loan is repaid inside three years")
	assert.Equal(t, "car", payoff.LoanPayoff.LoanID)
}
