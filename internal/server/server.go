// Package server exposes the projection and milestone detection over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/config"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/rgehrsitz/horizon/internal/milestone"
	"github.com/valyala/fasthttp"
)

// Server handles simulation requests. Engine and detector are shared across
// requests; neither keeps per-request state.
type Server struct {
	engine   *calculation.Engine
	detector *milestone.Detector
	parser   *config.InputParser
	logger   calculation.Logger
	settings config.ServerSettings
}

// New creates a server. A nil logger discards output.
func New(engine *calculation.Engine, detector *milestone.Detector, settings config.ServerSettings, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{
		engine:   engine,
		detector: detector,
		parser:   config.NewInputParser(),
		logger:   logger,
		settings: settings,
	}
}

// Handler routes requests
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())
	switch path {
	case "/healthz":
		if !ctx.IsGet() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed", nil)
			break
		}
		s.writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/v1/simulate":
		if !ctx.IsPost() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed", nil)
			break
		}
		s.handleSimulate(ctx)
	case "/v1/milestones":
		if !ctx.IsPost() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed", nil)
			break
		}
		s.handleMilestones(ctx)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "not found", nil)
	}
	s.logger.Debugf("%s %s -> %d in %s", ctx.Method(), path, ctx.Response.StatusCode(), time.Since(start))
}

func (s *Server) handleSimulate(ctx *fasthttp.RequestCtx) {
	_, result, ok := s.run(ctx)
	if !ok {
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, SimulateResponse{Result: result})
}

func (s *Server) handleMilestones(ctx *fasthttp.RequestCtx) {
	cfg, result, ok := s.run(ctx)
	if !ok {
		return
	}
	detection := s.detector.Detect(ctx, milestone.InputFromResult(*cfg, result))
	s.writeJSON(ctx, fasthttp.StatusOK, MilestonesResponse{
		Milestones: detection.Milestones,
		Errors:     detection.Errors,
		Warnings:   detection.Warnings,
		FinalState: result.Final(),
	})
}

// run parses, validates and simulates the request body, writing the error
// response itself when any step fails
func (s *Server) run(ctx *fasthttp.RequestCtx) (*domain.SimulationConfiguration, *domain.SimulationResult, bool) {
	cfg, err := s.parser.Parse(ctx.PostBody(), config.FormatJSON)
	if err != nil {
		fields := config.ValidationErrors(err)
		if len(fields) == 0 {
			s.writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error(), nil)
			return nil, nil, false
		}
		out := make([]FieldError, 0, len(fields))
		for _, f := range fields {
			out = append(out, FieldError{Field: f.Field, Message: f.Message})
		}
		s.writeError(ctx, fasthttp.StatusUnprocessableEntity, "configuration validation failed", out)
		return nil, nil, false
	}

	result, err := s.engine.Run(ctx, *cfg)
	if err != nil {
		s.logger.Errorf("simulation failed: %v", err)
		s.writeError(ctx, fasthttp.StatusInternalServerError, "simulation failed: "+err.Error(), nil)
		return nil, nil, false
	}
	return cfg, result, true
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Errorf("failed to encode response: %v", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, message string, fields []FieldError) {
	s.writeJSON(ctx, status, ErrorResponse{Status: status, Message: message, Errors: fields})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "horizon",
		ReadTimeout:        s.settings.ReadTimeout,
		WriteTimeout:       s.settings.WriteTimeout,
		MaxRequestBodySize: s.settings.MaxBodyBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", s.settings.Addr)
		errCh <- srv.ListenAndServe(s.settings.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Infof("shutting down")
		if err := srv.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
