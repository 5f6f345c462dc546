// Package server implements the compile-as-a-service HTTP API used by CI
// pipelines: post a policy document, get back the compiled rule list. The
// service is stateless; every request is one pure compilation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"grimm.is/wafplan/internal/brand"
	"grimm.is/wafplan/internal/config"
	"grimm.is/wafplan/internal/deploy"
	"grimm.is/wafplan/internal/logging"
	"grimm.is/wafplan/internal/metrics"
	"grimm.is/wafplan/internal/waf"
)

// Documents beyond this size are rejected outright; a legitimate policy
// document is a few kilobytes.
const maxBodySize = 1 << 20

// Server serves the compile API.
type Server struct {
	logger  *logging.Logger
	metrics *metrics.Registry
	httpSrv *http.Server
}

// New creates a Server.
func New(logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{
		logger:  logger.WithComponent("server"),
		metrics: metrics.Get(),
	}
}

// Routes returns the handler tree, exposed separately for tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/compile", s.handleCompile)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// ListenAndServe runs the API until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type compileResponse struct {
	Policy   json.RawMessage `json:"policy"`
	Warnings []string        `json:"warnings,omitempty"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, http.StatusMethodNotAllowed, "POST only", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "failed to read body", nil)
		return
	}
	if len(body) > maxBodySize {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "document too large", nil)
		return
	}

	start := time.Now()
	doc, err := config.Load(body, r.URL.Query().Get("filename"))
	if err != nil {
		s.metrics.CompilesTotal.WithLabelValues("parse_error").Inc()
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	verrs := doc.Validate()
	if verrs.HasErrors() {
		details := make([]string, 0, len(verrs))
		for _, e := range verrs {
			details = append(details, e.Error())
		}
		s.metrics.CompilesTotal.WithLabelValues("invalid").Inc()
		s.writeError(w, r, http.StatusUnprocessableEntity, "policy document invalid", details)
		return
	}

	in, err := doc.ToInput()
	if err != nil {
		s.metrics.CompilesTotal.WithLabelValues("invalid").Inc()
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	policy, err := waf.Compile(in)
	if err != nil {
		s.metrics.CompilesTotal.WithLabelValues("compile_error").Inc()
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	s.metrics.CompileDuration.Observe(time.Since(start).Seconds())
	s.metrics.CompilesTotal.WithLabelValues("ok").Inc()
	s.metrics.RulesEmitted.Observe(float64(len(policy.Rules)))

	rendered, err := deploy.RenderJSON(policy)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	resp := compileResponse{Policy: rendered}
	for _, warning := range verrs.Warnings() {
		resp.Warnings = append(resp.Warnings, warning.Error())
	}
	s.writeJSON(w, r, http.StatusOK, resp)

	s.logger.Info("compiled",
		"policy", policy.Name,
		"scope", string(policy.Scope),
		"rules", len(policy.Rules))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": brand.LowerName,
		"version": brand.Version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	s.metrics.Requests.WithLabelValues(r.URL.Path, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, msg string, details []string) {
	s.writeJSON(w, r, code, errorResponse{Error: msg, Details: details})
}
