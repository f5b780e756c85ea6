package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/uldpack/pkg/errors"
	"github.com/matzehuels/uldpack/pkg/metrics"
	"github.com/matzehuels/uldpack/pkg/pack"
	"github.com/matzehuels/uldpack/pkg/pipeline"
)

// SolveRequest is the body of POST /api.
type SolveRequest struct {
	Packages []pack.Package `json:"packages"`
	ULDs     []pack.ULD     `json:"ulds"`
	Seed     int64          `json:"seed,omitempty"`
	Params   *pack.Params   `json:"params,omitempty"`
	// Mock short-circuits the solver and returns the configured sample
	// solution. Smoke-testing aid for frontend development.
	Mock bool `json:"mock,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	if req.Mock {
		s.handleMock(w, r)
		return
	}

	opts := pipeline.Options{
		Packages: req.Packages,
		ULDs:     req.ULDs,
		Seed:     req.Seed,
		Logger:   s.logger,
	}
	if req.Params != nil {
		opts.Params = *req.Params
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var req metrics.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"moi":                metrics.MomentOfInertia(req),
		"count":              len(req.Packages),
		"utilization":        metrics.VolumeUtilization(req),
		"weight_utilization": metrics.WeightUtilization(req),
		"stability":          metrics.Stability(req),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses: validation
// failures are the caller's fault (400), missing resources are 404, and
// everything else is ours (500).
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPackage,
		errors.ErrCodeInvalidULD, errors.ErrCodeInvalidParams:
		status = http.StatusBadRequest
	case errors.ErrCodeFileNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]any{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
