package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/engine"
	apperrors "github.com/tldsweep/tldsweep/internal/errors"
	"github.com/tldsweep/tldsweep/internal/metrics"
)

const (
	// MaxSweepNames caps domain names per request so one call cannot
	// monopolize the lookup budget.
	MaxSweepNames = 50

	// MaxSweepTLDs caps TLDs per request.
	MaxSweepTLDs = 100
)

// SweepRequest is the POST /api/v1/sweep request body.
type SweepRequest struct {
	Names []string `json:"names"`
	TLDs  []string `json:"tlds,omitempty"`

	// TLDSet names a built-in or configured set; its TLDs are appended
	// to any explicit TLDs.
	TLDSet string `json:"tld_set,omitempty"`

	TimeoutMS      int  `json:"timeout_ms,omitempty"`
	Retries        *int `json:"retries,omitempty"`
	MaxConcurrency int  `json:"max_concurrency,omitempty"`
}

// SweepHandler serves unified availability sweeps over HTTP.
type SweepHandler struct {
	Checker  *engine.BatchChecker
	Defaults engine.Config

	// TLDSets holds user-defined sets resolvable by name alongside the
	// built-in ones.
	TLDSets []core.TLDSet
}

// ServeHTTP handles POST /api/v1/sweep.
func (h *SweepHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		respondWithError(w, r, apperrors.NewInternalError("Sweep checker not initialized"))
		return
	}

	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Request body is not valid JSON"))
		return
	}

	names, tlds, err := h.resolveInputs(req)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	cfg := h.Defaults
	if req.TimeoutMS > 0 {
		cfg.Timeout = time.Duration(req.TimeoutMS) * time.Millisecond
	}
	if req.Retries != nil && *req.Retries >= 0 {
		cfg.Retries = *req.Retries
	}
	if req.MaxConcurrency > 0 {
		cfg.MaxConcurrency = req.MaxConcurrency
	}

	// Tie cooperative cancellation to the request lifetime so a
	// disconnected client stops the sweep between lookups.
	token := engine.NewCancelToken()
	stop := token.BindContext(r.Context())
	defer stop()
	cfg.Token = token

	started := time.Now()
	result := h.Checker.CheckDomains(r.Context(), names, tlds, cfg)

	metrics.RecordSweep(len(names), len(tlds), result.Cancelled, time.Since(started))
	for _, domain := range result.Domains() {
		for _, check := range domain.Results {
			metrics.RecordCheck(check.TLD, string(check.Status), check.Attempts)
			if check.ErrorCategory != "" {
				check.ErrorCode = apperrors.CodeForCategory(engine.ErrorCategory(check.ErrorCategory))
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

func (h *SweepHandler) resolveInputs(req SweepRequest) ([]string, []string, error) {
	if len(req.Names) == 0 {
		return nil, nil, apperrors.NewValidationError("At least one domain name is required")
	}
	if len(req.Names) > MaxSweepNames {
		return nil, nil, apperrors.NewValidationError(
			fmt.Sprintf("Too many names: %d exceeds the limit of %d", len(req.Names), MaxSweepNames))
	}

	for _, name := range req.Names {
		if err := engine.ValidateName(name); err != nil {
			return nil, nil, apperrors.NewValidationError(
				fmt.Sprintf("Invalid domain name %q: %s", name, err.Error()))
		}
	}

	tlds := append([]string(nil), req.TLDs...)
	if req.TLDSet != "" {
		set, err := core.ResolveTLDSet(req.TLDSet, h.TLDSets)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		tlds = append(tlds, set.TLDs...)
	}

	if len(tlds) == 0 {
		return nil, nil, apperrors.NewValidationError("At least one TLD or a tld_set is required")
	}
	if len(tlds) > MaxSweepTLDs {
		return nil, nil, apperrors.NewValidationError(
			fmt.Sprintf("Too many TLDs: %d exceeds the limit of %d", len(tlds), MaxSweepTLDs))
	}

	return req.Names, tlds, nil
}
