// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/calculators"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/common/metrics"
	"lifecycle-audit-workers/internal/common/validation"
	runcalculator "lifecycle-audit-workers/internal/workers/calculators/run-calculator"

	"github.com/go-chi/chi/v5"
)

const (
	maxBodyBytes = 1 << 20
	checkTimeout = 2 * time.Second
)

type handler struct {
	engine      *audit.Engine
	calculators *calculators.Registry
	schema      map[string]interface{}
	checks      map[string]CheckFunc
	logger      logger.Logger
}

// AuditRequest is the body of POST /api/v1/audits. It has the same shape as
// the validate-audit-input job variables.
type AuditRequest struct {
	AuditForm audit.AuditFormData `json:"auditForm"`
	Currency  string              `json:"currency,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) ready(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			h.logger.Warn("Readiness check failed", map[string]interface{}{
				"dependency": name,
				"error":      err.Error(),
			})
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": results})
}

func (h *handler) generateAudit(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, errors.NewAuditInputInvalidError(err.Error(), nil))
		return
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(w, errors.NewAuditInputInvalidError(fmt.Sprintf("decode body: %v", err), nil))
		return
	}
	result, err := validation.ValidateInput(raw, h.schema)
	if err != nil {
		writeError(w, errors.NewInternalError(err))
		return
	}
	if !result.Valid {
		writeError(w, errors.NewAuditInputInvalidError(strings.Join(result.GetErrorMessages(), "; "), result.Fields()))
		return
	}

	var req AuditRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.NewAuditInputInvalidError(fmt.Sprintf("decode body: %v", err), []string{"auditForm"}))
		return
	}

	results, err := h.engine.Generate(req.AuditForm, req.Currency)
	if err != nil {
		var verr *audit.ValidationError
		if stderrors.As(err, &verr) {
			writeError(w, errors.NewAuditInputInvalidError(verr.Error(), verr.Fields()))
			return
		}
		writeError(w, errors.NewAuditGenerationFailedError(err))
		return
	}

	metrics.RecordAudit(results.LeadData.BenchmarkIndustry, "api", results.OverallScore)
	writeJSON(w, http.StatusOK, results)
}

func (h *handler) listIndustries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"industries": audit.Industries()})
}

func (h *handler) listCalculators(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"calculators": h.calculators.Names()})
}

// runCalculator takes the calculator parameters as a flat JSON object of
// numbers. An empty body runs the calculator with no parameters.
func (h *handler) runCalculator(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, errors.NewCalculatorInputInvalidError(err))
		return
	}

	params := map[string]float64{}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			writeError(w, errors.NewCalculatorInputInvalidError(fmt.Errorf("decode body: %w", err)))
			return
		}
	}

	result, err := runcalculator.Run(h.calculators, name, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
