// internal/api/response.go
package api

import (
	"encoding/json"
	"net/http"

	"lifecycle-audit-workers/internal/common/errors"
)

type errorResponse struct {
	Error *errors.StandardError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	writeJSON(w, statusFor(stdErr.Code), errorResponse{Error: stdErr})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeAuditInputInvalid, errors.ErrCodeCalculatorInputInvalid:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeCalculatorNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCacheUnavailable, errors.ErrCodeDatabaseConnectionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
