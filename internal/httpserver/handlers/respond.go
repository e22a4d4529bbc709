package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error effect.ErrorDetails `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case effect.CodeNotFound:
		return http.StatusNotFound
	case effect.CodeDuplicateID:
		return http.StatusConflict
	case effect.CodeForbidden:
		return http.StatusForbidden
	case effect.CodeBusinessRuleViolation:
		return http.StatusBadRequest
	case effect.CodeValidationError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as {"error": {...}}. Errors that are not
// ErrorDetails are reported as an opaque internal error.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var ed effect.ErrorDetails
	if !errors.As(err, &ed) {
		ed = effect.NewError("INTERNAL_ERROR", "internal server error", nil)
	}
	status := statusFor(ed.Code)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			logger.String("code", ed.Code),
			logger.String("cause", ed.Details[causeDetail]),
			logger.Error(err))
		ed = withoutCause(ed)
	}
	writeJSON(w, status, errorResponse{Error: ed})
}

// causeDetail carries the underlying error text, file paths included.
// It is logged, never sent.
const causeDetail = "cause"

func withoutCause(ed effect.ErrorDetails) effect.ErrorDetails {
	if _, ok := ed.Details[causeDetail]; !ok {
		return ed
	}
	details := make(map[string]string, len(ed.Details)-1)
	for k, v := range ed.Details {
		if k != causeDetail {
			details[k] = v
		}
	}
	ed.Details = details
	return ed
}

// decode reads a JSON body into dst and validates it. Failures come back
// as VALIDATION_ERROR with one detail per field.
func decode(w http.ResponseWriter, r *http.Request, d deps.Deps, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return effect.ValidationError("request body is required", map[string]string{"payload": "is required"})
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return effect.ValidationError("request body too large", map[string]string{"payload": "too large"})
		}
		return effect.ValidationError("invalid request body", validation.ToDetails(err))
	}
	if err := validatorOf(d).Struct(dst); err != nil {
		return effect.ValidationError("invalid request body", validation.ToDetails(err))
	}
	return nil
}

func validatorOf(d deps.Deps) *validation.Validator {
	if d.Validator != nil {
		return d.Validator
	}
	return validation.Default()
}

type deletedResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}
