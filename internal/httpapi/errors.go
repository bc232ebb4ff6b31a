package httpapi

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-skillsnap/auth"
	"github.com/goliatone/go-skillsnap/internal/account"
	"github.com/goliatone/go-skillsnap/repositorycache"
	"github.com/rs/zerolog"
)

// Error codes returned in the body of every non-2xx response.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidation         = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// badRequest marks a malformed request: undecodable body, bad path id.
type badRequest struct {
	msg string
}

func (e badRequest) Error() string { return e.msg }

func errBadRequest(msg string) error { return badRequest{msg: msg} }

func writeError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	status, detail := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: detail})
}

func classify(err error) (int, errorDetail) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, errorDetail{Code: CodeBadRequest, Message: br.msg}
	case errors.Is(err, repositorycache.ErrInvalid):
		return http.StatusBadRequest, errorDetail{Code: CodeValidation, Message: "validation failed", Fields: fieldErrors(err)}
	case errors.Is(err, account.ErrEmailTaken):
		return http.StatusBadRequest, errorDetail{Code: CodeEmailTaken, Message: err.Error()}
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorDetail{Code: CodeInvalidCredentials, Message: err.Error()}
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, errorDetail{Code: CodeUnauthorized, Message: "authentication required"}
	case errors.Is(err, repositorycache.ErrNotFound):
		return http.StatusNotFound, errorDetail{Code: CodeNotFound, Message: "resource not found"}
	case errors.Is(err, repositorycache.ErrConflict):
		return http.StatusConflict, errorDetail{Code: CodeConflict, Message: "resource was modified concurrently, reload and retry"}
	default:
		return http.StatusInternalServerError, errorDetail{Code: CodeInternal, Message: "internal server error"}
	}
}

func fieldErrors(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		if fieldErr != nil {
			fields[name] = fieldErr.Error()
		}
	}
	return fields
}
