// Package httputil renders JSON replies and maps domain error codes onto
// HTTP statuses.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
	"locreg/pkg/requestcontext"
)

// WriteJSON sends response with status. Encoding failures after the header
// is written cannot be reported and are dropped.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // status already sent
}

// ErrorResponse is the body of every error reply. Reason names the LOC rule
// that rejected the request, when there is one.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

type httpMapping struct {
	status int
	label  string
}

var internalMapping = httpMapping{http.StatusInternalServerError, "internal_error"}

var mappings = map[dErrors.Code]httpMapping{
	dErrors.CodeNotFound:           {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:         {http.StatusBadRequest, "bad_request"},
	dErrors.CodeInvalidInput:       {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:         {http.StatusBadRequest, "validation_error"},
	dErrors.CodeInvariantViolation: {http.StatusBadRequest, "validation_error"},
	dErrors.CodeConflict:           {http.StatusConflict, "conflict"},
	dErrors.CodeUnauthorized:       {http.StatusUnauthorized, "unauthorized"},
	dErrors.CodeForbidden:          {http.StatusForbidden, "forbidden"},
	dErrors.CodeTimeout:            {http.StatusGatewayTimeout, "timeout"},
	dErrors.CodeUnavailable:        {http.StatusServiceUnavailable, "unavailable"},
	dErrors.CodeInternal:           internalMapping,
}

func mappingFor(code dErrors.Code) httpMapping {
	if m, ok := mappings[code]; ok {
		return m
	}
	return internalMapping
}

// StatusFor returns the HTTP status for a domain code; unknown codes are 500.
func StatusFor(code dErrors.Code) int { return mappingFor(code).status }

// WriteError renders err. Errors without a domain code and internal errors
// are sent without their message.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, internalMapping.status, ErrorResponse{Error: internalMapping.label})
		return
	}
	m := mappingFor(domainErr.Code)
	resp := ErrorResponse{Error: m.label, Reason: dErrors.ReasonOf(err)}
	if m.status != http.StatusInternalServerError {
		resp.ErrorDescription = domainErr.Message
	}
	WriteJSON(w, m.status, resp)
}

// RequireCaller returns the account RequireAuth put on ctx. A missing caller
// behind the auth middleware is a wiring bug and reported as internal.
func RequireCaller(ctx context.Context, logger *slog.Logger, requestID string) (id.AccountID, error) {
	if caller := requestcontext.Caller(ctx); !caller.IsNil() {
		return caller, nil
	}
	if logger != nil {
		logger.ErrorContext(ctx, "no caller on an authenticated route", "request_id", requestID)
	}
	return "", dErrors.New(dErrors.CodeInternal, "authentication context error")
}
