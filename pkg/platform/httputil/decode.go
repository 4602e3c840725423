package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "locreg/pkg/domain-errors"
)

var errTrailingData = errors.New("unexpected data after JSON body")

// Request hooks, each optional. PrepareRequest runs them in the order
// Sanitize, Normalize, Validate.
type (
	Sanitizable  interface{ Sanitize() }
	Normalizable interface{ Normalize() }
	Validatable  interface{ Validate() error }
)

func PrepareRequest(req any) error {
	if hook, ok := req.(Sanitizable); ok {
		hook.Sanitize()
	}
	if hook, ok := req.(Normalizable); ok {
		hook.Normalize()
	}
	if hook, ok := req.(Validatable); ok {
		return hook.Validate()
	}
	return nil
}

// DecodeJSON reads exactly one JSON value into a new T. On failure the
// reply is already written: 413 past the body limit, 400 otherwise.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	if err := decodeOne(r.Body, req); err != nil {
		logger.WarnContext(ctx, "request body rejected", "error", err, "request_id", requestID)
		writeDecodeFailure(w, err)
		return nil, false
	}
	return req, true
}

func decodeOne(body io.Reader, into any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(into); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

func writeDecodeFailure(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:            "payload_too_large",
			ErrorDescription: "request body exceeds the size limit",
		})
	case errors.Is(err, io.EOF):
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is required"))
	default:
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
	}
}

// DecodeAndPrepare is DecodeJSON followed by PrepareRequest. A hook error
// without a domain code is reported as a validation error.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}
	if err := PrepareRequest(req); err != nil {
		logger.WarnContext(ctx, "request failed validation", "error", err, "request_id", requestID)
		if _, coded := dErrors.CodeOf(err); !coded {
			err = dErrors.New(dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

// DecodeOptional accepts a missing body as a zero T, skipping the hooks.
func DecodeOptional[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	if r.ContentLength == 0 {
		return new(T), true
	}
	return DecodeAndPrepare[T](w, r, logger, ctx, requestID)
}
