// Package httpx holds the JSON request/response helpers shared by the
// HTTP handlers, plus the validator they all report errors through.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
)

// Request bodies over this size are rejected.
const maxBodyBytes = 1 << 20

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteServiceError maps an error chain coming out of a service to an
// HTTP status. resource names the record kind for the message text.
func WriteServiceError(w http.ResponseWriter, resource string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, docstore.ErrInvalidID):
		WriteError(w, http.StatusBadRequest, "invalid "+resource+" id")
	case errors.Is(err, docstore.ErrNotFound):
		WriteError(w, http.StatusNotFound, resource+" not found")
	case errors.As(err, &verrs):
		WriteError(w, http.StatusBadRequest, ValidationMessage(verrs))
	default:
		slog.Error("request failed", "resource", resource, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// DecodeJSON decodes a request body into v, rejecting unknown fields and
// bodies over 1 MiB.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// NewValidator builds a validator that reports fields by their json
// names, so error messages match what the caller sent.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationMessage flattens validator errors into one message line.
func ValidationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "min":
			msgs = append(msgs, field+" must have at least "+fe.Param())
		case "max":
			msgs = append(msgs, field+" must have at most "+fe.Param())
		case "gt":
			msgs = append(msgs, field+" must be greater than "+fe.Param())
		case "gte":
			msgs = append(msgs, field+" must be at least "+fe.Param())
		case "lte":
			msgs = append(msgs, field+" must be at most "+fe.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
