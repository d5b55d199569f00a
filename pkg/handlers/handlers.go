// Package handlers provides HTTP response utilities for JSON APIs.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/errmap/pkg/catalog"
	"github.com/JaimeStill/errmap/pkg/exceptions"
)

// Func is an HTTP handler that reports failures by returning an error.
type Func func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to an http.HandlerFunc. A returned error is translated by
// mapper and written as the response; fn must not have written anything in
// that case.
func Handle(mapper *exceptions.Mapper, fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			RespondMapped(w, mapper, err)
		}
	}
}

// RespondJSON writes a JSON response with the given status code and data.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes an error response with an explicit
// status. The body carries err's message unchanged and the type a catalog
// StatusError would report.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "error", err, "status", status)
	RespondJSON(w, status, exceptions.ErrorResponse{
		Error: exceptions.ErrorModel{
			Message: err.Error(),
			Type:    catalog.TypeWebApplication,
			Code:    status,
		},
	})
}

// RespondMapped translates err with mapper and writes the result.
func RespondMapped(w http.ResponseWriter, mapper *exceptions.Mapper, err error) {
	mapper.ToResponse(err).Write(w)
}
