// Package exceptions translates errors raised by catalog operations and
// storage provider I/O into HTTP error responses.
package exceptions

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/errmap/pkg/catalog"
	"github.com/JaimeStill/errmap/pkg/fileio"
)

const (
	typeBadRequest      = "BadRequestException"
	typeEntityTooLarge  = "RequestEntityTooLargeException"
	typeInternalFailure = "InternalServerError"
)

// Mapper translates errors into responses. It is safe for concurrent use.
type Mapper struct {
	hints       []string
	clientLevel slog.Level
	serverLevel slog.Level
	logger      *slog.Logger
}

// New creates a Mapper from a finalized config. A nil cfg uses defaults.
func New(cfg *Config, logger *slog.Logger) *Mapper {
	if cfg == nil {
		cfg = &Config{}
		cfg.loadDefaults()
	}

	return &Mapper{
		hints:       append([]string(nil), cfg.AccessDeniedHints...),
		clientLevel: cfg.ClientErrorLevel.SlogLevel(),
		serverLevel: cfg.ServerErrorLevel.SlogLevel(),
		logger:      logger.With("system", "exceptions"),
	}
}

// ToResponse maps err to a response whose message is err's message unchanged.
func (m *Mapper) ToResponse(err error) Response {
	status, typ := m.resolve(err)

	var msg string
	if err != nil {
		msg = err.Error()
	}

	m.log(status, typ, msg)

	return Response{
		Status: status,
		Body: ErrorResponse{
			Error: ErrorModel{
				Message: msg,
				Type:    typ,
				Code:    status,
			},
		},
	}
}

// StatusCode returns only the HTTP status err maps to.
func (m *Mapper) StatusCode(err error) int {
	status, _ := m.resolve(err)
	return status
}

func (m *Mapper) resolve(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, typeInternalFailure
	}

	// Storage SDK errors are often wrapped by catalog errors, so they are
	// checked first. Hints are matched against the provider error and its
	// causes only, never the wrappers added around it.
	if failure, ok := fileio.Inspect(err); ok {
		if fileio.AccessDenied(failure.Err, m.hints...) {
			return http.StatusForbidden, failure.Type()
		}
		if status := failure.ResponseStatus(); status != 0 {
			return status, failure.Type()
		}
	}

	if kind, ok := catalog.Classify(err); ok {
		return kind.Status, kind.Type
	}

	if status, typ := decodeFailure(err); status != 0 {
		return status, typ
	}

	if failure, ok := fileio.Inspect(err); ok {
		return http.StatusInternalServerError, failure.Type()
	}
	return http.StatusInternalServerError, typeInternalFailure
}

// decodeFailure finds request body failures in err's chain.
func decodeFailure(err error) (status int, typ string) {
	fileio.Walk(err, func(e error) bool {
		switch e.(type) {
		case *http.MaxBytesError:
			status, typ = http.StatusRequestEntityTooLarge, typeEntityTooLarge
		case *json.SyntaxError, *json.UnmarshalTypeError:
			status, typ = http.StatusBadRequest, typeBadRequest
		}
		return status == 0
	})
	return status, typ
}

func (m *Mapper) log(status int, typ, msg string) {
	level := slog.LevelDebug
	switch {
	case status >= 500:
		level = m.serverLevel
	case status >= 400:
		level = m.clientLevel
	}

	m.logger.Log(
		context.Background(),
		level,
		"exception mapped",
		"status", status,
		"type", typ,
		"error", msg,
	)
}
