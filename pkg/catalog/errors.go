// Package catalog defines the error taxonomy of catalog operations and the
// HTTP status and wire type each error kind maps to.
package catalog

import (
	"errors"
	"net/http"
)

// Catalog errors. Wrap with fmt.Errorf("%w: ...") to add detail.
var (
	ErrNoSuchNamespace          = errors.New("namespace does not exist")
	ErrNoSuchTable              = errors.New("table does not exist")
	ErrNoSuchView               = errors.New("view does not exist")
	ErrNotFound                 = errors.New("resource not found")
	ErrAlreadyExists            = errors.New("resource already exists")
	ErrCommitFailed             = errors.New("commit failed")
	ErrDuplicateWAPCommit       = errors.New("duplicate write-audit-publish commit")
	ErrUnprocessableEntity      = errors.New("unprocessable entity")
	ErrCherrypickAncestorCommit = errors.New("cannot cherry-pick an ancestor commit")
	ErrNamespaceNotEmpty        = errors.New("namespace is not empty")
	ErrValidation               = errors.New("validation failed")
	ErrBadRequest               = errors.New("bad request")
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrNotAuthorized            = errors.New("not authorized")
	ErrForbidden                = errors.New("forbidden")
	ErrUnsupportedOperation     = errors.New("unsupported operation")
	ErrCommitStateUnknown       = errors.New("commit state unknown")
	ErrServiceFailure           = errors.New("service failure")
	ErrServiceUnavailable       = errors.New("service unavailable")
	ErrRuntimeIO                = errors.New("runtime I/O failure")
)

// Kind pairs the wire type name of an error with its HTTP status.
type Kind struct {
	Type   string
	Status int
}

type entry struct {
	err  error
	kind Kind
}

// Order matters: the first sentinel found in the chain wins.
var taxonomy = []entry{
	{ErrNoSuchNamespace, Kind{"NoSuchNamespaceException", http.StatusNotFound}},
	{ErrNoSuchTable, Kind{"NoSuchTableException", http.StatusNotFound}},
	{ErrNoSuchView, Kind{"NoSuchViewException", http.StatusNotFound}},
	{ErrNotFound, Kind{"NotFoundException", http.StatusNotFound}},
	{ErrAlreadyExists, Kind{"AlreadyExistsException", http.StatusConflict}},
	{ErrCommitFailed, Kind{"CommitFailedException", http.StatusConflict}},
	{ErrDuplicateWAPCommit, Kind{"DuplicateWAPCommitException", http.StatusConflict}},
	{ErrUnprocessableEntity, Kind{"UnprocessableEntityException", http.StatusUnprocessableEntity}},
	{ErrCherrypickAncestorCommit, Kind{"CherrypickAncestorCommitException", http.StatusBadRequest}},
	{ErrNamespaceNotEmpty, Kind{"NamespaceNotEmptyException", http.StatusBadRequest}},
	{ErrValidation, Kind{"ValidationException", http.StatusBadRequest}},
	{ErrBadRequest, Kind{"BadRequestException", http.StatusBadRequest}},
	{ErrInvalidArgument, Kind{"IllegalArgumentException", http.StatusBadRequest}},
	{ErrNotAuthorized, Kind{"NotAuthorizedException", http.StatusUnauthorized}},
	{ErrForbidden, Kind{"ForbiddenException", http.StatusForbidden}},
	{ErrUnsupportedOperation, Kind{"UnsupportedOperationException", http.StatusNotAcceptable}},
	{ErrCommitStateUnknown, Kind{"CommitStateUnknownException", http.StatusInternalServerError}},
	{ErrServiceFailure, Kind{"ServiceFailureException", http.StatusInternalServerError}},
	{ErrServiceUnavailable, Kind{"ServiceUnavailableException", http.StatusServiceUnavailable}},
	{ErrRuntimeIO, Kind{"RuntimeIOException", http.StatusServiceUnavailable}},
}

// TypeWebApplication is the wire type of errors sent with an explicit status.
const TypeWebApplication = "WebApplicationException"

// StatusError forces an explicit HTTP status for the wrapped error.
type StatusError struct {
	Status int
	Err    error
}

// WithStatus wraps err so it maps to status.
func WithStatus(status int, err error) error {
	return &StatusError{Status: status, Err: err}
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Classify reports the kind of the first catalog error in err's chain.
// A StatusError takes precedence over any sentinel it wraps. Sentinels are
// matched by identity, so custom Is methods are not consulted.
func Classify(err error) (Kind, bool) {
	chain := flatten(err)

	for _, e := range chain {
		if se, ok := e.(*StatusError); ok {
			return Kind{Type: TypeWebApplication, Status: se.Status}, true
		}
	}

	for _, t := range taxonomy {
		for _, e := range chain {
			if e == t.err {
				return t.kind, true
			}
		}
	}
	return Kind{}, false
}

// Storage SDK errors can wrap each other in a cycle, so flatten stops at a
// fixed depth and node count.
const (
	maxChainDepth = 32
	maxChainNodes = 256
)

// flatten lists err and the errors it wraps depth-first.
func flatten(err error) []error {
	var chain []error
	var visit func(error, int)
	visit = func(e error, depth int) {
		if e == nil || depth > maxChainDepth || len(chain) >= maxChainNodes {
			return
		}
		chain = append(chain, e)
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				visit(inner, depth+1)
			}
		case interface{ Unwrap() error }:
			visit(u.Unwrap(), depth+1)
		}
	}
	visit(err, 0)
	return chain
}

// MapHTTPStatus maps catalog errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if kind, ok := Classify(err); ok {
		return kind.Status
	}
	return http.StatusInternalServerError
}
