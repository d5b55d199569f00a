// Package fileio inspects errors raised by storage provider SDKs (Azure Blob
// Storage, Amazon S3, Google Cloud Storage) during file I/O and extracts the
// details needed to translate them into API responses.
package fileio

import (
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
)

// Provider identifies the storage SDK that produced an error.
type Provider string

const (
	ProviderAzure Provider = "azure"
	ProviderS3    Provider = "s3"
	ProviderGCS   Provider = "gcs"
)

// Type returns the exception name reported to REST clients for the provider.
func (p Provider) Type() string {
	switch p {
	case ProviderAzure:
		return "AzureException"
	case ProviderS3:
		return "S3Exception"
	case ProviderGCS:
		return "StorageException"
	default:
		return "StorageProviderException"
	}
}

// Failure describes the first storage provider error found in an error chain.
type Failure struct {
	Provider Provider
	// StatusCode is the HTTP status the provider returned, or 0 when the error
	// carries none.
	StatusCode int
	// Code is the provider-specific error code, if any.
	Code string
	// Err is the provider error itself, not the outermost wrapper.
	Err error
}

// Type returns the exception name reported to REST clients.
func (f Failure) Type() string {
	return f.Provider.Type()
}

// ResponseStatus translates the provider status into the status the catalog
// returns to its own clients. It returns 0 when the provider status does not
// decide the outcome.
func (f Failure) ResponseStatus() int {
	switch {
	case f.StatusCode == http.StatusUnauthorized, f.StatusCode == http.StatusForbidden:
		return http.StatusForbidden
	case f.StatusCode == http.StatusNotFound, isNotFound(f.Err):
		return http.StatusNotFound
	case f.StatusCode == http.StatusTooManyRequests, f.StatusCode == http.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	case f.StatusCode >= 400 && f.StatusCode < 500:
		return http.StatusUnprocessableEntity
	case f.StatusCode >= 500 && f.StatusCode < 600:
		return http.StatusBadGateway
	default:
		return 0
	}
}

// Inspect returns the first storage provider error in err's chain.
func Inspect(err error) (Failure, bool) {
	var (
		failure Failure
		found   bool
	)

	Walk(err, func(e error) bool {
		failure, found = inspect(e)
		return !found
	})

	return failure, found
}

// IsProviderError reports whether err's chain contains a storage provider error.
func IsProviderError(err error) bool {
	_, ok := Inspect(err)
	return ok
}

// IsNotFound reports whether the first storage provider error in err's chain
// signals a missing object, blob, or bucket.
func IsNotFound(err error) bool {
	f, ok := Inspect(err)
	if !ok {
		return false
	}
	return f.StatusCode == http.StatusNotFound || isNotFound(f.Err)
}

func inspect(err error) (Failure, bool) {
	if err == storage.ErrObjectNotExist || err == storage.ErrBucketNotExist {
		return Failure{Provider: ProviderGCS, StatusCode: http.StatusNotFound, Err: err}, true
	}

	switch e := err.(type) {
	case *azcore.ResponseError:
		return Failure{
			Provider:   ProviderAzure,
			StatusCode: e.StatusCode,
			Code:       e.ErrorCode,
			Err:        e,
		}, true
	case *azidentity.AuthenticationFailedError:
		// A blob client surfaces token acquisition failures as-is.
		f := Failure{Provider: ProviderAzure, Err: e}
		if e.RawResponse != nil {
			f.StatusCode = httpStatus(e.RawResponse.StatusCode)
		}
		return f, true
	case *googleapi.Error:
		f := Failure{Provider: ProviderGCS, StatusCode: httpStatus(e.Code), Err: e}
		if len(e.Errors) > 0 {
			f.Code = e.Errors[0].Reason
		}
		return f, true
	case *apierror.APIError:
		return Failure{
			Provider:   ProviderGCS,
			StatusCode: apiErrorStatus(e),
			Code:       e.Reason(),
			Err:        e,
		}, true
	case awserr.RequestFailure:
		return Failure{
			Provider:   ProviderS3,
			StatusCode: httpStatus(e.StatusCode()),
			Code:       e.Code(),
			Err:        e,
		}, true
	case awserr.Error:
		return Failure{Provider: ProviderS3, Code: e.Code(), Err: e}, true
	}

	return Failure{}, false
}

func apiErrorStatus(e *apierror.APIError) int {
	if code := httpStatus(e.HTTPCode()); code != 0 {
		return code
	}
	if s := e.GRPCStatus(); s != nil {
		return grpcHTTPStatus(s.Code())
	}
	return 0
}

// httpStatus discards values that are not HTTP status codes. GCS errors may
// carry non-HTTP codes and apierror reports -1 for non-HTTP transports.
func httpStatus(code int) int {
	if code < 100 || code > 599 {
		return 0
	}
	return code
}
