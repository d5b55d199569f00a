package fileio

import (
	"net/http"
	"slices"

	"cloud.google.com/go/storage"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"google.golang.org/grpc/codes"
)

// s3 HeadObject reports a missing key as "NotFound" rather than NoSuchKey.
const s3CodeNotFound = "NotFound"

var s3NotFoundCodes = []string{
	s3.ErrCodeNoSuchKey,
	s3.ErrCodeNoSuchBucket,
	s3.ErrCodeNoSuchUpload,
	s3CodeNotFound,
}

var azureNotFoundCodes = []bloberror.Code{
	bloberror.BlobNotFound,
	bloberror.ContainerNotFound,
	bloberror.ResourceNotFound,
}

// isNotFound reports whether err or anything it wraps is a provider
// not-found error. SDK errors may wrap each other in a cycle, so the chain is
// only followed through Walk.
func isNotFound(err error) bool {
	found := false
	Walk(err, func(e error) bool {
		found = notFound(e)
		return !found
	})
	return found
}

func notFound(err error) bool {
	if err == storage.ErrObjectNotExist || err == storage.ErrBucketNotExist {
		return true
	}

	switch e := err.(type) {
	case *azcore.ResponseError:
		return slices.Contains(azureNotFoundCodes, bloberror.Code(e.ErrorCode))
	case awserr.Error:
		return slices.Contains(s3NotFoundCodes, e.Code())
	}
	return false
}

func grpcHTTPStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Internal, codes.DataLoss:
		return http.StatusInternalServerError
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return 0
	}
}
