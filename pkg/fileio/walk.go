package fileio

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
)

// Some SDK errors wrap each other in both directions. Depth bounds a cycle
// and the node budget bounds cycles that branch through Unwrap() []error.
const (
	maxWalkDepth = 32
	maxWalkNodes = 256
)

// AccessDeniedHints are message fragments that mark a storage provider error
// as an authorization denial. Matching is case-insensitive.
var AccessDeniedHints = []string{"access denied", "not authorized", "forbidden"}

// Walk visits err and every error it wraps depth-first, following
// Unwrap() error, Unwrap() []error, and AWS OrigErr(). It stops as soon as
// fn returns false.
func Walk(err error, fn func(error) bool) {
	budget := maxWalkNodes
	walk(err, fn, 0, &budget)
}

func walk(err error, fn func(error) bool, depth int, budget *int) bool {
	if err == nil || depth > maxWalkDepth || *budget == 0 {
		return true
	}
	*budget--
	if !fn(err) {
		return false
	}

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if !walk(inner, fn, depth+1, budget) {
				return false
			}
		}
		return true
	case interface{ Unwrap() error }:
		return walk(e.Unwrap(), fn, depth+1, budget)
	case awserr.Error:
		return walk(e.OrigErr(), fn, depth+1, budget)
	}
	return true
}

// AccessDenied reports whether any error in err's chain has a message
// containing one of AccessDeniedHints or the extra hints.
func AccessDenied(err error, extra ...string) bool {
	denied := false
	Walk(err, func(e error) bool {
		msg := strings.ToLower(e.Error())
		denied = containsAny(msg, AccessDeniedHints) || containsAny(msg, extra)
		return !denied
	})
	return denied
}

func containsAny(msg string, hints []string) bool {
	for _, hint := range hints {
		if hint == "" {
			continue
		}
		if strings.Contains(msg, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}
