package util

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")

	// Provider-side failures. These never cross the HTTP boundary; the
	// narrative gateway degrades to the deterministic generators instead.
	ErrUpstreamUnavailable = errors.New("ai provider unavailable")
	ErrMalformedResponse   = errors.New("malformed ai provider response")
)
