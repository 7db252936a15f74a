package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoProducts is returned when a comparison is requested for an empty record set
	ErrNoProducts = errors.New("no products supplied")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrFeedFailure is returned when the product feed request fails
	ErrFeedFailure = errors.New("product feed request failed")

	// ErrFeedNotConfigured is returned when no product feed URL is configured
	ErrFeedNotConfigured = errors.New("product feed not configured")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
