package httpapi

import "time"

const (
	// BasePath prefixes every resource route.
	BasePath = "/api/v1"

	// DefaultMaxBodyBytes caps JSON request bodies at 10kb.
	DefaultMaxBodyBytes int64 = 10 << 10
)

// Config holds the HTTP layer settings.
type Config struct {
	// Address is the listen address, e.g. ":3001".
	Address string

	// Production hides internal error text from responses and stack traces from logs.
	Production bool

	// APIKey is the shared secret required on resource routes.
	APIKey string

	// CORSOrigin is the single origin allowed to call the API from a browser.
	CORSOrigin string

	// RateLimitWindow and RateLimitMax allow RateLimitMax requests per client
	// IP in every RateLimitWindow.
	RateLimitWindow time.Duration
	RateLimitMax    int

	// MaxBodyBytes defaults to DefaultMaxBodyBytes when zero.
	MaxBodyBytes int64
}

func (c Config) maxBodyBytes() int64 {
	if c.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return c.MaxBodyBytes
}
