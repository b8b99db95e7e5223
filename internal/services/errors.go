package services

import "errors"

// Pipeline errors. Only ErrPoolExhausted and ErrMetadataUnavailable are
// allowed to reach API callers; generation and extraction failures are
// absorbed by the fallback chain, and save-path persistence failures are
// logged and swallowed.
var (
	// ErrPoolExhausted is returned once every pooled credential has been
	// handed out and given up on.
	ErrPoolExhausted = errors.New("all API credentials exhausted")

	// ErrPoolEmpty is returned when Next is called before any credentials
	// were loaded.
	ErrPoolEmpty = errors.New("no API credentials loaded")

	// ErrMetadataUnavailable is returned for non-quota failures of the
	// video metadata API. There is no fallback data source for raw metadata.
	ErrMetadataUnavailable = errors.New("video metadata service unavailable")

	// ErrNoVideosFound is returned when a keyword search yields nothing to
	// analyze.
	ErrNoVideosFound = errors.New("no videos found for keyword")

	// ErrGenerationUnavailable marks failure of every generative provider.
	// It never escapes the chain; the static fallback absorbs it.
	ErrGenerationUnavailable = errors.New("all generative providers failed")

	// ErrMalformedOutput marks provider text that yielded no valid entries.
	ErrMalformedOutput = errors.New("generative output failed validation")

	// ErrPersistence wraps repository failures on the read path used by the
	// freshness check.
	ErrPersistence = errors.New("persistence failure")

	// ErrInsufficientCredits is returned by the ledger when a deduction
	// would take a balance below zero.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrNotFound is returned when a requested aggregate does not exist.
	ErrNotFound = errors.New("not found")
)
