// Package common defines shared constants and sentinel errors used across
// the gateway layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// repository / store specific errors
	ErrorNotFound   = errors.New("not found")
	ErrorValidation = errors.New("validation error")

	// content scan errors; covers source enumeration failures only,
	// per-file processing failures are contained inside the scan
	ErrorScanFailed = errors.New("content scan failed")

	// ledger specific errors; a declined deduction is reported as a
	// boolean, not an error
	ErrorInvalidProof    = errors.New("invalid payment proof")
	ErrorAlreadyConsumed = errors.New("payment proof already consumed")

	// gate specific errors
	ErrorPaymentRejected = errors.New("payment rejected")

	// auth errors (invalid or malformed token)
	ErrorInvalidToken = errors.New("invalid token")
)
