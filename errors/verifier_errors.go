package errors

import (
	stderrors "errors"

	"github.com/minerva-id/SANCTUARY/dilithium"
	"github.com/minerva-id/SANCTUARY/jsonx"
)

// VerifierErrorCode represents standardized error codes for the
// verification RPC surface. The codes keep the three-tier distinction of
// the core verifier on the wire: a wrong-shape input and a forged
// signature must never collapse into the same code.
type VerifierErrorCode string

const (
	// General errors
	ErrCodeInternal VerifierErrorCode = "internal_error"

	// Validation errors (shape violations, rejected before parsing)
	ErrCodeInvalidRequest       VerifierErrorCode = "invalid_request"
	ErrCodeInvalidHex           VerifierErrorCode = "invalid_hex"
	ErrCodeInvalidPublicKeySize VerifierErrorCode = "invalid_public_key_size"
	ErrCodeInvalidSecretKeySize VerifierErrorCode = "invalid_secret_key_size"
	ErrCodeInvalidSignatureSize VerifierErrorCode = "invalid_signature_size"

	// Structural errors (right size, bytes do not parse)
	ErrCodeKeyDeserialization VerifierErrorCode = "key_deserialization_failed"

	// Hard-failure paths that cannot return a boolean
	ErrCodeSignatureVerification VerifierErrorCode = "signature_verification_failed"

	// System errors
	ErrCodeRateLimited VerifierErrorCode = "rate_limited"
)

// VerifierError is the standardized error body returned by the RPC
// surface.
type VerifierError struct {
	Code    VerifierErrorCode `json:"code"`
	Message string            `json:"message"`
}

// Error implements the error interface
func (e *VerifierError) Error() string {
	body, _ := jsonx.Marshal(VerifierError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(body)
}

// NewVerifierError creates a VerifierError with the given code and message
func NewVerifierError(code VerifierErrorCode, message string) *VerifierError {
	return &VerifierError{Code: code, Message: message}
}

// FromCore maps a core error (dilithium/verifier sentinel chain) to the
// wire code that preserves its tier.
func FromCore(err error) *VerifierError {
	switch {
	case stderrors.Is(err, dilithium.ErrInvalidPublicKeySize):
		return NewVerifierError(ErrCodeInvalidPublicKeySize, err.Error())
	case stderrors.Is(err, dilithium.ErrInvalidSecretKeySize):
		return NewVerifierError(ErrCodeInvalidSecretKeySize, err.Error())
	case stderrors.Is(err, dilithium.ErrInvalidSignatureSize):
		return NewVerifierError(ErrCodeInvalidSignatureSize, err.Error())
	case stderrors.Is(err, dilithium.ErrKeyDeserialization):
		return NewVerifierError(ErrCodeKeyDeserialization, err.Error())
	case stderrors.Is(err, dilithium.ErrSignatureVerificationFailed):
		return NewVerifierError(ErrCodeSignatureVerification, err.Error())
	default:
		return NewVerifierError(ErrCodeInternal, err.Error())
	}
}

// Error message constants - user-friendly and concise
const (
	ErrMsgInvalidRequest       = "Request format is invalid"
	ErrMsgInvalidHex           = "Field is not valid lowercase hex"
	ErrMsgInvalidPublicKeySize = "Public key must be exactly 1312 bytes"
	ErrMsgInvalidSignatureSize = "Signature must be exactly 2420 bytes"
	ErrMsgRateLimited          = "Too many requests, slow down"
)
