// Package cryptoerr defines the sentinel error kinds shared by the AES
// engine, the CFB driver, the DER codec, PBKDF2 and the container façade.
//
// Each concrete failure is produced with fmt.Errorf("%w: ...", ErrX) and
// should be tested at call sites with errors.Is, never by comparing error
// strings.
package cryptoerr

import "errors"

var (
	// ErrInvalidParameter marks a null/undersized key, IV or salt, a
	// non-positive count, or any input failing a documented length
	// constraint.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEngineState marks use of the AES engine before initialization, or
	// an internal inconsistency detected while processing a block.
	ErrEngineState = errors.New("engine state error")

	// ErrMalformedDER marks a wrong tag, a truncated or overrunning length,
	// trailing bytes after the outer SEQUENCE, an INTEGER payload longer
	// than 4 bytes, or a container version other than 0.
	ErrMalformedDER = errors.New("malformed DER")

	// ErrCryptoFailure marks an encryption or decryption operation that
	// failed because the underlying engine reported a state error.
	ErrCryptoFailure = errors.New("crypto operation failed")

	// ErrIntegrityFailure marks a stored HMAC tag that did not match the
	// tag computed over the recovered plaintext.
	ErrIntegrityFailure = errors.New("integrity check failed")
)
