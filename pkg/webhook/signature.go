// Package webhook verifies and decodes webhook deliveries sent by the
// payment gateway.
//
// Deliveries carry a "signature" header holding the lowercase hex
// HMAC-SHA256 of the raw request body, keyed with the account's API secret
// key. Verification must run over the exact bytes received: decoding the
// JSON and re-encoding it before verifying will not reproduce the digest.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"strings"
)

// SignatureHeader is the request header carrying the payload signature.
const SignatureHeader = "signature"

var (
	// ErrSignatureAbsent is returned when no signature was supplied.
	ErrSignatureAbsent = errors.New("webhook signature absent")
	// ErrSignatureMismatch is returned when the signature does not match the payload.
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
)

// Verifier checks payload signatures. The zero value is not usable; build one
// with NewVerifier. A Verifier holds no mutable state and may be shared across
// goroutines.
type Verifier struct {
	hash    func() hash.Hash
	compare func(a, b []byte) bool
}

// VerifierOption customizes a Verifier.
type VerifierOption func(*Verifier)

// WithHash overrides the hash constructor used for the HMAC (sha256.New by default).
func WithHash(fn func() hash.Hash) VerifierOption {
	return func(v *Verifier) {
		if fn != nil {
			v.hash = fn
		}
	}
}

// WithComparer overrides the digest comparison. The replacement must be
// constant time for equal-length inputs.
func WithComparer(fn func(a, b []byte) bool) VerifierOption {
	return func(v *Verifier) {
		if fn != nil {
			v.compare = fn
		}
	}
}

// NewVerifier returns a Verifier using HMAC-SHA256 and constant-time comparison.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{
		hash:    sha256.New,
		compare: constantTimeEqual,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultVerifier = NewVerifier()

// VerifySignature reports whether signature is the hex HMAC-SHA256 of payload
// under secretKey. It returns nil on a match, ErrSignatureAbsent when the
// signature is empty and ErrSignatureMismatch otherwise.
func VerifySignature(payload []byte, signature, secretKey string) error {
	return defaultVerifier.Verify(payload, signature, secretKey)
}

// Valid is the boolean form of VerifySignature.
func Valid(payload []byte, signature, secretKey string) bool {
	return VerifySignature(payload, signature, secretKey) == nil
}

// Sign returns the hex HMAC-SHA256 of payload under secretKey.
func Sign(payload []byte, secretKey string) string {
	return defaultVerifier.Sign(payload, secretKey)
}

// Verify checks signature against the digest of payload computed with secretKey.
func (v *Verifier) Verify(payload []byte, signature, secretKey string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrSignatureAbsent
	}

	expected := v.digest(payload, secretKey)
	if !v.compare(expected, []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign returns the lowercase hex digest of payload keyed with secretKey.
func (v *Verifier) Sign(payload []byte, secretKey string) string {
	return string(v.digest(payload, secretKey))
}

func (v *Verifier) digest(payload []byte, secretKey string) []byte {
	mac := hmac.New(v.hash, []byte(secretKey))
	mac.Write(payload)
	sum := mac.Sum(nil)

	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}

// constantTimeEqual rejects length mismatches up front; the length of a hex
// digest is public. Content comparison never exits early.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return hmac.Equal(a, b)
}
