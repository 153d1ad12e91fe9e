// Package dilithium wraps the ML-DSA-44 (CRYSTALS-Dilithium level 2,
// FIPS 204) signature scheme behind fixed-size byte contracts. All key and
// signature material crosses this boundary as raw bytes; the structured
// circl types never leak to callers.
package dilithium

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
)

// Protocol constants shared with the on-chain verifier. Any change here
// requires a coordinated redeploy of the SanctuaryVault contract.
const (
	// PublicKeySize is the packed ML-DSA-44 public key size in bytes.
	PublicKeySize = 1312
	// SecretKeySize is the packed ML-DSA-44 secret key size in bytes.
	SecretKeySize = 2560
	// SignatureSize is the detached ML-DSA-44 signature size in bytes.
	SignatureSize = 2420
)

var (
	ErrInvalidPublicKeySize = errors.New("dilithium: invalid public key size")
	ErrInvalidSecretKeySize = errors.New("dilithium: invalid secret key size")
	ErrInvalidSignatureSize = errors.New("dilithium: invalid signature size")
	// ErrKeyDeserialization means bytes of the right length failed to parse
	// into a structured key or signature. Distinct from an invalid
	// signature: this is a caller protocol violation, not a forgery.
	ErrKeyDeserialization = errors.New("dilithium: key deserialization failed")
	// ErrSignatureVerificationFailed is reserved for call sites that must
	// treat an invalid signature as a hard failure (e.g. the RPC surface).
	// Verify itself never returns it.
	ErrSignatureVerificationFailed = errors.New("dilithium: signature verification failed")
)

// The wire contract is pinned to the circl parameter set; if circl and
// these constants ever disagree the build breaks here instead of on chain.
const (
	_ = uint(PublicKeySize - mldsa44.PublicKeySize)
	_ = uint(mldsa44.PublicKeySize - PublicKeySize)
	_ = uint(SecretKeySize - mldsa44.PrivateKeySize)
	_ = uint(mldsa44.PrivateKeySize - SecretKeySize)
	_ = uint(SignatureSize - mldsa44.SignatureSize)
	_ = uint(mldsa44.SignatureSize - SignatureSize)
)

// KeyPair holds the packed halves of an ML-DSA-44 key pair.
type KeyPair struct {
	PublicKey []byte
	SecretKey []byte
}

// GenerateKeyPair returns a fresh key pair drawn from crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := mldsa44.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("dilithium: keygen failed: %w", err)
	}
	pkBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("dilithium: pack public key: %w", err)
	}
	skBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("dilithium: pack secret key: %w", err)
	}
	return &KeyPair{PublicKey: pkBytes, SecretKey: skBytes}, nil
}

// Sign produces a detached signature over message with the packed secret
// key. The key bytes are re-parsed on every call so corruption of stored
// key material surfaces here as ErrKeyDeserialization instead of as a
// garbage signature.
func Sign(message, secretKey []byte) ([]byte, error) {
	if len(secretKey) != SecretKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSecretKeySize, SecretKeySize, len(secretKey))
	}
	sk, err := parseSecretKey(secretKey)
	if err != nil {
		return nil, err
	}
	sig := make([]byte, SignatureSize)
	if err := mldsa44.SignTo(sk, message, nil, true, sig); err != nil {
		return nil, fmt.Errorf("dilithium: signing failed: %w", err)
	}
	return sig, nil
}

// Verify reports whether signature is a valid detached signature over
// exactly message under exactly publicKey. Malformed inputs are hard
// errors; a well-formed forged signature is (false, nil).
func Verify(signature, message, publicKey []byte) (bool, error) {
	if len(publicKey) != PublicKeySize {
		return false, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKeySize, PublicKeySize, len(publicKey))
	}
	if len(signature) != SignatureSize {
		return false, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignatureSize, SignatureSize, len(signature))
	}
	pk, err := parsePublicKey(publicKey)
	if err != nil {
		return false, err
	}
	return mldsa44.Verify(pk, message, nil, signature), nil
}

// PublicKeyFromSecret derives the packed public key from a packed secret
// key. Used when an identity is reloaded from a stored secret key file.
func PublicKeyFromSecret(secretKey []byte) ([]byte, error) {
	if len(secretKey) != SecretKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSecretKeySize, SecretKeySize, len(secretKey))
	}
	sk, err := parseSecretKey(secretKey)
	if err != nil {
		return nil, err
	}
	pk, ok := sk.Public().(*mldsa44.PublicKey)
	if !ok {
		return nil, ErrKeyDeserialization
	}
	pkBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("dilithium: pack public key: %w", err)
	}
	return pkBytes, nil
}

func parsePublicKey(b []byte) (*mldsa44.PublicKey, error) {
	var pk mldsa44.PublicKey
	if err := pk.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDeserialization, err)
	}
	return &pk, nil
}

func parseSecretKey(b []byte) (*mldsa44.PrivateKey, error) {
	var sk mldsa44.PrivateKey
	if err := sk.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDeserialization, err)
	}
	return &sk, nil
}
