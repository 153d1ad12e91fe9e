// Package verifier validates untrusted (public key, message, signature)
// triples the way the on-chain SanctuaryVault contract does: shape first,
// structure second, cryptography last. It holds no key material and works
// independently of any live wallet.
package verifier

import (
	"errors"
	"fmt"

	"github.com/minerva-id/SANCTUARY/dilithium"
	"github.com/minerva-id/SANCTUARY/types"
)

// VerifyTransaction checks signature over message under publicKey.
//
// The result is three-tier, and callers must preserve the distinction:
//   - wrong-size public key or signature -> ErrInvalidPublicKeySize /
//     ErrInvalidSignatureSize, before any parsing is attempted
//   - right-size bytes that do not parse -> ErrKeyDeserialization
//   - well-formed but invalid signature  -> (false, nil), never an error
func VerifyTransaction(publicKey, message, signature []byte) (bool, error) {
	if len(publicKey) != dilithium.PublicKeySize {
		return false, fmt.Errorf("%w: expected %d bytes, got %d",
			dilithium.ErrInvalidPublicKeySize, dilithium.PublicKeySize, len(publicKey))
	}
	if len(signature) != dilithium.SignatureSize {
		return false, fmt.Errorf("%w: expected %d bytes, got %d",
			dilithium.ErrInvalidSignatureSize, dilithium.SignatureSize, len(signature))
	}
	return dilithium.Verify(signature, message, publicKey)
}

// VerifySignedTransaction encodes tx canonically and verifies signature
// against the encoded payload.
func VerifySignedTransaction(publicKey []byte, tx *types.Transaction, signature []byte) (bool, error) {
	if tx == nil {
		return false, errors.New("verifier: nil transaction")
	}
	encoded, err := tx.Encode()
	if err != nil {
		return false, fmt.Errorf("verifier: encode transaction: %w", err)
	}
	return VerifyTransaction(publicKey, encoded, signature)
}
