// Package wallet owns a Sanctuary identity: one ML-DSA-44 key pair,
// created at construction and held for the wallet's lifetime. There is no
// key rotation; a new identity means a new Wallet.
package wallet

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/minerva-id/SANCTUARY/dilithium"
)

// HashSize is the size of the public key digest registered on chain as
// the vault's ownerImage.
const HashSize = 32

// Wallet is a quantum-resistant signing identity. It is immutable after
// New and safe for concurrent use; SignTransaction only reads the stored
// key bytes. The secret key never leaves the struct.
type Wallet struct {
	pk []byte
	sk []byte
}

// New generates a wallet with a fresh random key pair.
func New() (*Wallet, error) {
	kp, err := dilithium.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}
	return &Wallet{pk: kp.PublicKey, sk: kp.SecretKey}, nil
}

// NewFromSecretKey reconstructs a wallet identity from a stored secret
// key, deriving the public half. The caller hands over ownership of the
// key bytes; it must not retain or log them.
func NewFromSecretKey(secretKey []byte) (*Wallet, error) {
	pk, err := dilithium.PublicKeyFromSecret(secretKey)
	if err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}
	return &Wallet{pk: pk, sk: secretKey}, nil
}

// PublicKey returns the exact 1312-byte packed public key.
func (w *Wallet) PublicKey() []byte {
	return w.pk
}

// PublicKeyHex returns the public key as lowercase hex without prefix,
// the format embedded into Solidity test fixtures.
func (w *Wallet) PublicKeyHex() string {
	return hex.EncodeToString(w.pk)
}

// PublicKeyHash returns the Keccak-256 digest of the public key. This is
// the production ownerImage digest: it matches keccak256(ownerPublicKey)
// as computed by the SanctuaryVault contract.
func (w *Wallet) PublicKeyHash() [HashSize]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(w.pk)
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// LegacyPublicKeyFold returns the XOR-fold digest used by early demo
// fixtures: 32-byte chunks of the public key XORed together, each chunk
// offset by its index.
//
// It is NOT collision resistant and must never gate funds. It exists only
// so fixtures generated before the Keccak-256 switch stay reproducible.
func (w *Wallet) LegacyPublicKeyFold() [HashSize]byte {
	var out [HashSize]byte
	for i := 0; i*HashSize < len(w.pk); i++ {
		chunk := w.pk[i*HashSize:]
		if len(chunk) > HashSize {
			chunk = chunk[:HashSize]
		}
		for j, b := range chunk {
			out[j] ^= b + byte(i)
		}
	}
	return out
}

// SignTransaction signs the already-encoded transaction payload and
// returns the 2420-byte detached signature. The stored secret key bytes
// are re-validated on every call; ErrKeyDeserialization here means the
// wallet's key material has been corrupted in memory.
func (w *Wallet) SignTransaction(message []byte) ([]byte, error) {
	sig, err := dilithium.Sign(message, w.sk)
	if err != nil {
		return nil, fmt.Errorf("wallet: sign transaction: %w", err)
	}
	return sig, nil
}
