// Package fixture produces cross-check material for the Solidity side:
// (public key, message, signature) triples rendered as hex"..." constants
// for SanctuaryVault.t.sol and persisted as JSON. Only public material is
// ever emitted.
package fixture

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/minerva-id/SANCTUARY/types"
	"github.com/minerva-id/SANCTUARY/verifier"
	"github.com/minerva-id/SANCTUARY/wallet"
)

// UserOpMessage is the deterministic stand-in for a userOpHash used by
// the contract test suite. Changing it invalidates every recorded
// signature fixture.
const UserOpMessage = "sanctuary_test_user_operation_hash_v1"

// ErrSelfCheckFailed means a freshly produced signature did not verify
// locally. A fixture like that must never reach the contract tests.
var ErrSelfCheckFailed = errors.New("fixture: generated signature failed self-verification")

// Fixture is one recorded signing scenario. All byte fields are lowercase
// hex without prefix, the format the Solidity tests embed directly.
type Fixture struct {
	Name             string             `json:"name"`
	PublicKeyHex     string             `json:"public_key"`
	PublicKeyHashHex string             `json:"public_key_hash"`
	MessageHex       string             `json:"message"`
	SignatureHex     string             `json:"signature"`
	Tx               *types.Transaction `json:"tx,omitempty"`
}

// Generate signs the canonical encoding of tx with w and returns the
// recorded scenario. The signature is verified locally before the fixture
// is emitted; a fixture that fails its own verification is refused.
func Generate(w *wallet.Wallet, name string, tx *types.Transaction) (*Fixture, error) {
	encoded, err := tx.Encode()
	if err != nil {
		return nil, fmt.Errorf("fixture: encode tx: %w", err)
	}
	f, err := sign(w, name, encoded)
	if err != nil {
		return nil, err
	}
	f.Tx = tx
	return f, nil
}

// GenerateUserOp records the deterministic user-operation scenario the
// contract test suite boots from.
func GenerateUserOp(w *wallet.Wallet, name string) (*Fixture, error) {
	return sign(w, name, []byte(UserOpMessage))
}

func sign(w *wallet.Wallet, name string, message []byte) (*Fixture, error) {
	sig, err := w.SignTransaction(message)
	if err != nil {
		return nil, fmt.Errorf("fixture: sign: %w", err)
	}

	ok, err := verifier.VerifyTransaction(w.PublicKey(), message, sig)
	if err != nil {
		return nil, fmt.Errorf("fixture: self-check: %w", err)
	}
	if !ok {
		return nil, ErrSelfCheckFailed
	}

	hash := w.PublicKeyHash()
	return &Fixture{
		Name:             name,
		PublicKeyHex:     w.PublicKeyHex(),
		PublicKeyHashHex: hex.EncodeToString(hash[:]),
		MessageHex:       hex.EncodeToString(message),
		SignatureHex:     hex.EncodeToString(sig),
	}, nil
}

// Solidity renders the fixture as the constant block the contract tests
// paste in verbatim.
func (f *Fixture) Solidity() string {
	var b strings.Builder
	fmt.Fprintf(&b, "// fixture: %s\n", f.Name)
	fmt.Fprintf(&b, "bytes constant mockPublicKey = hex\"%s\";\n", f.PublicKeyHex)
	fmt.Fprintf(&b, "bytes32 constant mockOwnerImage = hex\"%s\";\n", f.PublicKeyHashHex)
	fmt.Fprintf(&b, "bytes constant mockMessage = hex\"%s\";\n", f.MessageHex)
	fmt.Fprintf(&b, "bytes constant mockSignature = hex\"%s\";\n", f.SignatureHex)
	return b.String()
}
