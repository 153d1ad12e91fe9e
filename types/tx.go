package types

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

const (
	// valueWidth and nonceWidth are the fixed big-endian widths of the two
	// integer fields in the canonical encoding. The on-chain verifier
	// slices the signed payload at these exact offsets.
	valueWidth = 16
	nonceWidth = 8
)

// ErrValueOverflow is returned when a transaction value does not fit in
// the 128-bit wire field.
var ErrValueOverflow = errors.New("types: value exceeds 128 bits")

// Transaction is a Sanctuary user operation awaiting signature. To and
// Data carry hex-encoded strings; the canonical encoding deliberately
// signs the string representation, not the decoded bytes, because that is
// what the deployed SanctuaryVault contract reconstructs.
type Transaction struct {
	To    string       `json:"to"`
	Value *uint256.Int `json:"value"`
	Data  string       `json:"data"`
	Nonce uint64       `json:"nonce"`
}

// Encode returns the canonical signing payload:
//
//	to_bytes || value_be16 || data_bytes || nonce_be8
//
// No delimiters are inserted; the integer fields are fixed-width and the
// string fields are concatenated as-is. Two transactions whose (To, Data)
// pairs concatenate to the same bytes with equal Value and Nonce encode
// identically -- a known property of the closed wire format, not an
// extensible serialization scheme.
func (tx *Transaction) Encode() ([]byte, error) {
	value := tx.Value
	if value == nil {
		value = uint256.NewInt(0)
	}
	if value.BitLen() > valueWidth*8 {
		return nil, fmt.Errorf("%w: %s", ErrValueOverflow, value.String())
	}

	encoded := make([]byte, 0, len(tx.To)+valueWidth+len(tx.Data)+nonceWidth)
	encoded = append(encoded, tx.To...)

	full := value.Bytes32()
	encoded = append(encoded, full[32-valueWidth:]...)

	encoded = append(encoded, tx.Data...)

	var nonceBytes [nonceWidth]byte
	binary.BigEndian.PutUint64(nonceBytes[:], tx.Nonce)
	encoded = append(encoded, nonceBytes[:]...)

	return encoded, nil
}

// Hash returns the hex SHA-256 of the canonical encoding. Used as the
// fixture/tracking key, never as part of the signed payload.
func (tx *Transaction) Hash() (string, error) {
	encoded, err := tx.Encode()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// txJSON carries Value as a decimal string so amounts survive JSON
// round-trips without float truncation.
type txJSON struct {
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data"`
	Nonce uint64 `json:"nonce"`
}

func (tx *Transaction) MarshalJSON() ([]byte, error) {
	valueStr := "0"
	if tx.Value != nil {
		valueStr = tx.Value.String()
	}
	return json.Marshal(&txJSON{
		To:    tx.To,
		Value: valueStr,
		Data:  tx.Data,
		Nonce: tx.Nonce,
	})
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var aux txJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	tx.To = aux.To
	tx.Data = aux.Data
	tx.Nonce = aux.Nonce

	if aux.Value == "" {
		tx.Value = uint256.NewInt(0)
		return nil
	}
	value, err := uint256.FromDecimal(aux.Value)
	if err != nil {
		return fmt.Errorf("invalid value format: %w", err)
	}
	tx.Value = value
	return nil
}
