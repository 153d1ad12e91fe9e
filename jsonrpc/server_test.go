package jsonrpc

import (
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minerva-id/SANCTUARY/db"
	"github.com/minerva-id/SANCTUARY/dilithium"
	"github.com/minerva-id/SANCTUARY/errors"
	"github.com/minerva-id/SANCTUARY/fixture"
	"github.com/minerva-id/SANCTUARY/ratelimit"
	"github.com/minerva-id/SANCTUARY/store"
	"github.com/minerva-id/SANCTUARY/types"
	"github.com/minerva-id/SANCTUARY/wallet"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	provider, err := db.NewLevelDBProvider(filepath.Join(t.TempDir(), "fixtures"))
	require.NoError(t, err)
	fixtures, err := store.NewGenericFixtureStore(provider)
	require.NoError(t, err)
	t.Cleanup(fixtures.MustClose)

	s := NewServer("localhost:0", fixtures, ratelimit.NewRateLimiter(nil))
	t.Cleanup(func() { s.limiter.Stop() })
	return s
}

func signedParams(t *testing.T) (verifyParams, *wallet.Wallet) {
	t.Helper()
	w, err := wallet.New()
	require.NoError(t, err)
	message := []byte("rpc round trip")
	sig, err := w.SignTransaction(message)
	require.NoError(t, err)
	return verifyParams{
		PublicKey: w.PublicKeyHex(),
		Message:   hex.EncodeToString(message),
		Signature: hex.EncodeToString(sig),
	}, w
}

func TestRPCVerify(t *testing.T) {
	s := newTestServer(t)
	p, _ := signedParams(t)

	res, vErr := s.rpcVerify(p)
	require.Nil(t, vErr)
	assert.True(t, res.Valid)
}

func TestRPCVerifyForgedSignatureIsCleanFalse(t *testing.T) {
	s := newTestServer(t)
	p, _ := signedParams(t)

	other, err := wallet.New()
	require.NoError(t, err)
	p.PublicKey = other.PublicKeyHex()

	res, vErr := s.rpcVerify(p)
	require.Nil(t, vErr)
	assert.False(t, res.Valid)
}

func TestRPCVerifyInvalidHex(t *testing.T) {
	s := newTestServer(t)
	p, _ := signedParams(t)
	p.PublicKey = "zz" + p.PublicKey[2:]

	_, vErr := s.rpcVerify(p)
	require.NotNil(t, vErr)
	assert.Equal(t, errors.ErrCodeInvalidHex, vErr.Code)
}

func TestRPCVerifySizeErrors(t *testing.T) {
	s := newTestServer(t)
	p, _ := signedParams(t)

	short := p
	short.PublicKey = p.PublicKey[:64]
	_, vErr := s.rpcVerify(short)
	require.NotNil(t, vErr)
	assert.Equal(t, errors.ErrCodeInvalidPublicKeySize, vErr.Code)

	short = p
	short.Signature = p.Signature[:64]
	_, vErr = s.rpcVerify(short)
	require.NotNil(t, vErr)
	assert.Equal(t, errors.ErrCodeInvalidSignatureSize, vErr.Code)
}

func TestRPCVerifyTx(t *testing.T) {
	s := newTestServer(t)
	w, err := wallet.New()
	require.NoError(t, err)

	tx := types.Transaction{
		To:    "0x742d35Cc6634C0532925a3b844Bc9e7595f8b2E1",
		Value: uint256.NewInt(1000),
		Data:  "0x",
		Nonce: 1,
	}
	encoded, err := tx.Encode()
	require.NoError(t, err)
	sig, err := w.SignTransaction(encoded)
	require.NoError(t, err)

	res, vErr := s.rpcVerifyTx(verifyTxParams{
		PublicKey: w.PublicKeyHex(),
		Tx:        tx,
		Signature: hex.EncodeToString(sig),
	})
	require.Nil(t, vErr)
	assert.True(t, res.Valid)

	// Same signature against a mutated nonce.
	tx.Nonce = 2
	res, vErr = s.rpcVerifyTx(verifyTxParams{
		PublicKey: w.PublicKeyHex(),
		Tx:        tx,
		Signature: hex.EncodeToString(sig),
	})
	require.Nil(t, vErr)
	assert.False(t, res.Valid)
}

func TestRPCEncodeTx(t *testing.T) {
	s := newTestServer(t)

	tx := types.Transaction{To: "0xaa", Value: uint256.NewInt(5), Data: "0x", Nonce: 9}
	res, vErr := s.rpcEncodeTx(encodeTxParams{Tx: tx})
	require.Nil(t, vErr)

	encoded, err := tx.Encode()
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(encoded), res.Encoded)

	wantHash, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, wantHash, res.TxHash)
}

func TestRPCEncodeTxValueOverflow(t *testing.T) {
	s := newTestServer(t)

	tx := types.Transaction{
		To:    "0xaa",
		Value: new(uint256.Int).Lsh(uint256.NewInt(1), 128),
		Data:  "0x",
	}
	_, vErr := s.rpcEncodeTx(encodeTxParams{Tx: tx})
	require.NotNil(t, vErr)
	assert.Equal(t, errors.ErrCodeInvalidRequest, vErr.Code)
}

func TestRPCFixtureGetAndList(t *testing.T) {
	s := newTestServer(t)
	w, err := wallet.New()
	require.NoError(t, err)
	f, err := fixture.GenerateUserOp(w, "userop")
	require.NoError(t, err)
	require.NoError(t, s.fixtures.Store(f))

	got, vErr := s.rpcGetFixture(getFixtureParams{Name: "userop"})
	require.Nil(t, vErr)
	assert.Equal(t, f.SignatureHex, got.SignatureHex)

	_, vErr = s.rpcGetFixture(getFixtureParams{Name: "missing"})
	require.NotNil(t, vErr)
	assert.Equal(t, errors.ErrCodeInvalidRequest, vErr.Code)
	assert.True(t, strings.Contains(vErr.Message, "missing"))

	list, vErr := s.rpcListFixtures()
	require.Nil(t, vErr)
	assert.Equal(t, 1, list.TotalCount)
	require.Len(t, list.Fixtures, 1)
	assert.Equal(t, "userop", list.Fixtures[0].Name)
}

func TestRPCListFixturesNilStore(t *testing.T) {
	s := NewServer("localhost:0", nil, ratelimit.NewRateLimiter(nil))
	defer s.limiter.Stop()

	list, vErr := s.rpcListFixtures()
	require.Nil(t, vErr)
	assert.Equal(t, 0, list.TotalCount)

	_, vErr = s.rpcGetFixture(getFixtureParams{Name: "anything"})
	assert.NotNil(t, vErr)
}

func TestWireCodeMapping(t *testing.T) {
	assert.Equal(t, codeInvalidRequest, codeFor(errors.ErrCodeInvalidRequest))
	assert.Equal(t, codeInvalidHex, codeFor(errors.ErrCodeInvalidHex))
	assert.Equal(t, codeInvalidPublicKeySize, codeFor(errors.ErrCodeInvalidPublicKeySize))
	assert.Equal(t, codeInvalidSignatureSize, codeFor(errors.ErrCodeInvalidSignatureSize))
	assert.Equal(t, codeKeyDeserialization, codeFor(errors.ErrCodeKeyDeserialization))
	assert.Equal(t, codeRateLimited, codeFor(errors.ErrCodeRateLimited))
	assert.Equal(t, codeInternal, codeFor(errors.ErrCodeInternal))
	assert.Equal(t, codeInternal, codeFor(errors.ErrCodeSignatureVerification))
}

func TestDecodeVerifyFieldsOrder(t *testing.T) {
	// Hex errors are reported before size errors.
	_, _, vErr := decodeVerifyFields("xx", "yy")
	require.NotNil(t, vErr)
	assert.Equal(t, errors.ErrCodeInvalidHex, vErr.Code)

	pk := hex.EncodeToString(make([]byte, dilithium.PublicKeySize))
	_, _, vErr = decodeVerifyFields(pk, "aabb")
	require.NotNil(t, vErr)
	assert.Equal(t, errors.ErrCodeInvalidSignatureSize, vErr.Code)
}
