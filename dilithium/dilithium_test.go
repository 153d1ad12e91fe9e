package dilithium

import (
	"errors"
	"testing"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolConstantsMatchScheme(t *testing.T) {
	assert.Equal(t, mldsa44.PublicKeySize, PublicKeySize)
	assert.Equal(t, mldsa44.PrivateKeySize, SecretKeySize)
	assert.Equal(t, mldsa44.SignatureSize, SignatureSize)
}

func TestGenerateKeyPairSizes(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	assert.Len(t, kp.PublicKey, PublicKeySize)
	assert.Len(t, kp.SecretKey, SecretKeySize)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	message := []byte("Transfer 100 ETH to Alice")
	sig, err := Sign(message, kp.SecretKey)
	require.NoError(t, err)
	require.Len(t, sig, SignatureSize)

	valid, err := Verify(sig, message, kp.PublicKey)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestCorruptedSignatureRejected(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	message := []byte("Transfer 100 ETH to Alice")
	sig, err := Sign(message, kp.SecretKey)
	require.NoError(t, err)

	// Flip bits at a few positions spread over the signature.
	for _, pos := range []int{0, SignatureSize / 2, SignatureSize - 1} {
		corrupted := make([]byte, len(sig))
		copy(corrupted, sig)
		corrupted[pos] ^= 0x01

		valid, err := Verify(corrupted, message, kp.PublicKey)
		require.NoError(t, err, "a corrupted but well-formed signature must not be an error")
		assert.False(t, valid, "corrupted signature at position %d should be rejected", pos)
	}
}

func TestWrongMessageRejected(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	sig, err := Sign([]byte("Transfer 100 ETH to Alice"), kp.SecretKey)
	require.NoError(t, err)

	valid, err := Verify(sig, []byte("Transfer 100 ETH to Bob"), kp.PublicKey)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestSignRejectsWrongSizeSecretKey(t *testing.T) {
	_, err := Sign([]byte("msg"), make([]byte, 100))
	assert.True(t, errors.Is(err, ErrInvalidSecretKeySize))
}

func TestVerifySizeChecksPrecedeParsing(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	message := []byte("msg")
	sig, err := Sign(message, kp.SecretKey)
	require.NoError(t, err)

	tests := []struct {
		name    string
		sig     []byte
		pk      []byte
		wantErr error
	}{
		{"short public key", sig, make([]byte, 100), ErrInvalidPublicKeySize},
		{"long public key", sig, make([]byte, PublicKeySize+1), ErrInvalidPublicKeySize},
		{"empty public key", sig, nil, ErrInvalidPublicKeySize},
		{"short signature", make([]byte, 100), kp.PublicKey, ErrInvalidSignatureSize},
		{"long signature", make([]byte, SignatureSize+1), kp.PublicKey, ErrInvalidSignatureSize},
		{"empty signature", nil, kp.PublicKey, ErrInvalidSignatureSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(tt.sig, message, tt.pk)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestPublicKeyFromSecret(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	derived, err := PublicKeyFromSecret(kp.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, derived)

	_, err = PublicKeyFromSecret(make([]byte, 10))
	assert.True(t, errors.Is(err, ErrInvalidSecretKeySize))
}

func TestSignaturesVerifyUnderMatchingKeyOnly(t *testing.T) {
	kp1, err := GenerateKeyPair()
	require.NoError(t, err)
	kp2, err := GenerateKeyPair()
	require.NoError(t, err)

	message := []byte("cross-key check")
	sig, err := Sign(message, kp1.SecretKey)
	require.NoError(t, err)

	valid, err := Verify(sig, message, kp2.PublicKey)
	require.NoError(t, err)
	assert.False(t, valid)
}
