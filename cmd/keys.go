package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/minerva-id/SANCTUARY/config"
	"github.com/minerva-id/SANCTUARY/wallet"
)

// writeSecretKeyFile writes the packed secret key as hex with owner-only
// permissions. This is the only place in the repository that serializes
// a secret key.
func writeSecretKeyFile(path string, secretKey []byte) error {
	if err := os.WriteFile(path, []byte(hex.EncodeToString(secretKey)), 0600); err != nil {
		return fmt.Errorf("failed to write secret key file: %w", err)
	}
	return nil
}

// loadWallet reconstructs a wallet from either a key file or an inline
// hex key. The inline form is for throwaway testing only; real keys live
// in files.
func loadWallet(keyFile, keyHex string) (*wallet.Wallet, error) {
	switch {
	case keyFile != "":
		sk, err := config.LoadSecretKey(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load secret key: %w", err)
		}
		return wallet.NewFromSecretKey(sk)
	case keyHex != "":
		sk, err := hex.DecodeString(strings.TrimSpace(keyHex))
		if err != nil {
			return nil, fmt.Errorf("secret key is not valid hex: %w", err)
		}
		return wallet.NewFromSecretKey(sk)
	default:
		return nil, fmt.Errorf("either --secret-key-file or --secret-key is required")
	}
}
