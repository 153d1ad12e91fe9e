package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/minerva-id/SANCTUARY/dilithium"
	"github.com/minerva-id/SANCTUARY/wallet"
)

type KeygenConfig struct {
	SecretKeyFile string
	Force         bool
}

var keygenConfig KeygenConfig

// keygenCmd represents the keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen [flags]",
	Short: "Generate a new quantum-resistant wallet identity",
	Long: `Generates a fresh ML-DSA-44 key pair and prints the public key and its
Keccak-256 hash (the ownerImage registered on chain). The secret key is
only ever written to the file given by --secret-key-file, never printed.

Examples:
  # Generate a wallet and store the secret key
  sanctuary keygen -f ./keys/owner.key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeygen(keygenConfig)
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.PersistentFlags().StringVarP(&keygenConfig.SecretKeyFile, "secret-key-file", "f", "", "file to write the secret key to (hex, mode 0600)")
	keygenCmd.PersistentFlags().BoolVar(&keygenConfig.Force, "force", false, "overwrite an existing secret key file")
}

func runKeygen(cfg KeygenConfig) error {
	kp, err := dilithium.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}
	w, err := wallet.NewFromSecretKey(kp.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to construct wallet: %w", err)
	}

	hash := w.PublicKeyHash()
	fmt.Printf("Public Key Size: %d bytes\n", dilithium.PublicKeySize)
	fmt.Printf("Public Key: %s\n", w.PublicKeyHex())
	fmt.Printf("Public Key Hash (keccak256): 0x%s\n", hex.EncodeToString(hash[:]))

	if cfg.SecretKeyFile == "" {
		fmt.Println("No --secret-key-file given; secret key discarded with this process.")
		return nil
	}

	if !cfg.Force {
		if _, err := os.Stat(cfg.SecretKeyFile); err == nil {
			return fmt.Errorf("refusing to overwrite %s without --force", cfg.SecretKeyFile)
		}
	}
	if dir := filepath.Dir(cfg.SecretKeyFile); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create key directory: %w", err)
		}
	}
	if err := writeSecretKeyFile(cfg.SecretKeyFile, kp.SecretKey); err != nil {
		return err
	}

	fmt.Printf("Secret key written to %s\n", cfg.SecretKeyFile)
	return nil
}
