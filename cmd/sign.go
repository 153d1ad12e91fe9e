package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/minerva-id/SANCTUARY/logx"
	"github.com/minerva-id/SANCTUARY/types"
)

type SignConfig struct {
	SecretKey     string
	SecretKeyFile string
	To            string
	Value         string
	Data          string
	Nonce         uint64
	Verbose       bool
}

var signConfig SignConfig

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign [flags]",
	Short: "Sign a transaction with a wallet secret key",
	Long: `Canonically encodes the transaction fields and signs the encoding with
ML-DSA-44. The output signature is detached (2420 bytes, hex).

Examples:
  # Sign a 1 ETH transfer with nonce 1
  sanctuary sign -f ./keys/owner.key -t 0x742d35Cc6634C0532925a3b844Bc9e7595f8b2E1 -a 1_000_000_000_000_000_000 -n 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSign(signConfig)
	},
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.PersistentFlags().StringVarP(&signConfig.SecretKeyFile, "secret-key-file", "f", "", "signer secret key file")
	signCmd.PersistentFlags().StringVarP(&signConfig.SecretKey, "secret-key", "p", "", "signer secret key in hex")
	signCmd.PersistentFlags().StringVarP(&signConfig.To, "to", "t", "", "target address (hex string)")
	signCmd.PersistentFlags().StringVarP(&signConfig.Value, "value", "a", "0", "amount in wei")
	signCmd.PersistentFlags().StringVarP(&signConfig.Data, "data", "d", "0x", "calldata (hex string)")
	signCmd.PersistentFlags().Uint64VarP(&signConfig.Nonce, "nonce", "n", 0, "replay-protection nonce")
	signCmd.PersistentFlags().BoolVarP(&signConfig.Verbose, "verbose", "v", false, "verbose output")
}

func runSign(cfg SignConfig) error {
	value, err := uint256.FromDecimal(strings.ReplaceAll(cfg.Value, "_", ""))
	if err != nil {
		return fmt.Errorf("could not parse value string: %v", err)
	}

	if cfg.Verbose {
		logx.Debug("SIGN CLI", "Loading signer secret key...")
	}
	w, err := loadWallet(cfg.SecretKeyFile, cfg.SecretKey)
	if err != nil {
		return err
	}

	tx := &types.Transaction{
		To:    cfg.To,
		Value: value,
		Data:  cfg.Data,
		Nonce: cfg.Nonce,
	}
	encoded, err := tx.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode transaction: %w", err)
	}
	if cfg.Verbose {
		logx.Debug("SIGN CLI", "Canonical encoding is ", len(encoded), " bytes")
	}

	sig, err := w.SignTransaction(encoded)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	txHash, err := tx.Hash()
	if err != nil {
		return err
	}

	fmt.Printf("Tx Hash: %s\n", txHash)
	fmt.Printf("Encoded: %s\n", hex.EncodeToString(encoded))
	fmt.Printf("Signature: %s\n", hex.EncodeToString(sig))
	return nil
}
