package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minerva-id/SANCTUARY/verifier"
)

type VerifyConfig struct {
	PublicKey string
	Message   string
	Signature string
}

var verifyConfig VerifyConfig

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [flags]",
	Short: "Verify a detached signature against a message and public key",
	Long: `Runs the same checks the on-chain vault performs: exact size validation,
structural parsing, then cryptographic verification. A well-formed but
invalid signature prints "valid: false" and exits 0; malformed input is
an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(verifyConfig)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.PersistentFlags().StringVarP(&verifyConfig.PublicKey, "public-key", "k", "", "public key in hex (1312 bytes)")
	verifyCmd.PersistentFlags().StringVarP(&verifyConfig.Message, "message", "m", "", "signed message in hex")
	verifyCmd.PersistentFlags().StringVarP(&verifyConfig.Signature, "signature", "s", "", "detached signature in hex (2420 bytes)")
}

func runVerify(cfg VerifyConfig) error {
	pk, err := hex.DecodeString(cfg.PublicKey)
	if err != nil {
		return fmt.Errorf("public key is not valid hex: %w", err)
	}
	message, err := hex.DecodeString(cfg.Message)
	if err != nil {
		return fmt.Errorf("message is not valid hex: %w", err)
	}
	sig, err := hex.DecodeString(cfg.Signature)
	if err != nil {
		return fmt.Errorf("signature is not valid hex: %w", err)
	}

	valid, err := verifier.VerifyTransaction(pk, message, sig)
	if err != nil {
		return err
	}

	fmt.Printf("valid: %t\n", valid)
	return nil
}
