package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/minerva-id/SANCTUARY/logx"
)

var rootCmd = &cobra.Command{
	Use:   "sanctuary",
	Short: "Sanctuary quantum-resistant wallet CLI",
	Long:  "Command line interface for generating Sanctuary wallet identities, signing transactions with ML-DSA-44, and verifying signatures the way the on-chain vault does.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
