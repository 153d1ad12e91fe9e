package cmd

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/minerva-id/SANCTUARY/db"
	"github.com/minerva-id/SANCTUARY/fixture"
	"github.com/minerva-id/SANCTUARY/store"
	"github.com/minerva-id/SANCTUARY/types"
	"github.com/minerva-id/SANCTUARY/wallet"
)

type GenTestDataConfig struct {
	Name         string
	FixtureDBDir string
	Save         bool
}

var genTestDataConfig GenTestDataConfig

// genTestDataCmd represents the gen-test-data command
var genTestDataCmd = &cobra.Command{
	Use:   "gen-test-data [flags]",
	Short: "Generate Solidity integration fixtures",
	Long: `Generates a fresh wallet, signs the deterministic user-operation message
and a reference transfer transaction, and prints the hex"..." constant
blocks to paste into SanctuaryVault.t.sol. With --save, fixtures are also
persisted to the fixture store for later cross-checking over RPC.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenTestData(genTestDataConfig)
	},
}

func init() {
	rootCmd.AddCommand(genTestDataCmd)

	genTestDataCmd.PersistentFlags().StringVar(&genTestDataConfig.Name, "name", "sanctuary-vault", "fixture name prefix")
	genTestDataCmd.PersistentFlags().StringVar(&genTestDataConfig.FixtureDBDir, "fixture-db-dir", "./data/fixtures", "fixture database directory")
	genTestDataCmd.PersistentFlags().BoolVar(&genTestDataConfig.Save, "save", false, "persist fixtures to the fixture store")
}

func runGenTestData(cfg GenTestDataConfig) error {
	w, err := wallet.New()
	if err != nil {
		return fmt.Errorf("failed to generate wallet: %w", err)
	}

	userOp, err := fixture.GenerateUserOp(w, cfg.Name+"-userop")
	if err != nil {
		return err
	}

	// Reference transfer: 1 ETH, empty calldata, nonce 1. The same tuple
	// the contract test suite replays.
	tx := &types.Transaction{
		To:    "0x742d35Cc6634C0532925a3b844Bc9e7595f8b2E1",
		Value: uint256.MustFromDecimal("1000000000000000000"),
		Data:  "0x",
		Nonce: 1,
	}
	transfer, err := fixture.Generate(w, cfg.Name+"-transfer", tx)
	if err != nil {
		return err
	}

	fmt.Println("=== SANCTUARY - Solidity Integration Data ===")
	fmt.Println()
	fmt.Println(userOp.Solidity())
	fmt.Println(transfer.Solidity())
	fmt.Println("=== COPY THE hex\"...\" VALUES ABOVE TO SanctuaryVault.t.sol ===")

	if !cfg.Save {
		return nil
	}

	provider, err := db.NewLevelDBProvider(cfg.FixtureDBDir)
	if err != nil {
		return fmt.Errorf("failed to open fixture db: %w", err)
	}
	fixtures, err := store.NewGenericFixtureStore(provider)
	if err != nil {
		return err
	}
	defer fixtures.MustClose()

	if err := fixtures.StoreBatch([]*fixture.Fixture{userOp, transfer}); err != nil {
		return err
	}
	fmt.Printf("Fixtures saved to %s\n", cfg.FixtureDBDir)
	return nil
}
