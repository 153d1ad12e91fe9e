package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minerva-id/SANCTUARY/config"
	"github.com/minerva-id/SANCTUARY/db"
	"github.com/minerva-id/SANCTUARY/jsonrpc"
	"github.com/minerva-id/SANCTUARY/logx"
	"github.com/minerva-id/SANCTUARY/ratelimit"
	"github.com/minerva-id/SANCTUARY/store"
)

type ServeConfig struct {
	ConfigFile string
	LimitsFile string
	ListenAddr string
}

var serveConfig ServeConfig

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Run the local verification JSON-RPC service",
	Long: `Serves sanctuary.verify / sanctuary.verifytx / sanctuary.encode plus
fixture lookups over JSON-RPC 2.0. The service mirrors the on-chain
verifier and is meant for integration testing, not as an authorization
gate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(serveConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.PersistentFlags().StringVarP(&serveConfig.ConfigFile, "config", "c", "", "sanctuary.yml config file")
	serveCmd.PersistentFlags().StringVar(&serveConfig.LimitsFile, "limits", "", "rpc_limits .ini file")
	serveCmd.PersistentFlags().StringVarP(&serveConfig.ListenAddr, "listen", "l", "", "listen address (overrides config)")
}

func runServe(cfg ServeConfig) error {
	signerCfg := &config.SignerConfig{
		ListenAddr:   config.DefaultListenAddr,
		FixtureDBDir: config.DefaultFixtureDBDir,
	}
	if cfg.ConfigFile != "" {
		loaded, err := config.LoadSignerConfig(cfg.ConfigFile)
		if err != nil {
			return err
		}
		signerCfg = loaded
	}
	if cfg.ListenAddr != "" {
		signerCfg.ListenAddr = cfg.ListenAddr
	}

	var limiter *ratelimit.RateLimiter
	if cfg.LimitsFile != "" {
		limits, err := config.LoadRPCLimitsConfig(cfg.LimitsFile)
		if err != nil {
			return err
		}
		limiter = ratelimit.NewRateLimiter(&ratelimit.Config{
			MaxRequests:     limits.MaxRequests,
			WindowSize:      time.Duration(limits.WindowMs) * time.Millisecond,
			CleanupInterval: time.Duration(limits.CleanupInterval) * time.Second,
		})
	}

	provider, err := db.NewLevelDBProvider(signerCfg.FixtureDBDir)
	if err != nil {
		return err
	}
	fixtures, err := store.NewGenericFixtureStore(provider)
	if err != nil {
		return err
	}
	defer fixtures.MustClose()

	server := jsonrpc.NewServer(signerCfg.ListenAddr, fixtures, limiter)
	server.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logx.Info("SERVE", "Shutting down verification service")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Stop(ctx)
}
