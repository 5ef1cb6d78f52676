package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Mohsinsiddi/nftmint/internal/config"
	"github.com/Mohsinsiddi/nftmint/internal/logging"
	"github.com/Mohsinsiddi/nftmint/internal/metrics"
	"github.com/Mohsinsiddi/nftmint/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/nftmint/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir  string
	cfg     *config.Config
	logger  = zap.NewNop()
	met     *metrics.Metrics
	verbose bool

	assumeYes    bool
	providerFlag string
	rpcFlag      string
	contractFlag string
	walletFlag   string
	timeout      time.Duration
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "nftmint",
	Short: "Connect a wallet and mint from the BasicNft contract",
	Long: `nftmint connects to a wallet, authorizes one account, and calls read and
write methods on a single NFT contract.

  nftmint wallet add dev --key 0x...   # register a local signing account
  nftmint connect                      # authorize it
  nftmint read getTokenCounter         # call a view method
  nftmint mint                         # mint and show the counter change
  nftmint console                      # interactive page

Wallet providers:
  keystore  accounts whose keys live in the OS keychain (default)
  rpc       an external JSON-RPC wallet such as Clef (see wallet_rpc_url)`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := applyFlagOverrides(cfg); err != nil {
			return err
		}

		// The console owns the terminal; keep its logs in the file only.
		logger = logging.New(logging.Options{
			File:    cfg.LogPath(),
			Verbose: verbose && cmd.Name() != "console",
		})
		met = metrics.New()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// applyFlagOverrides applies per-invocation flags on top of the persisted
// config without saving them.
func applyFlagOverrides(c *config.Config) error {
	overrides := [][2]string{
		{"provider", providerFlag},
		{"rpc_url", rpcFlag},
		{"contract_address", contractFlag},
	}
	for _, o := range overrides {
		if o[1] == "" {
			continue
		}
		if err := c.Set(o[0], o[1]); err != nil {
			return err
		}
	}
	if c.Provider == config.ProviderRPC && rpcFlag != "" && c.WalletRPCURL == "" {
		c.WalletRPCURL = rpcFlag
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func init() {
	// NFTMINT_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("NFTMINT_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.nftmint)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log to stderr as well as the log file")
	pf.BoolVarP(&assumeYes, "yes", "y", false, "approve wallet requests without prompting")
	pf.StringVar(&providerFlag, "provider", "", "wallet provider: keystore or rpc (default: config)")
	pf.StringVar(&rpcFlag, "rpc", "", "chain RPC URL (default: config)")
	pf.StringVar(&contractFlag, "contract", "", "contract address (default: config)")
	pf.StringVarP(&walletFlag, "wallet", "w", "", "keystore wallet to connect (default: the default wallet)")
	pf.DurationVar(&timeout, "timeout", 0, "abort the command after this long, e.g. 2m (default: no limit)")

	rootCmd.AddCommand(
		connectCmd,
		disconnectCmd,
		statusCmd,
		readCmd,
		writeCmd,
		mintCmd,
		methodsCmd,
		selectorCmd,
		walletCmd,
		configCmd,
		consoleCmd,
	)
}
