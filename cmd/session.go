package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Mohsinsiddi/nftmint/internal/config"
	"github.com/Mohsinsiddi/nftmint/internal/contract"
	"github.com/Mohsinsiddi/nftmint/internal/provider"
	"github.com/Mohsinsiddi/nftmint/internal/session"
	"github.com/Mohsinsiddi/nftmint/internal/ui"
	"github.com/Mohsinsiddi/nftmint/internal/wallet"
	"github.com/spf13/cobra"
)

// Seams replaced in tests.
var (
	openKeys = func() wallet.KeyBackend { return wallet.OpenKeystore(cfg.KeysDir()) }
	dialFunc provider.DialFunc
)

// commandContext bounds a command by --timeout when set.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())),
		wallet.WithKeys(openKeys()),
	)
}

func newGrants() *wallet.Grants { return wallet.NewGrants(cfg.GrantsPath()) }

// newApprover answers provider requests: automatically with --yes, else
// with a terminal prompt.
func newApprover() provider.Approver {
	if assumeYes {
		return provider.AutoApprove(true)
	}
	return ui.PromptApprover{}
}

func detectProvider(ctx context.Context, approver provider.Approver) provider.WalletProvider {
	return provider.Detect(ctx, provider.Deps{
		Config:   cfg,
		Wallets:  newWalletManager(),
		Grants:   newGrants(),
		Approver: approver,
		Wallet:   walletFlag,
		Dial:     dialFunc,
		Log:      logger,
	})
}

// newSession detects the wallet and builds a disconnected session for the
// configured contract.
func newSession(ctx context.Context, approver provider.Approver, opts ...session.Option) *session.Manager {
	kind, _ := contract.GetBuiltin(contract.BasicNftID)
	opts = append([]session.Option{
		session.WithGrants(newGrants()),
		session.WithLogger(logger),
		session.WithMetrics(met),
		session.WithPollInterval(time.Duration(cfg.ReceiptPollMS) * time.Millisecond),
	}, opts...)
	return session.NewManager(detectProvider(ctx, approver), cfg.Contract(), kind.ABI, opts...)
}

// connectedSession returns a session that is connected, or explains why not.
func connectedSession(ctx context.Context, out io.Writer) (*session.Manager, error) {
	mgr := newSession(ctx, newApprover())
	if _, err := mgr.Connect(ctx); err != nil {
		explainConnectError(out, err)
		return nil, err
	}
	return mgr, nil
}

func explainConnectError(out io.Writer, err error) {
	switch {
	case errors.Is(err, session.ErrProviderAbsent):
		if cfg.Provider == config.ProviderRPC {
			fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Is the wallet at %q running? Set it with: nftmint config set wallet_rpc_url <url>", cfg.WalletRPCURL)))
		} else {
			fmt.Fprintln(out, ui.Hint("Add a signing account with: nftmint wallet add <name> --key <private-key>"))
		}
	case errors.Is(err, session.ErrAuthorizationDenied):
		fmt.Fprintln(out, ui.Hint("Run the command again and approve the request to continue."))
	}
}
