package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/nftmint/internal/provider"
	"github.com/Mohsinsiddi/nftmint/internal/ui"
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Authorize a wallet account",
	Long: `Ask the wallet provider for account access. The keystore provider
prompts for approval (skip with --yes) and remembers the grant, so later
commands connect without asking again until you run "nftmint disconnect".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		mgr, err := connectedSession(ctx, out)
		if err != nil {
			return err
		}
		st := mgr.State()
		fmt.Fprintln(out, ui.KeyValueBlock("Connected", [][2]string{
			{"Account", ui.Addr(st.Account.Hex())},
			{"Provider", ui.ProviderName(st.Provider)},
			{"Contract", ui.Addr(mgr.Address().Hex())},
		}))
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Revoke the stored account authorization",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		mgr := newSession(ctx, provider.AutoApprove(false))
		if !mgr.ProviderDetected() {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Info("No wallet provider detected; nothing to revoke."))
			return nil
		}
		if err := mgr.Disconnect(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Disconnected. The next command will ask for approval again."))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show wallet provider, authorization and contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		p := detectProvider(ctx, provider.AutoApprove(false))

		detected := ui.StyleWarning.Render("not detected")
		granted := ui.Meta("none")
		if p != nil {
			detected = ui.ProviderName(p.Name())
			if accounts := newGrants().Accounts(p.Name()); len(accounts) > 0 {
				hexes := make([]string, len(accounts))
				for i, a := range accounts {
					hexes[i] = a.Hex()
				}
				granted = ui.Addr(strings.Join(hexes, ", "))
			}
		}

		pairs := [][2]string{
			{"Provider", detected},
			{"Authorized", granted},
			{"Contract", ui.Addr(cfg.Contract().Hex())},
			{"RPC", cfg.RPCURL},
		}
		if cfg.DefaultWallet != "" {
			pairs = append(pairs, [2]string{"Wallet", cfg.DefaultWallet})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Status", pairs))
		return nil
	},
}
