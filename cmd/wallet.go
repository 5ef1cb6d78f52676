package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/nftmint/internal/ui"
	"github.com/Mohsinsiddi/nftmint/internal/wallet"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	walletKeyFlag      string
	walletGenerateFlag bool
	walletMnemonicFlag bool
	walletIndexFlag    uint32
)

// readSecret reads one line without echo when stdin is a terminal.
// Replaced in tests.
var readSecret = func(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(string(b)), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage keystore accounts",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a signing account to the keystore",
	Long: `Add a signing account. The private key goes to the OS keychain (or the
encrypted file fallback under the config directory); only the name and
address are written to wallets.json.

  nftmint wallet add dev --key 0xac09...ff80
  nftmint wallet add fresh --generate
  nftmint wallet add anvil1 --mnemonic --index 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		mgr := newWalletManager()

		var (
			w   *wallet.Wallet
			err error
		)
		switch {
		case walletKeyFlag != "":
			w, err = mgr.AddWithKey(name, walletKeyFlag)
		case walletGenerateFlag:
			w, err = mgr.Generate(name)
		case walletMnemonicFlag:
			phrase, rerr := readSecret("Recovery phrase: ")
			if rerr != nil {
				return fmt.Errorf("reading recovery phrase: %w", rerr)
			}
			w, err = mgr.AddFromMnemonic(name, phrase, "", walletIndexFlag)
		default:
			return fmt.Errorf("one of --key, --generate or --mnemonic is required")
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q added: %s", w.Name, ui.Addr(w.Address))))
		if w.IsDefault {
			fmt.Fprintln(out, ui.Hint("It is the default wallet. Connect with: nftmint connect"))
		} else {
			fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Set as default with: nftmint wallet use %s", name)))
		}
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List keystore accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		wallets := newWalletManager().List()

		if len(wallets) == 0 {
			fmt.Fprintln(out, ui.Info("No wallets configured yet."))
			fmt.Fprintln(out, ui.Hint("Add one with: nftmint wallet add <name> --key <private-key>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 42},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.IsDefault {
				def = "✓"
			}
			t.AddRow(ui.Row{w.Name, w.Address, def})
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an account and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		mgr := newWalletManager()

		w, err := mgr.Get(name)
		if err != nil {
			return err
		}
		if !assumeYes {
			ok, err := ui.Confirm(context.Background(), ui.Warn(fmt.Sprintf("Remove wallet %q (%s) and delete its key?", name, w.Address)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, ui.Meta("Cancelled."))
				return nil
			}
		}

		if err := mgr.Remove(name); err != nil {
			return err
		}
		if err := newGrants().Revoke(cfg.Provider); err != nil {
			return err
		}
		if err := cfg.Reload(); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default wallet (pick from a list when no name is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			var items []ui.PickerItem
			for _, w := range mgr.List() {
				items = append(items, ui.PickerItem{Label: w.Name, SubLabel: w.Address, Marked: w.IsDefault})
			}
			picked, err := ui.PickItem("Default wallet", items)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Cancelled."))
				return nil
			}
			name = picked
		}

		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		if err := cfg.Reload(); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "hex private key of the account")
	walletAddCmd.Flags().BoolVar(&walletGenerateFlag, "generate", false, "create a new random account")
	walletAddCmd.Flags().BoolVar(&walletMnemonicFlag, "mnemonic", false, "derive the account from a recovery phrase read from stdin")
	walletAddCmd.Flags().Uint32Var(&walletIndexFlag, "index", 0, "account index under m/44'/60'/0'/0 (with --mnemonic)")
	walletAddCmd.MarkFlagsMutuallyExclusive("key", "generate", "mnemonic")

	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletUseCmd)
}
