package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/Mohsinsiddi/nftmint/internal/contract"
	"github.com/Mohsinsiddi/nftmint/internal/session"
	"github.com/Mohsinsiddi/nftmint/internal/ui"
	"github.com/spf13/cobra"
)

var readRaw bool

var readCmd = &cobra.Command{
	Use:   "read <method> [args...]",
	Short: "Call a view method on the contract",
	Long: `Connect, then call a read-only method of the contract and print the
decoded result. Arguments are converted by the method's input types.

Examples:
  nftmint read getTokenCounter
  nftmint read name
  nftmint read tokenURI 0
  nftmint read balanceOf 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
  nftmint read getTokenCounter --raw    # value only, for scripts`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		mgr, err := connectedSession(ctx, out)
		if err != nil {
			return err
		}
		callArgs, err := parseCallArgs(mgr, args[0], args[1:])
		if err != nil {
			return err
		}

		v, err := readValue(ctx, mgr, args[0], callArgs...)
		if err != nil {
			return err
		}

		if readRaw {
			fmt.Fprintln(out, v.String())
			return nil
		}
		fmt.Fprintln(out, ui.KeyValueBlock("Contract Call", [][2]string{
			{"Contract", ui.Addr(mgr.Address().Hex())},
			{"Method", ui.Val(args[0])},
			{"Type", ui.Meta(v.Type)},
			{"Result", ui.Val(v.String())},
		}))
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <method> [args...]",
	Short: "Send a state-changing call to the contract",
	Long: `Connect, then sign and submit a write method of the contract and wait
for the receipt. The wallet asks for approval before signing.

Examples:
  nftmint write mint
  nftmint --yes write mint`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		mgr, err := connectedSession(ctx, out)
		if err != nil {
			return err
		}
		callArgs, err := parseCallArgs(mgr, args[0], args[1:])
		if err != nil {
			return err
		}
		receipt, err := submit(ctx, out, mgr, args[0], callArgs...)
		if receipt != nil {
			fmt.Fprintln(out, receiptBlock(receipt))
		}
		return err
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint one token and show the counter before and after",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		mgr, err := connectedSession(ctx, out)
		if err != nil {
			return err
		}

		before, err := tokenCounter(ctx, mgr)
		if err != nil {
			return err
		}
		receipt, err := submit(ctx, out, mgr, "mint")
		if receipt != nil {
			fmt.Fprintln(out, receiptBlock(receipt))
		}
		if err != nil {
			return err
		}
		after, err := tokenCounter(ctx, mgr)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Token counter: %s → %s", before, after)))
		return nil
	},
}

func parseCallArgs(mgr *session.Manager, method string, raw []string) ([]any, error) {
	m, err := mgr.Method(method)
	if err != nil {
		return nil, fmt.Errorf("%w\n  List the contract's methods with: nftmint methods", err)
	}
	return contract.ParseArgs(m, raw)
}

func readValue(ctx context.Context, mgr *session.Manager, method string, args ...any) (contract.Value, error) {
	spin := ui.NewSpinner(fmt.Sprintf("Calling %s...", method))
	spin.Start()
	defer spin.Stop()
	return mgr.ReadContractValue(ctx, method, args...)
}

func tokenCounter(ctx context.Context, mgr *session.Manager) (*big.Int, error) {
	v, err := readValue(ctx, mgr, "getTokenCounter")
	if err != nil {
		return nil, err
	}
	n, ok := v.BigInt()
	if !ok {
		return nil, fmt.Errorf("getTokenCounter returned %s, want an integer", v.Type)
	}
	return n, nil
}

// submit runs a write. No spinner: the approval prompt needs the terminal.
func submit(ctx context.Context, out io.Writer, mgr *session.Manager, method string, args ...any) (*contract.Receipt, error) {
	fmt.Fprintln(out, ui.Info(fmt.Sprintf("Submitting %s from %s...", method, ui.TruncateAddr(mgr.State().Account.Hex()))))
	receipt, err := mgr.WriteContract(ctx, method, args...)
	if errors.Is(err, contract.ErrReverted) {
		fmt.Fprintln(out, ui.Err(fmt.Sprintf("%s reverted on chain", method)))
	}
	return receipt, err
}

func receiptBlock(r *contract.Receipt) string {
	status := ui.StyleSuccess.Render("success")
	switch {
	case r.Pending:
		return ui.KeyValueBlock("Transaction", [][2]string{
			{"Method", ui.Val(r.Method)},
			{"Hash", ui.Addr(r.TxHash.Hex())},
			{"Status", ui.StyleWarning.Render("pending")},
		})
	case r.Reverted():
		status = ui.StyleError.Render("reverted")
	}
	return ui.KeyValueBlock("Transaction", [][2]string{
		{"Method", ui.Val(r.Method)},
		{"Hash", ui.Addr(r.TxHash.Hex())},
		{"Block", fmt.Sprintf("%d", r.BlockNumber)},
		{"Gas used", fmt.Sprintf("%d", r.GasUsed)},
		{"Status", status},
	})
}

func init() {
	readCmd.Flags().BoolVar(&readRaw, "raw", false, "print only the decoded value")
}
