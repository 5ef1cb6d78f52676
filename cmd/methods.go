package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/nftmint/internal/contract"
	"github.com/Mohsinsiddi/nftmint/internal/ui"
	"github.com/spf13/cobra"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the contract interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := contract.GetBuiltin(contract.BasicNftID)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.StyleTitle.Render(fmt.Sprintf("%s  ·  %s", kind.Name, cfg.Contract().Hex())))

		t := ui.NewTable([]ui.Column{
			{Title: "Selector", Width: 10},
			{Title: "Signature", Width: 24},
			{Title: "Kind", Width: 5},
			{Title: "Returns", Width: 10},
		})
		for _, m := range contract.Methods(kind.ABI) {
			k := "read"
			if m.IsWrite {
				k = "write"
			}
			t.AddRow(ui.Row{m.Selector, m.Sig, k, strings.Join(m.Outputs, ",")})
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Hint("Call one with: nftmint read <method> [args] or nftmint write <method> [args]"))
		return nil
	},
}
