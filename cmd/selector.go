package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/nftmint/internal/contract"
	"github.com/Mohsinsiddi/nftmint/internal/ui"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var selectorCmd = &cobra.Command{
	Use:   "selector <signature-or-selector>",
	Short: "Compute a function selector or look one up in the contract",
	Long: `Compute a 4-byte function selector from a signature, or look up a
selector in the contract interface.

Examples:
  nftmint selector "mint()"                    # → 0x1249c58b
  nftmint selector "tokenURI(uint256 tokenId)" # names are ignored
  nftmint selector 0x1249c58b                  # → mint()`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		out := cmd.OutOrStdout()

		if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
			id, err := hexutil.Decode(strings.ToLower(input))
			if err != nil || len(id) != 4 {
				return fmt.Errorf("invalid selector %q: want 0x followed by 8 hex digits", input)
			}
			kind, _ := contract.GetBuiltin(contract.BasicNftID)
			method := ui.Meta("not in contract interface")
			if m, err := kind.ABI.MethodById(id); err == nil {
				method = ui.Val(m.Sig)
			}
			fmt.Fprintln(out, ui.KeyValueBlock("Selector Lookup", [][2]string{
				{"Selector", input},
				{"Method", method},
			}))
			return nil
		}

		sig := normalizeSignature(input)
		fmt.Fprintln(out, ui.KeyValueBlock("Function Selector", [][2]string{
			{"Signature", sig},
			{"Selector", ui.Val(contract.Selector(sig))},
		}))
		return nil
	},
}

// normalizeSignature removes parameter names, keeping only types.
// "tokenURI(uint256 tokenId)" → "tokenURI(uint256)"
func normalizeSignature(sig string) string {
	sig = strings.TrimSpace(sig)
	open := strings.Index(sig, "(")
	if open < 0 || !strings.HasSuffix(sig, ")") {
		return sig
	}

	name := strings.TrimSpace(sig[:open])
	params := strings.TrimSpace(sig[open+1 : len(sig)-1])
	if params == "" {
		return name + "()"
	}

	var types []string
	for _, p := range strings.Split(params, ",") {
		if fields := strings.Fields(p); len(fields) > 0 {
			types = append(types, fields[0])
		}
	}
	return name + "(" + strings.Join(types, ",") + ")"
}
