package ui

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/Mohsinsiddi/nftmint/internal/provider"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"
)

// DescribeRequest renders what the user is asked to approve.
func DescribeRequest(req provider.Request) string {
	var sb strings.Builder
	switch req.Kind {
	case provider.RequestAccounts:
		sb.WriteString(StyleWarning.Render("Connect request") + "\n\n")
		sb.WriteString(fmt.Sprintf("  nftmint wants to use account %s\n", Addr(req.Account.Hex())))
		sb.WriteString(fmt.Sprintf("  via the %s wallet.\n", ProviderName(req.Provider)))
	case provider.RequestTransaction:
		sb.WriteString(StyleWarning.Render("Signature request") + "\n\n")
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", Meta("From"), Addr(req.Account.Hex())))
		if tx := req.Tx; tx != nil {
			if to := tx.To(); to != nil {
				sb.WriteString(fmt.Sprintf("  %-10s %s\n", Meta("To"), Addr(to.Hex())))
			}
			if data := tx.Data(); len(data) >= 4 {
				sb.WriteString(fmt.Sprintf("  %-10s %s\n", Meta("Selector"), Val(hexutil.Encode(data[:4]))))
			}
			sb.WriteString(fmt.Sprintf("  %-10s %d\n", Meta("Nonce"), tx.Nonce()))
			sb.WriteString(fmt.Sprintf("  %-10s %d\n", Meta("Gas"), tx.Gas()))
			if fee := tx.GasFeeCap(); fee != nil {
				sb.WriteString(fmt.Sprintf("  %-10s %s gwei\n", Meta("Max fee"), formatGwei(fee)))
			}
		}
		if req.ChainID != nil {
			sb.WriteString(fmt.Sprintf("  %-10s %s\n", Meta("Chain"), req.ChainID))
		}
	}
	return sb.String()
}

func formatGwei(wei *big.Int) string {
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.GWei))
	return f.Text('f', 4)
}

// approveModel is a single yes/no prompt.
type approveModel struct {
	body     string
	answered bool
	ok       bool
}

func (m approveModel) Init() tea.Cmd { return nil }

func (m approveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, isKey := msg.(tea.KeyMsg); isKey {
		switch key.String() {
		case "y", "Y":
			m.answered, m.ok = true, true
			return m, tea.Quit
		case "n", "N", "esc", "q", "ctrl+c":
			m.answered, m.ok = true, false
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m approveModel) View() string {
	if m.answered {
		if m.ok {
			return Success("approved") + "\n"
		}
		return Err("rejected") + "\n"
	}
	return StylePrompt.Render(m.body) + "\n" + Meta("  [ y ] approve   [ n ] reject") + "\n"
}

// PromptApprover asks on the terminal, standing in for a wallet's approval
// window. Prompts go to stderr.
type PromptApprover struct{}

func (PromptApprover) Approve(ctx context.Context, req provider.Request) (bool, error) {
	return Confirm(ctx, DescribeRequest(req))
}

// Confirm shows body and waits for y or n.
func Confirm(ctx context.Context, body string) (bool, error) {
	p := tea.NewProgram(approveModel{body: body}, tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return false, nil
		}
		return false, fmt.Errorf("prompt: %w", err)
	}
	return final.(approveModel).ok, nil
}
