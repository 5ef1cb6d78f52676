package ui

import (
	"context"

	"github.com/Mohsinsiddi/nftmint/internal/provider"
	tea "github.com/charmbracelet/bubbletea"
)

// approvalMsg carries a provider request into the console; the answer goes
// back on reply.
type approvalMsg struct {
	req   provider.Request
	reply chan bool
}

// ChannelApprover routes approval requests into a running console instead of
// opening a second terminal program.
type ChannelApprover struct {
	requests chan approvalMsg
}

// NewChannelApprover returns an approver with no console attached yet.
// Approve blocks until a console answers or ctx ends.
func NewChannelApprover() *ChannelApprover {
	return &ChannelApprover{requests: make(chan approvalMsg)}
}

func (a *ChannelApprover) Approve(ctx context.Context, req provider.Request) (bool, error) {
	reply := make(chan bool, 1)
	select {
	case a.requests <- approvalMsg{req: req, reply: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// wait delivers the next request to the console.
func (a *ChannelApprover) wait() tea.Cmd {
	return func() tea.Msg { return <-a.requests }
}
