package ui

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/Mohsinsiddi/nftmint/internal/contract"
	"github.com/Mohsinsiddi/nftmint/internal/contract/contracttest"
	"github.com/Mohsinsiddi/nftmint/internal/provider"
	"github.com/Mohsinsiddi/nftmint/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(t *testing.T, approvals *ChannelApprover) ConsoleModel {
	t.Helper()
	kind, ok := contract.GetBuiltin(contract.BasicNftID)
	require.True(t, ok)
	mgr := session.NewManager(nil, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), kind.ABI)
	m := NewConsole(context.Background(), mgr, approvals)
	t.Cleanup(m.unsub)
	return m
}

func update(t *testing.T, m ConsoleModel, msg tea.Msg) (ConsoleModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cm, ok := next.(ConsoleModel)
	require.True(t, ok)
	return cm, cmd
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var connected = stateMsg(session.State{Connected: true, Account: contracttest.DevAddress, Provider: "keystore"})

func TestConsoleDisconnectedOffersOnlyConnect(t *testing.T) {
	m := newTestConsole(t, nil)

	require.Len(t, m.items, 1)
	assert.Equal(t, itemConnect, m.items[0].kind)

	view := m.View()
	assert.Contains(t, view, "connect")
	assert.Contains(t, view, "no wallet detected")
	assert.NotContains(t, view, "getTokenCounter")
	assert.NotContains(t, view, "mint(")
}

func TestConsoleConnectedListsMethods(t *testing.T) {
	m := newTestConsole(t, nil)
	m, cmd := update(t, m, connected)
	assert.NotNil(t, cmd, "keeps listening for state changes")

	view := m.View()
	assert.Contains(t, view, "getTokenCounter")
	assert.Contains(t, view, "mint")
	assert.Contains(t, view, "disconnect")
	assert.Contains(t, view, "keystore")
	assert.NotContains(t, view, "  connect\n")

	last := m.items[len(m.items)-1]
	assert.Equal(t, itemDisconnect, last.kind)
}

func TestConsoleBackToDisconnected(t *testing.T) {
	m := newTestConsole(t, nil)
	m, _ = update(t, m, connected)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, stateMsg(session.State{}))

	require.Len(t, m.items, 1)
	assert.Equal(t, 0, m.cursor)
}

func TestConsoleConnectWithoutWallet(t *testing.T) {
	m := newTestConsole(t, nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.inflight)

	res := runConnect(t, m)
	m, _ = update(t, m, res)
	assert.Equal(t, 0, m.inflight)
	assert.ErrorIs(t, res.err, session.ErrProviderAbsent)
	assert.Contains(t, m.View(), "no wallet detected")
	assert.False(t, m.session.State().Connected)
}

// runConnect invokes the connect item directly, as its tea.Cmd would.
func runConnect(t *testing.T, m ConsoleModel) resultMsg {
	t.Helper()
	_, err := m.session.Connect(context.Background())
	return resultMsg{label: "connect", err: err}
}

func TestConsoleArgumentInput(t *testing.T) {
	m := newTestConsole(t, nil)
	m, _ = update(t, m, connected)

	idx := -1
	for i, it := range m.items {
		if it.method.Name == "tokenURI" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	m.cursor = idx

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	require.NotNil(t, m.input)
	assert.Contains(t, m.View(), "uint256")

	m, _ = update(t, m, keyRunes("12"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "1", m.input.buf)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.input)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.inflight)
}

func TestConsoleBadArgumentIsRecorded(t *testing.T) {
	m := newTestConsole(t, nil)
	m, _ = update(t, m, connected)
	for i, it := range m.items {
		if it.method.Name == "tokenURI" {
			m.cursor = i
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, keyRunes("notanumber"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.inflight)
	require.Len(t, m.history, 1)
	assert.Contains(t, m.history[0], "tokenURI")
}

func TestConsoleApprovalPrompt(t *testing.T) {
	approvals := NewChannelApprover()
	m := newTestConsole(t, approvals)

	reply := make(chan bool, 1)
	req := provider.Request{Kind: provider.RequestAccounts, Provider: "keystore", Account: contracttest.DevAddress}
	m, _ = update(t, m, approvalMsg{req: req, reply: reply})
	assert.Contains(t, m.View(), "Connect request")

	// Navigation keys are swallowed while a request is pending.
	m, _ = update(t, m, keyRunes("q"))
	assert.False(t, m.Quitting)

	m, cmd := update(t, m, keyRunes("y"))
	assert.NotNil(t, cmd)
	assert.Nil(t, m.pending)
	assert.True(t, <-reply)
}

func TestConsoleApprovalReject(t *testing.T) {
	m := newTestConsole(t, NewChannelApprover())
	reply := make(chan bool, 1)
	m, _ = update(t, m, approvalMsg{req: provider.Request{Kind: provider.RequestAccounts}, reply: reply})
	_, _ = update(t, m, keyRunes("n"))
	assert.False(t, <-reply)
}

func TestChannelApproverRoundTrip(t *testing.T) {
	a := NewChannelApprover()
	go func() {
		msg := a.wait()().(approvalMsg)
		msg.reply <- msg.req.Kind == provider.RequestTransaction
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ok, err := a.Approve(ctx, provider.Request{Kind: provider.RequestTransaction})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChannelApproverCancelled(t *testing.T) {
	a := NewChannelApprover()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := a.Approve(ctx, provider.Request{})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsoleQuit(t *testing.T) {
	m := newTestConsole(t, nil)
	m, cmd := update(t, m, keyRunes("q"))
	assert.True(t, m.Quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestDescribeTransactionRequest(t *testing.T) {
	to := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID: big.NewInt(31337), Nonce: 3, Gas: 90_000,
		GasFeeCap: big.NewInt(2_001_000_000), GasTipCap: big.NewInt(1_000_000),
		To: &to, Data: common.FromHex("0x1249c58b"),
	})
	out := DescribeRequest(provider.Request{
		Kind: provider.RequestTransaction, Account: contracttest.DevAddress,
		Tx: tx, ChainID: big.NewInt(31337),
	})
	assert.Contains(t, out, "Signature request")
	assert.Contains(t, out, "0x1249c58b")
	assert.Contains(t, out, to.Hex())
	assert.Contains(t, out, "2.0010 gwei")
	assert.Contains(t, out, "31337")
}

func TestApproveModelKeys(t *testing.T) {
	m := approveModel{body: "?"}
	next, cmd := m.Update(keyRunes("y"))
	assert.True(t, next.(approveModel).ok)
	assert.NotNil(t, cmd)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, next.(approveModel).ok)
	assert.True(t, next.(approveModel).answered)

	next, cmd = m.Update(keyRunes("x"))
	assert.False(t, next.(approveModel).answered)
	assert.Nil(t, cmd)
}

func TestPickerSelectsMarkedFirst(t *testing.T) {
	m := newPicker("Default wallet", []PickerItem{{Label: "a"}, {Label: "b", Marked: true}})
	assert.Equal(t, 1, m.cursor)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	next, cmd := next.(pickerModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, 0, next.(pickerModel).selected)
}
