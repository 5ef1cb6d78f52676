package session_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/nftmint/internal/contract/contracttest"
	"github.com/Mohsinsiddi/nftmint/internal/metrics"
	"github.com/Mohsinsiddi/nftmint/internal/provider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// devWallet answers account requests under the "eth" namespace.
type devWallet struct{ requests int }

func (w *devWallet) ChainId() *hexutil.Big { return (*hexutil.Big)(big.NewInt(31337)) }

func (w *devWallet) RequestAccounts() []common.Address {
	w.requests++
	return []common.Address{contracttest.DevAddress}
}

func TestReconnectThroughWalletRPC(t *testing.T) {
	w := &devWallet{}
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", w))
	c := rpc.DialInProc(srv)
	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})

	mgr := newManager(t, provider.NewRPC(c, ""), zap.NewNop(), metrics.New())
	ctx := context.Background()

	_, err := mgr.Connect(ctx)
	require.NoError(t, err)
	require.NoError(t, mgr.Disconnect())

	st, err := mgr.Connect(ctx)
	require.NoError(t, err)
	assert.True(t, st.Connected)
	assert.Equal(t, contracttest.DevAddress, st.Account)
	assert.Equal(t, 2, w.requests)

	id, err := st.Backend.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(31337), id.Int64())
}
