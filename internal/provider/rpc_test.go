package provider

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectErr struct{}

func (rejectErr) Error() string  { return "User rejected the request." }
func (rejectErr) ErrorCode() int { return codeUserRejected }

// fakeWallet is served under the "eth" namespace by an in-process RPC server.
type fakeWallet struct {
	key    *ecdsa.PrivateKey
	reject bool
	signs  int
}

func (w *fakeWallet) ChainId() *hexutil.Big { return (*hexutil.Big)(big.NewInt(31337)) }

func (w *fakeWallet) RequestAccounts() ([]common.Address, error) {
	if w.reject {
		return nil, rejectErr{}
	}
	return []common.Address{crypto.PubkeyToAddress(w.key.PublicKey)}, nil
}

func (w *fakeWallet) SignTransaction(args txArgs) (*signResult, error) {
	if w.reject {
		return nil, rejectErr{}
	}
	w.signs++
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   args.ChainID.ToInt(),
		Nonce:     uint64(args.Nonce),
		GasTipCap: args.MaxPriorityFeePerGas.ToInt(),
		GasFeeCap: args.MaxFeePerGas.ToInt(),
		Gas:       uint64(args.Gas),
		To:        args.To,
		Value:     args.Value.ToInt(),
		Data:      args.Input,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(args.ChainID.ToInt()), w.key)
	if err != nil {
		return nil, err
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &signResult{Raw: raw}, nil
}

// legacyWallet only knows eth_accounts.
type legacyWallet struct{ addr common.Address }

func (w *legacyWallet) Accounts() []common.Address { return []common.Address{w.addr} }

func serve(t *testing.T, svc any) *rpc.Client {
	t.Helper()
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", svc))
	c := rpc.DialInProc(srv)
	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})
	return c
}

func newFakeWallet(t *testing.T) *fakeWallet {
	t.Helper()
	key, err := crypto.HexToECDSA("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	return &fakeWallet{key: key}
}

func TestRPCRequestAccounts(t *testing.T) {
	w := newFakeWallet(t)
	p := NewRPC(serve(t, w), "")

	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []common.Address{crypto.PubkeyToAddress(w.key.PublicKey)}, accounts)
	assert.Equal(t, NameRPC, p.Name())
}

func TestRPCRequestAccountsRejected(t *testing.T) {
	w := newFakeWallet(t)
	w.reject = true
	p := NewRPC(serve(t, w), "")

	_, err := p.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, ErrUserRejected)
}

func TestRPCRequestAccountsFallsBackToEthAccounts(t *testing.T) {
	addr := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	p := NewRPC(serve(t, &legacyWallet{addr: addr}), "")

	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []common.Address{addr}, accounts)
}

func TestRPCSignerRoundTrip(t *testing.T) {
	w := newFakeWallet(t)
	p := NewRPC(serve(t, w), "")
	account := crypto.PubkeyToAddress(w.key.PublicKey)

	s, err := p.Signer(context.Background(), account)
	require.NoError(t, err)

	chainID := big.NewInt(31337)
	to := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID: chainID, Nonce: 7, Gas: 90_000,
		GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(2_000_000_001),
		To: &to, Value: big.NewInt(0), Data: common.FromHex("0x1249c58b"),
	})

	signed, err := s.SignTx(context.Background(), tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, 1, w.signs)
	assert.Equal(t, uint64(7), signed.Nonce())
	assert.Equal(t, tx.Data(), signed.Data())
}

func TestRPCSignerWrongAccount(t *testing.T) {
	w := newFakeWallet(t)
	p := NewRPC(serve(t, w), "")

	s, err := p.Signer(context.Background(), common.HexToAddress("0x01"))
	require.NoError(t, err)

	chainID := big.NewInt(31337)
	tx := types.NewTx(&types.DynamicFeeTx{ChainID: chainID, GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(1), Value: big.NewInt(0)})
	_, err = s.SignTx(context.Background(), tx, chainID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected")
}

func TestRPCSignerRejected(t *testing.T) {
	w := newFakeWallet(t)
	w.reject = true
	p := NewRPC(serve(t, w), "")
	s, _ := p.Signer(context.Background(), crypto.PubkeyToAddress(w.key.PublicKey))

	chainID := big.NewInt(31337)
	tx := types.NewTx(&types.DynamicFeeTx{ChainID: chainID, GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(1), Value: big.NewInt(0)})
	_, err := s.SignTx(context.Background(), tx, chainID)
	assert.ErrorIs(t, err, ErrUserRejected)
}

func TestRPCBackendThroughWallet(t *testing.T) {
	p := NewRPC(serve(t, newFakeWallet(t)), "")
	b, err := p.Backend(context.Background())
	require.NoError(t, err)

	id, err := b.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(31337), id.Int64())
}

func TestRPCBackendCloseKeepsWalletOpen(t *testing.T) {
	w := newFakeWallet(t)
	p := NewRPC(serve(t, w), "")
	ctx := context.Background()

	b, err := p.Backend(ctx)
	require.NoError(t, err)
	b.Close()

	accounts, err := p.RequestAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(w.key.PublicKey), accounts[0])

	b, err = p.Backend(ctx)
	require.NoError(t, err)
	_, err = b.ChainID(ctx)
	assert.NoError(t, err)
}

func TestDialRPCGivesUpOnSilentWallet(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	orig := dialTimeout
	dialTimeout = 50 * time.Millisecond
	t.Cleanup(func() { dialTimeout = orig })

	start := time.Now()
	_, err := DialRPC(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not responding")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDialRPCRequiresURL(t *testing.T) {
	_, err := DialRPC(context.Background(), "", "")
	assert.Error(t, err)
}
