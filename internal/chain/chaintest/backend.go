// Package chaintest provides an in-memory chain.Backend for tests.
package chaintest

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is a programmable fake node. CallFn answers eth_call; SendFn sees
// every submitted transaction and returns its receipt status. Transactions
// are mined on submission unless HoldReceipts is set.
type Backend struct {
	mu sync.Mutex

	ChainIDValue *big.Int
	BaseFee      *big.Int
	TipCap       *big.Int
	GasEstimate  uint64
	EstimateErr  error
	HoldReceipts bool

	CallFn func(msg ethereum.CallMsg) ([]byte, error)
	SendFn func(tx *types.Transaction) (status uint64, err error)

	Sent     []*types.Transaction
	Calls    []ethereum.CallMsg
	nonces   map[common.Address]uint64
	receipts map[common.Hash]*types.Receipt
	closed   bool
}

// New returns a fake on chain ID 31337 with 1 gwei base fee.
func New() *Backend {
	return &Backend{
		ChainIDValue: big.NewInt(31337),
		BaseFee:      big.NewInt(1_000_000_000),
		TipCap:       big.NewInt(1_000_000),
		GasEstimate:  90_000,
		nonces:       make(map[common.Address]uint64),
		receipts:     make(map[common.Hash]*types.Receipt),
	}
}

func (b *Backend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	b.Calls = append(b.Calls, call)
	fn := b.CallFn
	b.mu.Unlock()
	if fn == nil {
		return nil, errors.New("execution reverted")
	}
	return fn(call)
}

func (b *Backend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	if b.EstimateErr != nil {
		return 0, b.EstimateErr
	}
	return b.GasEstimate, nil
}

func (b *Backend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.TipCap), nil
}

func (b *Backend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: new(big.Int).Set(b.BaseFee)}, nil
}

func (b *Backend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonces[account], nil
}

func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return err
	}

	status := types.ReceiptStatusSuccessful
	if b.SendFn != nil {
		status, err = b.SendFn(tx)
		if err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, tx)
	b.nonces[from]++
	if b.HoldReceipts {
		return nil
	}
	b.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas() / 2,
		BlockNumber: big.NewInt(int64(len(b.Sent))),
	}
	return nil
}

func (b *Backend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (b *Backend) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.ChainIDValue), nil
}

func (b *Backend) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// Closed reports whether Close was called.
func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
