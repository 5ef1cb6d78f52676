package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/nftmint/internal/chain"
	"github.com/Mohsinsiddi/nftmint/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Errors.
var (
	ErrMethodNotFound = errors.New("method not found in ABI")
	ErrNotView        = errors.New("method is not a view function")
	ErrNotWrite       = errors.New("method is not a state-changing function")
	ErrNoSigner       = errors.New("no signer bound")
	ErrReverted       = errors.New("transaction reverted")
)

// TxSigner signs transactions for one authorized account.
type TxSigner interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Receipt is the outcome of a write call. Pending is set when the
// transaction was broadcast but the wait for it ended before it was mined.
type Receipt struct {
	Method      string
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Status      uint64
	Pending     bool
}

// Reverted reports whether the transaction was mined but failed.
func (r *Receipt) Reverted() bool {
	return !r.Pending && r.Status != types.ReceiptStatusSuccessful
}

// Binding pairs a fixed contract address with its interface description and
// the signer of the session that created it.
type Binding struct {
	address      common.Address
	abi          abi.ABI
	backend      chain.Backend
	signer       TxSigner
	pollInterval time.Duration
}

// Option configures a Binding.
type Option func(*Binding)

// WithPollInterval sets how often receipts are polled after a write.
func WithPollInterval(d time.Duration) Option {
	return func(b *Binding) { b.pollInterval = d }
}

// NewBinding creates a binding. signer may be nil for read-only use.
func NewBinding(address common.Address, contractABI abi.ABI, backend chain.Backend, signer TxSigner, opts ...Option) *Binding {
	b := &Binding{
		address:      address,
		abi:          contractABI,
		backend:      backend,
		signer:       signer,
		pollInterval: time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Address returns the bound contract address.
func (b *Binding) Address() common.Address { return b.address }

// ABI returns the bound interface description.
func (b *Binding) ABI() abi.ABI { return b.abi }

// Signer returns the bound signer, or nil.
func (b *Binding) Signer() TxSigner { return b.signer }

// WithSigner returns a copy bound to s. The receiver is not modified.
func (b *Binding) WithSigner(s TxSigner) *Binding {
	cp := *b
	cp.signer = s
	return &cp
}

// Method looks up a method by name.
func (b *Binding) Method(name string) (abi.Method, error) {
	m, ok := b.abi.Methods[name]
	if !ok {
		return abi.Method{}, fmt.Errorf("%w: %q", ErrMethodNotFound, name)
	}
	return m, nil
}

// Call invokes a view/pure method and decodes its first return value.
func (b *Binding) Call(ctx context.Context, method string, args ...any) (Value, error) {
	m, err := b.Method(method)
	if err != nil {
		return Value{}, err
	}
	if !m.IsConstant() {
		return Value{}, fmt.Errorf("%w: %s (stateMutability: %s)", ErrNotView, method, m.StateMutability)
	}

	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return Value{}, fmt.Errorf("encoding call: %w", err)
	}

	msg := ethereum.CallMsg{To: &b.address, Data: data}
	if b.signer != nil {
		msg.From = b.signer.Address()
	}

	raw, err := b.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return Value{}, fmt.Errorf("contract call failed: %w", err)
	}

	return decodeOutput(m, raw)
}

// Transact signs and submits a state-changing method call, then waits for the
// receipt. A mined-but-failed transaction returns the receipt with ErrReverted.
func (b *Binding) Transact(ctx context.Context, method string, args ...any) (*Receipt, error) {
	if b.signer == nil {
		return nil, ErrNoSigner
	}
	m, err := b.Method(method)
	if err != nil {
		return nil, err
	}
	if m.IsConstant() {
		return nil, fmt.Errorf("%w: %s (stateMutability: %s)", ErrNotWrite, method, m.StateMutability)
	}

	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	from := b.signer.Address()

	chainID, err := b.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting chain id: %w", err)
	}

	nonce, err := b.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	tip, err := b.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas tip: %w", err)
	}

	head, err := b.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("getting latest header: %w", err)
	}
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	gas, err := b.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &b.address, Data: data})
	if err != nil {
		gas = config.GasLimitContractCall
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &b.address,
		Value:     big.NewInt(0),
		Data:      data,
	})

	signed, err := b.signer.SignTx(ctx, tx, chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	if err := b.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}

	mined, err := chain.WaitForReceipt(ctx, b.backend, signed.Hash(), b.pollInterval)
	if err != nil {
		return &Receipt{Method: method, TxHash: signed.Hash(), Pending: true}, err
	}

	receipt := &Receipt{
		Method:  method,
		TxHash:  signed.Hash(),
		GasUsed: mined.GasUsed,
		Status:  mined.Status,
	}
	if mined.BlockNumber != nil {
		receipt.BlockNumber = mined.BlockNumber.Uint64()
	}
	if receipt.Reverted() {
		return receipt, fmt.Errorf("%w (hash: %s)", ErrReverted, receipt.TxHash.Hex())
	}
	return receipt, nil
}
