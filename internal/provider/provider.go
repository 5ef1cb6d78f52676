// Package provider abstracts the wallet a session connects to: something that
// can authorize accounts, hand out a chain backend, and sign for an
// authorized account.
package provider

import (
	"context"
	"errors"
	"math/big"

	"github.com/Mohsinsiddi/nftmint/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Errors.
var (
	ErrUserRejected   = errors.New("user rejected the request")
	ErrUnknownAccount = errors.New("account not managed by this provider")
)

// Signer is a capability bound to one authorized account.
type Signer interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// WalletProvider is the wallet capability injected into a session.
type WalletProvider interface {
	// Name identifies the provider kind, e.g. "keystore".
	Name() string
	// RequestAccounts asks the user to authorize account access. It blocks
	// until the user answers or ctx ends.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Backend opens the chain connection reads and writes go through.
	Backend(ctx context.Context) (chain.Backend, error)
	// Signer returns a signer for an account previously returned by
	// RequestAccounts.
	Signer(ctx context.Context, account common.Address) (Signer, error)
}

// RequestKind distinguishes what the user is asked to approve.
type RequestKind int

const (
	RequestAccounts RequestKind = iota
	RequestTransaction
)

func (k RequestKind) String() string {
	switch k {
	case RequestAccounts:
		return "accounts"
	case RequestTransaction:
		return "transaction"
	}
	return "unknown"
}

// Request is shown to the user for approval.
type Request struct {
	Kind     RequestKind
	Provider string
	Account  common.Address
	// Set for RequestTransaction.
	Tx      *types.Transaction
	ChainID *big.Int
}

// Approver asks the user to approve a request. It returns false when the
// user declines.
type Approver interface {
	Approve(ctx context.Context, req Request) (bool, error)
}

// ApproverFunc adapts a function to Approver.
type ApproverFunc func(ctx context.Context, req Request) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, req Request) (bool, error) { return f(ctx, req) }

// AutoApprove answers every request with ok, e.g. for --yes.
func AutoApprove(ok bool) Approver {
	return ApproverFunc(func(ctx context.Context, _ Request) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return ok, nil
	})
}
