package provider

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/nftmint/internal/chain"
	"github.com/Mohsinsiddi/nftmint/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// NameKeystore identifies the local keystore provider.
const NameKeystore = "keystore"

// DialFunc opens a chain backend.
type DialFunc func(ctx context.Context, url string) (chain.Backend, error)

// DefaultDial dials with ethclient.
func DefaultDial(ctx context.Context, url string) (chain.Backend, error) {
	c, err := chain.Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Keystore serves accounts whose keys live in the local keystore. Account
// access and every signature are confirmed through an Approver.
type Keystore struct {
	wallets   *wallet.Manager
	grants    *wallet.Grants
	approver  Approver
	rpcURL    string
	preferred string
	dial      DialFunc
}

// KeystoreOption configures a Keystore provider.
type KeystoreOption func(*Keystore)

// WithPreferredWallet selects the wallet offered for authorization instead of
// the default one.
func WithPreferredWallet(name string) KeystoreOption {
	return func(k *Keystore) { k.preferred = name }
}

// WithDial overrides how the chain backend is opened.
func WithDial(d DialFunc) KeystoreOption {
	return func(k *Keystore) { k.dial = d }
}

// NewKeystore creates the provider. grants may be nil to always prompt.
func NewKeystore(wallets *wallet.Manager, grants *wallet.Grants, approver Approver, rpcURL string, opts ...KeystoreOption) *Keystore {
	if grants == nil {
		grants = wallet.NewGrants("")
	}
	k := &Keystore{
		wallets:  wallets,
		grants:   grants,
		approver: approver,
		rpcURL:   rpcURL,
		dial:     DefaultDial,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *Keystore) Name() string { return NameKeystore }

// Available reports whether there is any account to offer.
func (k *Keystore) Available() bool {
	return len(k.wallets.List()) > 0
}

func (k *Keystore) selected() (*wallet.Wallet, error) {
	if k.preferred != "" {
		return k.wallets.Get(k.preferred)
	}
	if w := k.wallets.Default(); w != nil {
		return w, nil
	}
	return nil, wallet.ErrWalletNotFound
}

// RequestAccounts returns the selected wallet's account. A previously
// granted account is returned without prompting.
func (k *Keystore) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	w, err := k.selected()
	if err != nil {
		return nil, err
	}
	account := w.Account()

	if k.grants.Granted(NameKeystore, account) {
		return []common.Address{account}, nil
	}

	ok, err := k.approver.Approve(ctx, Request{Kind: RequestAccounts, Provider: NameKeystore, Account: account})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserRejected
	}
	if err := k.grants.Grant(NameKeystore, account); err != nil {
		return nil, fmt.Errorf("saving grant: %w", err)
	}
	return []common.Address{account}, nil
}

func (k *Keystore) Backend(ctx context.Context) (chain.Backend, error) {
	return k.dial(ctx, k.rpcURL)
}

func (k *Keystore) Signer(_ context.Context, account common.Address) (Signer, error) {
	w, err := k.wallets.ByAddress(account)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAccount, err)
	}
	return &approvingSigner{
		inner:    wallet.NewKeySigner(w, k.wallets.Keys()),
		approver: k.approver,
	}, nil
}

// approvingSigner asks for approval before every signature, standing in for
// a wallet's transaction confirmation screen.
type approvingSigner struct {
	inner    Signer
	approver Approver
}

func (s *approvingSigner) Address() common.Address { return s.inner.Address() }

func (s *approvingSigner) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	ok, err := s.approver.Approve(ctx, Request{
		Kind:     RequestTransaction,
		Provider: NameKeystore,
		Account:  s.inner.Address(),
		Tx:       tx,
		ChainID:  chainID,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserRejected
	}
	return s.inner.SignTx(ctx, tx, chainID)
}
