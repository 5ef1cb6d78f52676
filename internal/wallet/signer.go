package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeySigner signs EVM transactions with a keystore-held key. The key is
// fetched per signature and never cached.
type KeySigner struct {
	wallet *Wallet
	ks     KeyBackend
}

// NewKeySigner creates a signer for the given wallet.
func NewKeySigner(w *Wallet, ks KeyBackend) *KeySigner {
	return &KeySigner{wallet: w, ks: ks}
}

// Address returns the wallet's address.
func (s *KeySigner) Address() common.Address {
	return s.wallet.Account()
}

// SignTx signs tx with the London signer for chainID.
func (s *KeySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	hexKey, err := s.ks.Retrieve(s.wallet.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	privKey, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	if got := crypto.PubkeyToAddress(privKey.PublicKey); got != s.Address() {
		return nil, fmt.Errorf("key for %q belongs to %s, not %s", s.wallet.Name, got.Hex(), s.Address().Hex())
	}

	signed, err := types.SignTx(tx, types.NewLondonSigner(chainID), privKey)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return signed, nil
}
