package contracttest

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// DevKey is the first Anvil/Hardhat dev account.
const DevKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// DevAddress is the address derived from DevKey.
var DevAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// KeySigner signs with a raw in-memory key.
type KeySigner struct {
	key   *ecdsa.PrivateKey
	Signs int
}

// NewKeySigner returns a signer for DevKey.
func NewKeySigner() *KeySigner {
	key, err := crypto.HexToECDSA(DevKey)
	if err != nil {
		panic(err)
	}
	return &KeySigner{key: key}
}

func (s *KeySigner) Address() common.Address { return crypto.PubkeyToAddress(s.key.PublicKey) }

func (s *KeySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	s.Signs++
	return types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
}
