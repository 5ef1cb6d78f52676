package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic is returned for a phrase that fails the BIP-39 checksum.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// DeriveKey returns the account key at m/44'/60'/0'/0/index for a BIP-39
// phrase, the path every Ethereum wallet and dev node uses by default.
func DeriveKey(mnemonic, passphrase string, index uint32) (*ecdsa.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, passphrase)

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}

	path := make(accounts.DerivationPath, len(accounts.DefaultBaseDerivationPath), len(accounts.DefaultBaseDerivationPath)+1)
	copy(path, accounts.DefaultBaseDerivationPath)
	path = append(path, index)

	for _, n := range path {
		if key, err = key.Derive(n); err != nil {
			return nil, fmt.Errorf("deriving %s: %w", path, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extracting key at %s: %w", path, err)
	}
	return crypto.ToECDSA(priv.Serialize())
}

// NewMnemonic returns a fresh 12-word phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}
