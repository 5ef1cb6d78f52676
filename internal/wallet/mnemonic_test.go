package wallet_test

import (
	"strings"
	"testing"

	"github.com/Mohsinsiddi/nftmint/internal/wallet"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Default phrase of Anvil and Hardhat dev nodes.
const devMnemonic = "test test test test test test test test test test test junk"

func TestDeriveKeyMatchesDevNodeAccounts(t *testing.T) {
	key, err := wallet.DeriveKey(devMnemonic, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", crypto.PubkeyToAddress(key.PublicKey).Hex())

	key, err = wallet.DeriveKey(devMnemonic, "", 1)
	require.NoError(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func TestDeriveKeyNormalisesWhitespace(t *testing.T) {
	spaced := "  " + strings.ReplaceAll(devMnemonic, " ", "   ") + "\n"
	a, err := wallet.DeriveKey(spaced, "", 0)
	require.NoError(t, err)
	b, err := wallet.DeriveKey(devMnemonic, "", 0)
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(b), crypto.FromECDSA(a))
}

func TestDeriveKeyPassphraseChangesAccount(t *testing.T) {
	a, err := wallet.DeriveKey(devMnemonic, "", 0)
	require.NoError(t, err)
	b, err := wallet.DeriveKey(devMnemonic, "extra", 0)
	require.NoError(t, err)
	assert.NotEqual(t, crypto.PubkeyToAddress(a.PublicKey), crypto.PubkeyToAddress(b.PublicKey))
}

func TestDeriveKeyRejectsBadChecksum(t *testing.T) {
	_, err := wallet.DeriveKey("test test test test test test test test test test test test", "", 0)
	assert.ErrorIs(t, err, wallet.ErrInvalidMnemonic)
}

func TestNewMnemonicRoundTrips(t *testing.T) {
	phrase, err := wallet.NewMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(phrase), 12)

	_, err = wallet.DeriveKey(phrase, "", 0)
	assert.NoError(t, err)
}

func TestAddFromMnemonic(t *testing.T) {
	keys := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithKeys(keys))

	w, err := mgr.AddFromMnemonic("anvil1", devMnemonic, "", 1)
	require.NoError(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", w.Address)

	stored, err := keys.Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", stored)
}
