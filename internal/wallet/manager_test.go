package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/nftmint/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestAddSigningWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	w, err := mgr.AddWithKey("signer", devKey)
	require.NoError(t, err)

	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", w.Address) // known address for test key
	assert.Equal(t, "nftmint.signer", w.KeyRef)
	assert.True(t, w.IsDefault, "first wallet becomes the default")

	got, err := mgr.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, w, got)
}

func TestAddStoresKeyInBackend(t *testing.T) {
	keys := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithKeys(keys))

	w, err := mgr.AddWithKey("signer", devKey)
	require.NoError(t, err)

	stored, err := keys.Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, devKey[2:], stored)
}

func TestAddDuplicateWalletErrors(t *testing.T) {
	mgr := wallet.NewManager()

	_, err := mgr.AddWithKey("dup", devKey)
	require.NoError(t, err)

	_, err = mgr.AddWithKey("dup", devKey)
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
}

func TestInvalidPrivateKey(t *testing.T) {
	mgr := wallet.NewManager()
	_, err := mgr.AddWithKey("bad", "not-a-valid-key")
	assert.ErrorIs(t, err, wallet.ErrInvalidKey)
}

func TestGenerateWallet(t *testing.T) {
	mgr := wallet.NewManager()

	w, err := mgr.Generate("fresh")
	require.NoError(t, err)
	assert.True(t, common.IsHexAddress(w.Address))

	key, err := mgr.Keys().Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Len(t, key, 64)
}

func TestListWalletsSorted(t *testing.T) {
	mgr := wallet.NewManager()
	for _, name := range []string{"w3", "w1", "w2"} {
		_, err := mgr.Generate(name)
		require.NoError(t, err)
	}

	wallets := mgr.List()
	require.Len(t, wallets, 3)
	assert.Equal(t, "w1", wallets[0].Name)
	assert.Equal(t, "w3", wallets[2].Name)
}

func TestRemoveWalletDeletesKey(t *testing.T) {
	keys := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithKeys(keys))
	w, err := mgr.AddWithKey("w1", devKey)
	require.NoError(t, err)

	require.NoError(t, mgr.Remove("w1"))

	_, err = mgr.Get("w1")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = keys.Retrieve(w.KeyRef)
	assert.ErrorIs(t, err, wallet.ErrKeyNotFound)
}

func TestRemoveNonExistentWallet(t *testing.T) {
	mgr := wallet.NewManager()
	assert.ErrorIs(t, mgr.Remove("ghost"), wallet.ErrWalletNotFound)
}

func TestSetDefault(t *testing.T) {
	mgr := wallet.NewManager()
	_, _ = mgr.Generate("a")
	_, _ = mgr.Generate("b")

	assert.Equal(t, "a", mgr.Default().Name)
	require.NoError(t, mgr.SetDefault("b"))
	assert.Equal(t, "b", mgr.Default().Name)

	assert.ErrorIs(t, mgr.SetDefault("zzz"), wallet.ErrWalletNotFound)
}

func TestDefaultNilWhenEmpty(t *testing.T) {
	assert.Nil(t, wallet.NewManager().Default())
}

func TestByAddress(t *testing.T) {
	mgr := wallet.NewManager()
	w, err := mgr.AddWithKey("dev", devKey)
	require.NoError(t, err)

	got, err := mgr.ByAddress(common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"))
	require.NoError(t, err)
	assert.Equal(t, w.Name, got.Name)

	_, err = mgr.ByAddress(common.HexToAddress("0x01"))
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestManagerPersistsThroughJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	keys := wallet.NewInMemoryKeystore()

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeys(keys))
	_, err := mgr.AddWithKey("dev", devKey)
	require.NoError(t, err)

	reopened := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeys(keys))
	w, err := reopened.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", w.Address)
}
