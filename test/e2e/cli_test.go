package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "nftmint-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "nftmint")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "NFTMINT_CONFIG_DIR="+configDir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "nftmint")
}

func TestHelpListsCommands(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--help")
	require.NoError(t, err)
	for _, name := range []string{"connect", "read", "write", "mint", "console", "wallet"} {
		assert.Contains(t, out, name)
	}
}

func TestMethodsShowsMint(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "methods")
	require.NoError(t, err)
	assert.Contains(t, out, "mint()")
	assert.Contains(t, out, "0x1249c58b")
	assert.Contains(t, out, "getTokenCounter()")
}

func TestSelectorLookup(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "selector", "0x1249c58b")
	require.NoError(t, err)
	assert.Contains(t, out, "mint()")
}

func TestStatusWithoutWallet(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not detected")
}

func TestConnectWithoutWalletFails(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "connect")
	require.Error(t, err)
	assert.Contains(t, out, "wallet add")
}

func TestReadWithoutWalletFails(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "read", "getTokenCounter")
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(out), "no wallet provider")
}

func TestConfigSetPersists(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "rpc_url", "http://127.0.0.1:9545")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "127.0.0.1:9545")

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "127.0.0.1:9545")
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "config", "set", "colour", "blue")
	assert.Error(t, err)
}

func TestRPCFlagIsNotPersisted(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "--rpc", "http://10.0.0.1:8545", "config", "set", "receipt_poll_ms", "250")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "10.0.0.1")
	assert.Contains(t, out, "250")
}

func TestUnknownCommandShowsError(t *testing.T) {
	out, _ := runCLI(t, t.TempDir(), "unknowncommand")
	assert.Contains(t, strings.ToLower(out), "unknown command")
}

func TestMintHelpShowsGlobalFlags(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "mint", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--yes")
	assert.Contains(t, out, "--contract")
	assert.Contains(t, out, "--timeout")
}
