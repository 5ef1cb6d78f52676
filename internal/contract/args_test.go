package contract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const argsABI = `[
  {"type":"function","name":"tokenURI","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
  {"type":"function","name":"mixed","inputs":[
    {"name":"who","type":"address"},
    {"name":"flag","type":"bool"},
    {"name":"tag","type":"bytes4"},
    {"name":"small","type":"uint8"},
    {"name":"delta","type":"int64"},
    {"name":"note","type":"string"},
    {"name":"blob","type":"bytes"},
    {"name":"odd","type":"uint24"}
  ],"outputs":[],"stateMutability":"nonpayable"}
]`

func TestParseArgsUint256(t *testing.T) {
	a := MustParseABI([]byte(argsABI))
	args, err := ParseArgs(a.Methods["tokenURI"], []string{"42"})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), args[0])

	args, err = ParseArgs(a.Methods["tokenURI"], []string{"0x2a"})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), args[0])
}

func TestParseArgsMixedPacks(t *testing.T) {
	a := MustParseABI([]byte(argsABI))
	m := a.Methods["mixed"]
	args, err := ParseArgs(m, []string{
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		"true",
		"0x1249c58b",
		"255",
		"-9",
		"hello",
		"0xdead",
		"70000",
	})
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), args[0])
	assert.Equal(t, true, args[1])
	assert.Equal(t, [4]byte{0x12, 0x49, 0xc5, 0x8b}, args[2])
	assert.Equal(t, uint8(255), args[3])
	assert.Equal(t, int64(-9), args[4])
	assert.Equal(t, "hello", args[5])
	assert.Equal(t, []byte{0xde, 0xad}, args[6])
	assert.Equal(t, big.NewInt(70000), args[7])

	_, err = a.Pack("mixed", args...)
	assert.NoError(t, err, "parsed args must be packable")
}

func TestParseArgsErrors(t *testing.T) {
	a := MustParseABI([]byte(argsABI))
	m := a.Methods["tokenURI"]

	_, err := ParseArgs(m, nil)
	assert.Error(t, err, "arity mismatch")

	_, err = ParseArgs(m, []string{"abc"})
	assert.Error(t, err, "not an integer")

	_, err = ParseArgs(m, []string{"-1"})
	assert.Error(t, err, "negative unsigned")
}

func TestParseArgsOverflow(t *testing.T) {
	a := MustParseABI([]byte(argsABI))
	m := a.Methods["mixed"]
	_, err := ParseArgs(m, []string{
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "true", "0x00", "256", "0", "", "0x", "0",
	})
	assert.Error(t, err)
}

func TestParseArgsBadAddress(t *testing.T) {
	a := MustParseABI([]byte(argsABI))
	m := a.Methods["mixed"]
	_, err := ParseArgs(m, []string{
		"0x123", "true", "0x00", "1", "0", "", "0x", "0",
	})
	assert.Error(t, err)
}
