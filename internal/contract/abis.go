package contract

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BuiltinKind describes a contract interface embedded in the binary. New
// built-ins register themselves via init() in their own file: add
// internal/contract/<name>.go and call RegisterBuiltin().
type BuiltinKind struct {
	ID          string  // machine key, e.g. "basicnft"
	Name        string  // human label
	Description string  // one-line summary shown by `nftmint methods`
	ABI         abi.ABI // parsed interface, ready to use
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin adds a built-in ABI to the global registry.
// Call this from init() in the file that defines the ABI.
func RegisterBuiltin(b BuiltinKind) {
	builtinRegistry[b.ID] = b
}

// MustParseABI parses a JSON interface description and panics on error.
// Only for embedded ABIs validated at build time.
func MustParseABI(raw []byte) abi.ABI {
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("contract: invalid embedded ABI: %v", err))
	}
	return parsed
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := make([]BuiltinKind, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
