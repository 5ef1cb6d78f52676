package contract

import (
	"encoding/hex"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// MethodInfo is one row of `nftmint methods`.
type MethodInfo struct {
	Name     string
	Sig      string // canonical signature, e.g. "tokenURI(uint256)"
	Selector string // "0xc87b56dd"
	Outputs  []string
	IsWrite  bool
}

// Methods lists the interface's functions, reads first, each group sorted by
// name.
func Methods(a abi.ABI) []MethodInfo {
	out := make([]MethodInfo, 0, len(a.Methods))
	for _, m := range a.Methods {
		info := MethodInfo{
			Name:     m.Name,
			Sig:      m.Sig,
			Selector: Selector(m.Sig),
			IsWrite:  !m.IsConstant(),
		}
		for _, o := range m.Outputs {
			info.Outputs = append(info.Outputs, o.Type.String())
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsWrite != out[j].IsWrite {
			return !out[i].IsWrite
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Selector computes the 4-byte function selector for a canonical signature.
func Selector(sig string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}
