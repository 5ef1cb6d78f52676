package contract

import _ "embed"

// BasicNftID is the built-in used by every session.
const BasicNftID = "basicnft"

// BasicNft is a minimal ERC-721 whose mint() hands the caller the next token
// id and increments a public counter.
//
// Function selectors:
//
//	mint()               → 0x1249c58b
//	name()               → 0x06fdde03
//	symbol()             → 0x95d89b41
//	tokenURI(uint256)    → 0xc87b56dd
//	balanceOf(address)   → 0x70a08231
//	ownerOf(uint256)     → 0x6352211e
//
//go:embed abi/basic_nft.abi.json
var basicNftJSON []byte

func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          BasicNftID,
		Name:        "BasicNft (ERC-721)",
		Description: "Parameterless mint(), a token counter and a fixed token URI.",
		ABI:         MustParseABI(basicNftJSON),
	})
}
