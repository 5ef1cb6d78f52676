// Package contracttest simulates the BasicNft contract on a chaintest.Backend.
package contracttest

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/nftmint/internal/chain/chaintest"
	"github.com/Mohsinsiddi/nftmint/internal/contract"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
)

// Test fixtures returned by the simulated contract.
const (
	Name     = "Dogie"
	Symbol   = "DOG"
	TokenURI = "ipfs://bafybeig37ioir76s7mg5oobetncojcm3c3hxasyd4rvid4jqhy4gkaheg4/?filename=0-PUG.json"
)

// BasicNft answers view calls from an in-memory counter and increments it
// on every successful mint transaction.
type BasicNft struct {
	mu      sync.Mutex
	abi     abi.ABI
	counter int64

	// RevertMint makes the next mint transactions fail on chain.
	RevertMint bool
}

// Install wires a simulated BasicNft into b and returns it.
func Install(b *chaintest.Backend) *BasicNft {
	kind, _ := contract.GetBuiltin(contract.BasicNftID)
	nft := &BasicNft{abi: kind.ABI}
	b.CallFn = nft.call
	b.SendFn = nft.send
	return nft
}

// Counter returns the current token counter.
func (n *BasicNft) Counter() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.counter
}

func (n *BasicNft) call(msg ethereum.CallMsg) ([]byte, error) {
	m, err := n.abi.MethodById(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("execution reverted: %w", err)
	}

	n.mu.Lock()
	counter := n.counter
	n.mu.Unlock()

	switch m.Name {
	case "getTokenCounter":
		return m.Outputs.Pack(big.NewInt(counter))
	case "name":
		return m.Outputs.Pack(Name)
	case "symbol":
		return m.Outputs.Pack(Symbol)
	case "TOKEN_URI", "tokenURI":
		return m.Outputs.Pack(TokenURI)
	}
	return nil, errors.New("execution reverted")
}

func (n *BasicNft) send(tx *types.Transaction) (uint64, error) {
	mint := n.abi.Methods["mint"]
	if !bytes.HasPrefix(tx.Data(), mint.ID) {
		return types.ReceiptStatusFailed, nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.RevertMint {
		return types.ReceiptStatusFailed, nil
	}
	n.counter++
	return types.ReceiptStatusSuccessful, nil
}
