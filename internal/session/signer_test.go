package session_test

import (
	"context"
	"math/big"

	"github.com/Mohsinsiddi/nftmint/internal/contract/contracttest"
	"github.com/Mohsinsiddi/nftmint/internal/provider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// rejectingSigner declines every signature, like a user pressing "reject"
// in the wallet.
type rejectingSigner struct{}

func (rejectingSigner) Address() common.Address { return contracttest.DevAddress }

func (rejectingSigner) SignTx(context.Context, *types.Transaction, *big.Int) (*types.Transaction, error) {
	return nil, provider.ErrUserRejected
}
