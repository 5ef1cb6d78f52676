package provider

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/nftmint/internal/chain"
	"github.com/Mohsinsiddi/nftmint/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// NameRPC identifies the external JSON-RPC wallet provider.
const NameRPC = "rpc"

// JSON-RPC error codes wallets use (EIP-1193 and JSON-RPC 2.0).
const (
	codeUserRejected   = 4001
	codeUnauthorized   = 4100
	codeMethodNotFound = -32601
)

// RPC is an external wallet reached over JSON-RPC: Clef, a dev node with
// unlocked accounts, or a browser-wallet bridge. Approval UI is the
// wallet's own.
type RPC struct {
	client   *rpc.Client
	chainURL string
	dial     DialFunc
}

// NewRPC wraps an open RPC client. When chainURL is empty, chain reads and
// broadcasts go through the wallet endpoint itself.
func NewRPC(client *rpc.Client, chainURL string) *RPC {
	return &RPC{client: client, chainURL: chainURL, dial: DefaultDial}
}

// dialTimeout is replaced in tests.
var dialTimeout = config.DialTimeout

// DialRPC connects to a wallet endpoint and checks that it answers within
// config.DialTimeout.
func DialRPC(ctx context.Context, walletURL, chainURL string) (*RPC, error) {
	if walletURL == "" {
		return nil, errors.New("no wallet RPC URL configured")
	}
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	c, err := rpc.DialContext(ctx, walletURL)
	if err != nil {
		return nil, fmt.Errorf("dialing wallet %s: %w", walletURL, err)
	}
	var chainID hexutil.Big
	if err := c.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		c.Close()
		return nil, fmt.Errorf("wallet %s not responding: %w", walletURL, err)
	}
	return NewRPC(c, chainURL), nil
}

func (p *RPC) Name() string { return NameRPC }

// Close releases the wallet connection.
func (p *RPC) Close() { p.client.Close() }

// RequestAccounts calls eth_requestAccounts, falling back to eth_accounts for
// wallets that predate EIP-1102.
func (p *RPC) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts")
	if rpcCode(err) == codeMethodNotFound {
		err = p.client.CallContext(ctx, &accounts, "eth_accounts")
	}
	if err != nil {
		return nil, mapRPCError(err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: wallet exposed no accounts", ErrUserRejected)
	}
	return accounts, nil
}

func (p *RPC) Backend(ctx context.Context) (chain.Backend, error) {
	if p.chainURL != "" {
		return p.dial(ctx, p.chainURL)
	}
	return walletBackend{chain.FromRPC(p.client)}, nil
}

// walletBackend reads the chain through the wallet connection. The provider
// owns that connection, so closing the backend leaves it open.
type walletBackend struct{ *ethclient.Client }

func (walletBackend) Close() {}

func (p *RPC) Signer(_ context.Context, account common.Address) (Signer, error) {
	return &rpcSigner{client: p.client, account: account}, nil
}

type rpcSigner struct {
	client  *rpc.Client
	account common.Address
}

func (s *rpcSigner) Address() common.Address { return s.account }

// txArgs mirrors the wallet's eth_signTransaction argument object.
type txArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to"`
	Gas                  hexutil.Uint64  `json:"gas"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Input                hexutil.Bytes   `json:"input"`
	ChainID              *hexutil.Big    `json:"chainId"`
}

type signResult struct {
	Raw hexutil.Bytes `json:"raw"`
}

// SignTx hands the unsigned transaction to the wallet, which shows its own
// confirmation, and returns the wallet-signed transaction.
func (s *rpcSigner) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	args := txArgs{
		From:                 s.account,
		To:                   tx.To(),
		Gas:                  hexutil.Uint64(tx.Gas()),
		MaxFeePerGas:         (*hexutil.Big)(tx.GasFeeCap()),
		MaxPriorityFeePerGas: (*hexutil.Big)(tx.GasTipCap()),
		Value:                (*hexutil.Big)(tx.Value()),
		Nonce:                hexutil.Uint64(tx.Nonce()),
		Input:                tx.Data(),
		ChainID:              (*hexutil.Big)(chainID),
	}

	var res signResult
	if err := s.client.CallContext(ctx, &res, "eth_signTransaction", args); err != nil {
		return nil, mapRPCError(err)
	}

	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(res.Raw); err != nil {
		return nil, fmt.Errorf("decoding signed transaction: %w", err)
	}

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		return nil, fmt.Errorf("recovering signer: %w", err)
	}
	if from != s.account {
		return nil, fmt.Errorf("wallet signed with %s, expected %s", from.Hex(), s.account.Hex())
	}
	return signed, nil
}

func rpcCode(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}

func mapRPCError(err error) error {
	switch rpcCode(err) {
	case codeUserRejected, codeUnauthorized:
		return fmt.Errorf("%w: %v", ErrUserRejected, err)
	}
	return err
}
