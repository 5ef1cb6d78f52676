// Package session is the wallet session and contract call manager: it
// connects to a wallet provider, keeps the authorized account's handles, and
// issues read and write calls against the configured contract.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mohsinsiddi/nftmint/internal/contract"
	"github.com/Mohsinsiddi/nftmint/internal/metrics"
	"github.com/Mohsinsiddi/nftmint/internal/provider"
	"github.com/Mohsinsiddi/nftmint/internal/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors.
var (
	ErrProviderAbsent      = errors.New("no wallet provider detected")
	ErrAuthorizationDenied = errors.New("wallet authorization denied")
	ErrNotConnected        = errors.New("wallet not connected")
	ErrCallFailed          = errors.New("contract call failed")
)

// Manager owns the session. A nil provider means no wallet was detected.
type Manager struct {
	provider provider.WalletProvider
	address  common.Address
	abi      abi.ABI

	store        *Store
	grants       *wallet.Grants
	log          *zap.Logger
	metrics      *metrics.Metrics
	pollInterval time.Duration

	// connMu serialises Connect and Disconnect.
	connMu sync.Mutex

	mu      sync.Mutex
	binding *contract.Binding
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore shares an existing store, e.g. one the console subscribes to.
func WithStore(s *Store) Option { return func(m *Manager) { m.store = s } }

// WithGrants lets Disconnect revoke the persisted authorization.
func WithGrants(g *wallet.Grants) Option { return func(m *Manager) { m.grants = g } }

func WithLogger(l *zap.Logger) Option { return func(m *Manager) { m.log = l } }

func WithMetrics(mt *metrics.Metrics) Option { return func(m *Manager) { m.metrics = mt } }

// WithPollInterval sets the receipt polling interval for writes.
func WithPollInterval(d time.Duration) Option { return func(m *Manager) { m.pollInterval = d } }

// NewManager creates a disconnected session for the contract at address.
func NewManager(p provider.WalletProvider, address common.Address, contractABI abi.ABI, opts ...Option) *Manager {
	m := &Manager{
		provider: p,
		address:  address,
		abi:      contractABI,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewStore()
	}
	return m
}

// Store returns the session store.
func (m *Manager) Store() *Store { return m.store }

// State returns the current session state.
func (m *Manager) State() State { return m.store.Get() }

// ProviderDetected reports whether a wallet provider was injected.
func (m *Manager) ProviderDetected() bool { return m.provider != nil }

// Address returns the contract address calls go to.
func (m *Manager) Address() common.Address { return m.address }

// ABI returns the contract interface description.
func (m *Manager) ABI() abi.ABI { return m.abi }

// Method looks up a contract method, e.g. to convert CLI arguments.
func (m *Manager) Method(name string) (abi.Method, error) {
	method, ok := m.abi.Methods[name]
	if !ok {
		return abi.Method{}, fmt.Errorf("%w: %s", contract.ErrMethodNotFound, name)
	}
	return method, nil
}

func (m *Manager) opLogger(op string) *zap.Logger {
	return m.log.With(zap.String("op", op), zap.String("op_id", uuid.New().String()))
}

// Connect asks the wallet provider to authorize an account and, on
// approval, publishes a connected state holding the chain backend and a
// signer for the first authorized account. On any failure the session stays
// disconnected. Connecting an already connected session is a no-op.
func (m *Manager) Connect(ctx context.Context) (State, error) {
	m.connMu.Lock()
	defer m.connMu.Unlock()

	log := m.opLogger("connect")

	if m.provider == nil {
		log.Warn("connect skipped", zap.Error(ErrProviderAbsent))
		m.metrics.Connect(metrics.OutcomeAbsent)
		return m.store.Get(), ErrProviderAbsent
	}
	if cur := m.store.Get(); cur.Connected {
		return cur, nil
	}

	log = log.With(zap.String("provider", m.provider.Name()))
	log.Debug("requesting accounts")

	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		if errors.Is(err, provider.ErrUserRejected) {
			log.Warn("authorization denied", zap.Error(err))
			m.metrics.Connect(metrics.OutcomeDenied)
			return m.store.Get(), fmt.Errorf("%w: %w", ErrAuthorizationDenied, err)
		}
		log.Error("requesting accounts failed", zap.Error(err))
		m.metrics.Connect(metrics.OutcomeError)
		return m.store.Get(), fmt.Errorf("requesting accounts: %w", err)
	}
	if len(accounts) == 0 {
		log.Warn("authorization denied", zap.String("reason", "no accounts"))
		m.metrics.Connect(metrics.OutcomeDenied)
		return m.store.Get(), ErrAuthorizationDenied
	}
	account := accounts[0]

	backend, err := m.provider.Backend(ctx)
	if err != nil {
		log.Error("opening chain backend failed", zap.Error(err))
		m.metrics.Connect(metrics.OutcomeError)
		return m.store.Get(), fmt.Errorf("opening chain backend: %w", err)
	}

	signer, err := m.provider.Signer(ctx, account)
	if err != nil {
		backend.Close()
		log.Error("obtaining signer failed", zap.Error(err))
		m.metrics.Connect(metrics.OutcomeError)
		return m.store.Get(), fmt.Errorf("obtaining signer: %w", err)
	}

	st := State{
		Connected: true,
		Account:   account,
		Provider:  m.provider.Name(),
		Backend:   backend,
		Signer:    signer,
	}
	m.mu.Lock()
	m.binding = nil
	m.mu.Unlock()
	m.store.Set(st)

	log.Info("connected", zap.String("account", account.Hex()))
	m.metrics.Connect(metrics.OutcomeOK)
	return st, nil
}

// bindingFor returns the contract binding for st, building it on first use.
func (m *Manager) bindingFor(st State) *contract.Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.binding == nil {
		var opts []contract.Option
		if m.pollInterval > 0 {
			opts = append(opts, contract.WithPollInterval(m.pollInterval))
		}
		m.binding = contract.NewBinding(m.address, m.abi, st.Backend, st.Signer, opts...)
	}
	return m.binding
}

// ReadContractValue calls a view method and returns its decoded first
// output. It fails with ErrNotConnected without touching the chain when the
// session is not connected.
func (m *Manager) ReadContractValue(ctx context.Context, method string, args ...any) (contract.Value, error) {
	log := m.opLogger("read").With(zap.String("method", method))

	st := m.store.Get()
	if !st.Connected {
		log.Warn("read rejected", zap.Error(ErrNotConnected))
		m.metrics.Call(metrics.KindRead, metrics.OutcomeRejected)
		return contract.Value{}, ErrNotConnected
	}

	v, err := m.bindingFor(st).Call(ctx, method, args...)
	if err != nil {
		log.Error("read failed", zap.Error(err))
		m.metrics.Call(metrics.KindRead, metrics.OutcomeError)
		return contract.Value{}, fmt.Errorf("%w: %s: %w", ErrCallFailed, method, err)
	}

	log.Debug("read", zap.String("value", v.String()))
	m.metrics.Call(metrics.KindRead, metrics.OutcomeOK)
	return v, nil
}

// WriteContract submits a state-changing call and waits for its receipt.
// The signer is fetched from the provider again for every write so a revoked
// or switched account is never used. A reverted transaction returns its
// receipt together with an error wrapping contract.ErrReverted.
func (m *Manager) WriteContract(ctx context.Context, method string, args ...any) (*contract.Receipt, error) {
	log := m.opLogger("write").With(zap.String("method", method))

	st := m.store.Get()
	if !st.Connected {
		log.Warn("write rejected", zap.Error(ErrNotConnected))
		m.metrics.Call(metrics.KindWrite, metrics.OutcomeRejected)
		return nil, ErrNotConnected
	}

	signer, err := m.provider.Signer(ctx, st.Account)
	if err != nil {
		log.Error("obtaining signer failed", zap.Error(err))
		m.metrics.Call(metrics.KindWrite, metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %s: obtaining signer: %w", ErrCallFailed, method, err)
	}

	receipt, err := m.bindingFor(st).WithSigner(signer).Transact(ctx, method, args...)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, provider.ErrUserRejected) {
			outcome = metrics.OutcomeDenied
		}
		fields := []zap.Field{zap.Error(err)}
		if receipt != nil {
			fields = append(fields, zap.String("tx", receipt.TxHash.Hex()))
		}
		log.Error("write failed", fields...)
		m.metrics.Call(metrics.KindWrite, outcome)
		return receipt, fmt.Errorf("%w: %s: %w", ErrCallFailed, method, err)
	}

	log.Info("write confirmed",
		zap.String("tx", receipt.TxHash.Hex()),
		zap.Uint64("block", receipt.BlockNumber),
		zap.Uint64("gas_used", receipt.GasUsed),
	)
	m.metrics.Call(metrics.KindWrite, metrics.OutcomeOK)
	return receipt, nil
}

// Disconnect drops the session handles and revokes the provider's persisted
// authorization, so the next Connect prompts again.
func (m *Manager) Disconnect() error {
	m.connMu.Lock()
	defer m.connMu.Unlock()

	st := m.store.Get()
	if st.Backend != nil {
		st.Backend.Close()
	}
	m.mu.Lock()
	m.binding = nil
	m.mu.Unlock()
	m.store.Set(State{})

	if m.grants != nil && m.provider != nil {
		if err := m.grants.Revoke(m.provider.Name()); err != nil {
			return fmt.Errorf("revoking grant: %w", err)
		}
	}
	m.log.Info("disconnected", zap.String("account", st.Account.Hex()))
	return nil
}
