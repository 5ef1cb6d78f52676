package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Grants remembers which accounts the user has authorized per provider, the
// way a browser wallet remembers connected sites. A granted account
// reconnects without a new prompt until revoked.
//
// The file is written with 0600 permissions and holds addresses only.
type Grants struct {
	mu   sync.Mutex
	path string
}

// NewGrants returns grants persisted at path. An empty path keeps nothing.
func NewGrants(path string) *Grants {
	return &Grants{path: path}
}

// Accounts returns the accounts granted to provider, in grant order.
func (g *Grants) Accounts(provider string) []common.Address {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []common.Address
	for _, a := range g.load()[provider] {
		out = append(out, common.HexToAddress(a))
	}
	return out
}

// Granted reports whether account was authorized for provider.
func (g *Grants) Granted(provider string, account common.Address) bool {
	return slices.Contains(g.Accounts(provider), account)
}

// Grant records account as authorized for provider.
func (g *Grants) Grant(provider string, account common.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	m := g.load()
	if slices.Contains(m[provider], account.Hex()) {
		return nil
	}
	m[provider] = append(m[provider], account.Hex())
	return g.save(m)
}

// Revoke forgets every account granted to provider.
func (g *Grants) Revoke(provider string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	m := g.load()
	if _, ok := m[provider]; !ok {
		return nil
	}
	delete(m, provider)
	return g.save(m)
}

// load returns an empty map (never nil) on any error.
func (g *Grants) load() map[string][]string {
	m := make(map[string][]string)
	if g.path == "" {
		return m
	}
	data, err := os.ReadFile(g.path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string][]string)
	}
	return m
}

func (g *Grants) save(m map[string][]string) error {
	if g.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(g.path, data, 0o600)
}
