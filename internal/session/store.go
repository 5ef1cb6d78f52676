package session

import (
	"sync"

	"github.com/Mohsinsiddi/nftmint/internal/chain"
	"github.com/Mohsinsiddi/nftmint/internal/provider"
	"github.com/ethereum/go-ethereum/common"
)

// State is the session as seen by callers. Backend and Signer are either both
// set (Connected) or both nil.
type State struct {
	Connected bool
	Account   common.Address
	// Provider is the name of the wallet provider that authorized Account.
	Provider string
	Backend  chain.Backend
	Signer   provider.Signer
}

// subscriberBuffer is the channel depth per subscriber. When a subscriber
// falls behind, its oldest pending state is dropped so the latest one is
// always delivered.
const subscriberBuffer = 8

// Store holds the one session of the process and fans out changes.
type Store struct {
	mu    sync.Mutex
	state State
	subs  map[int]chan State
	next  int
}

// NewStore returns a store in the disconnected state.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan State)}
}

// Get returns the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the state and publishes it to every subscriber.
func (s *Store) Set(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	for _, ch := range s.subs {
		publish(ch, st)
	}
}

// Subscribe returns a channel that first receives the current state and
// then every published one. The returned func unsubscribes and closes the
// channel; calling it more than once is safe.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan State, subscriberBuffer)
	ch <- s.state
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// publish must be called with the store lock held; it is the only sender.
func publish(ch chan State, st State) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
