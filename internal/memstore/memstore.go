// Package memstore is an in-memory transactional implementation of every
// repository in the service. A transaction holds the store mutex for its
// whole duration and restores a snapshot when it fails.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type state struct {
	users       map[string]model.User
	colors      map[string]model.Color
	items       map[string]model.CatalogItem
	inventories map[string]model.Inventory
	rows        map[string]model.InventoryItem
	transfers   map[string]model.Transfer
	counts      map[string]model.InventoryCount
	productions map[string]model.Production
}

func newState() state {
	return state{
		users:       map[string]model.User{},
		colors:      map[string]model.Color{},
		items:       map[string]model.CatalogItem{},
		inventories: map[string]model.Inventory{},
		rows:        map[string]model.InventoryItem{},
		transfers:   map[string]model.Transfer{},
		counts:      map[string]model.InventoryCount{},
		productions: map[string]model.Production{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		v.Roles = append([]model.Role(nil), v.Roles...)
		c.users[k] = v
	}
	for k, v := range s.colors {
		c.colors[k] = v
	}
	for k, v := range s.items {
		v.Requirements = append([]model.Requirement(nil), v.Requirements...)
		c.items[k] = v
	}
	for k, v := range s.inventories {
		c.inventories[k] = v
	}
	for k, v := range s.rows {
		c.rows[k] = v
	}
	for k, v := range s.transfers {
		v.Items = append([]model.TransferItem(nil), v.Items...)
		c.transfers[k] = v
	}
	for k, v := range s.counts {
		v.Items = append([]model.InventoryCountItem(nil), v.Items...)
		c.counts[k] = v
	}
	for k, v := range s.productions {
		c.productions[k] = v
	}
	return c
}

type Store struct {
	mu    sync.Mutex
	state state
}

func New() *Store {
	return &Store{state: newState()}
}

type txKey struct{}

// WithinTx runs fn with the store locked; any error rolls every change back.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if r := recover(); r != nil {
			s.state = snapshot
			panic(r)
		}
		if err != nil {
			s.state = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// guard locks the store for a single call made outside a transaction.
func (s *Store) guard(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Snapshot is a point-in-time copy of ledger quantities keyed by StockKey.Key().
type Snapshot map[string]string

// LedgerSnapshot captures every ledger row quantity, for comparing before and after.
func (s *Store) LedgerSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Snapshot{}
	for _, row := range s.state.rows {
		out[row.Key().Key()] = row.Quantity.String()
	}
	return out
}

func (s *Store) Inventories() *InventoryRepo { return &InventoryRepo{s: s} }
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s: s} }
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{s: s} }
func (s *Store) Counts() *CountRepo { return &CountRepo{s: s} }
func (s *Store) Productions() *ProductionRepo { return &ProductionRepo{s: s} }
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{s: s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: not found", entity, id)
}
