// Package txrepo manages repository layer of ledger transactions.
//
// Every repository keeps transactions in append order and never edits or
// removes them.
package txrepo

import (
	"context"
	"sync"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/rs/zerolog"
)

// ledger is the in-memory append-only sequence shared by the repositories.
type ledger struct {
	mu    sync.RWMutex
	items []domain.Transaction
}

func (l *ledger) append(tx domain.Transaction) {
	l.mu.Lock()
	l.items = append(l.items, tx)
	l.mu.Unlock()
}

// snapshot returns a copy so that callers cannot change the stored sequence.
func (l *ledger) snapshot() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]domain.Transaction, len(l.items))
	copy(items, l.items)

	return items
}

// MemoryRepo keeps transactions in memory only.
type MemoryRepo struct {
	ledger ledger
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Append adds the transaction to the end of the ledger.
func (r *MemoryRepo) Append(ctx context.Context, tx domain.Transaction) error {
	r.ledger.append(tx)
	zerolog.Ctx(ctx).Debug().Stringer("transaction", tx).Msg("transaction added")

	return nil
}

// List returns all transactions in insertion order.
func (r *MemoryRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	return r.ledger.snapshot(), nil
}
