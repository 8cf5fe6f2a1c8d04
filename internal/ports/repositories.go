package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
)

// MutationResult is what a state transition produces inside the store
// transaction: the ledger entry to append and an optional outbox event.
type MutationResult struct {
	Entry domain.LedgerEntry
	Event *OutboxEvent
}

// EscrowRepository is the transactional ledger store. Implementations must
// make each call all-or-nothing: either the account write, the ledger append
// and the outbox insert all commit, or none do. Concurrent mutations of the
// same account are linearized by the store, never by application locks.
type EscrowRepository interface {
	// CreateWithLedger persists a new account, its creation ledger entry and
	// an optional outbox event atomically. A duplicate account number
	// surfaces as domain.ErrConflict.
	CreateWithLedger(ctx context.Context, account domain.EscrowAccount, entry domain.LedgerEntry, event *OutboxEvent) error

	// Mutate loads the account under a row lock, runs apply against it, and
	// persists the mutated account plus the returned ledger entry and
	// optional event in one transaction. Any error from apply rolls the
	// whole transaction back with no writes.
	Mutate(ctx context.Context, accountID uuid.UUID, apply func(account *domain.EscrowAccount) (MutationResult, error)) (domain.EscrowAccount, error)

	GetByID(ctx context.Context, accountID uuid.UUID) (domain.EscrowAccount, error)

	// ListEntries returns the account's full ledger history ordered by
	// creation time, newest first.
	ListEntries(ctx context.Context, accountID uuid.UUID) ([]domain.LedgerEntry, error)
}
