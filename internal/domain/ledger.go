package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EntryTypeCreation = "creation"
	EntryTypeDeposit  = "deposit"
	EntryTypeRelease  = "release"
	EntryTypeRefund   = "refund"
	EntryTypeDispute  = "dispute"
	// EntryTypeFee is reserved by the schema enumeration; no current operation
	// writes it, fees are carried on the deposit entry instead.
	EntryTypeFee = "fee"
)

const (
	EntryStatusPending   = "pending"
	EntryStatusCompleted = "completed"
	EntryStatusFailed    = "failed"
)

// LedgerEntry is one immutable, append-only record of a state-changing event
// against an escrow account. Entries are never updated or deleted; folding
// them in creation order reconstructs the account's current state.
type LedgerEntry struct {
	EntryID     uuid.UUID
	AccountID   uuid.UUID
	EntryType   string
	Amount      decimal.Decimal
	Fee         decimal.Decimal
	Status      string
	CreatedBy   uuid.UUID
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}
