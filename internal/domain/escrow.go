package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusCreated   = "created"
	StatusFunded    = "funded"
	StatusReleased  = "released"
	StatusRefunded  = "refunded"
	StatusInDispute = "in_dispute"
	StatusExpired   = "expired"
)

// EscrowAccount holds funds in trust for one transaction between a principal
// (the depositing buyer) and a beneficiary (the receiving seller). The account
// row is the materialized current state; every mutation also appends one
// immutable LedgerEntry in the same store transaction.
type EscrowAccount struct {
	AccountID     uuid.UUID
	AccountNumber string

	PrincipalID   uuid.UUID
	BeneficiaryID uuid.UUID

	Amount          decimal.Decimal
	DepositedAmount decimal.Decimal
	EscrowFee       decimal.Decimal
	TransactionType string

	Status string

	DisputeRaisedBy *uuid.UUID
	DisputeReason   string

	ReleasedBy *uuid.UUID
	ReleasedAt *time.Time
	RefundedBy *uuid.UUID
	RefundedAt *time.Time

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminalStatus reports whether no further transition is defined from status.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusReleased, StatusRefunded, StatusExpired:
		return true
	default:
		return false
	}
}

// EffectiveStatus folds expiry into the status view. Stored status alone does
// not encode expiry, so every transition precondition must go through here.
func (a *EscrowAccount) EffectiveStatus(now time.Time) string {
	if !IsTerminalStatus(a.Status) && now.After(a.ExpiresAt) {
		return StatusExpired
	}
	return a.Status
}

// Deposit records receipt of funds from the principal and moves the account to
// funded. Payment capture itself is an external collaborator; this subsystem
// only records intent and the computed fee.
func (a *EscrowAccount) Deposit(depositorID uuid.UUID, amount, fee decimal.Decimal, now time.Time) error {
	if a.EffectiveStatus(now) != StatusCreated {
		return ErrInvalidState
	}
	if depositorID != a.PrincipalID {
		return ErrForbidden
	}
	a.DepositedAmount = amount
	a.EscrowFee = fee
	a.Status = StatusFunded
	a.UpdatedAt = now
	return nil
}

// Release settles the full deposited amount to the beneficiary. Either party
// may trigger it once satisfied; release is reachable from funded only, never
// directly from in_dispute.
func (a *EscrowAccount) Release(releasedBy uuid.UUID, now time.Time) error {
	if a.EffectiveStatus(now) != StatusFunded {
		return ErrInvalidState
	}
	if releasedBy != a.PrincipalID && releasedBy != a.BeneficiaryID {
		return ErrForbidden
	}
	at := now
	a.Status = StatusReleased
	a.ReleasedBy = &releasedBy
	a.ReleasedAt = &at
	a.UpdatedAt = now
	return nil
}

// RaiseDispute contests the pending release. Re-raising from in_dispute is
// allowed and overwrites the dispute fields with the latest request; dispute
// history stays in the ledger.
func (a *EscrowAccount) RaiseDispute(requesterID uuid.UUID, reason string, now time.Time) error {
	switch a.EffectiveStatus(now) {
	case StatusFunded, StatusInDispute:
	default:
		return ErrInvalidState
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrInvalidInput
	}
	a.Status = StatusInDispute
	a.DisputeRaisedBy = &requesterID
	a.DisputeReason = reason
	a.UpdatedAt = now
	return nil
}

// Refund returns deposited funds to the principal, minus the escrow fee: the
// fee is retained by the platform even on refund. Returns the refunded amount.
func (a *EscrowAccount) Refund(refundedBy uuid.UUID, now time.Time) (decimal.Decimal, error) {
	switch a.EffectiveStatus(now) {
	case StatusFunded, StatusInDispute:
	default:
		return decimal.Decimal{}, ErrInvalidState
	}
	amount := a.DepositedAmount.Sub(a.EscrowFee)
	at := now
	a.Status = StatusRefunded
	a.RefundedBy = &refundedBy
	a.RefundedAt = &at
	a.UpdatedAt = now
	return amount, nil
}
