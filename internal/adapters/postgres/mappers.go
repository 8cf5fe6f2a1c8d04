package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

func toAccountModel(account domain.EscrowAccount) escrowAccountModel {
	return escrowAccountModel{
		AccountID:       account.AccountID,
		AccountNumber:   account.AccountNumber,
		BuyerID:         account.PrincipalID,
		SellerID:        account.BeneficiaryID,
		Amount:          account.Amount,
		DepositedAmount: account.DepositedAmount,
		EscrowFee:       account.EscrowFee,
		TransactionType: account.TransactionType,
		Status:          account.Status,
		DisputeRaisedBy: account.DisputeRaisedBy,
		DisputeReason:   nullableString(account.DisputeReason),
		ReleasedBy:      account.ReleasedBy,
		ReleasedAt:      account.ReleasedAt,
		RefundedBy:      account.RefundedBy,
		RefundedAt:      account.RefundedAt,
		ExpiresAt:       account.ExpiresAt,
		CreatedAt:       account.CreatedAt,
		UpdatedAt:       account.UpdatedAt,
	}
}

func toDomainAccount(row escrowAccountModel) domain.EscrowAccount {
	reason := ""
	if row.DisputeReason != nil {
		reason = *row.DisputeReason
	}
	return domain.EscrowAccount{
		AccountID:       row.AccountID,
		AccountNumber:   row.AccountNumber,
		PrincipalID:     row.BuyerID,
		BeneficiaryID:   row.SellerID,
		Amount:          row.Amount,
		DepositedAmount: row.DepositedAmount,
		EscrowFee:       row.EscrowFee,
		TransactionType: row.TransactionType,
		Status:          row.Status,
		DisputeRaisedBy: row.DisputeRaisedBy,
		DisputeReason:   reason,
		ReleasedBy:      row.ReleasedBy,
		ReleasedAt:      row.ReleasedAt,
		RefundedBy:      row.RefundedBy,
		RefundedAt:      row.RefundedAt,
		ExpiresAt:       row.ExpiresAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func toEntryModel(entry domain.LedgerEntry) (escrowTransactionModel, error) {
	var metadata *string
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return escrowTransactionModel{}, fmt.Errorf("marshal ledger metadata: %w", err)
		}
		s := string(raw)
		metadata = &s
	}
	return escrowTransactionModel{
		EntryID:         entry.EntryID,
		EscrowID:        entry.AccountID,
		TransactionType: entry.EntryType,
		Amount:          entry.Amount,
		Fee:             entry.Fee,
		Status:          entry.Status,
		CreatedBy:       entry.CreatedBy,
		Description:     nullableString(entry.Description),
		Metadata:        metadata,
		CreatedAt:       entry.CreatedAt,
	}, nil
}

func toDomainEntry(row escrowTransactionModel) domain.LedgerEntry {
	description := ""
	if row.Description != nil {
		description = *row.Description
	}
	var metadata map[string]any
	if row.Metadata != nil && *row.Metadata != "" {
		_ = json.Unmarshal([]byte(*row.Metadata), &metadata)
	}
	return domain.LedgerEntry{
		EntryID:     row.EntryID,
		AccountID:   row.EscrowID,
		EntryType:   row.TransactionType,
		Amount:      row.Amount,
		Fee:         row.Fee,
		Status:      row.Status,
		CreatedBy:   row.CreatedBy,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   row.CreatedAt,
	}
}

func toOutboxModel(event ports.OutboxEvent) escrowOutboxModel {
	return escrowOutboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      string(event.Payload),
		CreatedAt:    event.OccurredAt,
		FirstSeenAt:  event.OccurredAt,
	}
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// storeError keeps the transient-store taxonomy: domain sentinels pass through
// untouched, anything else becomes a retry-safe ErrStore.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrIdempotencyConflict):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
}
