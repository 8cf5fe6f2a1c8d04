package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

type escrowRepository struct {
	db *gorm.DB
}

func (r *escrowRepository) CreateWithLedger(ctx context.Context, account domain.EscrowAccount, entry domain.LedgerEntry, event *ports.OutboxEvent) error {
	entryRec, err := toEntryModel(entry)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := toAccountModel(account)
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		if err := tx.Create(&entryRec).Error; err != nil {
			return err
		}
		if event != nil {
			ob := toOutboxModel(*event)
			if err := tx.Create(&ob).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return storeError(err)
}

// Mutate runs the read-check-write sequence under a row lock. Two concurrent
// mutations of the same account serialize on the lock; the second observes
// the first's post-state and fails its precondition inside apply, rolling
// back with no writes.
func (r *escrowRepository) Mutate(ctx context.Context, accountID uuid.UUID, apply func(account *domain.EscrowAccount) (ports.MutationResult, error)) (domain.EscrowAccount, error) {
	var result domain.EscrowAccount
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec escrowAccountModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", accountID).
			Take(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		account := toDomainAccount(rec)
		mutation, err := apply(&account)
		if err != nil {
			return err
		}

		updated := toAccountModel(account)
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}

		entryRec, err := toEntryModel(mutation.Entry)
		if err != nil {
			return err
		}
		if err := tx.Create(&entryRec).Error; err != nil {
			return err
		}

		if mutation.Event != nil {
			ob := toOutboxModel(*mutation.Event)
			if err := tx.Create(&ob).Error; err != nil {
				return err
			}
		}

		result = account
		return nil
	})
	if err != nil {
		return domain.EscrowAccount{}, storeError(err)
	}
	return result, nil
}

func (r *escrowRepository) GetByID(ctx context.Context, accountID uuid.UUID) (domain.EscrowAccount, error) {
	var rec escrowAccountModel
	if err := r.db.WithContext(ctx).Where("id = ?", accountID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.EscrowAccount{}, domain.ErrNotFound
		}
		return domain.EscrowAccount{}, storeError(err)
	}
	return toDomainAccount(rec), nil
}

func (r *escrowRepository) ListEntries(ctx context.Context, accountID uuid.UUID) ([]domain.LedgerEntry, error) {
	var rows []escrowTransactionModel
	if err := r.db.WithContext(ctx).
		Where("escrow_id = ?", accountID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, storeError(err)
	}
	entries := make([]domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toDomainEntry(row))
	}
	return entries, nil
}
