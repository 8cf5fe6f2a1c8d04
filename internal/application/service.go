package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

// CreateAccount opens a new escrow account in status created with a generated
// account number and a fixed expiry window. Each call creates a new account;
// the operation is never implicitly idempotent.
func (s *Service) CreateAccount(ctx context.Context, actor Actor, input CreateAccountInput) (domain.EscrowAccount, error) {
	if actor.SubjectID == uuid.Nil {
		return domain.EscrowAccount{}, domain.ErrUnauthorized
	}
	if input.PrincipalID == uuid.Nil || input.BeneficiaryID == uuid.Nil {
		return domain.EscrowAccount{}, fmt.Errorf("%w: principal and beneficiary are required", domain.ErrInvalidInput)
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.EscrowAccount{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if s.cfg.MinimumAmount.IsPositive() && input.Amount.LessThan(s.cfg.MinimumAmount) {
		return domain.EscrowAccount{}, fmt.Errorf("%w: amount below minimum of %s", domain.ErrInvalidInput, s.cfg.MinimumAmount)
	}
	input.TransactionType = strings.TrimSpace(input.TransactionType)

	requestHash := hashRequest(input)
	var cached domain.EscrowAccount
	if ok, err := s.replayIdempotent(ctx, actor.IdempotencyKey, requestHash, &cached); err != nil {
		return domain.EscrowAccount{}, err
	} else if ok {
		return cached, nil
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return domain.EscrowAccount{}, err
	}

	var account domain.EscrowAccount
	for attempt := 1; ; attempt++ {
		now := s.nowFn()
		account = domain.EscrowAccount{
			AccountID:       uuid.New(),
			AccountNumber:   domain.GenerateAccountNumber(now),
			PrincipalID:     input.PrincipalID,
			BeneficiaryID:   input.BeneficiaryID,
			Amount:          input.Amount,
			TransactionType: input.TransactionType,
			Status:          domain.StatusCreated,
			ExpiresAt:       now.Add(s.cfg.ExpiryWindow),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		entry := domain.LedgerEntry{
			EntryID:     uuid.New(),
			AccountID:   account.AccountID,
			EntryType:   domain.EntryTypeCreation,
			Amount:      input.Amount,
			Status:      domain.EntryStatusCompleted,
			CreatedBy:   input.PrincipalID,
			Description: fmt.Sprintf("Escrow account created for %s", input.TransactionType),
			CreatedAt:   now,
		}
		err := s.escrows.CreateWithLedger(ctx, account, entry, s.accountCreatedEvent(account, actor.RequestID, now))
		if err == nil {
			break
		}
		// A duplicate account number is retryable with a fresh number; any
		// other failure is not.
		if errors.Is(err, domain.ErrConflict) && attempt < s.cfg.CreateMaxAttempts {
			continue
		}
		s.releaseIdempotency(ctx, actor.IdempotencyKey)
		return domain.EscrowAccount{}, err
	}

	s.completeIdempotency(ctx, actor.IdempotencyKey, account)
	return account, nil
}

// Deposit records receipt of the principal's funds, computes the escrow fee
// and moves the account to funded. The caller is expected to have transferred
// amount + fee externally; this subsystem records intent only.
func (s *Service) Deposit(ctx context.Context, actor Actor, input DepositInput) (DepositResult, error) {
	if actor.SubjectID == uuid.Nil {
		return DepositResult{}, domain.ErrUnauthorized
	}
	if input.AccountID == uuid.Nil {
		return DepositResult{}, fmt.Errorf("%w: account id is required", domain.ErrInvalidInput)
	}
	fee, err := s.fees.Fee(input.Amount)
	if err != nil {
		return DepositResult{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	requestHash := hashRequest(input)
	var cached DepositResult
	if ok, err := s.replayIdempotent(ctx, actor.IdempotencyKey, requestHash, &cached); err != nil {
		return DepositResult{}, err
	} else if ok {
		return cached, nil
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return DepositResult{}, err
	}

	_, err = s.escrows.Mutate(ctx, input.AccountID, func(account *domain.EscrowAccount) (ports.MutationResult, error) {
		now := s.nowFn()
		if err := account.Deposit(actor.SubjectID, input.Amount, fee, now); err != nil {
			return ports.MutationResult{}, err
		}
		entry := domain.LedgerEntry{
			EntryID:     uuid.New(),
			AccountID:   account.AccountID,
			EntryType:   domain.EntryTypeDeposit,
			Amount:      input.Amount,
			Fee:         fee,
			Status:      domain.EntryStatusCompleted,
			CreatedBy:   actor.SubjectID,
			Description: fmt.Sprintf("Funds deposited: %s + fee: %s", input.Amount, fee),
			CreatedAt:   now,
		}
		return ports.MutationResult{
			Entry: entry,
			Event: s.fundsDepositedEvent(*account, actor.RequestID, now),
		}, nil
	})
	if err != nil {
		s.releaseIdempotency(ctx, actor.IdempotencyKey)
		return DepositResult{}, err
	}

	result := DepositResult{TotalAmount: input.Amount.Add(fee), EscrowFee: fee}
	s.completeIdempotency(ctx, actor.IdempotencyKey, result)
	return result, nil
}

// Release settles the full deposited amount to the beneficiary. Either party
// may release once satisfied; the account must be funded (not in dispute).
func (s *Service) Release(ctx context.Context, actor Actor, input ReleaseInput) (ReleaseResult, error) {
	if actor.SubjectID == uuid.Nil {
		return ReleaseResult{}, domain.ErrUnauthorized
	}
	if input.AccountID == uuid.Nil {
		return ReleaseResult{}, fmt.Errorf("%w: account id is required", domain.ErrInvalidInput)
	}
	input.Milestone = strings.TrimSpace(input.Milestone)

	requestHash := hashRequest(input)
	var cached ReleaseResult
	if ok, err := s.replayIdempotent(ctx, actor.IdempotencyKey, requestHash, &cached); err != nil {
		return ReleaseResult{}, err
	} else if ok {
		return cached, nil
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return ReleaseResult{}, err
	}

	var released decimal.Decimal
	_, err := s.escrows.Mutate(ctx, input.AccountID, func(account *domain.EscrowAccount) (ports.MutationResult, error) {
		now := s.nowFn()
		if err := account.Release(actor.SubjectID, now); err != nil {
			return ports.MutationResult{}, err
		}
		released = account.DepositedAmount

		description := "Funds released to seller."
		var metadata map[string]any
		if input.Milestone != "" {
			description = fmt.Sprintf("Funds released to seller. Milestone: %s", input.Milestone)
			metadata = map[string]any{"milestone": input.Milestone}
		}
		entry := domain.LedgerEntry{
			EntryID:     uuid.New(),
			AccountID:   account.AccountID,
			EntryType:   domain.EntryTypeRelease,
			Amount:      released,
			Status:      domain.EntryStatusCompleted,
			CreatedBy:   actor.SubjectID,
			Description: description,
			Metadata:    metadata,
			CreatedAt:   now,
		}
		return ports.MutationResult{
			Entry: entry,
			Event: s.fundsReleasedEvent(*account, actor.RequestID, now),
		}, nil
	})
	if err != nil {
		s.releaseIdempotency(ctx, actor.IdempotencyKey)
		return ReleaseResult{}, err
	}

	result := ReleaseResult{Amount: released}
	s.completeIdempotency(ctx, actor.IdempotencyKey, result)
	return result, nil
}

// RequestDispute contests a funded account. Repeated disputes are allowed;
// each appends a fresh ledger entry and overwrites the dispute fields.
func (s *Service) RequestDispute(ctx context.Context, actor Actor, input DisputeInput) error {
	if actor.SubjectID == uuid.Nil {
		return domain.ErrUnauthorized
	}
	if input.AccountID == uuid.Nil {
		return fmt.Errorf("%w: account id is required", domain.ErrInvalidInput)
	}
	input.Reason = strings.TrimSpace(input.Reason)
	if input.Reason == "" {
		return fmt.Errorf("%w: dispute reason is required", domain.ErrInvalidInput)
	}

	requestHash := hashRequest(input)
	var cached struct{}
	if ok, err := s.replayIdempotent(ctx, actor.IdempotencyKey, requestHash, &cached); err != nil {
		return err
	} else if ok {
		return nil
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return err
	}

	_, err := s.escrows.Mutate(ctx, input.AccountID, func(account *domain.EscrowAccount) (ports.MutationResult, error) {
		if err := s.policy.AuthorizeDispute(*account, actor.SubjectID); err != nil {
			return ports.MutationResult{}, err
		}
		now := s.nowFn()
		if err := account.RaiseDispute(actor.SubjectID, input.Reason, now); err != nil {
			return ports.MutationResult{}, err
		}
		entry := domain.LedgerEntry{
			EntryID:     uuid.New(),
			AccountID:   account.AccountID,
			EntryType:   domain.EntryTypeDispute,
			Status:      domain.EntryStatusPending,
			CreatedBy:   actor.SubjectID,
			Description: fmt.Sprintf("Dispute raised: %s", input.Reason),
			Metadata:    map[string]any{"reason": input.Reason},
			CreatedAt:   now,
		}
		return ports.MutationResult{
			Entry: entry,
			Event: s.disputeRaisedEvent(*account, actor.RequestID, now),
		}, nil
	})
	if err != nil {
		s.releaseIdempotency(ctx, actor.IdempotencyKey)
		return err
	}

	s.completeIdempotency(ctx, actor.IdempotencyKey, struct{}{})
	return nil
}

// Refund returns deposited funds to the principal minus the retained escrow
// fee. Reachable from funded or in_dispute.
func (s *Service) Refund(ctx context.Context, actor Actor, input RefundInput) (RefundResult, error) {
	if actor.SubjectID == uuid.Nil {
		return RefundResult{}, domain.ErrUnauthorized
	}
	if input.AccountID == uuid.Nil {
		return RefundResult{}, fmt.Errorf("%w: account id is required", domain.ErrInvalidInput)
	}
	input.Reason = strings.TrimSpace(input.Reason)

	requestHash := hashRequest(input)
	var cached RefundResult
	if ok, err := s.replayIdempotent(ctx, actor.IdempotencyKey, requestHash, &cached); err != nil {
		return RefundResult{}, err
	} else if ok {
		return cached, nil
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return RefundResult{}, err
	}

	var refunded decimal.Decimal
	_, err := s.escrows.Mutate(ctx, input.AccountID, func(account *domain.EscrowAccount) (ports.MutationResult, error) {
		if err := s.policy.AuthorizeRefund(*account, actor.SubjectID); err != nil {
			return ports.MutationResult{}, err
		}
		now := s.nowFn()
		amount, err := account.Refund(actor.SubjectID, now)
		if err != nil {
			return ports.MutationResult{}, err
		}
		refunded = amount

		description := "Funds refunded to buyer."
		var metadata map[string]any
		if input.Reason != "" {
			description = fmt.Sprintf("Funds refunded to buyer: %s", input.Reason)
			metadata = map[string]any{"reason": input.Reason}
		}
		entry := domain.LedgerEntry{
			EntryID:     uuid.New(),
			AccountID:   account.AccountID,
			EntryType:   domain.EntryTypeRefund,
			Amount:      amount,
			Status:      domain.EntryStatusCompleted,
			CreatedBy:   actor.SubjectID,
			Description: description,
			Metadata:    metadata,
			CreatedAt:   now,
		}
		return ports.MutationResult{
			Entry: entry,
			Event: s.fundsRefundedEvent(*account, amount, actor.RequestID, now),
		}, nil
	})
	if err != nil {
		s.releaseIdempotency(ctx, actor.IdempotencyKey)
		return RefundResult{}, err
	}

	result := RefundResult{Amount: refunded}
	s.completeIdempotency(ctx, actor.IdempotencyKey, result)
	return result, nil
}

// GetStatus returns the current account row plus its ordered ledger history.
// Pure projection, no side effects.
func (s *Service) GetStatus(ctx context.Context, actor Actor, accountID uuid.UUID) (AccountStatus, error) {
	if actor.SubjectID == uuid.Nil {
		return AccountStatus{}, domain.ErrUnauthorized
	}
	if accountID == uuid.Nil {
		return AccountStatus{}, fmt.Errorf("%w: account id is required", domain.ErrInvalidInput)
	}
	account, err := s.escrows.GetByID(ctx, accountID)
	if err != nil {
		return AccountStatus{}, err
	}
	entries, err := s.escrows.ListEntries(ctx, accountID)
	if err != nil {
		return AccountStatus{}, err
	}
	return AccountStatus{Account: account, Transactions: entries}, nil
}
