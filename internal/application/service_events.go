package application

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/contracts"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

func (s *Service) accountCreatedEvent(account domain.EscrowAccount, traceID string, now time.Time) *ports.OutboxEvent {
	return s.buildEvent(domain.EventAccountCreated, traceID, contracts.AccountCreatedPayload{
		AccountID:       account.AccountID.String(),
		AccountNumber:   account.AccountNumber,
		BuyerID:         account.PrincipalID.String(),
		SellerID:        account.BeneficiaryID.String(),
		Amount:          account.Amount,
		TransactionType: account.TransactionType,
		ExpiresAt:       account.ExpiresAt.UTC().Format(time.RFC3339),
	}, account.AccountID, now)
}

func (s *Service) fundsDepositedEvent(account domain.EscrowAccount, traceID string, now time.Time) *ports.OutboxEvent {
	return s.buildEvent(domain.EventFundsDeposited, traceID, contracts.FundsDepositedPayload{
		AccountID:   account.AccountID.String(),
		Amount:      account.DepositedAmount,
		EscrowFee:   account.EscrowFee,
		DepositedAt: now.UTC().Format(time.RFC3339),
	}, account.AccountID, now)
}

func (s *Service) fundsReleasedEvent(account domain.EscrowAccount, traceID string, now time.Time) *ports.OutboxEvent {
	releasedBy := ""
	if account.ReleasedBy != nil {
		releasedBy = account.ReleasedBy.String()
	}
	return s.buildEvent(domain.EventFundsReleased, traceID, contracts.FundsReleasedPayload{
		AccountID:  account.AccountID.String(),
		Amount:     account.DepositedAmount,
		ReleasedBy: releasedBy,
		ReleasedAt: now.UTC().Format(time.RFC3339),
	}, account.AccountID, now)
}

func (s *Service) disputeRaisedEvent(account domain.EscrowAccount, traceID string, now time.Time) *ports.OutboxEvent {
	raisedBy := ""
	if account.DisputeRaisedBy != nil {
		raisedBy = account.DisputeRaisedBy.String()
	}
	return s.buildEvent(domain.EventDisputeRaised, traceID, contracts.DisputeRaisedPayload{
		AccountID: account.AccountID.String(),
		RaisedBy:  raisedBy,
		Reason:    account.DisputeReason,
		RaisedAt:  now.UTC().Format(time.RFC3339),
	}, account.AccountID, now)
}

func (s *Service) fundsRefundedEvent(account domain.EscrowAccount, amount decimal.Decimal, traceID string, now time.Time) *ports.OutboxEvent {
	refundedBy := ""
	if account.RefundedBy != nil {
		refundedBy = account.RefundedBy.String()
	}
	return s.buildEvent(domain.EventFundsRefunded, traceID, contracts.FundsRefundedPayload{
		AccountID:  account.AccountID.String(),
		Amount:     amount,
		RefundedBy: refundedBy,
		RefundedAt: now.UTC().Format(time.RFC3339),
	}, account.AccountID, now)
}

func (s *Service) buildEvent(eventType, traceID string, data any, accountID uuid.UUID, now time.Time) *ports.OutboxEvent {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}
	envelope := contracts.EventEnvelope{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		EventClass:       domain.CanonicalEventClass(eventType),
		OccurredAt:       now,
		PartitionKeyPath: domain.CanonicalPartitionKeyPath(eventType),
		PartitionKey:     accountID.String(),
		SourceService:    s.cfg.ServiceName,
		TraceID:          traceID,
		SchemaVersion:    "v1",
		Data:             raw,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil
	}
	return &ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: accountID.String(),
		Payload:      payload,
		OccurredAt:   now,
	}
}
