package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

type Config struct {
	ServiceName string

	// FeePercent is the escrow fee in percent points charged at deposit time.
	FeePercent decimal.Decimal
	// ExpiryWindow is added to creation time to fix expires_at; never extended.
	ExpiryWindow time.Duration
	// MinimumAmount below which account creation is rejected. Zero disables
	// the check.
	MinimumAmount decimal.Decimal

	IdempotencyTTL    time.Duration
	CreateMaxAttempts int
}

// Actor is the caller identity resolved by the routing/authorization layer.
type Actor struct {
	SubjectID      uuid.UUID
	Role           string
	RequestID      string
	IdempotencyKey string
}

type CreateAccountInput struct {
	PrincipalID     uuid.UUID
	BeneficiaryID   uuid.UUID
	Amount          decimal.Decimal
	TransactionType string
}

type DepositInput struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}

type ReleaseInput struct {
	AccountID uuid.UUID
	Milestone string
}

type DisputeInput struct {
	AccountID uuid.UUID
	Reason    string
}

type RefundInput struct {
	AccountID uuid.UUID
	Reason    string
}

type DepositResult struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	EscrowFee   decimal.Decimal `json:"escrow_fee"`
}

type ReleaseResult struct {
	Amount decimal.Decimal `json:"amount"`
}

type RefundResult struct {
	Amount decimal.Decimal `json:"amount"`
}

// AccountStatus is the read-only projection: the current account row plus its
// full ledger history, newest first.
type AccountStatus struct {
	Account      domain.EscrowAccount
	Transactions []domain.LedgerEntry
}

type Service struct {
	cfg         Config
	fees        domain.FeeSchedule
	escrows     ports.EscrowRepository
	idempotency ports.IdempotencyStore
	policy      ports.TransitionPolicy
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Escrows     ports.EscrowRepository
	Idempotency ports.IdempotencyStore
	Policy      ports.TransitionPolicy
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "escrow-settlement-service"
	}
	if cfg.FeePercent.IsZero() {
		cfg.FeePercent = decimal.RequireFromString("2.5")
	}
	if cfg.ExpiryWindow <= 0 {
		cfg.ExpiryWindow = 30 * 24 * time.Hour
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.CreateMaxAttempts <= 0 {
		cfg.CreateMaxAttempts = 3
	}
	policy := deps.Policy
	if policy == nil {
		policy = allowAnyCallerPolicy{}
	}
	return &Service{
		cfg:         cfg,
		fees:        domain.FeeSchedule{Percent: cfg.FeePercent},
		escrows:     deps.Escrows,
		idempotency: deps.Idempotency,
		policy:      policy,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

// allowAnyCallerPolicy mirrors the source system: dispute and refund are open
// to any authenticated caller.
type allowAnyCallerPolicy struct{}

func (allowAnyCallerPolicy) AuthorizeDispute(domain.EscrowAccount, uuid.UUID) error { return nil }
func (allowAnyCallerPolicy) AuthorizeRefund(domain.EscrowAccount, uuid.UUID) error { return nil }
