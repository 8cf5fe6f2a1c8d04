package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type escrowAccountModel struct {
	AccountID       uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	AccountNumber   string          `gorm:"column:account_number"`
	BuyerID         uuid.UUID       `gorm:"column:buyer_id;type:uuid"`
	SellerID        uuid.UUID       `gorm:"column:seller_id;type:uuid"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2)"`
	DepositedAmount decimal.Decimal `gorm:"column:deposited_amount;type:numeric(14,2)"`
	EscrowFee       decimal.Decimal `gorm:"column:escrow_fee;type:numeric(14,2)"`
	TransactionType string          `gorm:"column:transaction_type"`
	Status          string          `gorm:"column:status"`
	DisputeRaisedBy *uuid.UUID      `gorm:"column:dispute_raised_by;type:uuid"`
	DisputeReason   *string         `gorm:"column:dispute_reason"`
	ReleasedBy      *uuid.UUID      `gorm:"column:released_by;type:uuid"`
	ReleasedAt      *time.Time      `gorm:"column:released_at"`
	RefundedBy      *uuid.UUID      `gorm:"column:refunded_by;type:uuid"`
	RefundedAt      *time.Time      `gorm:"column:refunded_at"`
	ExpiresAt       time.Time       `gorm:"column:expires_at"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (escrowAccountModel) TableName() string { return "escrow_accounts" }

type escrowTransactionModel struct {
	EntryID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	EscrowID        uuid.UUID       `gorm:"column:escrow_id;type:uuid"`
	TransactionType string          `gorm:"column:transaction_type"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2)"`
	Fee             decimal.Decimal `gorm:"column:fee;type:numeric(14,2)"`
	Status          string          `gorm:"column:status"`
	CreatedBy       uuid.UUID       `gorm:"column:created_by;type:uuid"`
	Description     *string         `gorm:"column:description"`
	Metadata        *string         `gorm:"column:metadata;type:jsonb"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
}

func (escrowTransactionModel) TableName() string { return "escrow_transactions" }

type escrowOutboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	FirstSeenAt    time.Time  `gorm:"column:first_seen_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (escrowOutboxModel) TableName() string { return "escrow_outbox" }
