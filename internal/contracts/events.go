package contracts

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	EventClass       string          `json:"event_class,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type AccountCreatedPayload struct {
	AccountID       string          `json:"account_id"`
	AccountNumber   string          `json:"account_number"`
	BuyerID         string          `json:"buyer_id"`
	SellerID        string          `json:"seller_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	ExpiresAt       string          `json:"expires_at"`
}

type FundsDepositedPayload struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	EscrowFee   decimal.Decimal `json:"escrow_fee"`
	DepositedAt string          `json:"deposited_at"`
}

type FundsReleasedPayload struct {
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	ReleasedBy string          `json:"released_by"`
	ReleasedAt string          `json:"released_at"`
}

type DisputeRaisedPayload struct {
	AccountID string `json:"account_id"`
	RaisedBy  string `json:"raised_by"`
	Reason    string `json:"reason"`
	RaisedAt  string `json:"raised_at"`
}

type FundsRefundedPayload struct {
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	RefundedBy string          `json:"refunded_by"`
	RefundedAt string          `json:"refunded_at"`
}
