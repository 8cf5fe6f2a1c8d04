package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	BuyerID         string          `json:"buyer_id"`
	SellerID        string          `json:"seller_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ReleaseRequest struct {
	Milestone string `json:"milestone,omitempty"`
}

type DisputeRequest struct {
	Reason string `json:"reason"`
}

type RefundRequest struct {
	Reason string `json:"reason"`
}

type AccountResponse struct {
	AccountID       string          `json:"account_id"`
	AccountNumber   string          `json:"account_number"`
	BuyerID         string          `json:"buyer_id"`
	SellerID        string          `json:"seller_id"`
	Amount          decimal.Decimal `json:"amount"`
	DepositedAmount decimal.Decimal `json:"deposited_amount"`
	EscrowFee       decimal.Decimal `json:"escrow_fee"`
	TransactionType string          `json:"transaction_type"`
	Status          string          `json:"status"`
	DisputeRaisedBy string          `json:"dispute_raised_by,omitempty"`
	DisputeReason   string          `json:"dispute_reason,omitempty"`
	ReleasedBy      string          `json:"released_by,omitempty"`
	ReleasedAt      *time.Time      `json:"released_at,omitempty"`
	RefundedBy      string          `json:"refunded_by,omitempty"`
	RefundedAt      *time.Time      `json:"refunded_at,omitempty"`
	ExpiresAt       time.Time       `json:"expires_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type DepositResponse struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	EscrowFee   decimal.Decimal `json:"escrow_fee"`
}

type ReleaseResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

type RefundResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

type LedgerEntryResponse struct {
	EntryID     string          `json:"entry_id"`
	AccountID   string          `json:"account_id"`
	EntryType   string          `json:"transaction_type"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by"`
	Description string          `json:"description,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type AccountStatusResponse struct {
	AccountResponse
	Transactions []LedgerEntryResponse `json:"transactions"`
}
