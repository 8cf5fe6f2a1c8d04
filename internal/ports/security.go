package ports

import (
	"github.com/google/uuid"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
)

// AuthClaims is the caller identity resolved by the platform gateway.
type AuthClaims struct {
	UserID uuid.UUID
	Role   string
}

type TokenVerifier interface {
	ParseAndValidate(raw string) (AuthClaims, error)
}

// TransitionPolicy is the pluggable capability check for transitions whose
// caller set the source system leaves open (dispute and refund). The default
// policy admits any authenticated caller, matching source behavior;
// deployments may inject an arbitrator-role check instead.
type TransitionPolicy interface {
	AuthorizeDispute(account domain.EscrowAccount, requesterID uuid.UUID) error
	AuthorizeRefund(account domain.EscrowAccount, refundedBy uuid.UUID) error
}
