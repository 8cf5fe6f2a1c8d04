package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/application"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/contracts"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/observability"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

// Handler is the HTTP adapter entrypoint for escrow use-cases.
// Keeping only application dependencies here preserves clean adapter boundaries.
type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
	metrics  *observability.MetricsCollector
}

// NewHandler constructs an HTTP handler bound to the application service. A
// nil verifier enables gateway-trust mode: the bearer subject is taken as the
// caller identity without signature verification.
func NewHandler(service *application.Service, verifier ports.TokenVerifier, metrics *observability.MetricsCollector) *Handler {
	return &Handler{service: service, verifier: verifier, metrics: metrics}
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}

		var claims ports.AuthClaims
		if h.verifier != nil {
			claims, err = h.verifier.ParseAndValidate(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}
		} else {
			// Gateway-trust mode: upstream already authenticated the caller
			// and forwards the subject id as the bearer value.
			subject, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid subject")
				return
			}
			claims = ports.AuthClaims{
				UserID: subject,
				Role:   strings.ToLower(strings.TrimSpace(r.Header.Get("X-Actor-Role"))),
			}
		}

		actor := application.Actor{
			SubjectID:      claims.UserID,
			Role:           claims.Role,
			RequestID:      requestIDFromContext(r.Context()),
			IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		}
		ctx := context.WithValue(r.Context(), ctxKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_account", err)
		return
	}
	buyerID, err := uuid.Parse(req.BuyerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "buyer_id must be a uuid")
		return
	}
	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "seller_id must be a uuid")
		return
	}

	actor := actorFromContext(r.Context())
	account, err := h.service.CreateAccount(r.Context(), actor, application.CreateAccountInput{
		PrincipalID:     buyerID,
		BeneficiaryID:   sellerID,
		Amount:          req.Amount,
		TransactionType: req.TransactionType,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "create_account", err)
		return
	}
	h.recordLedgerEntry(domain.EntryTypeCreation)
	writeSuccess(w, http.StatusCreated, h.toAccountResponse(account))
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "account_id must be a uuid")
		return
	}
	var req contracts.DepositRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "deposit", err)
		return
	}

	actor := actorFromContext(r.Context())
	result, err := h.service.Deposit(r.Context(), actor, application.DepositInput{
		AccountID: accountID,
		Amount:    req.Amount,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "deposit", err)
		return
	}
	h.recordLedgerEntry(domain.EntryTypeDeposit)
	writeSuccess(w, http.StatusOK, contracts.DepositResponse{
		TotalAmount: result.TotalAmount,
		EscrowFee:   result.EscrowFee,
	})
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "account_id must be a uuid")
		return
	}
	var req contracts.ReleaseRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "release", err)
		return
	}

	actor := actorFromContext(r.Context())
	result, err := h.service.Release(r.Context(), actor, application.ReleaseInput{
		AccountID: accountID,
		Milestone: req.Milestone,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "release", err)
		return
	}
	h.recordLedgerEntry(domain.EntryTypeRelease)
	writeSuccess(w, http.StatusOK, contracts.ReleaseResponse{Amount: result.Amount})
}

func (h *Handler) dispute(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "account_id must be a uuid")
		return
	}
	var req contracts.DisputeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "dispute", err)
		return
	}

	actor := actorFromContext(r.Context())
	if err := h.service.RequestDispute(r.Context(), actor, application.DisputeInput{
		AccountID: accountID,
		Reason:    req.Reason,
	}); err != nil {
		writeMappedError(r.Context(), w, "dispute", err)
		return
	}
	h.recordLedgerEntry(domain.EntryTypeDispute)
	writeMessage(w, http.StatusOK, "dispute recorded")
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "account_id must be a uuid")
		return
	}
	var req contracts.RefundRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "refund", err)
		return
	}

	actor := actorFromContext(r.Context())
	result, err := h.service.Refund(r.Context(), actor, application.RefundInput{
		AccountID: accountID,
		Reason:    req.Reason,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "refund", err)
		return
	}
	h.recordLedgerEntry(domain.EntryTypeRefund)
	writeSuccess(w, http.StatusOK, contracts.RefundResponse{Amount: result.Amount})
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "account_id must be a uuid")
		return
	}

	actor := actorFromContext(r.Context())
	status, err := h.service.GetStatus(r.Context(), actor, accountID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_status", err)
		return
	}

	resp := contracts.AccountStatusResponse{
		AccountResponse: h.toAccountResponse(status.Account),
		Transactions:    make([]contracts.LedgerEntryResponse, 0, len(status.Transactions)),
	}
	for _, entry := range status.Transactions {
		resp.Transactions = append(resp.Transactions, toEntryResponse(entry))
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) recordLedgerEntry(entryType string) {
	if h.metrics != nil {
		h.metrics.RecordLedgerEntry(entryType)
	}
}

func accountIDFromURL(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "account_id"))
}

func (h *Handler) toAccountResponse(account domain.EscrowAccount) contracts.AccountResponse {
	resp := contracts.AccountResponse{
		AccountID:       account.AccountID.String(),
		AccountNumber:   account.AccountNumber,
		BuyerID:         account.PrincipalID.String(),
		SellerID:        account.BeneficiaryID.String(),
		Amount:          account.Amount,
		DepositedAmount: account.DepositedAmount,
		EscrowFee:       account.EscrowFee,
		TransactionType: account.TransactionType,
		Status:          account.EffectiveStatus(time.Now().UTC()),
		DisputeReason:   account.DisputeReason,
		ReleasedAt:      account.ReleasedAt,
		RefundedAt:      account.RefundedAt,
		ExpiresAt:       account.ExpiresAt,
		CreatedAt:       account.CreatedAt,
		UpdatedAt:       account.UpdatedAt,
	}
	if account.DisputeRaisedBy != nil {
		resp.DisputeRaisedBy = account.DisputeRaisedBy.String()
	}
	if account.ReleasedBy != nil {
		resp.ReleasedBy = account.ReleasedBy.String()
	}
	if account.RefundedBy != nil {
		resp.RefundedBy = account.RefundedBy.String()
	}
	return resp
}

func toEntryResponse(entry domain.LedgerEntry) contracts.LedgerEntryResponse {
	return contracts.LedgerEntryResponse{
		EntryID:     entry.EntryID.String(),
		AccountID:   entry.AccountID.String(),
		EntryType:   entry.EntryType,
		Amount:      entry.Amount,
		Fee:         entry.Fee,
		Status:      entry.Status,
		CreatedBy:   entry.CreatedBy.String(),
		Description: entry.Description,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
}
