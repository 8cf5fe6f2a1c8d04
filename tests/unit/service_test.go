package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/application"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

func TestCreateDepositReleaseFlow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	buyer := uuid.New()
	seller := uuid.New()
	actor := application.Actor{SubjectID: buyer, RequestID: "req-1"}

	account, err := f.service.CreateAccount(ctx, actor, application.CreateAccountInput{
		PrincipalID:     buyer,
		BeneficiaryID:   seller,
		Amount:          decimal.NewFromInt(100000),
		TransactionType: "goods_purchase",
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if account.Status != domain.StatusCreated {
		t.Fatalf("expected created, got %s", account.Status)
	}
	if account.AccountNumber == "" {
		t.Fatalf("account number not generated")
	}

	deposit, err := f.service.Deposit(ctx, actor, application.DepositInput{
		AccountID: account.AccountID,
		Amount:    decimal.NewFromInt(100000),
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if want := decimal.NewFromInt(2500); !deposit.EscrowFee.Equal(want) {
		t.Fatalf("fee = %s, want %s", deposit.EscrowFee, want)
	}
	if want := decimal.NewFromInt(102500); !deposit.TotalAmount.Equal(want) {
		t.Fatalf("total = %s, want %s", deposit.TotalAmount, want)
	}

	release, err := f.service.Release(ctx, application.Actor{SubjectID: seller}, application.ReleaseInput{
		AccountID: account.AccountID,
		Milestone: "delivery confirmed",
	})
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if want := decimal.NewFromInt(100000); !release.Amount.Equal(want) {
		t.Fatalf("released = %s, want %s", release.Amount, want)
	}

	status, err := f.service.GetStatus(ctx, actor, account.AccountID)
	if err != nil {
		t.Fatalf("get status failed: %v", err)
	}
	if status.Account.Status != domain.StatusReleased {
		t.Fatalf("expected released, got %s", status.Account.Status)
	}
	if len(status.Transactions) != 3 {
		t.Fatalf("expected 3 ledger entries, got %d", len(status.Transactions))
	}
	// Newest first.
	if status.Transactions[0].EntryType != domain.EntryTypeRelease {
		t.Fatalf("newest entry should be release, got %s", status.Transactions[0].EntryType)
	}
	if status.Transactions[2].EntryType != domain.EntryTypeCreation {
		t.Fatalf("oldest entry should be creation, got %s", status.Transactions[2].EntryType)
	}
}

func TestRefundRetainsFee(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	account, actor := f.fundedAccount(t, ctx, 100000)

	refund, err := f.service.Refund(ctx, actor, application.RefundInput{
		AccountID: account.AccountID,
		Reason:    "order cancelled",
	})
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if want := decimal.NewFromInt(97500); !refund.Amount.Equal(want) {
		t.Fatalf("refunded = %s, want %s", refund.Amount, want)
	}
}

func TestDoubleDepositLeavesOneLedgerEntry(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	account, actor := f.fundedAccount(t, ctx, 100000)

	_, err := f.service.Deposit(ctx, actor, application.DepositInput{
		AccountID: account.AccountID,
		Amount:    decimal.NewFromInt(100000),
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	deposits := 0
	for _, entry := range f.escrows.entriesFor(account.AccountID) {
		if entry.EntryType == domain.EntryTypeDeposit {
			deposits++
		}
	}
	if deposits != 1 {
		t.Fatalf("expected exactly 1 deposit entry, got %d", deposits)
	}
}

func TestDepositByWrongPartyWritesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	buyer := uuid.New()
	seller := uuid.New()
	actor := application.Actor{SubjectID: buyer}

	account, err := f.service.CreateAccount(ctx, actor, application.CreateAccountInput{
		PrincipalID:     buyer,
		BeneficiaryID:   seller,
		Amount:          decimal.NewFromInt(100000),
		TransactionType: "goods_purchase",
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	_, err = f.service.Deposit(ctx, application.Actor{SubjectID: seller}, application.DepositInput{
		AccountID: account.AccountID,
		Amount:    decimal.NewFromInt(100000),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	for _, entry := range f.escrows.entriesFor(account.AccountID) {
		if entry.EntryType == domain.EntryTypeDeposit {
			t.Fatalf("failed deposit must not append a ledger entry")
		}
	}
	got, err := f.service.GetStatus(ctx, actor, account.AccountID)
	if err != nil {
		t.Fatalf("get status failed: %v", err)
	}
	if got.Account.Status != domain.StatusCreated {
		t.Fatalf("failed deposit must not change status, got %s", got.Account.Status)
	}
}

func TestDisputeBlocksReleaseButAllowsRefund(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	account, actor := f.fundedAccount(t, ctx, 100000)

	if err := f.service.RequestDispute(ctx, actor, application.DisputeInput{
		AccountID: account.AccountID,
		Reason:    "goods not delivered",
	}); err != nil {
		t.Fatalf("dispute failed: %v", err)
	}

	// Re-raising is allowed and appends a second dispute entry.
	if err := f.service.RequestDispute(ctx, actor, application.DisputeInput{
		AccountID: account.AccountID,
		Reason:    "still not delivered",
	}); err != nil {
		t.Fatalf("re-dispute failed: %v", err)
	}
	disputes := 0
	for _, entry := range f.escrows.entriesFor(account.AccountID) {
		if entry.EntryType == domain.EntryTypeDispute {
			disputes++
			if entry.Status != domain.EntryStatusPending {
				t.Fatalf("dispute entries stay pending, got %s", entry.Status)
			}
		}
	}
	if disputes != 2 {
		t.Fatalf("expected 2 dispute entries, got %d", disputes)
	}

	if _, err := f.service.Release(ctx, actor, application.ReleaseInput{AccountID: account.AccountID}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("release from dispute: expected ErrInvalidState, got %v", err)
	}

	refund, err := f.service.Refund(ctx, actor, application.RefundInput{AccountID: account.AccountID, Reason: "arbitrated"})
	if err != nil {
		t.Fatalf("refund from dispute failed: %v", err)
	}
	if want := decimal.NewFromInt(97500); !refund.Amount.Equal(want) {
		t.Fatalf("refunded = %s, want %s", refund.Amount, want)
	}
}

func TestLedgerFoldReconstructsAccountRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cases := []struct {
		name  string
		drive func(t *testing.T, f *fixture) uuid.UUID
	}{
		{
			name: "released",
			drive: func(t *testing.T, f *fixture) uuid.UUID {
				account, actor := f.fundedAccount(t, ctx, 100000)
				if _, err := f.service.Release(ctx, actor, application.ReleaseInput{
					AccountID: account.AccountID,
					Milestone: "delivery confirmed",
				}); err != nil {
					t.Fatalf("release failed: %v", err)
				}
				return account.AccountID
			},
		},
		{
			name: "refunded after re-raised dispute",
			drive: func(t *testing.T, f *fixture) uuid.UUID {
				account, actor := f.fundedAccount(t, ctx, 40000)
				for _, reason := range []string{"goods not delivered", "still not delivered"} {
					if err := f.service.RequestDispute(ctx, actor, application.DisputeInput{
						AccountID: account.AccountID,
						Reason:    reason,
					}); err != nil {
						t.Fatalf("dispute failed: %v", err)
					}
				}
				if _, err := f.service.Refund(ctx, actor, application.RefundInput{
					AccountID: account.AccountID,
					Reason:    "arbitrated",
				}); err != nil {
					t.Fatalf("refund failed: %v", err)
				}
				return account.AccountID
			},
		},
		{
			name: "in dispute",
			drive: func(t *testing.T, f *fixture) uuid.UUID {
				account, actor := f.fundedAccount(t, ctx, 25000)
				if err := f.service.RequestDispute(ctx, actor, application.DisputeInput{
					AccountID: account.AccountID,
					Reason:    "goods damaged",
				}); err != nil {
					t.Fatalf("dispute failed: %v", err)
				}
				return account.AccountID
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture()
			accountID := tc.drive(t, f)

			account, err := f.escrows.GetByID(ctx, accountID)
			if err != nil {
				t.Fatalf("get account failed: %v", err)
			}
			status, deposited, fee := foldLedger(f.escrows.entriesFor(accountID))
			if status != account.Status {
				t.Fatalf("folded status = %s, account row has %s", status, account.Status)
			}
			if !deposited.Equal(account.DepositedAmount) {
				t.Fatalf("folded deposited = %s, account row has %s", deposited, account.DepositedAmount)
			}
			if !fee.Equal(account.EscrowFee) {
				t.Fatalf("folded fee = %s, account row has %s", fee, account.EscrowFee)
			}
		})
	}
}

func TestDisputeWithoutReasonRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	account, actor := f.fundedAccount(t, ctx, 100000)

	err := f.service.RequestDispute(ctx, actor, application.DisputeInput{AccountID: account.AccountID, Reason: "  "})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExpiredAccountRejectsMutations(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	account, actor := f.fundedAccount(t, ctx, 100000)

	f.escrows.expire(account.AccountID)

	if _, err := f.service.Release(ctx, actor, application.ReleaseInput{AccountID: account.AccountID}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("release on expired: expected ErrInvalidState, got %v", err)
	}
	if _, err := f.service.Refund(ctx, actor, application.RefundInput{AccountID: account.AccountID}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("refund on expired: expected ErrInvalidState, got %v", err)
	}

	status, err := f.service.GetStatus(ctx, actor, account.AccountID)
	if err != nil {
		t.Fatalf("get status failed: %v", err)
	}
	if got := status.Account.EffectiveStatus(time.Now().UTC()); got != domain.StatusExpired {
		t.Fatalf("effective status = %s, want expired", got)
	}
}

func TestMinimumAmountEnforced(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	buyer := uuid.New()

	_, err := f.service.CreateAccount(ctx, application.Actor{SubjectID: buyer}, application.CreateAccountInput{
		PrincipalID:     buyer,
		BeneficiaryID:   uuid.New(),
		Amount:          decimal.NewFromInt(5000),
		TransactionType: "goods_purchase",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for below-minimum amount, got %v", err)
	}
}

func TestMinimumAmountOffByDefault(t *testing.T) {
	t.Parallel()

	escrows := &fakeEscrows{
		accounts: map[uuid.UUID]domain.EscrowAccount{},
		entries:  map[uuid.UUID][]domain.LedgerEntry{},
	}
	svc := application.NewService(application.Dependencies{Escrows: escrows})

	buyer := uuid.New()
	account, err := svc.CreateAccount(context.Background(), application.Actor{SubjectID: buyer}, application.CreateAccountInput{
		PrincipalID:     buyer,
		BeneficiaryID:   uuid.New(),
		Amount:          decimal.NewFromInt(50),
		TransactionType: "service_payment",
	})
	if err != nil {
		t.Fatalf("create with small amount failed: %v", err)
	}
	if account.Status != domain.StatusCreated {
		t.Fatalf("expected created, got %s", account.Status)
	}
}

func TestCreateRetriesOnDuplicateAccountNumber(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.escrows.failCreates(2)
	ctx := context.Background()
	buyer := uuid.New()

	account, err := f.service.CreateAccount(ctx, application.Actor{SubjectID: buyer}, application.CreateAccountInput{
		PrincipalID:     buyer,
		BeneficiaryID:   uuid.New(),
		Amount:          decimal.NewFromInt(50000),
		TransactionType: "service_contract",
	})
	if err != nil {
		t.Fatalf("create should retry past duplicate numbers: %v", err)
	}
	if account.AccountID == uuid.Nil {
		t.Fatalf("expected a created account")
	}
}

func TestCreateGivesUpAfterRepeatedConflicts(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.escrows.failCreates(10)
	ctx := context.Background()
	buyer := uuid.New()

	_, err := f.service.CreateAccount(ctx, application.Actor{SubjectID: buyer}, application.CreateAccountInput{
		PrincipalID:     buyer,
		BeneficiaryID:   uuid.New(),
		Amount:          decimal.NewFromInt(50000),
		TransactionType: "service_contract",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict after exhausted retries, got %v", err)
	}
}

func TestDepositIdempotentReplay(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	buyer := uuid.New()
	actor := application.Actor{SubjectID: buyer}

	account, err := f.service.CreateAccount(ctx, actor, application.CreateAccountInput{
		PrincipalID:     buyer,
		BeneficiaryID:   uuid.New(),
		Amount:          decimal.NewFromInt(100000),
		TransactionType: "goods_purchase",
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	actor.IdempotencyKey = "idem-deposit-1"
	first, err := f.service.Deposit(ctx, actor, application.DepositInput{
		AccountID: account.AccountID,
		Amount:    decimal.NewFromInt(100000),
	})
	if err != nil {
		t.Fatalf("first deposit failed: %v", err)
	}
	second, err := f.service.Deposit(ctx, actor, application.DepositInput{
		AccountID: account.AccountID,
		Amount:    decimal.NewFromInt(100000),
	})
	if err != nil {
		t.Fatalf("replayed deposit failed: %v", err)
	}
	if !first.TotalAmount.Equal(second.TotalAmount) || !first.EscrowFee.Equal(second.EscrowFee) {
		t.Fatalf("replay mismatch: first=%+v second=%+v", first, second)
	}

	deposits := 0
	for _, entry := range f.escrows.entriesFor(account.AccountID) {
		if entry.EntryType == domain.EntryTypeDeposit {
			deposits++
		}
	}
	if deposits != 1 {
		t.Fatalf("replay must not append a second deposit entry, got %d", deposits)
	}

	// Same key with a different payload is a conflict, not a replay.
	_, err = f.service.Deposit(ctx, actor, application.DepositInput{
		AccountID: account.AccountID,
		Amount:    decimal.NewFromInt(999),
	})
	if !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestFailedMutationFreesIdempotencyKey(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	account, actor := f.fundedAccount(t, ctx, 100000)

	outsider := application.Actor{SubjectID: uuid.New(), IdempotencyKey: "idem-release-1"}
	if _, err := f.service.Release(ctx, outsider, application.ReleaseInput{AccountID: account.AccountID}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// The failed attempt must not hold the key until the TTL; a legitimate
	// retry under the same key proceeds.
	actor.IdempotencyKey = "idem-release-1"
	release, err := f.service.Release(ctx, actor, application.ReleaseInput{AccountID: account.AccountID})
	if err != nil {
		t.Fatalf("retry under the same key failed: %v", err)
	}
	if want := decimal.NewFromInt(100000); !release.Amount.Equal(want) {
		t.Fatalf("released = %s, want %s", release.Amount, want)
	}
}

func TestMutationsEnqueueOutboxEvents(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	account, actor := f.fundedAccount(t, ctx, 100000)

	if _, err := f.service.Release(ctx, actor, application.ReleaseInput{AccountID: account.AccountID}); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	types := f.escrows.eventTypes()
	want := []string{domain.EventAccountCreated, domain.EventFundsDeposited, domain.EventFundsReleased}
	if len(types) != len(want) {
		t.Fatalf("expected %d events, got %d (%v)", len(want), len(types), types)
	}
	for i, eventType := range want {
		if types[i] != eventType {
			t.Fatalf("event[%d] = %s, want %s", i, types[i], eventType)
		}
	}
}

func TestUnauthenticatedCallerRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	_, err := f.service.CreateAccount(ctx, application.Actor{}, application.CreateAccountInput{
		PrincipalID:     uuid.New(),
		BeneficiaryID:   uuid.New(),
		Amount:          decimal.NewFromInt(100000),
		TransactionType: "goods_purchase",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

type fixture struct {
	service *application.Service
	escrows *fakeEscrows
	idem    *fakeIdempotency
}

func newFixture() *fixture {
	escrows := &fakeEscrows{
		accounts: map[uuid.UUID]domain.EscrowAccount{},
		entries:  map[uuid.UUID][]domain.LedgerEntry{},
	}
	idem := &fakeIdempotency{records: map[string]ports.IdempotencyRecord{}}
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			FeePercent:    decimal.RequireFromString("2.5"),
			ExpiryWindow:  30 * 24 * time.Hour,
			MinimumAmount: decimal.NewFromInt(10000),
		},
		Escrows:     escrows,
		Idempotency: idem,
	})
	return &fixture{service: svc, escrows: escrows, idem: idem}
}

// fundedAccount creates an account and deposits into it, returning the account
// and the principal actor.
func (f *fixture) fundedAccount(t *testing.T, ctx context.Context, amount int64) (domain.EscrowAccount, application.Actor) {
	t.Helper()
	buyer := uuid.New()
	actor := application.Actor{SubjectID: buyer}
	account, err := f.service.CreateAccount(ctx, actor, application.CreateAccountInput{
		PrincipalID:     buyer,
		BeneficiaryID:   uuid.New(),
		Amount:          decimal.NewFromInt(amount),
		TransactionType: "goods_purchase",
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if _, err := f.service.Deposit(ctx, actor, application.DepositInput{
		AccountID: account.AccountID,
		Amount:    decimal.NewFromInt(amount),
	}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	return account, actor
}

type fakeEscrows struct {
	mu             sync.Mutex
	accounts       map[uuid.UUID]domain.EscrowAccount
	entries        map[uuid.UUID][]domain.LedgerEntry
	events         []ports.OutboxEvent
	createConflict int
}

func (f *fakeEscrows) CreateWithLedger(_ context.Context, account domain.EscrowAccount, entry domain.LedgerEntry, event *ports.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createConflict > 0 {
		f.createConflict--
		return domain.ErrConflict
	}
	for _, existing := range f.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.ErrConflict
		}
	}
	f.accounts[account.AccountID] = account
	f.entries[account.AccountID] = append(f.entries[account.AccountID], entry)
	if event != nil {
		f.events = append(f.events, *event)
	}
	return nil
}

func (f *fakeEscrows) Mutate(_ context.Context, accountID uuid.UUID, apply func(account *domain.EscrowAccount) (ports.MutationResult, error)) (domain.EscrowAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[accountID]
	if !ok {
		return domain.EscrowAccount{}, domain.ErrNotFound
	}
	mutation, err := apply(&account)
	if err != nil {
		return domain.EscrowAccount{}, err
	}
	f.accounts[accountID] = account
	f.entries[accountID] = append(f.entries[accountID], mutation.Entry)
	if mutation.Event != nil {
		f.events = append(f.events, *mutation.Event)
	}
	return account, nil
}

func (f *fakeEscrows) GetByID(_ context.Context, accountID uuid.UUID) (domain.EscrowAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[accountID]
	if !ok {
		return domain.EscrowAccount{}, domain.ErrNotFound
	}
	return account, nil
}

func (f *fakeEscrows) ListEntries(_ context.Context, accountID uuid.UUID) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.entries[accountID]
	out := make([]domain.LedgerEntry, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

func (f *fakeEscrows) entriesFor(accountID uuid.UUID) []domain.LedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.LedgerEntry(nil), f.entries[accountID]...)
}

func (f *fakeEscrows) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.EventType)
	}
	return out
}

func (f *fakeEscrows) failCreates(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createConflict = n
}

func (f *fakeEscrows) expire(accountID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := f.accounts[accountID]
	account.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	f.accounts[accountID] = account
}

type fakeIdempotency struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
}

func (f *fakeIdempotency) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (f *fakeIdempotency) Reserve(_ context.Context, key, requestHash string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[key]; ok {
		return domain.ErrConflict
	}
	f.records[key] = ports.IdempotencyRecord{Key: key, RequestHash: requestHash, Status: "in_flight"}
	return nil
}

func (f *fakeIdempotency) Complete(_ context.Context, key string, responseCode int, responseBody []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.records[key]
	rec.Status = "completed"
	rec.ResponseCode = responseCode
	rec.ResponseBody = responseBody
	f.records[key] = rec
	return nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, key)
	return nil
}

// foldLedger replays a ledger history in creation order and returns the
// account fields that history implies. The stored account row must always
// match this projection.
func foldLedger(entries []domain.LedgerEntry) (status string, deposited, fee decimal.Decimal) {
	for _, e := range entries {
		switch e.EntryType {
		case domain.EntryTypeCreation:
			status = domain.StatusCreated
		case domain.EntryTypeDeposit:
			status = domain.StatusFunded
			deposited = e.Amount
			fee = e.Fee
		case domain.EntryTypeDispute:
			status = domain.StatusInDispute
		case domain.EntryTypeRelease:
			status = domain.StatusReleased
		case domain.EntryTypeRefund:
			status = domain.StatusRefunded
		}
	}
	return status, deposited, fee
}
