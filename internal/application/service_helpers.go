package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
)

// replayIdempotent checks for a completed response under the caller's key.
// An empty key or absent store disables the check entirely: financial
// operations are never implicitly idempotent.
func (s *Service) replayIdempotent(ctx context.Context, key, requestHash string, out any) (bool, error) {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return false, nil
	}
	rec, err := s.idempotency.Get(ctx, key)
	if err != nil || rec == nil {
		return false, err
	}
	if rec.RequestHash != requestHash {
		return false, domain.ErrIdempotencyConflict
	}
	if len(rec.ResponseBody) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(rec.ResponseBody, out); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Service) reserveIdempotency(ctx context.Context, key, requestHash string) error {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	err := s.idempotency.Reserve(ctx, key, requestHash, s.cfg.IdempotencyTTL)
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrIdempotencyConflict
	}
	return err
}

// releaseIdempotency drops the reservation after a failed mutation so the
// caller can retry under the same key. Best effort; a leaked reservation
// still falls back to the TTL.
func (s *Service) releaseIdempotency(ctx context.Context, key string) {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return
	}
	_ = s.idempotency.Release(ctx, key)
}

// completeIdempotency records the response for replay. Failures here are not
// surfaced: the operation has already committed.
func (s *Service) completeIdempotency(ctx context.Context, key string, payload any) {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.idempotency.Complete(ctx, key, 200, body)
}

func hashRequest(v any) string {
	b, _ := json.Marshal(v)
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
