package domain

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestGenerateAccountNumberShape(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	got := GenerateAccountNumber(now)

	if !strings.HasPrefix(got, "ESC") {
		t.Fatalf("expected ESC prefix, got %q", got)
	}
	if len(got) != len("ESC")+8+3 {
		t.Fatalf("unexpected length %d for %q", len(got), got)
	}
	for _, r := range got[3:] {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %q", r, got)
		}
	}

	ts := strconv.FormatInt(now.UnixMilli(), 10)
	wantTail := ts[len(ts)-8:]
	if got[3:11] != wantTail {
		t.Fatalf("timestamp component %q, want %q", got[3:11], wantTail)
	}
}

func TestGenerateAccountNumberVariesSuffix(t *testing.T) {
	now := time.Now().UTC()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[GenerateAccountNumber(now)] = true
	}
	// 50 draws from a 1000-value suffix space should produce more than one
	// distinct number unless randomness is broken.
	if len(seen) < 2 {
		t.Fatalf("expected varied suffixes, got %d distinct numbers", len(seen))
	}
}
