package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

var accountNumberRandMax = big.NewInt(1000)

// GenerateAccountNumber produces a human-legible account number: "ESC", the
// last 8 digits of the unix-millisecond timestamp, and a 3-digit random
// suffix. The generator does not guarantee uniqueness; the store's unique
// constraint does, and callers regenerate on conflict.
func GenerateAccountNumber(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	n, err := rand.Int(rand.Reader, accountNumberRandMax)
	if err != nil {
		// crypto/rand failure leaves the timestamp component; the store
		// constraint still protects uniqueness.
		return fmt.Sprintf("ESC%s000", ts)
	}
	return fmt.Sprintf("ESC%s%03d", ts, n.Int64())
}
