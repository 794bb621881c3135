package order

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// NewOrderNumber builds a human-readable order number from the wall clock and
// a short random suffix, e.g. "ORD-20260829-153050-7F3A". Uniqueness is
// best-effort: there is no central sequence, and the collision probability is
// accepted as negligible.
func NewOrderNumber(now time.Time) string {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to a
		// nanosecond-derived suffix rather than aborting checkout.
		buf[0] = byte(now.Nanosecond())
		buf[1] = byte(now.Nanosecond() >> 8)
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf[:]))
	return "ORD-" + now.Format("20060102-150405") + "-" + suffix
}
