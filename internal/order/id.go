package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewOrderID builds a time-derived order id with a cryptographic random
// suffix so ids stay unique under high-frequency checkouts sharing a
// timestamp.
func NewOrderID() string {
	now := time.Now().UTC()

	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf(
		"ORD-%s-%03d-%04d",
		datePart,
		millis,
		n.Int64(),
	)
}
