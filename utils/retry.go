package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// Retry runs fn up to attempts times, sleeping with exponential backoff and
// jitter between failures. Used for append-heavy database writes that can
// hit transient contention.
func Retry(attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		backoff := baseDelay << uint(i)
		jitter := time.Duration(rand.Int63n(int64(backoff) + 1))
		time.Sleep(backoff/2 + jitter/2)
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}
