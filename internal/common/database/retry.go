// internal/common/database/retry.go
package database

import (
	"context"
	"fmt"
	"time"
)

// ConnectWithRetry calls connect until it succeeds, doubling the delay between attempts.
func ConnectWithRetry(ctx context.Context, attempts int, initial time.Duration, connect func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	delay := initial
	var err error
	for i := 0; i < attempts; i++ {
		if err = connect(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
