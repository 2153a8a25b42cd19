package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ddd-course/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig
	conflict := shared.NewConcurrencyConflictError("course", shared.NewID(), 1, 2)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"concurrency conflict", conflict, true},
		{"wrapped conflict", fmt.Errorf("save: %w", conflict), true},
		{"business rule", shared.NewBusinessRuleError("course", "enroll_student", "course is full"), false},
		{"invariant", shared.NewNotInitializedError("shipment", "add_parcel"), false},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"mysql lock wait", &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true},
		{"mysql duplicate", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"sqlite locked", errors.New("database is locked"), true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err, cfg))
		})
	}

	cfg.RetryOnConcurrentModification = false
	assert.False(t, IsRetryableError(conflict, cfg))
}

func TestExecuteWithRetryRecoversFromConflict(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return shared.NewConcurrencyConflictError("order", shared.NewID(), 1, 2)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetryStopsOnBusinessError(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return shared.NewBusinessRuleError("course", "enroll_student", "course is full")
	})

	assert.ErrorIs(t, err, shared.ErrBusinessRule)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetryGivesUp(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return shared.NewConcurrencyConflictError("order", shared.NewID(), 1, 2)
	})

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, DefaultConfig.MaxAttempts, attempts)
}

func TestExecuteWithRetryDisabled(t *testing.T) {
	attempts := 0
	_ = ExecuteWithRetry(context.Background(), Disabled, func(ctx context.Context) error {
		attempts++
		return shared.NewConcurrencyConflictError("order", shared.NewID(), 1, 2)
	})
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBackoff(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 400*time.Millisecond, ExponentialBackoffWithJitter(3, cfg))
	assert.Equal(t, time.Second, ExponentialBackoffWithJitter(10, cfg))
}
