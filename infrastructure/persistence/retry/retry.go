/*
Package retry re-runs units of work that failed on a transient conflict.

Only whole units of work are retried: the function must reload every aggregate it
mutates, otherwise the retry would replay a stale version and conflict again.
*/
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"ddd-course/config"
	"ddd-course/domain/shared"
	"ddd-course/pkg/logger"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	mysqlDeadlock        = 1213
	mysqlLockWaitTimeout = 1205
)

type Config struct {
	Enabled                       bool
	MaxAttempts                   int
	InitialDelay                  time.Duration
	MaxDelay                      time.Duration
	BackoffFactor                 float64
	JitterEnabled                 bool
	RetryOnConcurrentModification bool
	RetryOnDeadlock               bool
	RetryOnLockTimeout            bool
	RetryPredicate                func(error) bool
}

var DefaultConfig = Config{
	Enabled:                       true,
	MaxAttempts:                   3,
	InitialDelay:                  100 * time.Millisecond,
	MaxDelay:                      2 * time.Second,
	BackoffFactor:                 2.0,
	JitterEnabled:                 true,
	RetryOnConcurrentModification: true,
	RetryOnDeadlock:               true,
	RetryOnLockTimeout:            true,
}

// Disabled runs the function exactly once
var Disabled = Config{Enabled: false}

func FromAppConfig(appConfig *config.Config) Config {
	retryConfig := appConfig.Database.Retry

	return Config{
		Enabled:                       retryConfig.Enabled,
		MaxAttempts:                   retryConfig.MaxAttempts,
		InitialDelay:                  retryConfig.InitialDelay,
		MaxDelay:                      retryConfig.MaxDelay,
		BackoffFactor:                 retryConfig.BackoffFactor,
		JitterEnabled:                 retryConfig.JitterEnabled,
		RetryOnConcurrentModification: retryConfig.RetryOnConcurrentModification,
		RetryOnDeadlock:               retryConfig.RetryOnDeadlock,
		RetryOnLockTimeout:            retryConfig.RetryOnLockTimeout,
	}
}

func ExponentialBackoffWithJitter(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		jitterFactor := 0.8 + rand.Float64()*0.4
		delay = delay * jitterFactor
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IsRetryableError classifies transient failures.
// Business-rule and invariant errors are never retried.
func IsRetryableError(err error, config Config) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, shared.ErrBusinessRule) || errors.Is(err, shared.ErrInvariant) {
		return false
	}
	if config.RetryPredicate != nil && config.RetryPredicate(err) {
		return true
	}
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		return config.RetryOnConcurrentModification
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDeadlock:
			return config.RetryOnDeadlock
		case mysqlLockWaitTimeout:
			return config.RetryOnLockTimeout
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "deadlock") || strings.Contains(errStr, "lock wait timeout") {
		return config.RetryOnDeadlock
	}
	// sqlite reports lock contention as "database is locked"
	if strings.Contains(errStr, "database is locked") {
		return config.RetryOnLockTimeout
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) ||
		(strings.Contains(errStr, "connection") && strings.Contains(errStr, "lost")) {
		return true
	}

	return false
}

func ExecuteWithRetry(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	if !config.Enabled || config.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if !IsRetryableError(err, config) || attempt == config.MaxAttempts {
			break
		}

		delay := ExponentialBackoffWithJitter(attempt, config)
		logger.Warn("Retrying unit of work",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}

	return lastErr
}
