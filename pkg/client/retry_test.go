package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fastRetry keeps retry tests quick while preserving the backoff shape.
func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    10 * time.Millisecond,
		MaxBackoff:        40 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func serverErr() error {
	return &DeliveryError{StatusCode: 500, ErrorClass: ErrorClassServer, Message: "500 Internal Server Error"}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", config.MaxAttempts)
	}
	if config.InitialBackoff != 500*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 500ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 10*time.Second {
		t.Errorf("MaxBackoff = %v, want 10s", config.MaxBackoff)
	}
	if config.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", config.BackoffMultiplier)
	}
}

func TestRetryConfig_ForErrorClass(t *testing.T) {
	base := DefaultRetryConfig()

	tests := []struct {
		name             string
		errorClass       ErrorClass
		expectedInitial  time.Duration
		expectedAttempts int
	}{
		{"server error keeps base", ErrorClassServer, 500 * time.Millisecond, 3},
		{"network error doubles backoff", ErrorClassNetwork, 1 * time.Second, 3},
		{"client error single attempt", ErrorClassClient, 500 * time.Millisecond, 1},
		{"unknown class keeps base", "", 500 * time.Millisecond, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base.ForErrorClass(tt.errorClass)
			if config.InitialBackoff != tt.expectedInitial {
				t.Errorf("InitialBackoff = %v, want %v", config.InitialBackoff, tt.expectedInitial)
			}
			if config.MaxAttempts != tt.expectedAttempts {
				t.Errorf("MaxAttempts = %d, want %d", config.MaxAttempts, tt.expectedAttempts)
			}
		})
	}

	if base.InitialBackoff != 500*time.Millisecond {
		t.Error("ForErrorClass modified the receiver")
	}
}

func TestRetryWithBackoff_Success(t *testing.T) {
	callCount := 0
	err := retryWithBackoff(context.Background(), fastRetry(), zerolog.Nop(), func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	callCount := 0
	start := time.Now()
	err := retryWithBackoff(context.Background(), fastRetry(), zerolog.Nop(), func() error {
		callCount++
		if callCount < 3 {
			return serverErr()
		}
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
	// 10ms + 20ms minus jitter
	if duration < 20*time.Millisecond {
		t.Errorf("Expected some backoff delay, got %v", duration)
	}
}

func TestRetryWithBackoff_MaxAttemptsExhausted(t *testing.T) {
	callCount := 0
	err := retryWithBackoff(context.Background(), fastRetry(), zerolog.Nop(), func() error {
		callCount++
		return serverErr()
	})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	var de *DeliveryError
	if !errors.As(err, &de) || de.StatusCode != 500 {
		t.Errorf("Expected wrapped DeliveryError with status 500, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls (MaxAttempts), got %d", callCount)
	}
}

func TestRetryWithBackoff_UnclassifiedErrorNoRetry(t *testing.T) {
	callCount := 0
	testErr := errors.New("create request")
	err := retryWithBackoff(context.Background(), fastRetry(), zerolog.Nop(), func() error {
		callCount++
		return testErr
	})

	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("Should not return ErrRetryExhausted when no retry was attempted")
	}
	if !errors.Is(err, testErr) {
		t.Errorf("Expected original error, got %v", err)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := fastRetry()
	config.InitialBackoff = time.Second

	callCount := 0
	err := retryWithBackoff(ctx, config, zerolog.Nop(), func() error {
		callCount++
		cancel()
		return serverErr()
	})

	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", callCount)
	}
}

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	config := fastRetry()
	config.InitialBackoff = 20 * time.Millisecond
	config.MaxBackoff = time.Second

	var timestamps []time.Time
	_ = retryWithBackoff(context.Background(), config, zerolog.Nop(), func() error {
		timestamps = append(timestamps, time.Now())
		return serverErr()
	})

	if len(timestamps) != 3 {
		t.Fatalf("Expected 3 timestamps, got %d", len(timestamps))
	}

	firstDelay := timestamps[1].Sub(timestamps[0])
	secondDelay := timestamps[2].Sub(timestamps[1])

	// ±20% jitter: first in [16ms, 24ms], second in [32ms, 48ms]
	if firstDelay < 16*time.Millisecond {
		t.Errorf("First retry delay %v shorter than expected", firstDelay)
	}
	if secondDelay < 32*time.Millisecond {
		t.Errorf("Second retry delay %v shorter than expected", secondDelay)
	}
}

func TestRetryWithBackoff_MaxBackoffCap(t *testing.T) {
	config := RetryConfig{
		MaxAttempts:       4,
		InitialBackoff:    10 * time.Millisecond,
		MaxBackoff:        15 * time.Millisecond,
		BackoffMultiplier: 10.0,
	}

	var timestamps []time.Time
	_ = retryWithBackoff(context.Background(), config, zerolog.Nop(), func() error {
		timestamps = append(timestamps, time.Now())
		return serverErr()
	})

	if len(timestamps) != 4 {
		t.Fatalf("Expected 4 timestamps, got %d", len(timestamps))
	}
	// without the cap the third delay would be ~1s
	if d := timestamps[3].Sub(timestamps[2]); d > 500*time.Millisecond {
		t.Errorf("Third delay %v not capped at MaxBackoff", d)
	}
}
