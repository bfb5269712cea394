package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.Backoff != 500*time.Millisecond {
		t.Errorf("Backoff = %v, want 500ms", cfg.Backoff)
	}
	if len(cfg.RetryOn) != len(DefaultRetryStatuses) {
		t.Errorf("len(RetryOn) = %d, want %d", len(cfg.RetryOn), len(DefaultRetryStatuses))
	}
}

func TestRetryConfig_Retryable(t *testing.T) {
	cfg := DefaultRetryConfig()

	tests := []struct {
		statusCode int
		expected   bool
	}{
		{408, true},
		{409, true},
		{425, true},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
		{200, false},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{501, false},
	}

	for _, tt := range tests {
		if got := cfg.Retryable(tt.statusCode); got != tt.expected {
			t.Errorf("Retryable(%d) = %v, want %v", tt.statusCode, got, tt.expected)
		}
	}
}

func TestRetryConfig_CustomStatuses(t *testing.T) {
	cfg := &RetryConfig{RetryOn: StatusSet([]int{418})}

	if !cfg.Retryable(418) {
		t.Error("Retryable(418) = false, want true")
	}
	if cfg.Retryable(503) {
		t.Error("Retryable(503) = true, want false")
	}
}

func TestRetryConfig_Exhausted(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2}

	tests := []struct {
		attempt  int
		expected bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, true},
	}

	for _, tt := range tests {
		if got := cfg.Exhausted(tt.attempt); got != tt.expected {
			t.Errorf("Exhausted(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}

	if !(&RetryConfig{}).Exhausted(0) {
		t.Error("Exhausted(0) with no retries = false, want true")
	}
}

func TestRetryConfig_Delay(t *testing.T) {
	cfg := &RetryConfig{Backoff: 100 * time.Millisecond}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{5, 3200 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := cfg.Delay(tt.attempt, 0, false); got != tt.expected {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestRetryConfig_DelayHintOverrides(t *testing.T) {
	cfg := &RetryConfig{Backoff: 100 * time.Millisecond}

	if got := cfg.Delay(3, 2*time.Second, true); got != 2*time.Second {
		t.Errorf("Delay() = %v, want 2s", got)
	}
	if got := cfg.Delay(3, 0, true); got != 0 {
		t.Errorf("Delay() = %v, want 0", got)
	}
}

func TestRetryConfig_DelayZeroBackoff(t *testing.T) {
	cfg := &RetryConfig{}

	for attempt := range 5 {
		if got := cfg.Delay(attempt, 0, false); got != 0 {
			t.Errorf("Delay(%d) = %v, want 0", attempt, got)
		}
	}
}

func TestRetryConfig_DelayOverflow(t *testing.T) {
	cfg := &RetryConfig{Backoff: time.Hour}

	if got := cfg.Delay(80, 0, false); got != time.Duration(math.MaxInt64) {
		t.Errorf("Delay(80) = %v, want max duration", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  string
		want   time.Duration
		wantOK bool
	}{
		{"empty", "", 0, false},
		{"seconds", "2", 2 * time.Second, true},
		{"padded", " 7 ", 7 * time.Second, true},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
		{"future date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second, true},
		{"past date", now.Add(-time.Hour).Format(http.TimeFormat), 0, true},
		{"fractional", "1.5", 0, false},
		{"garbage", "later", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRetryAfter(tt.value, now)
			if ok != tt.wantOK {
				t.Fatalf("ParseRetryAfter(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestWait(t *testing.T) {
	start := time.Now()
	if err := Wait(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Wait() returned after %v, want at least 20ms", elapsed)
	}
}

func TestWait_ZeroDelay(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestWait_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Wait(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait() did not return promptly after cancellation")
	}
}
