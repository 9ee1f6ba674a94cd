package simulate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLatencyWaits(t *testing.T) {
	start := time.Now()
	if err := Latency(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("returned after %v", elapsed)
	}
}

func TestLatencyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Latency(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLatencyZeroIsImmediate(t *testing.T) {
	if err := Latency(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
