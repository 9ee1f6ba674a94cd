package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/internal/simulate"
)

// PaymentRequest is what a processor is asked to charge.
type PaymentRequest struct {
	Amount  decimal.Decimal
	Payment PaymentInfo
}

// PaymentProcessor charges a payment. A non-nil error leaves checkout on the payment step.
type PaymentProcessor interface {
	Process(ctx context.Context, req PaymentRequest) error
}

// ProcessorFunc adapts a function to PaymentProcessor.
type ProcessorFunc func(ctx context.Context, req PaymentRequest) error

func (f ProcessorFunc) Process(ctx context.Context, req PaymentRequest) error {
	return f(ctx, req)
}

// SimulatedProcessor waits Delay and approves every payment.
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Process(ctx context.Context, _ PaymentRequest) error {
	return simulate.Latency(ctx, p.Delay)
}
