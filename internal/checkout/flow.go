// Package checkout drives the shipping, payment and confirmation steps over a session cart.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// Flow is the checkout state machine of one session. Steps move Closed -> Shipping -> Payment ->
// Confirmed, with Back allowed from Payment to Shipping only.
type Flow struct {
	mu        sync.Mutex
	cart      *cart.Cart
	processor PaymentProcessor
	now       func() time.Time

	step     Step
	shipping *ShippingInfo
	order    *Order
	paying   bool
}

// Option customizes a Flow.
type Option func(*Flow)

// WithClock overrides the clock used for order ids.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// NewFlow returns a closed flow over c. A nil processor approves immediately.
func NewFlow(c *cart.Cart, processor PaymentProcessor, opts ...Option) *Flow {
	if processor == nil {
		processor = SimulatedProcessor{}
	}
	f := &Flow{cart: c, processor: processor, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a snapshot of the flow.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

// Open starts checkout on the shipping step. Reopening an unfinished checkout keeps its progress.
func (f *Flow) Open() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepShipping, StepPayment:
		return f.stateLocked(), nil
	case StepConfirmed:
		return State{}, stepConflict(f.step, "complete the confirmed order first")
	}
	if f.cart.IsEmpty() {
		return State{}, errEmptyCart(f.step)
	}
	f.step = StepShipping
	f.shipping = nil
	f.order = nil
	return f.stateLocked(), nil
}

// SubmitShipping validates the address and advances to payment.
func (f *Flow) SubmitShipping(info ShippingInfo) (State, error) {
	if strings.TrimSpace(info.Country) == "" {
		info.Country = DefaultCountry
	}
	if err := ValidateShipping(info).Err(); err != nil {
		return State{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepShipping {
		return State{}, stepConflict(f.step, "shipping can only be submitted on the shipping step")
	}
	if f.cart.IsEmpty() {
		return State{}, errEmptyCart(f.step)
	}
	f.shipping = &info
	f.step = StepPayment
	return f.stateLocked(), nil
}

// Back returns from payment to shipping.
func (f *Flow) Back() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paying {
		return State{}, pkgerrors.New(pkgerrors.CodeConflict, "payment is being processed")
	}
	if f.step != StepPayment {
		return State{}, stepConflict(f.step, "back is only available on the payment step")
	}
	f.step = StepShipping
	return f.stateLocked(), nil
}

// SubmitPayment charges the cart total through the processor and, on success, confirms the order.
// Only one payment may be in flight; a second submission gets CONFLICT.
func (f *Flow) SubmitPayment(ctx context.Context, info PaymentInfo) (*Order, error) {
	if err := ValidatePayment(info).Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.paying {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment is already being processed")
	}
	if f.step != StepPayment {
		step := f.step
		f.mu.Unlock()
		return nil, stepConflict(step, "payment can only be submitted on the payment step")
	}
	lines := f.cart.Lines()
	if len(lines) == 0 {
		step := f.step
		f.mu.Unlock()
		return nil, errEmptyCart(step)
	}
	f.paying = true
	totals := cart.ComputeTotals(lines)
	shipping := *f.shipping
	f.mu.Unlock()

	err := f.processor.Process(ctx, PaymentRequest{Amount: totals.Total, Payment: info})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.paying = false
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment failed")
	}
	if f.step != StepPayment {
		return nil, stepConflict(f.step, "checkout changed while payment was processing")
	}

	placedAt := f.now().UTC()
	order := &Order{
		OrderID:  fmt.Sprintf("ORD-%d", placedAt.UnixMilli()),
		Shipping: shipping,
		Payment:  info.Mask(),
		Lines:    lines,
		Totals:   totals,
		PlacedAt: placedAt,
	}
	f.order = order
	f.step = StepConfirmed
	return order, nil
}

// Complete acknowledges a confirmed order: the cart is emptied and checkout closes.
func (f *Flow) Complete() (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepConfirmed {
		return nil, stepConflict(f.step, "there is no confirmed order to complete")
	}
	order := f.order
	f.cart.Clear()
	f.reset()
	return order, nil
}

// Close abandons checkout without touching the cart. It is a no-op while a payment is in flight.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paying {
		return
	}
	f.reset()
}

func (f *Flow) reset() {
	f.step = StepClosed
	f.shipping = nil
	f.order = nil
}

func (f *Flow) stateLocked() State {
	st := State{
		Step:       f.step,
		StepName:   f.step.String(),
		Processing: f.paying,
		Order:      f.order,
		Totals:     f.cart.Totals(),
	}
	if f.shipping != nil {
		shipping := *f.shipping
		st.Shipping = &shipping
	}
	return st
}

// The cart stays editable during checkout, so every step that moves forward re-checks it.
func errEmptyCart(step Step) error {
	return stepConflict(step, "cart is empty")
}

func stepConflict(step Step, msg string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).
		WithDetails(map[string]string{"step": step.String()})
}
