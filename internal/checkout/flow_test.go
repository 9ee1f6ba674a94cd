package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	p := products.Product{ID: "1", Name: "Lamp", Price: decimal.NewFromInt(10), StockStatus: enums.StockStatusInStock}
	_, err := c.Add(p)
	require.NoError(t, err)
	_, err = c.Add(p)
	require.NoError(t, err)
	return c
}

func shipping() ShippingInfo {
	return ShippingInfo{
		FirstName: "Jane", LastName: "Buyer", Email: "jane@example.com", Phone: "555-0100",
		Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701",
	}
}

func payment() PaymentInfo {
	return PaymentInfo{CardNumber: "4242 4242 4242 4242", ExpiryDate: "12/30", CVV: "123", NameOnCard: "Jane Buyer"}
}

func TestHappyPath(t *testing.T) {
	c := filledCart(t)
	f := NewFlow(c, nil, WithClock(func() time.Time { return fixedNow }))

	st, err := f.Open()
	require.NoError(t, err)
	assert.Equal(t, StepShipping, st.Step)

	st, err = f.SubmitShipping(shipping())
	require.NoError(t, err)
	assert.Equal(t, StepPayment, st.Step)
	assert.Equal(t, DefaultCountry, st.Shipping.Country)

	order, err := f.SubmitPayment(context.Background(), payment())
	require.NoError(t, err)
	assert.Equal(t, "ORD-1792238400000", order.OrderID)
	assert.Equal(t, "**** **** **** 4242", order.Payment.CardNumber)
	assert.True(t, order.Totals.Total.Equal(decimal.RequireFromString("21.6")))
	assert.Equal(t, StepConfirmed, f.State().Step)

	done, err := f.Complete()
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, done.OrderID)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, StepClosed, f.State().Step)
}

func TestOpenRequiresItems(t *testing.T) {
	f := NewFlow(cart.New(), nil)
	_, err := f.Open()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestStepGuards(t *testing.T) {
	f := NewFlow(filledCart(t), nil)

	_, err := f.SubmitShipping(shipping())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "shipping before open")

	_, err = f.Open()
	require.NoError(t, err)
	_, err = f.Back()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "back from shipping")
	_, err = f.SubmitPayment(context.Background(), payment())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "payment before shipping")
	_, err = f.Complete()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "complete before payment")

	_, err = f.SubmitShipping(shipping())
	require.NoError(t, err)
	st, err := f.Back()
	require.NoError(t, err)
	assert.Equal(t, StepShipping, st.Step)
	require.NotNil(t, st.Shipping, "shipping form is kept when going back")
}

func TestValidationLeavesStepUnchanged(t *testing.T) {
	f := NewFlow(filledCart(t), nil)
	_, err := f.Open()
	require.NoError(t, err)

	bad := shipping()
	bad.City = ""
	_, err = f.SubmitShipping(bad)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, StepShipping, f.State().Step)

	_, err = f.SubmitShipping(shipping())
	require.NoError(t, err)
	_, err = f.SubmitPayment(context.Background(), PaymentInfo{CardNumber: "4242"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Contains(t, details, "cvv")
	assert.Equal(t, StepPayment, f.State().Step)
}

func TestPaymentFailureStaysOnPayment(t *testing.T) {
	failing := ProcessorFunc(func(context.Context, PaymentRequest) error { return errors.New("card declined") })
	f := NewFlow(filledCart(t), failing)
	_, err := f.Open()
	require.NoError(t, err)
	_, err = f.SubmitShipping(shipping())
	require.NoError(t, err)

	_, err = f.SubmitPayment(context.Background(), payment())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	st := f.State()
	assert.Equal(t, StepPayment, st.Step)
	assert.False(t, st.Processing)
	assert.Nil(t, st.Order)
}

func TestDuplicatePaymentIsRejectedWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	blocking := ProcessorFunc(func(ctx context.Context, _ PaymentRequest) error {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	f := NewFlow(filledCart(t), blocking)
	_, err := f.Open()
	require.NoError(t, err)
	_, err = f.SubmitShipping(shipping())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.SubmitPayment(context.Background(), payment())
		done <- err
	}()
	<-started

	_, err = f.SubmitPayment(context.Background(), payment())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	_, err = f.Back()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.True(t, f.State().Processing)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StepConfirmed, f.State().Step)
}

func TestSimulatedProcessorHonorsCancellation(t *testing.T) {
	f := NewFlow(filledCart(t), SimulatedProcessor{Delay: time.Hour})
	_, err := f.Open()
	require.NoError(t, err)
	_, err = f.SubmitShipping(shipping())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.SubmitPayment(ctx, payment())
	require.Error(t, err)
	assert.Equal(t, StepPayment, f.State().Step)
}

func TestCloseKeepsCart(t *testing.T) {
	c := filledCart(t)
	f := NewFlow(c, nil)
	_, err := f.Open()
	require.NoError(t, err)
	f.Close()
	assert.Equal(t, StepClosed, f.State().Step)
	assert.False(t, c.IsEmpty())
}

func TestEmptiedCartCannotBeCharged(t *testing.T) {
	c := filledCart(t)
	charged := false
	f := NewFlow(c, ProcessorFunc(func(context.Context, PaymentRequest) error {
		charged = true
		return nil
	}))

	_, err := f.Open()
	require.NoError(t, err)
	c.Remove("1")
	_, err = f.SubmitShipping(shipping())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "shipping with an empty cart")
	assert.Equal(t, StepShipping, f.State().Step)

	_, err = c.Add(products.Product{ID: "1", Name: "Lamp", Price: decimal.NewFromInt(10), StockStatus: enums.StockStatusInStock})
	require.NoError(t, err)
	_, err = f.SubmitShipping(shipping())
	require.NoError(t, err)
	c.Remove("1")

	order, err := f.SubmitPayment(context.Background(), payment())
	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Contains(t, err.Error(), "cart is empty")
	assert.False(t, charged, "the processor must not see an empty order")
	assert.Equal(t, StepPayment, f.State().Step)
	assert.False(t, f.State().Processing)
}
