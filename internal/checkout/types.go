package checkout

import (
	"strings"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/cart"
)

// Step is the position in the checkout modal.
type Step int

const (
	StepClosed Step = iota
	StepShipping
	StepPayment
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmed:
		return "confirmed"
	default:
		return "closed"
	}
}

// ShippingInfo is the delivery address form. Every field is required.
type ShippingInfo struct {
	FirstName string `json:"first_name" validate:"notblank"`
	LastName  string `json:"last_name" validate:"notblank"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"notblank"`
	Address   string `json:"address" validate:"notblank"`
	City      string `json:"city" validate:"notblank"`
	State     string `json:"state" validate:"notblank"`
	ZipCode   string `json:"zip_code" validate:"notblank"`
	Country   string `json:"country" validate:"notblank"`
}

// DefaultCountry fills ShippingInfo.Country when the form leaves it empty.
const DefaultCountry = "US"

// PaymentInfo is the card form. It is never persisted.
type PaymentInfo struct {
	CardNumber string `json:"card_number" validate:"notblank"`
	ExpiryDate string `json:"expiry_date" validate:"notblank"`
	CVV        string `json:"cvv" validate:"notblank"`
	NameOnCard string `json:"name_on_card" validate:"notblank"`
}

// MaskedPayment is what an order keeps of the card.
type MaskedPayment struct {
	CardNumber string `json:"card_number"`
	NameOnCard string `json:"name_on_card"`
}

// Mask hides everything but the last four digits of the card number.
func (p PaymentInfo) Mask() MaskedPayment {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, p.CardNumber)
	last := digits
	if len(last) > 4 {
		last = last[len(last)-4:]
	}
	return MaskedPayment{CardNumber: "**** **** **** " + last, NameOnCard: p.NameOnCard}
}

// Order is the confirmation produced by a successful payment. It lives only in the session.
type Order struct {
	OrderID  string        `json:"order_id"`
	Shipping ShippingInfo  `json:"shipping"`
	Payment  MaskedPayment `json:"payment"`
	Lines    []cart.Line   `json:"lines"`
	Totals   cart.Totals   `json:"totals"`
	PlacedAt time.Time     `json:"placed_at"`
}

// State is a snapshot of the flow for clients.
type State struct {
	Step       Step          `json:"step"`
	StepName   string        `json:"step_name"`
	Processing bool          `json:"processing"`
	Shipping   *ShippingInfo `json:"shipping,omitempty"`
	Order      *Order        `json:"order,omitempty"`
	Totals     cart.Totals   `json:"totals"`
}
