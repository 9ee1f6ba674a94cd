// Package cart holds the line items of one browsing session and prices them.
package cart

import (
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/internal/products"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

var (
	// TaxRate is applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.08")
	// ShippingFee is flat and currently free.
	ShippingFee = decimal.Zero
)

// Line is a product snapshot and how many of it are in the cart. Quantity is always >= 1.
type Line struct {
	Product  products.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
	Items    int
}

// MarshalJSON renders money with two decimals.
func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal string `json:"subtotal"`
		Tax      string `json:"tax"`
		Shipping string `json:"shipping"`
		Total    string `json:"total"`
		Items    int    `json:"items"`
	}{
		Subtotal: t.Subtotal.StringFixed(2),
		Tax:      t.Tax.StringFixed(2),
		Shipping: t.Shipping.StringFixed(2),
		Total:    t.Total.StringFixed(2),
		Items:    t.Items,
	})
}

// ComputeTotals prices lines.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	items := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
		items += l.Quantity
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: ShippingFee,
		Total:    subtotal.Add(tax).Add(ShippingFee),
		Items:    items,
	}
}

// Cart is safe for concurrent use.
type Cart struct {
	mu    sync.RWMutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts one more of product in the cart, appending a new line when it is not there yet.
func (c *Cart) Add(product products.Product) (Line, error) {
	if !product.Purchasable() {
		return Line{}, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock").
			WithDetails(map[string]string{"product_id": product.ID})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexOf(product.ID); idx >= 0 {
		c.lines[idx].Quantity++
		return c.lines[idx], nil
	}
	line := Line{Product: product, Quantity: 1}
	c.lines = append(c.lines, line)
	return line, nil
}

// UpdateQuantity sets the quantity of a line. Zero removes the line.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative").
			WithDetails(map[string]string{"quantity": "must be 0 or greater"})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(productID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if quantity == 0 {
		c.removeAt(idx)
		return nil
	}
	c.lines[idx].Quantity = quantity
	return nil
}

// Remove deletes the line for productID if present.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(productID); idx >= 0 {
		c.removeAt(idx)
	}
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Totals() Totals {
	return ComputeTotals(c.Lines())
}

func (c *Cart) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}
