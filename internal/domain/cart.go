package domain

import "github.com/shopspring/decimal"

// CartLine is one product's entry in the cart.
// Quantity is always at least 1; a line that would drop to 0 is removed.
type CartLine struct {
	Product  Product
	Quantity int
}

// Subtotal returns price × quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the single owner of cart state for a session.
// Lines keep the order in which products were first added, and there is
// at most one line per product ID. Cart is not safe for concurrent use;
// callers serialize access per session.
type Cart struct {
	lines []CartLine
	index map[int]int // product ID -> position in lines
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: make(map[int]int)}
}

// Add increments the quantity of the product's line, or appends a new
// line with quantity 1.
func (c *Cart) Add(p Product) {
	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity++
		return
	}

	c.index[p.ID] = len(c.lines)
	c.lines = append(c.lines, CartLine{Product: p, Quantity: 1})
}

// Remove decrements the quantity of the line for id and deletes the line
// when the quantity would reach 0. Removing an absent id is a no-op.
// It reports whether the cart changed.
func (c *Cart) Remove(id int) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}

	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return true
	}

	c.deleteAt(i)

	return true
}

// RemoveLine deletes the whole line for id regardless of its quantity.
// Removing an absent id is a no-op. It reports whether the cart changed.
func (c *Cart) RemoveLine(id int) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}

	c.deleteAt(i)

	return true
}

// UpdateQuantity adds delta to the line's quantity, never going below 1.
// Updating an absent id is a no-op. It reports whether the line exists.
func (c *Cart) UpdateQuantity(id, delta int) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}

	c.lines[i].Quantity = max(1, c.lines[i].Quantity+delta)

	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[int]int)
}

// Line returns the line for id, if present.
func (c *Cart) Line(id int) (CartLine, bool) {
	i, ok := c.index[id]
	if !ok {
		return CartLine{}, false
	}

	return c.lines[i], true
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)

	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalQuantity returns the sum of quantities across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}

	return total
}

// TotalAmount returns the sum of price × quantity across all lines.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}

	return total
}

func (c *Cart) deleteAt(i int) {
	delete(c.index, c.lines[i].Product.ID)
	c.lines = append(c.lines[:i], c.lines[i+1:]...)

	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].Product.ID] = j
	}
}
