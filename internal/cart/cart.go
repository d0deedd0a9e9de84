package cart

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/pkg/enums"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
)

// Product is the catalog view the engine prices against. ConversionRate is
// the number of base units in one case and is normalized to >= 1 by the
// catalog before it reaches this package.
type Product struct {
	ID             uuid.UUID `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	PriceVND       int64     `json:"price_vnd"`
	ConversionRate int       `json:"conversion_rate"`
}

func (p Product) rate() int {
	if p.ConversionRate < 1 {
		return 1
	}
	return p.ConversionRate
}

// Catalog resolves product ids against the session's immutable snapshot.
type Catalog interface {
	Resolve(productID uuid.UUID) (Product, bool)
}

// Line is the split quantity for one product: full cases plus loose units.
type Line struct {
	CaseCount int `json:"cs"`
	EachCount int `json:"ea"`
}

// IsZero reports whether both fields are zero.
func (l Line) IsZero() bool {
	return l.CaseCount == 0 && l.EachCount == 0
}

// TotalUnits flattens the line into base units for the given conversion rate.
func (l Line) TotalUnits(conversionRate int) int {
	if conversionRate < 1 {
		conversionRate = 1
	}
	return l.CaseCount*conversionRate + l.EachCount
}

// Cart accumulates lines for one ordering session. Lines with both counts at
// zero are never stored; they are removed on update.
type Cart struct {
	lines map[uuid.UUID]Line
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{lines: make(map[uuid.UUID]Line)}
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Line returns the stored line for a product, if any.
func (c *Cart) Line(productID uuid.UUID) (Line, bool) {
	line, ok := c.lines[productID]
	return line, ok
}

// ProductIDs returns the cart's product ids in a deterministic order.
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.lines))
	for id := range c.lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// UpdateQuantity applies one field edit. An empty raw value clears the field;
// a digits-only value sets it. Anything else is a validation error and leaves
// the cart unchanged. When both fields reach zero the line is removed.
func (c *Cart) UpdateQuantity(productID uuid.UUID, field enums.QuantityField, raw string) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !field.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid quantity field %q", field))
	}

	value, err := parseQuantity(raw)
	if err != nil {
		return err
	}

	line := c.lines[productID]
	switch field {
	case enums.QuantityFieldCase:
		line.CaseCount = value
	case enums.QuantityFieldEach:
		line.EachCount = value
	}

	if line.IsZero() {
		delete(c.lines, productID)
		return nil
	}
	c.lines[productID] = line
	return nil
}

// SetLine stores a line directly, preserving the no-zero-line invariant.
// Order editing uses this to seed a session from persisted quantities.
func (c *Cart) SetLine(productID uuid.UUID, line Line) {
	if productID == uuid.Nil {
		return
	}
	if line.CaseCount < 0 || line.EachCount < 0 {
		return
	}
	if line.IsZero() {
		delete(c.lines, productID)
		return
	}
	c.lines[productID] = line
}

// LineTotal prices the cart's line for the product. A missing line prices to
// zero.
func (c *Cart) LineTotal(product Product) int64 {
	line, ok := c.lines[product.ID]
	if !ok {
		return 0
	}
	return int64(line.TotalUnits(product.rate())) * product.PriceVND
}

// Total sums line totals across the cart. Products the catalog cannot
// resolve contribute zero.
func (c *Cart) Total(catalog Catalog) int64 {
	var total int64
	for id := range c.lines {
		product, ok := catalog.Resolve(id)
		if !ok {
			continue
		}
		total += c.LineTotal(product)
	}
	return total
}

// DecomposeQuantity splits a flat base-unit quantity back into a case/each
// line for the given conversion rate.
func DecomposeQuantity(quantity, conversionRate int) Line {
	if quantity < 0 {
		return Line{}
	}
	if conversionRate < 1 {
		conversionRate = 1
	}
	return Line{
		CaseCount: quantity / conversionRate,
		EachCount: quantity % conversionRate,
	}
}

// MaxQuantity caps a single quantity field. No pharmacy order carries a
// million units of one product, and bounding the parse loop keeps line and
// order totals far from int64 overflow.
const MaxQuantity = 1_000_000

func parseQuantity(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity %q is not a non-negative integer", raw))
		}
		value = value*10 + int(r-'0')
		if value > MaxQuantity {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity exceeds the maximum of %d", MaxQuantity))
		}
	}
	return value, nil
}

type cartSnapshot map[string]Line

// MarshalJSON serializes the cart for session storage.
func (c *Cart) MarshalJSON() ([]byte, error) {
	snapshot := make(cartSnapshot, len(c.lines))
	for id, line := range c.lines {
		snapshot[id.String()] = line
	}
	return json.Marshal(snapshot)
}

// UnmarshalJSON restores a cart from session storage, dropping any zero or
// malformed entries.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var snapshot cartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	c.lines = make(map[uuid.UUID]Line, len(snapshot))
	for key, line := range snapshot {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		c.SetLine(id, line)
	}
	return nil
}
