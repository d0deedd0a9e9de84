package cart

import (
	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/pkg/enums"
	"github.com/medlinkvn/dms-backend/pkg/types"
)

// SubmissionItem is one flattened order line: the split quantities collapse
// to base units before leaving the cart.
type SubmissionItem struct {
	ProductID    uuid.UUID
	ProductName  string
	Unit         string
	Quantity     int
	UnitPriceVND int64
	LineTotalVND int64
}

// Submission is the order payload built from a cart, priced and discounted,
// always created in the pending status.
type Submission struct {
	CustomerID  uuid.UUID
	Status      enums.OrderStatus
	Items       []SubmissionItem
	TotalVND    int64
	DiscountVND int64
	FinalVND    int64
	Promotions  types.Promotions
	Notes       string
}

// BuildSubmission flattens the cart against the catalog snapshot, evaluates
// the promotion rules, and returns the pending order payload. Products the
// catalog cannot resolve are skipped, matching how the cart totals them.
func BuildSubmission(c *Cart, catalog Catalog, customerID uuid.UUID, rules []Rule, notes string) Submission {
	items := make([]SubmissionItem, 0, c.Len())
	var total int64
	for _, productID := range c.ProductIDs() {
		product, ok := catalog.Resolve(productID)
		if !ok {
			continue
		}
		line, _ := c.Line(productID)
		quantity := line.TotalUnits(product.rate())
		lineTotal := int64(quantity) * product.PriceVND
		items = append(items, SubmissionItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Unit:         product.Unit,
			Quantity:     quantity,
			UnitPriceVND: product.PriceVND,
			LineTotalVND: lineTotal,
		})
		total += lineTotal
	}

	result := EvaluatePromotions(total, rules)
	return Submission{
		CustomerID:  customerID,
		Status:      enums.OrderStatusPending,
		Items:       items,
		TotalVND:    total,
		DiscountVND: result.DiscountVND,
		FinalVND:    total - result.DiscountVND,
		Promotions:  result.Promotions,
		Notes:       notes,
	}
}
