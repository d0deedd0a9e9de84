package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/internal/cart"
	"github.com/medlinkvn/dms-backend/pkg/db/models"
	"github.com/medlinkvn/dms-backend/pkg/enums"
	"github.com/medlinkvn/dms-backend/pkg/types"
)

// CartLineView is one priced cart line for the ordering screen.
type CartLineView struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Unit         string    `json:"unit"`
	CaseCount    int       `json:"case_count"`
	EachCount    int       `json:"each_count"`
	TotalUnits   int       `json:"total_units"`
	UnitPriceVND int64     `json:"unit_price_vnd"`
	LineTotalVND int64     `json:"line_total_vnd"`
}

// CartView is the full priced cart with the promotion preview applied.
type CartView struct {
	CustomerID  uuid.UUID        `json:"customer_id"`
	Lines       []CartLineView   `json:"lines"`
	TotalVND    int64            `json:"total_vnd"`
	DiscountVND int64            `json:"discount_vnd"`
	FinalVND    int64            `json:"final_vnd"`
	Promotions  types.Promotions `json:"promotions"`
}

// OrderItemDTO is the API shape of one persisted order line.
type OrderItemDTO struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Unit         string    `json:"unit"`
	Quantity     int       `json:"quantity"`
	UnitPriceVND int64     `json:"unit_price_vnd"`
	LineTotalVND int64     `json:"line_total_vnd"`
}

// OrderDTO is the API shape of one order.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	SalesRepID  uuid.UUID         `json:"sales_rep_id"`
	Status      enums.OrderStatus `json:"status"`
	Items       []OrderItemDTO    `json:"items"`
	TotalVND    int64             `json:"total_vnd"`
	DiscountVND int64             `json:"discount_vnd"`
	FinalVND    int64             `json:"final_vnd"`
	Promotions  types.Promotions  `json:"promotions"`
	Notes       *string           `json:"notes,omitempty"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
	DeliveredAt *time.Time        `json:"delivered_at,omitempty"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OrderPage is one keyset page of a rep's order history.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// SubmitInput captures a cart submission request.
type SubmitInput struct {
	UserID     uuid.UUID
	CustomerID uuid.UUID
	Notes      string
}

// ReviseInput captures a pending-order revision request.
type ReviseInput struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
	Notes   string
}

func toOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			UnitPriceVND: item.UnitPriceVND,
			LineTotalVND: item.LineTotalVND,
		})
	}
	return &OrderDTO{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		SalesRepID:  order.SalesRepID,
		Status:      order.Status,
		Items:       items,
		TotalVND:    order.TotalVND,
		DiscountVND: order.DiscountVND,
		FinalVND:    order.FinalVND,
		Promotions:  order.Promotions,
		Notes:       order.Notes,
		ConfirmedAt: order.ConfirmedAt,
		DeliveredAt: order.DeliveredAt,
		CancelledAt: order.CancelledAt,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func toPromotionRules(records []models.PromotionRule) []cart.Rule {
	rules := make([]cart.Rule, 0, len(records))
	for _, record := range records {
		rules = append(rules, cart.Rule{
			Description:  record.Description,
			ThresholdVND: record.ThresholdVND,
			Percent:      record.Percent,
		})
	}
	return rules
}
