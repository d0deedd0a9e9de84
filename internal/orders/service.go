package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medlinkvn/dms-backend/internal/cart"
	"github.com/medlinkvn/dms-backend/internal/catalog"
	"github.com/medlinkvn/dms-backend/pkg/db/models"
	"github.com/medlinkvn/dms-backend/pkg/enums"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
	"github.com/medlinkvn/dms-backend/pkg/logger"
	"github.com/medlinkvn/dms-backend/pkg/metrics"
	"github.com/medlinkvn/dms-backend/pkg/pagination"
	"github.com/medlinkvn/dms-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionStore interface {
	Load(ctx context.Context, userID, customerID uuid.UUID) (*cart.Cart, error)
	Save(ctx context.Context, userID, customerID uuid.UUID, c *cart.Cart) error
	Clear(ctx context.Context, userID, customerID uuid.UUID) error
}

type catalogSource interface {
	Snapshot(ctx context.Context, productIDs []uuid.UUID) (*catalog.Snapshot, error)
}

type customerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// Service covers the ordering flow: the cart session, submission, revision,
// and the status lifecycle.
type Service interface {
	GetCart(ctx context.Context, userID, customerID uuid.UUID) (*CartView, error)
	UpdateQuantity(ctx context.Context, userID, customerID, productID uuid.UUID, field enums.QuantityField, raw string) (*CartView, error)
	ClearCart(ctx context.Context, userID, customerID uuid.UUID) error
	Submit(ctx context.Context, input SubmitInput) (*OrderDTO, error)
	StartEdit(ctx context.Context, userID, orderID uuid.UUID) (*CartView, error)
	Revise(ctx context.Context, input ReviseInput) (*OrderDTO, error)
	Transition(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*OrderDTO, error)
	ListOrders(ctx context.Context, repID uuid.UUID, params pagination.Params) (*OrderPage, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	sessions  sessionStore
	catalog   catalogSource
	customers customerFinder
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the order service.
func NewService(repo Repository, tx txRunner, sessions sessionStore, catalogSvc catalogSource, customers customerFinder, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		sessions:  sessions,
		catalog:   catalogSvc,
		customers: customers,
		metrics:   orderMetrics,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// GetCart returns the priced cart for the rep/customer session.
func (s *service) GetCart(ctx context.Context, userID, customerID uuid.UUID) (*CartView, error) {
	c, err := s.sessions.Load(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	return s.buildCartView(ctx, customerID, c)
}

// UpdateQuantity applies one field edit to the session cart and returns the
// repriced view. The session is saved only when the edit is accepted.
func (s *service) UpdateQuantity(ctx context.Context, userID, customerID, productID uuid.UUID, field enums.QuantityField, raw string) (*CartView, error) {
	c, err := s.sessions.Load(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateQuantity(productID, field, raw); err != nil {
		return nil, err
	}
	if line, ok := c.Line(productID); ok && !line.IsZero() {
		snapshot, err := s.catalog.Snapshot(ctx, []uuid.UUID{productID})
		if err != nil {
			return nil, err
		}
		if _, resolved := snapshot.Resolve(productID); !resolved {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
	}
	if err := s.sessions.Save(ctx, userID, customerID, c); err != nil {
		return nil, err
	}
	return s.buildCartView(ctx, customerID, c)
}

// ClearCart discards the session cart.
func (s *service) ClearCart(ctx context.Context, userID, customerID uuid.UUID) error {
	return s.sessions.Clear(ctx, userID, customerID)
}

// Submit turns the session cart into a pending order. The session is cleared
// only after the order commits; a failed write leaves the cart intact so the
// rep can retry.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*OrderDTO, error) {
	started := s.now()
	dto, err := s.submit(ctx, input)
	s.metrics.ObserveSubmit("create", s.now().Sub(started))
	if err != nil {
		s.metrics.IncSubmission("create", "error")
		return nil, err
	}
	s.metrics.IncSubmission("create", "ok")
	return dto, nil
}

func (s *service) submit(ctx context.Context, input SubmitInput) (*OrderDTO, error) {
	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	c, err := s.sessions.Load(ctx, input.UserID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	submission, err := s.buildSubmission(ctx, input.CustomerID, c, input.Notes)
	if err != nil {
		return nil, err
	}

	order := submissionToOrder(submission, input.UserID)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateOrder(ctx, order)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submitting order")
	}

	if err := s.sessions.Clear(ctx, input.UserID, input.CustomerID); err != nil && s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Error(s.logg.WithCustomerID(ctx, input.CustomerID.String()), "clearing cart session after submit", err)
	}
	return toOrderDTO(order), nil
}

// StartEdit seeds the rep's cart session from a pending order so the order
// can be revised with the normal cart flow. Flat quantities decompose back
// into case/each splits using the current conversion rates.
func (s *service) StartEdit(ctx context.Context, userID, orderID uuid.UUID) (*CartView, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SalesRepID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another sales rep")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order in status %s cannot be edited", order.Status))
	}

	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	snapshot, err := s.catalog.Snapshot(ctx, ids)
	if err != nil {
		return nil, err
	}

	c := cart.NewCart()
	for _, item := range order.Items {
		rate := 1
		if product, ok := snapshot.Resolve(item.ProductID); ok {
			rate = product.ConversionRate
		}
		c.SetLine(item.ProductID, cart.DecomposeQuantity(item.Quantity, rate))
	}
	if err := s.sessions.Save(ctx, userID, order.CustomerID, c); err != nil {
		return nil, err
	}
	return s.buildCartView(ctx, order.CustomerID, c)
}

// Revise replaces a pending order's content with the session cart, repricing
// everything at current rates. As with Submit, the session survives a failed
// write.
func (s *service) Revise(ctx context.Context, input ReviseInput) (*OrderDTO, error) {
	started := s.now()
	dto, err := s.revise(ctx, input)
	s.metrics.ObserveSubmit("revise", s.now().Sub(started))
	if err != nil {
		s.metrics.IncSubmission("revise", "error")
		return nil, err
	}
	s.metrics.IncSubmission("revise", "ok")
	return dto, nil
}

func (s *service) revise(ctx context.Context, input ReviseInput) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.SalesRepID != input.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another sales rep")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order in status %s cannot be revised", order.Status))
	}

	c, err := s.sessions.Load(ctx, input.UserID, order.CustomerID)
	if err != nil {
		return nil, err
	}
	submission, err := s.buildSubmission(ctx, order.CustomerID, c, input.Notes)
	if err != nil {
		return nil, err
	}

	items := submissionItems(submission, order.ID)
	order.TotalVND = submission.TotalVND
	order.DiscountVND = submission.DiscountVND
	order.FinalVND = submission.FinalVND
	order.Promotions = submission.Promotions
	// A revision replaces the notes along with the items; an empty field
	// clears what the original submission carried.
	order.Notes = nil
	if submission.Notes != "" {
		notes := submission.Notes
		order.Notes = &notes
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateOrder(ctx, order); err != nil {
			return err
		}
		return repo.ReplaceItems(ctx, order.ID, items)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revising order")
	}
	order.Items = items

	if err := s.sessions.Clear(ctx, input.UserID, order.CustomerID); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "clearing cart session after revise", err)
	}
	return toOrderDTO(order), nil
}

// Transition moves the order along its lifecycle, stamping the matching
// timestamp column.
func (s *service) Transition(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", target))
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}

	stampedAt := s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, orderID, order.Status, target, statusStampColumn(target), stampedAt); err != nil {
		return nil, err
	}
	s.metrics.IncTransition(string(target))

	refreshed, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(refreshed), nil
}

// GetOrder returns one order. Reps only see their own; admins see all.
func (s *service) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actorRole != enums.UserRoleAdmin && order.SalesRepID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another sales rep")
	}
	return toOrderDTO(order), nil
}

// ListOrders returns one keyset page of the rep's order history.
func (s *service) ListOrders(ctx context.Context, repID uuid.UUID, params pagination.Params) (*OrderPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	cursorCreatedAt, cursorID := cursor.Keyset()

	records, err := s.repo.ListByRep(ctx, repID, cursorCreatedAt, cursorID, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	page := &OrderPage{}
	records, hasMore := pagination.Trim(records, pagination.NormalizeLimit(params.Limit))
	for i := range records {
		page.Orders = append(page.Orders, *toOrderDTO(&records[i]))
	}
	if hasMore && len(records) > 0 {
		last := records[len(records)-1]
		page.NextCursor = pagination.NextCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

func (s *service) buildSubmission(ctx context.Context, customerID uuid.UUID, c *cart.Cart, notes string) (*cart.Submission, error) {
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	snapshot, err := s.catalog.Snapshot(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	submission := cart.BuildSubmission(c, snapshot, customerID, rules, notes)
	if len(submission.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart has no orderable products")
	}
	return &submission, nil
}

func (s *service) buildCartView(ctx context.Context, customerID uuid.UUID, c *cart.Cart) (*CartView, error) {
	snapshot, err := s.catalog.Snapshot(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	view := &CartView{CustomerID: customerID, Lines: []CartLineView{}, Promotions: types.Promotions{}}
	for _, productID := range c.ProductIDs() {
		product, ok := snapshot.Resolve(productID)
		if !ok {
			continue
		}
		line, _ := c.Line(productID)
		view.Lines = append(view.Lines, CartLineView{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Unit:         product.Unit,
			CaseCount:    line.CaseCount,
			EachCount:    line.EachCount,
			TotalUnits:   line.TotalUnits(product.ConversionRate),
			UnitPriceVND: product.PriceVND,
			LineTotalVND: c.LineTotal(product),
		})
		view.TotalVND += c.LineTotal(product)
	}

	result := cart.EvaluatePromotions(view.TotalVND, rules)
	view.DiscountVND = result.DiscountVND
	view.FinalVND = view.TotalVND - result.DiscountVND
	if len(result.Promotions) > 0 {
		view.Promotions = result.Promotions
	}
	return view, nil
}

func (s *service) loadRules(ctx context.Context) ([]cart.Rule, error) {
	records, err := s.repo.ListActivePromotionRules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading promotion rules")
	}
	return toPromotionRules(records), nil
}

func submissionToOrder(submission *cart.Submission, repID uuid.UUID) *models.Order {
	order := &models.Order{
		CustomerID:  submission.CustomerID,
		SalesRepID:  repID,
		Status:      submission.Status,
		TotalVND:    submission.TotalVND,
		DiscountVND: submission.DiscountVND,
		FinalVND:    submission.FinalVND,
		Promotions:  submission.Promotions,
		Items:       submissionItems(submission, uuid.Nil),
	}
	if submission.Notes != "" {
		notes := submission.Notes
		order.Notes = &notes
	}
	return order
}

func submissionItems(submission *cart.Submission, orderID uuid.UUID) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(submission.Items))
	for _, item := range submission.Items {
		items = append(items, models.OrderItem{
			OrderID:      orderID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			UnitPriceVND: item.UnitPriceVND,
			LineTotalVND: item.LineTotalVND,
		})
	}
	return items
}

func statusStampColumn(target enums.OrderStatus) string {
	switch target {
	case enums.OrderStatusConfirmed:
		return "confirmed_at"
	case enums.OrderStatusDelivered:
		return "delivered_at"
	case enums.OrderStatusCancelled:
		return "cancelled_at"
	default:
		return ""
	}
}
