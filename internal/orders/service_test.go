package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medlinkvn/dms-backend/internal/cart"
	"github.com/medlinkvn/dms-backend/internal/catalog"
	"github.com/medlinkvn/dms-backend/pkg/db/models"
	"github.com/medlinkvn/dms-backend/pkg/enums"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
)

type stubOrdersRepo struct {
	order         *models.Order
	rules         []models.PromotionRule
	created       []*models.Order
	replacedItems []models.OrderItem
	updatedOrders []*models.Order
	statusCalls   []enums.OrderStatus
	createErr     error
	updateErr     error
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = append(s.created, order)
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	s.replacedItems = items
	return nil
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, order *models.Order) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedOrders = append(s.updatedOrders, order)
	return nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, stampColumn string, stampedAt time.Time) error {
	s.statusCalls = append(s.statusCalls, to)
	if s.order != nil && s.order.ID == orderID {
		s.order.Status = to
	}
	return nil
}

func (s *stubOrdersRepo) ListByRep(ctx context.Context, repID uuid.UUID, cursorCreatedAt *time.Time, cursorID *uuid.UUID, limit int) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) ListActivePromotionRules(ctx context.Context) ([]models.PromotionRule, error) {
	return s.rules, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubSessionStore struct {
	carts      map[string]*cart.Cart
	clearCalls int
	saveErr    error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{carts: make(map[string]*cart.Cart)}
}

func sessionKey(userID, customerID uuid.UUID) string {
	return userID.String() + ":" + customerID.String()
}

func (s *stubSessionStore) Load(ctx context.Context, userID, customerID uuid.UUID) (*cart.Cart, error) {
	if c, ok := s.carts[sessionKey(userID, customerID)]; ok {
		return c, nil
	}
	return cart.NewCart(), nil
}

func (s *stubSessionStore) Save(ctx context.Context, userID, customerID uuid.UUID, c *cart.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.carts[sessionKey(userID, customerID)] = c
	return nil
}

func (s *stubSessionStore) Clear(ctx context.Context, userID, customerID uuid.UUID) error {
	s.clearCalls++
	delete(s.carts, sessionKey(userID, customerID))
	return nil
}

type stubCatalogSource struct {
	products []cart.Product
}

func (s *stubCatalogSource) Snapshot(ctx context.Context, productIDs []uuid.UUID) (*catalog.Snapshot, error) {
	return catalog.NewSnapshot(s.products...), nil
}

type stubCustomerFinder struct {
	customer *models.Customer
}

func (s *stubCustomerFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if s.customer == nil || s.customer.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return s.customer, nil
}

type fixture struct {
	svc      Service
	repo     *stubOrdersRepo
	sessions *stubSessionStore
	product  cart.Product
	customer *models.Customer
	repID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	product := cart.Product{
		ID:             uuid.New(),
		SKU:            "PARA-500",
		Name:           "Paracetamol 500mg",
		Unit:           "vien",
		PriceVND:       100_000,
		ConversionRate: 10,
	}
	customer := &models.Customer{ID: uuid.New(), Name: "Nha thuoc An Khang", IsActive: true}
	repo := &stubOrdersRepo{rules: []models.PromotionRule{{
		Description:  "Giam 2% cho don hang tren 5 trieu",
		ThresholdVND: 5_000_000,
		Percent:      2,
		IsActive:     true,
	}}}
	sessions := newStubSessionStore()

	svc, err := NewService(repo, stubTxRunner{}, sessions, &stubCatalogSource{products: []cart.Product{product}}, &stubCustomerFinder{customer: customer}, nil, nil)
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return &fixture{
		svc:      svc,
		repo:     repo,
		sessions: sessions,
		product:  product,
		customer: customer,
		repID:    uuid.New(),
	}
}

func (f *fixture) seedCart(t *testing.T, caseRaw, eachRaw string) {
	t.Helper()
	ctx := context.Background()
	if caseRaw != "" {
		if _, err := f.svc.UpdateQuantity(ctx, f.repID, f.customer.ID, f.product.ID, enums.QuantityFieldCase, caseRaw); err != nil {
			t.Fatalf("seed case: %v", err)
		}
	}
	if eachRaw != "" {
		if _, err := f.svc.UpdateQuantity(ctx, f.repID, f.customer.ID, f.product.ID, enums.QuantityFieldEach, eachRaw); err != nil {
			t.Fatalf("seed each: %v", err)
		}
	}
}

func TestUpdateQuantityPricesCartView(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "2", "5")

	view, err := f.svc.GetCart(context.Background(), f.repID, f.customer.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(view.Lines))
	}
	line := view.Lines[0]
	if line.TotalUnits != 25 || line.LineTotalVND != 2_500_000 {
		t.Fatalf("unexpected pricing %+v", line)
	}
	if view.TotalVND != 2_500_000 || view.DiscountVND != 0 || view.FinalVND != 2_500_000 {
		t.Fatalf("unexpected totals %+v", view)
	}
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateQuantity(context.Background(), f.repID, f.customer.ID, uuid.New(), enums.QuantityFieldCase, "1")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitCreatesPendingOrderAndClearsSession(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "2", "5")

	dto, err := f.svc.Submit(context.Background(), SubmitInput{
		UserID:     f.repID,
		CustomerID: f.customer.ID,
		Notes:      "giao sang",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending, got %s", dto.Status)
	}
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 25 {
		t.Fatalf("unexpected items %+v", dto.Items)
	}
	if dto.TotalVND != 2_500_000 || dto.FinalVND != 2_500_000 {
		t.Fatalf("unexpected totals %+v", dto)
	}
	if len(f.repo.created) != 1 {
		t.Fatalf("expected one created order, got %d", len(f.repo.created))
	}
	if f.sessions.clearCalls != 1 {
		t.Fatalf("expected session cleared once, got %d", f.sessions.clearCalls)
	}
}

func TestSubmitAppliesPromotionAboveThreshold(t *testing.T) {
	f := newFixture(t)
	// 51 cases at rate 10 is 510 units, 51,000,000 VND.
	f.seedCart(t, "51", "")

	dto, err := f.svc.Submit(context.Background(), SubmitInput{UserID: f.repID, CustomerID: f.customer.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.DiscountVND != 1_020_000 {
		t.Fatalf("expected 2 percent discount, got %d", dto.DiscountVND)
	}
	if dto.FinalVND != dto.TotalVND-dto.DiscountVND {
		t.Fatalf("final must equal total minus discount, got %+v", dto)
	}
	if len(dto.Promotions) != 1 {
		t.Fatalf("expected one promotion entry, got %d", len(dto.Promotions))
	}
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), SubmitInput{UserID: f.repID, CustomerID: f.customer.ID})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitUnknownCustomerRejected(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "1", "")
	_, err := f.svc.Submit(context.Background(), SubmitInput{UserID: f.repID, CustomerID: uuid.New()})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "2", "5")
	f.repo.createErr = errors.New("connection reset")

	_, err := f.svc.Submit(context.Background(), SubmitInput{UserID: f.repID, CustomerID: f.customer.ID})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if f.sessions.clearCalls != 0 {
		t.Fatal("failed submission must not clear the session")
	}

	view, err := f.svc.GetCart(context.Background(), f.repID, f.customer.ID)
	if err != nil {
		t.Fatalf("get cart after failure: %v", err)
	}
	if view.TotalVND != 2_500_000 {
		t.Fatalf("cart must survive the failure, got total %d", view.TotalVND)
	}
}

func pendingOrder(repID uuid.UUID, product cart.Product) *models.Order {
	orderID := uuid.New()
	return &models.Order{
		ID:         orderID,
		CustomerID: uuid.New(),
		SalesRepID: repID,
		Status:     enums.OrderStatusPending,
		TotalVND:   2_500_000,
		FinalVND:   2_500_000,
		Items: []models.OrderItem{{
			ID:           uuid.New(),
			OrderID:      orderID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			Unit:         product.Unit,
			Quantity:     25,
			UnitPriceVND: product.PriceVND,
			LineTotalVND: 2_500_000,
		}},
	}
}

func TestStartEditDecomposesQuantities(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)

	view, err := f.svc.StartEdit(context.Background(), f.repID, f.repo.order.ID)
	if err != nil {
		t.Fatalf("start edit: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(view.Lines))
	}
	line := view.Lines[0]
	if line.CaseCount != 2 || line.EachCount != 5 {
		t.Fatalf("expected 25 units to decompose into 2 cases and 5 each, got %+v", line)
	}

	// Session is seeded for the regular cart flow.
	saved, err := f.sessions.Load(context.Background(), f.repID, f.repo.order.CustomerID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if saved.IsEmpty() {
		t.Fatal("expected seeded session")
	}
}

func TestStartEditRejectsNonPending(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)
	f.repo.order.Status = enums.OrderStatusConfirmed

	_, err := f.svc.StartEdit(context.Background(), f.repID, f.repo.order.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestStartEditRejectsForeignOrder(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(uuid.New(), f.product)

	_, err := f.svc.StartEdit(context.Background(), f.repID, f.repo.order.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestReviseReplacesItemsAndClearsSession(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)
	ctx := context.Background()

	c := cart.NewCart()
	if err := c.UpdateQuantity(f.product.ID, enums.QuantityFieldCase, "3"); err != nil {
		t.Fatal(err)
	}
	if err := f.sessions.Save(ctx, f.repID, f.repo.order.CustomerID, c); err != nil {
		t.Fatal(err)
	}

	dto, err := f.svc.Revise(ctx, ReviseInput{UserID: f.repID, OrderID: f.repo.order.ID})
	if err != nil {
		t.Fatalf("revise: %v", err)
	}
	if dto.TotalVND != 3_000_000 {
		t.Fatalf("expected repriced total 3000000, got %d", dto.TotalVND)
	}
	if len(f.repo.replacedItems) != 1 || f.repo.replacedItems[0].Quantity != 30 {
		t.Fatalf("expected replaced items with 30 units, got %+v", f.repo.replacedItems)
	}
	if f.sessions.clearCalls != 1 {
		t.Fatalf("expected session cleared once, got %d", f.sessions.clearCalls)
	}
}

func TestReviseClearsNotesWhenOmitted(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)
	notes := "giao truoc 9h sang"
	f.repo.order.Notes = &notes
	ctx := context.Background()

	c := cart.NewCart()
	if err := c.UpdateQuantity(f.product.ID, enums.QuantityFieldCase, "3"); err != nil {
		t.Fatal(err)
	}
	if err := f.sessions.Save(ctx, f.repID, f.repo.order.CustomerID, c); err != nil {
		t.Fatal(err)
	}

	dto, err := f.svc.Revise(ctx, ReviseInput{UserID: f.repID, OrderID: f.repo.order.ID})
	if err != nil {
		t.Fatalf("revise: %v", err)
	}
	if dto.Notes != nil {
		t.Fatalf("expected revision without notes to clear them, got %q", *dto.Notes)
	}

	if err := f.sessions.Save(ctx, f.repID, f.repo.order.CustomerID, c); err != nil {
		t.Fatal(err)
	}
	dto, err = f.svc.Revise(ctx, ReviseInput{UserID: f.repID, OrderID: f.repo.order.ID, Notes: "goi truoc khi giao"})
	if err != nil {
		t.Fatalf("revise with notes: %v", err)
	}
	if dto.Notes == nil || *dto.Notes != "goi truoc khi giao" {
		t.Fatalf("expected notes to be replaced, got %v", dto.Notes)
	}
}

func TestReviseFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)
	f.repo.updateErr = errors.New("deadlock detected")
	ctx := context.Background()

	c := cart.NewCart()
	if err := c.UpdateQuantity(f.product.ID, enums.QuantityFieldEach, "4"); err != nil {
		t.Fatal(err)
	}
	if err := f.sessions.Save(ctx, f.repID, f.repo.order.CustomerID, c); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Revise(ctx, ReviseInput{UserID: f.repID, OrderID: f.repo.order.ID})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if f.sessions.clearCalls != 0 {
		t.Fatal("failed revision must not clear the session")
	}
}

func TestReviseRejectsNonPending(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)
	f.repo.order.Status = enums.OrderStatusDelivered

	_, err := f.svc.Revise(context.Background(), ReviseInput{UserID: f.repID, OrderID: f.repo.order.ID})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestTransitionFollowsLifecycle(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)

	dto, err := f.svc.Transition(context.Background(), f.repo.order.ID, enums.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if dto.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", dto.Status)
	}
	if len(f.repo.statusCalls) != 1 || f.repo.statusCalls[0] != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected status calls %v", f.repo.statusCalls)
	}
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)

	_, err := f.svc.Transition(context.Background(), f.repo.order.ID, enums.OrderStatusDelivered)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(f.repo.statusCalls) != 0 {
		t.Fatal("illegal transition must not hit the repository")
	}
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	f.repo.order = pendingOrder(f.repID, f.product)
	ctx := context.Background()

	if _, err := f.svc.GetOrder(ctx, f.repo.order.ID, f.repID, enums.UserRoleRep); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := f.svc.GetOrder(ctx, f.repo.order.ID, uuid.New(), enums.UserRoleAdmin); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	_, err := f.svc.GetOrder(ctx, f.repo.order.ID, uuid.New(), enums.UserRoleRep)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
