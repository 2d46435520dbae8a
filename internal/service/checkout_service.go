package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naturburst/naturburst.com-sub000/internal/broker"
	"github.com/naturburst/naturburst.com-sub000/internal/models"
	"github.com/naturburst/naturburst.com-sub000/internal/util"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

// OrderStore persists and reads checkout snapshots. *store.Store satisfies it.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	GetOrdersBySessionID(ctx context.Context, sessionID string) ([]models.Order, error)
}

// StockKeeper applies atomic stock movements. *redisclient.Client satisfies
// it.
type StockKeeper interface {
	ReserveStock(ctx context.Context, productID string, quantity int) (bool, error)
	ReleaseStock(ctx context.Context, productID string, quantity int) error
	CommitStock(ctx context.Context, productID string, quantity int) error
}

// CheckoutService runs the simulated checkout: reserve stock, wait the
// settle delay, snapshot the order, commit stock, clear the cart. There is
// no payment gateway; real deployments substitute one before the commit.
type CheckoutService struct {
	orders      OrderStore
	stock       StockKeeper
	carts       *CartService
	publisher   *broker.EventPublisher
	settleDelay time.Duration
	logger      *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orders OrderStore,
	stock StockKeeper,
	carts *CartService,
	publisher *broker.EventPublisher,
	settleDelay time.Duration,
) *CheckoutService {
	return &CheckoutService{
		orders:      orders,
		stock:       stock,
		carts:       carts,
		publisher:   publisher,
		settleDelay: settleDelay,
		logger:      util.GetLogger(),
	}
}

// Checkout settles the session's cart and returns the persisted order.
// Failures are terminal for this attempt: no retries, the user re-triggers.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("load_cart").Inc()
		return nil, err
	}
	if len(c.Lines) == 0 {
		util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	if err := s.reserve(ctx, c.Lines); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("reservation").Inc()
		return nil, err
	}

	// Simulated payment settle window.
	select {
	case <-time.After(s.settleDelay):
	case <-ctx.Done():
		s.release(ctx, c.Lines)
		util.CheckoutsFailedTotal.WithLabelValues("cancelled").Inc()
		return nil, ctx.Err()
	}

	currency, err := s.carts.Currency(ctx, sessionID)
	if err != nil {
		currency = models.DefaultCurrency
	}

	order := &models.Order{
		SessionID:   sessionID,
		Currency:    string(currency),
		TotalItems:  c.TotalItems,
		TotalAmount: c.TotalAmount,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.release(ctx, c.Lines)
		util.CheckoutsFailedTotal.WithLabelValues("persist").Inc()
		return nil, err
	}

	items := make([]models.CartItemData, 0, len(c.Lines))
	for _, line := range c.Lines {
		item := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Name:      line.Name,
			Slug:      line.Slug,
			UnitPrice: line.Price,
			Amount:    line.Amount,
		}
		if err := s.orders.CreateOrderItem(ctx, item); err != nil {
			s.logger.Error("Failed to persist order item",
				zap.Int64("order_id", order.ID),
				zap.String("product_id", line.ProductID),
				zap.Error(err))
		}

		if err := s.stock.CommitStock(ctx, line.ProductID, line.Amount); err != nil {
			s.logger.Error("Failed to commit stock",
				zap.String("product_id", line.ProductID),
				zap.Error(err))
		}

		items = append(items, models.CartItemData{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Name:      line.Name,
			UnitPrice: line.Price.String(),
			Amount:    line.Amount,
		})
	}

	if _, err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	util.CheckoutsCompletedTotal.Inc()
	s.logger.Info("Checkout completed",
		zap.Int64("order_id", order.ID),
		zap.String("session_id", sessionID),
		zap.Int("total_items", order.TotalItems))

	if s.publisher != nil {
		event := &models.CheckoutCompletedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeCheckoutCompleted,
				Timestamp: time.Now(),
			},
			OrderID:     order.ID,
			SessionID:   sessionID,
			Currency:    order.Currency,
			TotalItems:  order.TotalItems,
			TotalAmount: order.TotalAmount.String(),
			Items:       items,
		}
		if err := s.publisher.PublishCheckoutCompleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish CheckoutCompleted event", zap.Error(err))
		}
	}

	return order, nil
}

// Order returns one of the session's past orders with its snapshotted lines.
// Orders belonging to other sessions read as not found.
func (s *CheckoutService) Order(ctx context.Context, sessionID string, orderID int64) (*models.Order, []models.OrderItem, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Order")
	defer span.End()

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, ErrOrderNotFound
	}
	if order.SessionID != sessionID {
		return nil, nil, ErrOrderNotFound
	}

	items, err := s.orders.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// Orders lists the session's checkout history, newest first.
func (s *CheckoutService) Orders(ctx context.Context, sessionID string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Orders")
	defer span.End()

	return s.orders.GetOrdersBySessionID(ctx, sessionID)
}

// reserve takes stock for every line, rolling back on the first failure.
func (s *CheckoutService) reserve(ctx context.Context, lines []models.CartLine) error {
	reserved := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		ok, err := s.stock.ReserveStock(ctx, line.ProductID, line.Amount)
		if err != nil {
			util.StockReservationsFailed.WithLabelValues("error").Inc()
			s.release(ctx, reserved)
			return err
		}
		if !ok {
			util.StockReservationsFailed.WithLabelValues("insufficient").Inc()
			s.release(ctx, reserved)
			return errors.New("insufficient stock for product " + line.ProductID)
		}
		reserved = append(reserved, line)
	}
	return nil
}

func (s *CheckoutService) release(ctx context.Context, lines []models.CartLine) {
	for _, line := range lines {
		if err := s.stock.ReleaseStock(ctx, line.ProductID, line.Amount); err != nil {
			s.logger.Error("Failed to release stock reservation",
				zap.String("product_id", line.ProductID),
				zap.Error(err))
		}
	}
}
