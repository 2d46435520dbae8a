package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/naturburst/naturburst.com-sub000/internal/cart"
	"github.com/naturburst/naturburst.com-sub000/internal/models"
	"github.com/naturburst/naturburst.com-sub000/internal/util"
)

// ErrCartBusy is returned when a session's mutation lock cannot be acquired.
var ErrCartBusy = errors.New("cart is busy")

// CartStore persists serialized carts and currency preferences, and provides
// the per-session mutation lock. *redisclient.Client satisfies it.
type CartStore interface {
	LoadCart(ctx context.Context, sessionID string) ([]byte, error)
	SaveCart(ctx context.Context, sessionID string, data []byte) error
	DeleteCart(ctx context.Context, sessionID string) error
	GetCurrency(ctx context.Context, sessionID string) (string, error)
	SetCurrency(ctx context.Context, sessionID, code string) error
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}

// CartService owns the session carts: every transition loads the persisted
// line list, applies exactly one action under the session lock, and writes
// the result back before returning. Persistence is therefore strictly after
// the state change it reflects.
type CartService struct {
	store   CartStore
	lockTTL time.Duration
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore, lockTTL time.Duration) *CartService {
	return &CartService{
		store:   store,
		lockTTL: lockTTL,
		logger:  util.GetLogger(),
	}
}

// Get rehydrates the session's cart. A missing or unparsable persisted value
// yields an empty cart, never an error; storage failures are real errors.
func (s *CartService) Get(ctx context.Context, sessionID string) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Get")
	defer span.End()

	return s.load(ctx, sessionID)
}

// AddItem appends a line built from the product snapshot, or increments the
// existing line's amount. amount must be >= 1.
func (s *CartService) AddItem(ctx context.Context, sessionID string, product models.Product, variantID string, amount int) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	if amount < 1 {
		util.CartMutationsFailed.WithLabelValues("invalid_amount").Inc()
		return models.Cart{}, fmt.Errorf("amount must be at least 1, got %d", amount)
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}

	action := cart.Add{
		ProductID: product.ID,
		VariantID: variantID,
		Slug:      product.Slug,
		Amount:    amount,
		Snapshot: cart.Snapshot{
			Name:  product.Name,
			Image: image,
			Price: product.Price,
		},
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	return s.apply(ctx, sessionID, action)
}

// RemoveItem deletes the line for productID entirely.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return s.apply(ctx, sessionID, cart.Remove{ProductID: productID})
}

// IncrementItem adds one to the line's amount.
func (s *CartService) IncrementItem(ctx context.Context, sessionID, productID string) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.IncrementItem")
	defer span.End()

	util.CartMutationsTotal.WithLabelValues("increment").Inc()
	return s.apply(ctx, sessionID, cart.Increment{ProductID: productID})
}

// DecrementItem subtracts one from the line's amount, flooring at 1.
func (s *CartService) DecrementItem(ctx context.Context, sessionID, productID string) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.DecrementItem")
	defer span.End()

	util.CartMutationsTotal.WithLabelValues("decrement").Inc()
	return s.apply(ctx, sessionID, cart.Decrement{ProductID: productID})
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return s.apply(ctx, sessionID, cart.Clear{})
}

// Currency returns the session's display currency, falling back to the
// default when unset or unrecognized.
func (s *CartService) Currency(ctx context.Context, sessionID string) (models.Currency, error) {
	code, err := s.store.GetCurrency(ctx, sessionID)
	if err != nil {
		return "", err
	}

	cur := models.Currency(code)
	if !cur.Valid() {
		return models.DefaultCurrency, nil
	}
	return cur, nil
}

// SetCurrency stores the session's display currency. The set is closed:
// unsupported codes are rejected.
func (s *CartService) SetCurrency(ctx context.Context, sessionID string, cur models.Currency) error {
	if !cur.Valid() {
		return fmt.Errorf("unsupported currency: %s", cur)
	}

	if err := s.store.SetCurrency(ctx, sessionID, string(cur)); err != nil {
		return err
	}

	util.CurrencyChangesTotal.WithLabelValues(string(cur)).Inc()
	return nil
}

// apply runs one transition under the session's mutation lock, so transitions
// land in acquisition order and never interleave.
func (s *CartService) apply(ctx context.Context, sessionID string, action cart.Action) (models.Cart, error) {
	lockKey := "cart:" + sessionID

	acquired := false
	for attempt := 0; attempt < 50; attempt++ {
		ok, err := s.store.AcquireLock(ctx, lockKey, s.lockTTL)
		if err != nil {
			return models.Cart{}, fmt.Errorf("failed to acquire cart lock: %w", err)
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return models.Cart{}, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
	if !acquired {
		util.CartMutationsFailed.WithLabelValues("lock_timeout").Inc()
		return models.Cart{}, ErrCartBusy
	}
	defer func() {
		if err := s.store.ReleaseLock(ctx, lockKey); err != nil {
			s.logger.Error("Failed to release cart lock", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	prior, err := s.load(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}

	next := cart.Apply(prior, action)

	// Only the line list is persisted; totals are derived on rehydration.
	data, err := json.Marshal(next.Lines)
	if err != nil {
		return models.Cart{}, fmt.Errorf("failed to serialize cart: %w", err)
	}
	if err := s.store.SaveCart(ctx, sessionID, data); err != nil {
		util.CartMutationsFailed.WithLabelValues("persist").Inc()
		return models.Cart{}, err
	}

	return next, nil
}

func (s *CartService) load(ctx context.Context, sessionID string) (models.Cart, error) {
	data, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}
	if len(data) == 0 {
		return cart.Recompute(models.Cart{}), nil
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		util.CartRehydrationsFailed.Inc()
		s.logger.Warn("Discarding unparsable persisted cart",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return cart.Recompute(models.Cart{}), nil
	}

	return cart.Recompute(models.Cart{Lines: lines}), nil
}
