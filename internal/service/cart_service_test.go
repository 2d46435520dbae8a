package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturburst/naturburst.com-sub000/internal/catalog"
	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// memoryCartStore is an in-memory CartStore for tests.
type memoryCartStore struct {
	mu         sync.Mutex
	carts      map[string][]byte
	currencies map[string]string
	locks      map[string]bool
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{
		carts:      make(map[string][]byte),
		currencies: make(map[string]string),
		locks:      make(map[string]bool),
	}
}

func (m *memoryCartStore) LoadCart(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[sessionID], nil
}

func (m *memoryCartStore) SaveCart(_ context.Context, sessionID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = data
	return nil
}

func (m *memoryCartStore) DeleteCart(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

func (m *memoryCartStore) GetCurrency(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currencies[sessionID], nil
}

func (m *memoryCartStore) SetCurrency(_ context.Context, sessionID, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[sessionID] = code
	return nil
}

func (m *memoryCartStore) AcquireLock(_ context.Context, lockKey string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[lockKey] {
		return false, nil
	}
	m.locks[lockKey] = true
	return true, nil
}

func (m *memoryCartStore) ReleaseLock(_ context.Context, lockKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockKey)
	return nil
}

func newTestCartService() (*CartService, *memoryCartStore) {
	store := newMemoryCartStore()
	return NewCartService(store, 5*time.Second), store
}

func productByID(t *testing.T, id string) models.Product {
	t.Helper()
	for _, p := range catalog.SampleProducts() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("no sample product with id %s", id)
	return models.Product{}
}

func TestEndToEndAddTwice(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	products := catalog.SampleProducts()
	require.Len(t, products, 4)

	// Add product "1" twice with amount 1 each.
	strawberry := productByID(t, "1")
	_, err := svc.AddItem(ctx, "session-e2e", strawberry, "", 1)
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, "session-e2e", strawberry, "", 1)
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Amount)
	assert.Equal(t, 2, c.TotalItems)
	assert.True(t, c.TotalAmount.Equal(decimal.NewFromInt(398)),
		"expected 2*199=398, got %s", c.TotalAmount)
}

func TestCartSurvivesServiceRestart(t *testing.T) {
	svc, store := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", productByID(t, "2"), "", 3)
	require.NoError(t, err)

	// A fresh service over the same persistence rehydrates the cart.
	svc2 := NewCartService(store, 5*time.Second)
	c, err := svc2.Get(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.TotalItems)
	assert.True(t, c.TotalAmount.Equal(decimal.NewFromInt(3*249)))
}

func TestCorruptPersistedCartTreatedAsEmpty(t *testing.T) {
	svc, store := newTestCartService()
	ctx := context.Background()

	store.carts["s1"] = []byte(`{"not": "a line list"`)

	c, err := svc.Get(ctx, "s1")
	require.NoError(t, err, "unparsable persisted state is not a fatal error")
	assert.Empty(t, c.Lines)
	assert.Equal(t, 0, c.TotalItems)
}

func TestAddItemRejectsZeroAmount(t *testing.T) {
	svc, _ := newTestCartService()

	_, err := svc.AddItem(context.Background(), "s1", productByID(t, "1"), "", 0)
	assert.Error(t, err)
}

func TestMutationsAreIsolatedPerSession(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", productByID(t, "1"), "", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "bob", productByID(t, "3"), "", 2)
	require.NoError(t, err)

	aliceCart, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	bobCart, err := svc.Get(ctx, "bob")
	require.NoError(t, err)

	assert.Equal(t, 1, aliceCart.TotalItems)
	assert.Equal(t, 2, bobCart.TotalItems)
}

func TestCurrencyDefaultsUntilSet(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cur, err := svc.Currency(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCurrency, cur)

	require.NoError(t, svc.SetCurrency(ctx, "s1", models.CurrencyINR))

	cur, err = svc.Currency(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyINR, cur)
}

func TestSetCurrencyRejectsUnsupportedCode(t *testing.T) {
	svc, _ := newTestCartService()
	assert.Error(t, svc.SetCurrency(context.Background(), "s1", models.Currency("JPY")))
}

func TestRemoveAndDecrementSemantics(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", productByID(t, "1"), "", 1)
	require.NoError(t, err)

	// Decrementing from 1 keeps the line; only Remove eliminates it.
	c, err := svc.DecrementItem(ctx, "s1", "1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Amount)

	c, err = svc.RemoveItem(ctx, "s1", "1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}
