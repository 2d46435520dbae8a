package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naturburst/naturburst.com-sub000/internal/broker"
	"github.com/naturburst/naturburst.com-sub000/internal/catalog"
	"github.com/naturburst/naturburst.com-sub000/internal/models"
	"github.com/naturburst/naturburst.com-sub000/internal/store"
	"github.com/naturburst/naturburst.com-sub000/internal/util"
	"github.com/naturburst/naturburst.com-sub000/internal/view"
)

// ErrProductNotFound is the distinct not-found state for slug lookups; the
// API maps it to a 404 view.
var ErrProductNotFound = errors.New("product not found")

// Catalog sources.
const (
	SourceLocal   = "local"
	SourceShopify = "shopify"
)

// ProductSource fetches raw product records from a remote storefront.
// *shopify.Client satisfies it.
type ProductSource interface {
	FetchProducts(ctx context.Context) ([]json.RawMessage, error)
}

// StockSeeder seeds per-product available counts into the cache.
// *redisclient.Client satisfies it.
type StockSeeder interface {
	InitStock(ctx context.Context, productID string, available int) error
}

// CatalogService loads the canonical catalog from the configured source into
// the view store. Loads replace the whole set; there is no partial patching.
type CatalogService struct {
	db        *store.Store
	remote    ProductSource
	stock     StockSeeder
	publisher *broker.EventPublisher
	view      *view.Store
	source    string
	logger    *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	db *store.Store,
	remote ProductSource,
	stock StockSeeder,
	publisher *broker.EventPublisher,
	viewStore *view.Store,
	source string,
) *CatalogService {
	return &CatalogService{
		db:        db,
		remote:    remote,
		stock:     stock,
		publisher: publisher,
		view:      viewStore,
		source:    source,
		logger:    util.GetLogger(),
	}
}

// Load fetches the catalog from the configured source, normalizes it, and
// replaces the working view and the stock cache.
func (s *CatalogService) Load(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.Load")
	defer span.End()

	var products []models.Product
	var err error

	switch s.source {
	case SourceShopify:
		products, err = s.loadShopify(ctx)
	default:
		products, err = s.loadLocal(ctx)
	}
	if err != nil {
		util.CatalogLoadsFailed.WithLabelValues(s.source).Inc()
		return err
	}

	s.view.Load(products)
	s.seedStock(ctx, products)

	util.CatalogLoadsTotal.WithLabelValues(s.source).Inc()
	s.logger.Info("Catalog loaded",
		zap.String("source", s.source),
		zap.Int("products", len(products)))

	if s.publisher != nil {
		event := &models.CatalogReloadedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeCatalogReloaded,
				Timestamp: time.Now(),
			},
			Source:       s.source,
			ProductCount: len(products),
		}
		if err := s.publisher.PublishCatalogReloaded(ctx, event); err != nil {
			s.logger.Error("Failed to publish CatalogReloaded event", zap.Error(err))
		}
	}

	return nil
}

// loadLocal serves the bundled sample catalog from Postgres, seeding the
// table on first use.
func (s *CatalogService) loadLocal(ctx context.Context) ([]models.Product, error) {
	count, err := s.db.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if count == 0 {
		if err := s.db.ReplaceProducts(ctx, catalog.SampleProducts()); err != nil {
			return nil, fmt.Errorf("failed to seed sample catalog: %w", err)
		}
	}

	return s.db.GetProducts(ctx)
}

// loadShopify fetches and normalizes the remote catalog, then caches the
// normalized set in Postgres.
func (s *CatalogService) loadShopify(ctx context.Context) ([]models.Product, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("shopify source selected but no client configured")
	}

	raws, err := s.remote.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch storefront catalog: %w", err)
	}

	products := catalog.NormalizeAll(raws)
	if err := s.db.ReplaceProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to cache storefront catalog: %w", err)
	}
	return products, nil
}

func (s *CatalogService) seedStock(ctx context.Context, products []models.Product) {
	if s.stock == nil {
		return
	}
	for _, p := range products {
		if err := s.stock.InitStock(ctx, p.ID, p.Stock); err != nil {
			s.logger.Error("Failed to seed stock",
				zap.String("product_id", p.ID),
				zap.Error(err))
		}
	}
}

// Products returns the current filtered/sorted working set.
func (s *CatalogService) Products() []models.Product {
	return s.view.Filtered()
}

// GetBySlug looks a product up by slug. Unknown slugs are the distinct
// not-found state, not a generic failure.
func (s *CatalogService) GetBySlug(slug string) (models.Product, error) {
	p, ok := s.view.BySlug(slug)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}
	return p, nil
}

// GetByID looks a product up by its id, the true cart key.
func (s *CatalogService) GetByID(id string) (models.Product, error) {
	p, ok := s.view.ByID(id)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, nil
}

// SetSort re-sorts the working set.
func (s *CatalogService) SetSort(key models.SortKey) error {
	return s.view.SetSort(key)
}

// SetGridView switches the display mode to grid.
func (s *CatalogService) SetGridView() { s.view.SetGridView() }

// SetListView switches the display mode to list.
func (s *CatalogService) SetListView() { s.view.SetListView() }

// GridView reports the current display mode.
func (s *CatalogService) GridView() bool { return s.view.GridView() }

// Sort returns the active sort key.
func (s *CatalogService) Sort() models.SortKey { return s.view.Sort() }
