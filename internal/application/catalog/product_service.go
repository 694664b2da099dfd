package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/purchase-invoice/backend/internal/domain/catalog"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/purchase-invoice/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cache key layout
const (
	productKeyPrefix = "product:"
	listKeyPrefix    = "products:list:"

	DefaultProductTTL = 10 * time.Minute
)

// ProductService handles product CRUD. Reads by id and list pages are
// served from the cache; every write evicts the affected entries.
type ProductService struct {
	productRepo catalog.ProductRepository
	cache       cache.Store
	ttl         time.Duration
	logger      *zap.Logger
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithCache caches reads in store for ttl
func WithCache(store cache.Store, ttl time.Duration) ProductServiceOption {
	return func(s *ProductService) {
		s.cache = store
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithProductLogger sets the service logger
func WithProductLogger(logger *zap.Logger) ProductServiceOption {
	return func(s *ProductService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{
		productRepo: productRepo,
		ttl:         DefaultProductTTL,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Price == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Price is required")
	}

	exists, err := s.productRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.NewProductNameExistsError(req.Name)
	}

	product, err := catalog.NewProduct(req.Name, *req.Price, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.evictLists(ctx)
	s.logger.Info("product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	key := productKey(id)

	var cached ProductResponse
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	s.store(ctx, key, response)
	return &response, nil
}

// List retrieves one page of products
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*ProductListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.MinPrice != "" {
		v, err := decimal.NewFromString(filter.MinPrice)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "minPrice must be a number")
		}
		domainFilter.Filters["min_price"] = v
	}
	if filter.MaxPrice != "" {
		v, err := decimal.NewFromString(filter.MaxPrice)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "maxPrice must be a number")
		}
		domainFilter.Filters["max_price"] = v
	}

	key := listKey(filter)
	var cached ProductListResponse
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	response := ProductListResponse{Items: ToProductResponses(products), Total: total}
	s.store(ctx, key, response)
	return &response, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil && *req.Name != product.Name {
		exists, err := s.productRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, catalog.NewProductNameExistsError(*req.Name)
		}
		name = *req.Name
	}
	price := product.Price
	if req.Price != nil {
		price = *req.Price
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}

	if err := product.Update(name, price, description); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.evict(ctx, id)
	s.logger.Info("product updated", zap.String("product_id", id.String()))

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.evict(ctx, id)
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

// lookup reads key from the cache. Cache failures count as misses.
func (s *ProductService) lookup(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *ProductService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ProductService) evict(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productKey(id)); err != nil {
		s.logger.Warn("product cache eviction failed", zap.String("product_id", id.String()), zap.Error(err))
	}
	s.evictLists(ctx)
}

func (s *ProductService) evictLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, listKeyPrefix); err != nil {
		s.logger.Warn("product list cache eviction failed", zap.Error(err))
	}
}

func productKey(id uuid.UUID) string {
	return productKeyPrefix + id.String()
}

func listKey(f ProductListFilter) string {
	return fmt.Sprintf("%s%d:%d:%s:%s:%s:%s:%s", listKeyPrefix,
		f.Page, f.PageSize, f.OrderBy, f.OrderDir, f.MinPrice, f.MaxPrice, f.Search)
}
