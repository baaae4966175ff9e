package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Service provides business logic for the product catalog.
type Service struct {
	repo  Repository
	cache *ScanCache
}

// NewService creates a new service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetCache enables the scan-code read-through cache.
func (s *Service) SetCache(cache *ScanCache) {
	s.cache = cache
}

// Create registers a new product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := ValidateCreateProduct(req); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, Product{
		ScanCode: req.ScanCode,
		Name:     req.Name,
		Price:    req.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &created, nil
}

// List returns every product. The result is never nil.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// GetByID retrieves a product by identifier. An unknown id is reported via
// the boolean, not an error.
func (s *Service) GetByID(ctx context.Context, id int64) (*Product, bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, true, nil
}

// GetByScanCode retrieves a product by exact scan code match. Lookups are
// case-sensitive; an unknown code is reported via the boolean, not an error.
func (s *Service) GetByScanCode(ctx context.Context, code string) (*Product, bool, error) {
	fetch := func(ctx context.Context) (*Product, error) {
		return s.repo.GetByScanCode(ctx, code)
	}

	var (
		p   *Product
		err error
	)
	if s.cache != nil {
		p, err = s.cache.Lookup(ctx, code, fetch)
	} else {
		p, err = fetch(ctx)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get product by scan code: %w", err)
	}
	return p, true, nil
}

// Update applies a sparse patch to a product. Nil fields are left unchanged;
// a changed scan code must remain unique.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	if err := ValidateUpdateProduct(req); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.ScanCode != nil {
		updates["scan_code"] = *req.ScanCode
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = req.Price.String()
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	if s.cache != nil {
		codes := []string{existing.ScanCode}
		if req.ScanCode != nil && *req.ScanCode != existing.ScanCode {
			codes = append(codes, *req.ScanCode)
		}
		s.cache.Invalidate(ctx, codes...)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload product %d: %w", id, err)
	}
	return updated, nil
}
