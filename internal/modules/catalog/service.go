package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, category string, activeOnly bool) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req CreateProductRequest) (*Product, error)

	// Seed creates every product whose name is not in the catalog yet.
	Seed(ctx context.Context, reqs []CreateProductRequest) (int, error)

	// Resolve returns the cart Item for an active product.
	Resolve(ctx context.Context, productID string) (Item, error)
}

// CreateProductRequest holds the data for creating or replacing a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	ImageURL    string  `json:"image_url"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (req CreateProductRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrNameRequired
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: must not be negative", ErrInvalidPrice)
	}
	return nil
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger}
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	p := &Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Currency:    currency,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("product_id", p.ID.String()), zap.String("name", p.Name))
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, category string, activeOnly bool) ([]*Product, error) {
	return s.repo.List(ctx, category, activeOnly)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req CreateProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Category = req.Category
	p.Price = req.Price
	if req.Currency != "" {
		p.Currency = req.Currency
	}
	p.ImageURL = req.ImageURL
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Seed(ctx context.Context, reqs []CreateProductRequest) (int, error) {
	created := 0
	for _, req := range reqs {
		_, err := s.repo.GetByName(ctx, req.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrProductNotFound) {
			return created, err
		}
		if _, err := s.CreateProduct(ctx, req); err != nil {
			return created, fmt.Errorf("seed %q: %w", req.Name, err)
		}
		created++
	}
	return created, nil
}

func (s *service) Resolve(ctx context.Context, productID string) (Item, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return Item{}, err
	}
	if !p.IsActive {
		return Item{}, ErrProductNotFound
	}
	return p.Item(), nil
}
