package service

import (
	"context"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/repository"
	"go-cinema-ticketing/pkg/paginator"
)

type ProductService interface {
	Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)
	List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Product], error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, id int64, params model.UpdateProductParams) (*model.Product, error)
}

type ProductServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &ProductServiceImpl{repo: repo}
}

func (s *ProductServiceImpl) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	return s.repo.Create(ctx, &model.Product{
		Name:  req.Name,
		Price: req.Price,
	})
}

func (s *ProductServiceImpl) List(ctx context.Context, opts paginator.Options) (*paginator.Page[*model.Product], error) {
	return s.repo.List(ctx, opts)
}

func (s *ProductServiceImpl) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductServiceImpl) Update(ctx context.Context, id int64, params model.UpdateProductParams) (*model.Product, error) {
	values := map[string]interface{}{}
	if params.Name != nil {
		values["name"] = *params.Name
	}
	if params.Price != nil {
		values["price"] = *params.Price
	}
	return s.repo.Update(ctx, id, values)
}
