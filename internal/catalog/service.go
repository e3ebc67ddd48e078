package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/slug"
)

const (
	categorySlugMaxLen = 140
	productSlugMaxLen  = 220
)

// Service exposes storefront browsing and staff catalog management.
type Service interface {
	Home(ctx context.Context) (*HomeResult, error)
	ListProducts(ctx context.Context, input ListInput) (*ListResult, error)
	ProductDetail(ctx context.Context, slug string) (*ProductDetail, error)

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	AdminListProducts(ctx context.Context, params pagination.Params) (*AdminProductList, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string, inStockOnly bool) (*models.Product, error)
	CountProducts(ctx context.Context, q ProductQuery) (int64, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo         catalogRepository
	pageSize     int
	homeProducts int
}

// ServiceParams bundles the catalog service dependencies.
type ServiceParams struct {
	Repo   catalogRepository
	Config config.CatalogConfig
}

// NewService constructs the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	homeProducts := params.Config.HomeProducts
	if homeProducts <= 0 {
		homeProducts = 8
	}
	return &service{
		repo:         params.Repo,
		pageSize:     pagination.NormalizeSize(params.Config.PageSize),
		homeProducts: homeProducts,
	}, nil
}

func (s *service) Home(ctx context.Context) (*HomeResult, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	products, err := s.repo.ListProducts(ctx, ProductQuery{InStockOnly: true, Limit: s.homeProducts})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &HomeResult{
		Categories: categoriesFromModels(categories),
		Products:   productsFromModels(products),
	}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListInput) (*ListResult, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	query := ProductQuery{InStockOnly: true, Title: strings.TrimSpace(input.Query)}
	result := &ListResult{Categories: categoriesFromModels(categories), Query: query.Title}

	if categorySlug := strings.TrimSpace(input.CategorySlug); categorySlug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return nil, notFoundOr(err, "category not found", "load category")
		}
		query.CategoryID = &category.ID
		result.Category = CategoryFromModel(category)
	}

	total, err := s.repo.CountProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	size := input.Pagination.Size
	if size <= 0 {
		size = s.pageSize
	}
	page := pagination.NewPage(input.Pagination.Page, size, total)
	query.Offset = page.Offset()
	query.Limit = page.Size

	products, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result.Products = productsFromModels(products)
	result.Page = page
	result.PageRange = page.Range()
	return result, nil
}

func (s *service) ProductDetail(ctx context.Context, productSlug string) (*ProductDetail, error) {
	product, err := s.repo.FindBySlug(ctx, productSlug, true)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return &ProductDetail{Product: ProductFromModel(product), Categories: categoriesFromModels(categories)}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categoriesFromModels(categories), nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	category := &models.Category{Name: strings.TrimSpace(input.Name)}
	if err := applyCategorySlug(category, input.Slug); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, conflictOr(err, "category name or slug already exists", "create category")
	}
	return CategoryFromModel(created), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category not found", "load category")
	}
	category.Name = strings.TrimSpace(input.Name)
	if err := applyCategorySlug(category, input.Slug); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		return nil, conflictOr(err, "category name or slug already exists", "update category")
	}
	return CategoryFromModel(updated), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, ErrProductProtected) || db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "category has products referenced by orders")
		}
		return notFoundOr(err, "category not found", "delete category")
	}
	return nil
}

func (s *service) AdminListProducts(ctx context.Context, params pagination.Params) (*AdminProductList, error) {
	total, err := s.repo.CountProducts(ctx, ProductQuery{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	size := params.Size
	if size <= 0 {
		size = s.pageSize
	}
	page := pagination.NewPage(params.Page, size, total)
	products, err := s.repo.ListProducts(ctx, ProductQuery{Offset: page.Offset(), Limit: page.Size})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &AdminProductList{Products: productsFromModels(products), Page: page}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	dto := ProductFromModel(product)
	return &dto, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		return nil, categoryFieldError(err)
	}

	product := &models.Product{InStock: true}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, conflictOr(err, "product slug already exists", "create product")
	}
	dto := ProductFromModel(created)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	if product.CategoryID != input.CategoryID {
		if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
			return nil, categoryFieldError(err)
		}
		product.Category = nil
	}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, conflictOr(err, "product slug already exists", "update product")
	}
	dto := ProductFromModel(updated)
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, ErrProductProtected) || db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by orders")
		}
		return notFoundOr(err, "product not found", "delete product")
	}
	return nil
}

func applyCategorySlug(category *models.Category, requested string) error {
	value := strings.TrimSpace(requested)
	if value == "" {
		value = slug.Make(category.Name, categorySlugMaxLen)
	}
	if !slug.Valid(value) {
		return slugFieldError()
	}
	category.Slug = value
	return nil
}

func applyProductInput(product *models.Product, input ProductInput) error {
	product.CategoryID = input.CategoryID
	product.Title = strings.TrimSpace(input.Title)
	product.Description = input.Description
	product.Price = input.Price.Round(2)
	product.Image = input.Image
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	value := strings.TrimSpace(input.Slug)
	if value == "" {
		value = slug.Make(product.Title, productSlugMaxLen)
	}
	if !slug.Valid(value) {
		return slugFieldError()
	}
	product.Slug = value
	return nil
}

func validateProductInput(input ProductInput) error {
	if details := input.ValidateForm(); len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func slugFieldError() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"slug": "must contain only lowercase letters, digits and hyphens"})
}

func categoryFieldError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"category_id": "unknown category"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
}

func notFoundOr(err error, notFound, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func conflictOr(err error, conflict, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.New(pkgerrors.CodeConflict, conflict)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
