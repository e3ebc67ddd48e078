package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/pagination"
)

// Service exposes the staff order management operations.
type Service interface {
	List(ctx context.Context, filter enums.OrderPaidFilter, params pagination.Params) (*OrderList, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	SetPaid(ctx context.Context, id uuid.UUID, paid bool) (*OrderDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds the order management service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter enums.OrderPaidFilter, params pagination.Params) (*OrderList, error) {
	if filter == "" {
		filter = enums.OrderPaidFilterAll
	}
	if !filter.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid paid filter")
	}

	q := ListQuery{Paid: filter}
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	page := pagination.NewPage(params.Page, params.Size, total)
	q.Offset = page.Offset()
	q.Limit = page.Size

	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return &OrderList{Orders: out, Page: page, PageRange: page.Range()}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) SetPaid(ctx context.Context, id uuid.UUID, paid bool) (*OrderDTO, error) {
	if err := s.repo.SetPaid(ctx, id, paid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
	}
	return s.Get(ctx, id)
}
