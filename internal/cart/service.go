package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/pkg/auth/session"
)

// Service exposes the session cart operations used by the HTTP layer.
type Service interface {
	Get(ctx context.Context, sess *session.Session) (*CartDTO, error)
	Add(ctx context.Context, sess *session.Session, input AddInput) (*CartDTO, error)
	Update(ctx context.Context, sess *session.Session, productID uuid.UUID, input UpdateInput) (*CartDTO, error)
	Remove(ctx context.Context, sess *session.Session, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, sess *session.Session) error
	Count(ctx context.Context, sess *session.Session) (int, error)
}

type service struct {
	products ProductLookup
}

// NewService builds a cart service reading prices from products.
func NewService(products ProductLookup) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{products: products}, nil
}

func (s *service) Get(ctx context.Context, sess *session.Session) (*CartDTO, error) {
	c, err := Load(sess, s.products)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, c)
}

func (s *service) Add(ctx context.Context, sess *session.Session, input AddInput) (*CartDTO, error) {
	c, err := Load(sess, s.products)
	if err != nil {
		return nil, err
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if err := c.Add(ctx, input.ProductID, quantity, input.Override); err != nil {
		return nil, err
	}
	return s.render(ctx, c)
}

func (s *service) Update(ctx context.Context, sess *session.Session, productID uuid.UUID, input UpdateInput) (*CartDTO, error) {
	c, err := Load(sess, s.products)
	if err != nil {
		return nil, err
	}
	if err := c.Add(ctx, productID, input.Quantity, true); err != nil {
		return nil, err
	}
	return s.render(ctx, c)
}

func (s *service) Remove(ctx context.Context, sess *session.Session, productID uuid.UUID) (*CartDTO, error) {
	c, err := Load(sess, s.products)
	if err != nil {
		return nil, err
	}
	if err := c.Remove(productID); err != nil {
		return nil, err
	}
	return s.render(ctx, c)
}

func (s *service) Clear(ctx context.Context, sess *session.Session) error {
	c, err := Load(sess, s.products)
	if err != nil {
		return err
	}
	return c.Clear()
}

func (s *service) Count(ctx context.Context, sess *session.Session) (int, error) {
	c, err := Load(sess, s.products)
	if err != nil {
		return 0, err
	}
	return c.Len(), nil
}

func (s *service) render(ctx context.Context, c *Cart) (*CartDTO, error) {
	lines, err := c.Lines(ctx)
	if err != nil {
		return nil, err
	}
	return toDTO(c, lines), nil
}
