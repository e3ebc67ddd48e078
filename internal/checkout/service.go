package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outcomeRecorder interface {
	Placed(total decimal.Decimal, lines int)
	Rejected(outcome string)
}

// Service turns the session cart into a persisted order.
type Service interface {
	PlaceOrder(ctx context.Context, sess *session.Session, form ShippingForm) (*Result, error)
}

// ServiceParams bundles the checkout dependencies. Metrics and Logger are
// optional.
type ServiceParams struct {
	Tx       txRunner
	Orders   orders.Repository
	Products cart.ProductLookup
	Metrics  outcomeRecorder
	Logger   *logger.Logger
}

type service struct {
	tx       txRunner
	orders   orders.Repository
	products cart.ProductLookup
	metrics  outcomeRecorder
	logg     *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	recorder := params.Metrics
	if recorder == nil {
		recorder = (*metrics.CheckoutMetrics)(nil)
	}
	return &service{
		tx:       params.Tx,
		orders:   params.Orders,
		products: params.Products,
		metrics:  recorder,
		logg:     params.Logger,
	}, nil
}

// PlaceOrder creates the order and its items in one transaction and clears
// the cart once committed. Cart entries whose product was removed from the
// catalog are dropped.
func (s *service) PlaceOrder(ctx context.Context, sess *session.Session, form ShippingForm) (*Result, error) {
	c, err := cart.Load(sess, s.products)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if c.IsEmpty() {
		s.metrics.Rejected(metrics.OutcomeEmptyCart)
		return nil, EmptyCartError()
	}

	if details := form.ValidateForm(); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	form = form.normalized()

	lines, err := c.Lines(ctx)
	if err != nil {
		s.metrics.Rejected(metrics.OutcomeFailed)
		return nil, err
	}
	if len(lines) == 0 {
		if err := c.Clear(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		s.metrics.Rejected(metrics.OutcomeEmptyCart)
		return nil, EmptyCartError()
	}

	order := &models.Order{
		FullName:   form.FullName,
		Email:      form.Email,
		Address:    form.Address,
		City:       form.City,
		PostalCode: form.PostalCode,
		Paid:       true,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.Product.ID,
				Price:     line.Price,
				Quantity:  line.Quantity,
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		order.Items = items
		return nil
	})
	if err != nil {
		s.metrics.Rejected(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
	}

	for i := range order.Items {
		product := lines[i].Product
		order.Items[i].Product = &product
	}

	// The cleared cart only reaches Redis when the session middleware saves
	// the session. If that save fails the order stands and the cart survives;
	// only an Idempotency-Key guards a retry against a second order.
	if err := c.Clear(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}

	s.metrics.Placed(order.Total(), len(order.Items))
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"lines":    len(order.Items),
			"total":    order.Total().StringFixed(2),
		})
		s.logg.Info(logCtx, "checkout.order_placed")
	}

	return &Result{
		Order:   orders.FromModel(order),
		Message: fmt.Sprintf("Thanks! Your order #%s was placed.", order.ID),
	}, nil
}

// EmptyCartError is returned when checkout is attempted without cart lines.
func EmptyCartError() error {
	return pkgerrors.New(pkgerrors.CodeEmptyCart, EmptyCartMessage)
}
