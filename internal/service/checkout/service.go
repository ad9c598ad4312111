package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	ordersvc "storefront/internal/service/order"

	"go.uber.org/zap"
)

const (
	ModeCart   = "cart"
	ModeSingle = "single"
)

// PruneWarning is reported when an order was placed but its lines are still in the cart.
const PruneWarning = "order placed, cart not fully cleared"

// ErrLineNotFound is returned when a requested product is not in the cart.
var ErrLineNotFound = fmt.Errorf("cart line %w", domain.ErrNotFound)

type cartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	RemoveLines(ctx context.Context, userID string, productIDs []string) error
}

type orderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
}

type addressBook interface {
	SaveDeliveryAddress(ctx context.Context, userID string, addr domain.Address) error
}

const defaultEventTimeout = 2 * time.Second

// Deps wires the coordinator. Events, Metrics and Addresses may be nil.
// EventTimeout bounds the order event publish; zero means two seconds.
type Deps struct {
	Carts           cartService
	Orders          orderService
	Addresses       addressBook
	Events          events.Publisher
	Metrics         *metrics.Checkout
	Logger          *zap.Logger
	PruneRetryDelay time.Duration
	EventTimeout    time.Duration
}

// Service turns cart lines into orders. The order write and the cart prune are
// separate operations: once the order exists it is never rolled back, and the prune
// is retried once before the caller gets a warning.
type Service struct {
	carts      cartService
	orders     orderService
	addresses  addressBook
	events     events.Publisher
	metrics    *metrics.Checkout
	logger     *zap.Logger
	retryDelay   time.Duration
	eventTimeout time.Duration
}

func New(d Deps) *Service {
	pub := d.Events
	if pub == nil {
		pub = events.Noop{}
	}
	eventTimeout := d.EventTimeout
	if eventTimeout <= 0 {
		eventTimeout = defaultEventTimeout
	}
	return &Service{
		carts:      d.Carts,
		orders:     d.Orders,
		addresses:  d.Addresses,
		events:     pub,
		metrics:    d.Metrics,
		logger:     logger.OrNop(d.Logger).Named("checkout"),
		retryDelay:   d.PruneRetryDelay,
		eventTimeout: eventTimeout,
	}
}

// CartCheckout orders the whole cart, or only ProductIDs when given.
type CartCheckout struct {
	UserID        string          `json:"userId"`
	Address       *domain.Address `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	ProductIDs    []string        `json:"productIds"`
	SaveAddress   bool            `json:"saveAddress"`
}

// SingleCheckout orders exactly one line: an existing cart line (ProductID) or a
// transient Item that never touches the cart.
type SingleCheckout struct {
	UserID        string           `json:"userId"`
	ProductID     string           `json:"productId"`
	Item          *domain.CartItem `json:"item"`
	Quantity      int              `json:"qty"`
	Address       *domain.Address  `json:"address"`
	PaymentMethod string           `json:"paymentMethod"`
	SaveAddress   bool             `json:"saveAddress"`
}

type Result struct {
	Order   *domain.Order
	Warning string
}

// plan is what a checkout will order and how the cart is pruned afterwards.
type plan struct {
	userID   string
	mode     string
	items    []domain.CartItem
	prune    []string
	address  *domain.Address
	payment  string
	saveAddr bool
}

func (s *Service) CheckoutCart(ctx context.Context, in CartCheckout) (*Result, error) {
	p, err := s.planCart(ctx, in)
	if err != nil {
		s.metrics.Attempt(ModeCart, outcome(err))
		return nil, err
	}
	return s.place(ctx, p)
}

func (s *Service) CheckoutSingle(ctx context.Context, in SingleCheckout) (*Result, error) {
	p, err := s.planSingle(ctx, in)
	if err != nil {
		s.metrics.Attempt(ModeSingle, outcome(err))
		return nil, err
	}
	return s.place(ctx, p)
}

func (s *Service) planCart(ctx context.Context, in CartCheckout) (plan, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return plan{}, fmt.Errorf("%w: userId required", domain.ErrValidation)
	}
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return plan{}, err
	}
	p := plan{
		userID:   userID,
		mode:     ModeCart,
		address:  in.Address,
		payment:  in.PaymentMethod,
		saveAddr: in.SaveAddress,
	}
	if len(in.ProductIDs) == 0 {
		// Prune only the snapshot so lines added during checkout survive.
		p.items = domain.CloneItems(cart.Items)
		for _, item := range p.items {
			p.prune = append(p.prune, item.ProductID)
		}
	} else {
		seen := make(map[string]struct{}, len(in.ProductIDs))
		for _, id := range in.ProductIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			idx := cart.Find(id)
			if idx < 0 {
				return plan{}, fmt.Errorf("%w: %s", ErrLineNotFound, id)
			}
			p.items = append(p.items, cart.Items[idx])
			p.prune = append(p.prune, id)
		}
	}
	if len(p.items) == 0 {
		return plan{}, domain.ErrEmptyCart
	}
	return p, nil
}

func (s *Service) planSingle(ctx context.Context, in SingleCheckout) (plan, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return plan{}, fmt.Errorf("%w: userId required", domain.ErrValidation)
	}
	productID := strings.TrimSpace(in.ProductID)
	if (productID == "") == (in.Item == nil) {
		return plan{}, fmt.Errorf("%w: exactly one of productId or item required", domain.ErrValidation)
	}
	p := plan{
		userID:   userID,
		mode:     ModeSingle,
		address:  in.Address,
		payment:  in.PaymentMethod,
		saveAddr: in.SaveAddress,
	}

	if productID != "" {
		cart, err := s.carts.Get(ctx, userID)
		if err != nil {
			return plan{}, err
		}
		idx := cart.Find(productID)
		if idx < 0 {
			return plan{}, fmt.Errorf("%w: %s", ErrLineNotFound, productID)
		}
		p.items = []domain.CartItem{cart.Items[idx]}
		p.prune = []string{productID}
		return p, nil
	}

	item := *in.Item
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return plan{}, fmt.Errorf("%w: item name required", domain.ErrValidation)
	}
	if item.UnitPrice.IsNegative() {
		return plan{}, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	switch {
	case in.Quantity > 0:
		item.Quantity = in.Quantity
	case item.Quantity < 1:
		item.Quantity = 1
	}
	p.items = []domain.CartItem{item}
	return p, nil
}

func (s *Service) place(ctx context.Context, p plan) (*Result, error) {
	order, err := s.orders.Create(ctx, ordersvc.CreateInput{
		OwnerID:       p.userID,
		Items:         p.items,
		Total:         domain.SumItems(p.items),
		Address:       p.address,
		PaymentMethod: p.payment,
	})
	if err != nil {
		s.metrics.Attempt(p.mode, outcome(err))
		s.logger.Error("create order", zap.String("user_id", p.userID), zap.String("mode", p.mode), zap.Error(err))
		return nil, err
	}
	s.metrics.Attempt(p.mode, "ok")
	s.metrics.OrderPlaced(order.Total.InexactFloat64())
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", p.userID),
		zap.String("mode", p.mode),
		zap.String("total", order.Total.StringFixed(2)),
	)

	res := &Result{Order: order}
	if err := s.pruneCart(ctx, p); err != nil {
		s.metrics.PruneFailed()
		s.logger.Warn("cart prune failed", zap.String("order_id", order.ID), zap.String("user_id", p.userID), zap.Error(err))
		res.Warning = PruneWarning
	}

	if p.saveAddr && p.address != nil && s.addresses != nil {
		if err := s.addresses.SaveDeliveryAddress(ctx, p.userID, *p.address); err != nil {
			s.logger.Warn("save delivery address", zap.String("user_id", p.userID), zap.Error(err))
		}
	}
	s.publish(ctx, *order, p.mode)
	return res, nil
}

// publish emits the order event under its own deadline so a stalled broker
// cannot hold the response of an order that is already stored.
func (s *Service) publish(ctx context.Context, order domain.Order, mode string) {
	ctx, cancel := context.WithTimeout(ctx, s.eventTimeout)
	defer cancel()
	if err := s.events.PublishOrderPlaced(ctx, events.NewOrderPlaced(order, mode)); err != nil {
		s.logger.Warn("publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// pruneCart removes the ordered lines, with one retry.
func (s *Service) pruneCart(ctx context.Context, p plan) error {
	if len(p.prune) == 0 {
		return nil
	}
	prune := func() error {
		return s.carts.RemoveLines(ctx, p.userID, p.prune)
	}
	err := prune()
	if err == nil {
		return nil
	}
	s.metrics.PruneRetried()
	s.logger.Warn("cart prune failed, retrying", zap.String("user_id", p.userID), zap.Error(err))
	select {
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	case <-time.After(s.retryDelay):
	}
	return prune()
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
