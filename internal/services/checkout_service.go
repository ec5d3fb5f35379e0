package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"toko-checkout/internal/apperrors"
	"toko-checkout/internal/metrics"
	"toko-checkout/internal/models"
	"toko-checkout/internal/repositories"
	"toko-checkout/pkg/idempotency"
	"toko-checkout/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultCheckoutTimeout bounds a checkout when no timeout is configured.
const DefaultCheckoutTimeout = 5 * time.Second

// OrderEventPublisher receives order.created events after commit.
type OrderEventPublisher interface {
	PublishOrderCreated(evt rabbitmq.OrderCreated) error
}

// CheckoutResult is the outcome of a successful checkout. Replayed is set when
// the order was created by an earlier call with the same idempotency key.
type CheckoutResult struct {
	Order    *models.Order
	Replayed bool
}

// CheckoutService turns a user's cart into an order.
type CheckoutService struct {
	uow       repositories.UnitOfWork
	orders    repositories.OrderRepository
	publisher OrderEventPublisher
	metrics   *metrics.CheckoutMetrics
	log       *zap.Logger
	timeout   time.Duration
}

// NewCheckoutService creates a new CheckoutService. publisher may be nil.
func NewCheckoutService(
	uow repositories.UnitOfWork,
	orders repositories.OrderRepository,
	publisher OrderEventPublisher,
	m *metrics.CheckoutMetrics,
	log *zap.Logger,
	timeout time.Duration,
) *CheckoutService {
	if timeout <= 0 {
		timeout = DefaultCheckoutTimeout
	}
	return &CheckoutService{
		uow:       uow,
		orders:    orders,
		publisher: publisher,
		metrics:   m,
		log:       log,
		timeout:   timeout,
	}
}

type reservation struct {
	variantID string
	qty       int
}

// Checkout reserves stock for every line of the user's cart and records an order.
//
// Either the order exists with all stock decremented and the cart cleared, or
// nothing changed. Stock is reserved in ascending variant order; on the first
// shortfall the reservations already made are returned and an
// InsufficientStockError names the variant. A non-empty key makes the call
// idempotent per user: repeating it returns the first order without touching stock.
func (s *CheckoutService) Checkout(ctx context.Context, userID, key string) (*CheckoutResult, error) {
	start := time.Now()
	if len(key) > idempotency.MaxLength {
		return nil, &apperrors.ValidationError{Field: "idempotency_key", Reason: "too long"}
	}

	res, err := s.checkout(ctx, userID, key)
	s.observe(start, res, err)
	if err != nil {
		return nil, err
	}

	if res.Replayed {
		s.log.Info("Checkout replayed",
			zap.String("user_id", userID),
			zap.String("order_id", res.Order.ID),
		)
		return res, nil
	}
	s.log.Info("Order created",
		zap.String("user_id", userID),
		zap.String("order_id", res.Order.ID),
		zap.String("total", res.Order.Total.StringFixed(2)),
		zap.Int("items", len(res.Order.Items)),
	)
	s.publishOrderCreated(res.Order)
	return res, nil
}

func (s *CheckoutService) checkout(ctx context.Context, userID, key string) (*CheckoutResult, error) {
	if key != "" {
		prior, err := s.findByKey(ctx, userID, key)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			return &CheckoutResult{Order: prior, Replayed: true}, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result *CheckoutResult
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		if key != "" {
			prior, err := tx.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err == nil {
				result = &CheckoutResult{Order: prior, Replayed: true}
				return nil
			}
			var nfe *apperrors.NotFoundError
			if !errors.As(err, &nfe) {
				return err
			}
		}

		order, err := s.placeOrder(ctx, tx, userID, key)
		var ece *apperrors.EmptyCartError
		if key != "" && errors.As(err, &ece) {
			// A call with the same key may have committed and cleared the cart
			// while this one waited on the cart lock.
			if prior, lookupErr := tx.Orders().FindByIdempotencyKey(ctx, userID, key); lookupErr == nil {
				result = &CheckoutResult{Order: prior, Replayed: true}
				return nil
			}
		}
		if err != nil {
			return err
		}
		result = &CheckoutResult{Order: order}
		return nil
	})
	if err == nil {
		return result, nil
	}

	// Another call with the same key won the insert; its order is ours.
	if key != "" && repositories.IsDuplicateKey(err) {
		prior, lookupErr := s.findByKey(context.WithoutCancel(ctx), userID, key)
		if lookupErr == nil && prior != nil {
			return &CheckoutResult{Order: prior, Replayed: true}, nil
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, &apperrors.StoreUnavailableError{Op: "checkout", Err: err}
	}
	return nil, apperrors.Store("checkout", err)
}

// placeOrder runs inside the unit of work. Any failure after the first
// reservation gives the reserved stock back before returning.
func (s *CheckoutService) placeOrder(ctx context.Context, tx repositories.Tx, userID, key string) (*models.Order, error) {
	items, err := tx.Carts().LockItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &apperrors.EmptyCartError{UserID: userID}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].VariantID < items[j].VariantID })

	reserved := make([]reservation, 0, len(items))
	for _, it := range items {
		ok, err := tx.Inventory().TryDecrement(ctx, it.VariantID, it.Quantity)
		if err != nil {
			return nil, s.compensate(ctx, tx, reserved, err)
		}
		if !ok {
			shortfall := &apperrors.InsufficientStockError{
				VariantID: it.VariantID,
				Requested: it.Quantity,
				Available: s.available(ctx, tx, it.VariantID),
			}
			return nil, s.compensate(ctx, tx, reserved, shortfall)
		}
		reserved = append(reserved, reservation{variantID: it.VariantID, qty: it.Quantity})
	}

	order := &models.Order{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: models.OrderStatusPending,
		Items:  make([]models.OrderItem, 0, len(items)),
	}
	if key != "" {
		k := key
		order.IdempotencyKey = &k
	}
	total := decimal.Zero
	itemIDs := make([]string, 0, len(items))
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ID:                uuid.New().String(),
			OrderID:           order.ID,
			VariantID:         it.VariantID,
			Quantity:          it.Quantity,
			UnitPriceSnapshot: it.UnitPriceSnapshot,
		})
		total = total.Add(it.Subtotal())
		itemIDs = append(itemIDs, it.ID)
	}
	order.Total = total

	if err := tx.Orders().Create(ctx, order); err != nil {
		return nil, s.compensate(ctx, tx, reserved, err)
	}
	if err := tx.Carts().DeleteItems(ctx, userID, itemIDs); err != nil {
		return nil, s.compensate(ctx, tx, reserved, err)
	}
	return order, nil
}

// compensate returns reserved stock in reverse order. It runs on a context that
// survives cancellation of ctx.
//
// When cause is a store failure the transaction may already be aborted (as on
// PostgreSQL) and the rollback restores stock, so compensation failures are
// only logged at debug level. Otherwise they are logged and joined to cause.
func (s *CheckoutService) compensate(ctx context.Context, tx repositories.Tx, reserved []reservation, cause error) error {
	if len(reserved) == 0 {
		return cause
	}
	storeFailure := !apperrors.IsTyped(cause)
	cctx := context.WithoutCancel(ctx)
	errs := []error{cause}
	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		if err := tx.Inventory().Increment(cctx, r.variantID, r.qty); err != nil {
			fields := []zap.Field{
				zap.String("variant_id", r.variantID),
				zap.Int("quantity", r.qty),
				zap.Error(err),
			}
			if storeFailure {
				s.log.Debug("Stock not returned in failed transaction, left to rollback", fields...)
				continue
			}
			s.log.Error("Failed to return reserved stock", fields...)
			errs = append(errs, err)
		}
	}
	if s.metrics != nil {
		s.metrics.Compensations.Add(float64(len(reserved)))
	}
	if len(errs) == 1 {
		return cause
	}
	return errors.Join(errs...)
}

// available reports current stock for an InsufficientStockError. It is
// informational only; an unknown or deleted variant counts as zero.
func (s *CheckoutService) available(ctx context.Context, tx repositories.Tx, variantID string) int {
	n, err := tx.Inventory().Stock(context.WithoutCancel(ctx), variantID)
	if err != nil {
		var nfe *apperrors.NotFoundError
		if !errors.As(err, &nfe) {
			s.log.Warn("Failed to read stock", zap.String("variant_id", variantID), zap.Error(err))
		}
		return 0
	}
	return n
}

func (s *CheckoutService) findByKey(ctx context.Context, userID, key string) (*models.Order, error) {
	prior, err := s.orders.FindByIdempotencyKey(ctx, userID, key)
	if err == nil {
		return prior, nil
	}
	var nfe *apperrors.NotFoundError
	if errors.As(err, &nfe) {
		return nil, nil
	}
	return nil, apperrors.Store("idempotency lookup", err)
}

func (s *CheckoutService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	evt := rabbitmq.OrderCreated{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		Total:     order.Total.StringFixed(2),
		Items:     make([]rabbitmq.OrderCreatedItem, 0, len(order.Items)),
		CreatedAt: order.CreatedAt,
	}
	for _, it := range order.Items {
		evt.Items = append(evt.Items, rabbitmq.OrderCreatedItem{
			VariantID:         it.VariantID,
			Quantity:          it.Quantity,
			UnitPriceSnapshot: it.UnitPriceSnapshot.StringFixed(2),
		})
	}
	if err := s.publisher.PublishOrderCreated(evt); err != nil {
		s.log.Warn("Failed to publish order created event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (s *CheckoutService) observe(start time.Time, res *CheckoutResult, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.LatencyMS.Observe(float64(time.Since(start).Milliseconds()))

	var (
		ece *apperrors.EmptyCartError
		ise *apperrors.InsufficientStockError
	)
	outcome := metrics.OutcomeError
	switch {
	case err == nil && res.Replayed:
		outcome = metrics.OutcomeReplayed
	case err == nil:
		outcome = metrics.OutcomeCreated
	case errors.As(err, &ece):
		outcome = metrics.OutcomeEmptyCart
	case errors.As(err, &ise):
		outcome = metrics.OutcomeInsufficientStock
	}
	s.metrics.Checkouts.WithLabelValues(outcome).Inc()
}
