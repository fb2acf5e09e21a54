// Package checkout drives one shopper through shipping, payment, review and confirmation.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/storefront/internal/address"
	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/gateway"
	"github.com/abgdnv/storefront/internal/pricing"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/messaging/events"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// Cart is the part of the session store the checkout reads and finalizes.
type Cart interface {
	SessionID() string
	PricedCart() store.PricedCart
	AddOrder(o store.Order)
	HasOrder(id string) bool
	ClearCart()
}

// Snapshot is a consistent view of the checkout. Quote is priced from the current cart.
type Snapshot struct {
	Step            Step              `json:"step"`
	Processing      bool              `json:"processing"`
	ShippingAddress *address.Address  `json:"shippingAddress,omitempty"`
	Payment         *PaymentSummary   `json:"payment,omitempty"`
	OrderID         string            `json:"orderId,omitempty"`
	Quote           pricing.Breakdown `json:"quote"`
	Currency        string            `json:"currency"`
	LastOrder       *store.Order      `json:"lastOrder,omitempty"`
}

// paymentRequest is sent to the payment gateway.
type paymentRequest struct {
	SessionID string
	Method    store.PaymentMethodType
	Amount    decimal.Decimal
	Currency  string
}

// Orchestrator is the checkout state machine of one session. Gateway calls run without the
// lock held; while one is in flight every other transition fails with ErrStepInProgress.
type Orchestrator struct {
	mu   sync.Mutex
	step Step
	busy bool

	shipping  *address.Address
	payment   *PaymentSummary
	orderID   string
	lastOrder *store.Order

	cart      Cart
	addresses address.ValidationService
	verifier  gateway.Gateway
	payments  gateway.Gateway
	publisher messaging.Publisher
	ids       *OrderIDGenerator
	validate  *validator.Validate
	now       func() time.Time
	logger    *slog.Logger

	ordersCounter   metric.Int64Counter
	failuresCounter metric.Int64Counter
}

// NewOrchestrator creates a checkout at the shipping step.
func NewOrchestrator(cart Cart, addresses address.ValidationService, verifier, payments gateway.Gateway,
	publisher messaging.Publisher, ids *OrderIDGenerator, logger *slog.Logger) *Orchestrator {
	meter := otel.Meter("storefront-checkout")
	ordersCounter, err := meter.Int64Counter("orders_placed", metric.WithDescription("Total number of placed orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_placed counter: %v", err))
	}
	failuresCounter, err := meter.Int64Counter("checkout_failures", metric.WithDescription("Checkout submissions rejected by an external service"))
	if err != nil {
		panic(fmt.Sprintf("failed to create checkout_failures counter: %v", err))
	}
	return &Orchestrator{
		step:            StepShipping,
		cart:            cart,
		addresses:       addresses,
		verifier:        verifier,
		payments:        payments,
		publisher:       publisher,
		ids:             ids,
		validate:        newPaymentValidator(),
		now:             time.Now,
		logger:          logger.With("component", "checkout", "session_id", cart.SessionID()),
		ordersCounter:   ordersCounter,
		failuresCounter: failuresCounter,
	}
}

// SubmitShipping validates addr, has it verified and stores the normalized address as the
// shipping address. Any failure keeps the checkout at the shipping step.
func (o *Orchestrator) SubmitShipping(ctx context.Context, addr address.Address) error {
	if err := o.begin(StepShipping); err != nil {
		return err
	}
	defer o.end()

	if err := o.addresses.Validate(addr); err != nil {
		return err
	}
	normalized, err := o.addresses.Normalize(addr)
	if err != nil {
		return err
	}
	if _, err := o.verifier.Submit(ctx, gateway.Request{Kind: gateway.KindAddressVerification, Payload: normalized}); err != nil {
		return o.failed(ctx, StepShipping, err)
	}

	o.mu.Lock()
	o.shipping = &normalized
	o.step = StepPayment
	o.mu.Unlock()
	o.logger.InfoContext(ctx, "Shipping address accepted", "country", normalized.Country)
	return nil
}

// SubmitPayment validates the payment details and has them processed. On success a
// provisional order number is issued and the checkout moves to review.
func (o *Orchestrator) SubmitPayment(ctx context.Context, details PaymentDetails) error {
	if err := o.begin(StepPayment); err != nil {
		return err
	}
	defer o.end()

	if err := o.validatePayment(details); err != nil {
		return err
	}
	summary, err := summarize(details)
	if err != nil {
		return err
	}
	if err := o.processPayment(ctx, details.Method, o.cart.PricedCart()); err != nil {
		return o.failed(ctx, StepPayment, err)
	}

	id := o.ids.Next()
	o.mu.Lock()
	o.payment = &summary
	o.orderID = id
	o.step = StepReview
	o.mu.Unlock()
	o.logger.InfoContext(ctx, "Payment accepted", "method", summary.Method, "order_id", id)
	return nil
}

// PlaceOrder processes the payment again, issues the final order number, records the order in
// the session history and publishes an OrderPlacedEvent. The provisional number from
// SubmitPayment is replaced.
func (o *Orchestrator) PlaceOrder(ctx context.Context) (store.Order, error) {
	if err := o.begin(StepReview); err != nil {
		return store.Order{}, err
	}
	defer o.end()

	cart := o.cart.PricedCart()
	if len(cart.Items) == 0 {
		return store.Order{}, commerceerrors.ErrEmptyCart
	}
	o.mu.Lock()
	shipping := o.shipping.Clone()
	payment := *o.payment
	o.mu.Unlock()

	if err := o.processPayment(ctx, payment.Method, cart); err != nil {
		return store.Order{}, o.failed(ctx, StepReview, err)
	}

	order := store.Order{
		ID:              o.nextOrderID(),
		Items:           cart.Items,
		Total:           pricing.Quote(cart.Subtotal).Total,
		Status:          store.OrderPending,
		CreatedAt:       o.now(),
		ShippingAddress: shipping,
		PaymentMethod:   payment.Descriptor,
		Currency:        cart.Currency.Code,
	}
	o.cart.AddOrder(order)

	o.mu.Lock()
	o.orderID = order.ID
	o.lastOrder = &order
	o.step = StepConfirmation
	o.mu.Unlock()

	o.ordersCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("currency", order.Currency),
		attribute.String("payment_method", string(payment.Method)),
	))
	o.publishPlaced(ctx, order)
	o.logger.InfoContext(ctx, "Order placed", "order_id", order.ID, "total", order.Total.StringFixed(2), "currency", order.Currency)
	return order, nil
}

// Back returns to the previous step without side effects. Only payment and review can go back.
func (o *Orchestrator) Back() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return commerceerrors.ErrStepInProgress
	}
	switch o.step {
	case StepPayment:
		o.step = StepShipping
	case StepReview:
		o.step = StepPayment
	default:
		return fmt.Errorf("back from %s: %w", o.step, commerceerrors.ErrInvalidTransition)
	}
	return nil
}

// Dismiss leaves the confirmation step: the cart is cleared and the next checkout starts fresh.
func (o *Orchestrator) Dismiss() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return commerceerrors.ErrStepInProgress
	}
	if o.step != StepConfirmation {
		return fmt.Errorf("dismiss from %s: %w", o.step, commerceerrors.ErrInvalidTransition)
	}
	o.cart.ClearCart()
	o.step = StepShipping
	o.shipping = nil
	o.payment = nil
	o.orderID = ""
	o.lastOrder = nil
	return nil
}

// State returns the current checkout view.
func (o *Orchestrator) State() Snapshot {
	cart := o.cart.PricedCart()
	quote := pricing.Quote(cart.Subtotal)
	currency := cart.Currency.Code

	o.mu.Lock()
	defer o.mu.Unlock()
	snap := Snapshot{
		Step:       o.step,
		Processing: o.busy,
		OrderID:    o.orderID,
		Quote:      quote,
		Currency:   currency,
	}
	if o.shipping != nil {
		a := o.shipping.Clone()
		snap.ShippingAddress = &a
	}
	if o.payment != nil {
		p := *o.payment
		snap.Payment = &p
	}
	if o.lastOrder != nil {
		order := *o.lastOrder
		snap.LastOrder = &order
	}
	return snap
}

// begin claims the checkout for a transition out of step.
func (o *Orchestrator) begin(step Step) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return commerceerrors.ErrStepInProgress
	}
	if o.step != step {
		return fmt.Errorf("submit %s while at %s: %w", step, o.step, commerceerrors.ErrInvalidTransition)
	}
	o.busy = true
	return nil
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// processPayment charges the total of cart as it was read by the caller.
func (o *Orchestrator) processPayment(ctx context.Context, method store.PaymentMethodType, cart store.PricedCart) error {
	_, err := o.payments.Submit(ctx, gateway.Request{Kind: gateway.KindPayment, Payload: paymentRequest{
		SessionID: o.cart.SessionID(),
		Method:    method,
		Amount:    pricing.Quote(cart.Subtotal).Total,
		Currency:  cart.Currency.Code,
	}})
	return err
}

// nextOrderID skips numbers already in the session history; the six-digit suffix wraps.
func (o *Orchestrator) nextOrderID() string {
	id := o.ids.Next()
	for o.cart.HasOrder(id) {
		id = o.ids.Next()
	}
	return id
}

func (o *Orchestrator) failed(ctx context.Context, step Step, err error) error {
	o.failuresCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("step", step.String())))
	o.logger.WarnContext(ctx, "External service rejected checkout step", "step", step.String(), "error", err)
	return err
}

func (o *Orchestrator) publishPlaced(ctx context.Context, order store.Order) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	items := 0
	for _, it := range order.Items {
		items += it.Quantity
	}
	event := events.OrderPlacedEvent{
		Carrier:   carrier,
		OrderID:   order.ID,
		SessionID: o.cart.SessionID(),
		Total:     order.Total,
		Currency:  order.Currency,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.ErrorContext(ctx, "Failed to publish OrderPlacedEvent", "order_id", order.ID, "error", err)
	}
}
