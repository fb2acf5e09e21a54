// Package store holds the per-session commerce state: cart, wishlist, orders, addresses,
// payment methods, region selection and preferences.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/abgdnv/storefront/internal/address"
	"github.com/abgdnv/storefront/internal/catalog"
	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/pricing"
	"github.com/abgdnv/storefront/internal/region"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the commerce state of exactly one session. All methods are safe for concurrent
// use and are applied in call order.
type Store struct {
	mu     sync.Mutex
	// saveMu orders Save calls so an older snapshot never lands after a newer one.
	saveMu sync.Mutex

	sessionID string
	registry  *region.Registry
	converter pricing.Converter
	persister Persister
	logger    *slog.Logger
	now       func() time.Time

	cart           []CartItem
	wishlist       []WishlistItem
	user           *User
	theme          Theme
	country        region.Country
	currency       region.Currency
	viewMode       ViewMode
	addresses      []address.Address
	paymentMethods []PaymentMethod
	orders         []Order
	ui             UIFlags
}

// New creates an empty store for sessionID in the registry's default region.
func New(sessionID string, registry *region.Registry, converter pricing.Converter, persister Persister, logger *slog.Logger) *Store {
	return &Store{
		sessionID: sessionID,
		registry:  registry,
		converter: converter,
		persister: persister,
		logger:    logger.With("component", "store", "session_id", sessionID),
		now:       time.Now,
		theme:     ThemeLight,
		viewMode:  ViewGrid,
		country:   registry.DefaultCountry(),
		currency:  registry.DefaultCurrency(),
	}
}

// SessionID returns the session this store belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// --- cart ---

// AddToCart increments the quantity of p, inserting it with quantity 1 on first add.
func (s *Store) AddToCart(p catalog.Product) {
	s.AddQuantity(p, 1)
}

// AddQuantity adds n units of p in one step. n <= 0 is ignored.
func (s *Store) AddQuantity(p catalog.Product, n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.cartIndex(p.ID); i >= 0 {
		s.cart[i].Quantity += n
		return
	}
	s.cart = append(s.cart, CartItem{Product: p, Quantity: n})
}

// InCart reports whether productID has a cart line.
func (s *Store) InCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cartIndex(productID) >= 0
}

// RemoveFromCart removes the line for productID. Unknown ids are ignored.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeCartLine(productID)
}

// UpdateQuantity sets the quantity of an existing line. qty <= 0 removes the line.
// It never creates a line for an unknown product.
func (s *Store) UpdateQuantity(productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.removeCartLine(productID)
		return
	}
	if i := s.cartIndex(productID); i >= 0 {
		s.cart[i].Quantity = qty
	}
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
}

// Cart returns the cart lines in insertion order.
func (s *Store) Cart() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.cart)
}

// CartTotal converts each unit price into the selected currency, then multiplies by quantity.
// The order matters: converting the summed subtotal can differ in the last digits.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cartTotal()
}

func (s *Store) cartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.cart {
		unit := s.converter.Convert(item.Product.Price, s.currency)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// PricedCart is the cart and its subtotal read at one instant.
type PricedCart struct {
	Items    []CartItem
	Subtotal decimal.Decimal
	Currency region.Currency
}

// PricedCart returns the cart lines together with the subtotal they add up to.
func (s *Store) PricedCart() PricedCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return PricedCart{
		Items:    slices.Clone(s.cart),
		Subtotal: s.cartTotal(),
		Currency: s.currency,
	}
}

// CartItemsCount is the sum of quantities, not the number of lines.
func (s *Store) CartItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.cart {
		n += item.Quantity
	}
	return n
}

// ConvertPrice expresses a base-currency amount in the selected currency.
func (s *Store) ConvertPrice(amount decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.converter.Convert(amount, s.currency)
}

func (s *Store) cartIndex(productID string) int {
	return slices.IndexFunc(s.cart, func(item CartItem) bool { return item.Product.ID == productID })
}

func (s *Store) removeCartLine(productID string) {
	s.cart = slices.DeleteFunc(s.cart, func(item CartItem) bool { return item.Product.ID == productID })
}

// --- wishlist ---

// AddToWishlist has toggle semantics: adding a product that is already saved removes it.
// It reports whether p is in the wishlist afterwards.
func (s *Store) AddToWishlist(p catalog.Product) bool {
	return s.ToggleWishlist(p)
}

// ToggleWishlist adds p if absent, removes it otherwise, and reports whether p is now saved.
func (s *Store) ToggleWishlist(p catalog.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wishlistIndex(p.ID) >= 0 {
		s.removeWishlistItem(p.ID)
		return false
	}
	s.wishlist = append(s.wishlist, WishlistItem{ID: p.ID, Product: p, DateAdded: s.now().UTC()})
	return true
}

// RemoveFromWishlist removes productID. Unknown ids are ignored.
func (s *Store) RemoveFromWishlist(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeWishlistItem(productID)
}

func (s *Store) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wishlistIndex(productID) >= 0
}

func (s *Store) ClearWishlist() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wishlist = nil
}

// Wishlist returns saved products in insertion order.
func (s *Store) Wishlist() []WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.wishlist)
}

// MoveWishlistToCart adds every saved product to the cart, empties the wishlist
// and returns how many products were moved.
func (s *Store) MoveWishlistToCart() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := len(s.wishlist)
	for _, item := range s.wishlist {
		if i := s.cartIndex(item.Product.ID); i >= 0 {
			s.cart[i].Quantity++
			continue
		}
		s.cart = append(s.cart, CartItem{Product: item.Product, Quantity: 1})
	}
	s.wishlist = nil
	return moved
}

func (s *Store) wishlistIndex(productID string) int {
	return slices.IndexFunc(s.wishlist, func(item WishlistItem) bool { return item.Product.ID == productID })
}

func (s *Store) removeWishlistItem(productID string) {
	s.wishlist = slices.DeleteFunc(s.wishlist, func(item WishlistItem) bool { return item.Product.ID == productID })
}

// --- orders ---

// AddOrder prepends o to the history, most recent first.
func (s *Store) AddOrder(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = slices.Insert(s.orders, 0, o)
}

// HasOrder reports whether the history already holds an order numbered id.
func (s *Store) HasOrder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.ContainsFunc(s.orders, func(o Order) bool { return o.ID == id })
}

func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.orders)
}

// --- region ---

// SetCountry replaces the selected country. Placed orders keep their currency.
func (s *Store) SetCountry(c region.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.country = c
}

// SetCurrency replaces the selected currency. Placed orders keep their currency.
func (s *Store) SetCurrency(c region.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currency = c
}

// SetRegion selects a country and its currency by code. Unknown codes select the default region.
func (s *Store) SetRegion(countryCode string) region.Country {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.country = s.registry.CountryOrDefault(countryCode)
	s.currency = s.registry.CurrencyForCountry(s.country.Code)
	return s.country
}

func (s *Store) Country() region.Country {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.country
}

func (s *Store) Currency() region.Currency {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currency
}

// --- profile and preferences ---

func (s *Store) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *Store) SetTheme(t Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = t
}

func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.theme
}

func (s *Store) SetViewMode(m ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewMode = m
}

func (s *Store) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewMode
}

func (s *Store) SetCartOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ui.CartOpen = open
}

func (s *Store) SetMobileMenuOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ui.MobileMenuOpen = open
}

func (s *Store) SetCheckoutOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ui.CheckoutOpen = open
}

func (s *Store) UI() UIFlags {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ui
}

// --- persistence ---

// Snapshot captures the durable part of the store.
func (s *Store) Snapshot() PersistedState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *User
	if s.user != nil {
		cp := *s.user
		user = &cp
	}
	addrs := make([]address.Address, 0, len(s.addresses))
	for _, a := range s.addresses {
		addrs = append(addrs, a.Clone())
	}
	return PersistedState{
		Cart:           nonNil(s.cart),
		Wishlist:       nonNil(s.wishlist),
		User:           user,
		Theme:          s.theme,
		Country:        s.country.Code,
		Currency:       s.currency.Code,
		ViewMode:       s.viewMode,
		Addresses:      addrs,
		PaymentMethods: nonNil(s.paymentMethods),
		Orders:         nonNil(s.orders),
	}
}

// Restore replaces the durable part of the store. Unknown region codes fall back to the defaults
// and UI flags are reset.
func (s *Store) Restore(st PersistedState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = make([]CartItem, 0, len(st.Cart))
	for _, item := range st.Cart {
		if item.Quantity <= 0 {
			continue
		}
		if i := s.cartIndex(item.Product.ID); i >= 0 {
			s.cart[i].Quantity += item.Quantity
			continue
		}
		s.cart = append(s.cart, item)
	}
	s.wishlist = slices.Clone(st.Wishlist)
	s.user = nil
	if st.User != nil {
		cp := *st.User
		s.user = &cp
	}
	s.theme = st.Theme
	if s.theme == "" {
		s.theme = ThemeLight
	}
	s.viewMode = st.ViewMode
	if s.viewMode == "" {
		s.viewMode = ViewGrid
	}
	s.country = s.registry.CountryOrDefault(st.Country)
	s.currency = s.registry.CurrencyOrDefault(st.Currency)
	s.addresses = make([]address.Address, 0, len(st.Addresses))
	for _, a := range st.Addresses {
		s.addresses = append(s.addresses, a.Clone())
	}
	s.paymentMethods = slices.Clone(st.PaymentMethods)
	s.orders = slices.Clone(st.Orders)
	s.ui = UIFlags{}
}

// Load restores the saved state. A session with nothing saved keeps its empty state.
// Errors are logged and returned; the store stays usable either way.
func (s *Store) Load(ctx context.Context) error {
	st, err := s.persister.Load(ctx, s.sessionID)
	if err != nil {
		if errors.Is(err, commerceerrors.ErrStateNotFound) {
			s.logger.DebugContext(ctx, "No persisted state for session")
			return nil
		}
		s.logger.WarnContext(ctx, "Failed to load persisted state, continuing with empty state", "error", err)
		return fmt.Errorf("failed to load state: %w", err)
	}
	s.Restore(st)
	s.logger.DebugContext(ctx, "Persisted state restored", "cart_items", len(st.Cart), "orders", len(st.Orders))
	return nil
}

// Save writes the current snapshot. Errors are logged and returned; the store keeps working in memory.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.persister.Save(ctx, s.sessionID, s.Snapshot()); err != nil {
		s.logger.WarnContext(ctx, "Failed to save state, continuing without durability", "error", err)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

func newID() string {
	return uuid.NewString()
}
