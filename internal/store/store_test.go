package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/storefront/internal/address"
	"github.com/abgdnv/storefront/internal/catalog"
	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/pricing"
	"github.com/abgdnv/storefront/internal/region"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPersister is a mock implementation of the Persister interface
type mockPersister struct {
	state     PersistedState
	loadError error
	saveError error
	saved     []PersistedState
}

func (m *mockPersister) Load(_ context.Context, _ string) (PersistedState, error) {
	if m.loadError != nil {
		return PersistedState{}, m.loadError
	}
	return m.state, nil
}

func (m *mockPersister) Save(_ context.Context, _ string, state PersistedState) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.saved = append(m.saved, state)
	return nil
}

// gatedPersister holds its first Save until release is closed.
type gatedPersister struct {
	*MemoryPersister
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func newGatedPersister() *gatedPersister {
	return &gatedPersister{
		MemoryPersister: NewMemoryPersister(),
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
}

func (g *gatedPersister) Save(ctx context.Context, id string, state PersistedState) error {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MemoryPersister.Save(ctx, id, state)
}

func product(id, price string) catalog.Product {
	return catalog.Product{ID: id, Name: "product " + id, Price: decimal.RequireFromString(price), InStock: true}
}

func newTestStore(t *testing.T, p Persister) *Store {
	t.Helper()
	if p == nil {
		p = NewMemoryPersister()
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New("session-1", region.Default(), pricing.NewRateConverter(), p, logger)
}

func Test_Store_AddToCart(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	p := product("1", "10")

	// when
	s.AddToCart(p)
	s.AddToCart(p)

	// then
	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, 2, s.CartItemsCount())
}

func Test_Store_AddQuantity(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	p := product("1", "10")

	// when
	s.AddQuantity(p, 3)
	s.AddQuantity(p, 2)
	s.AddQuantity(product("2", "5"), 0)

	// then
	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)
	assert.True(t, s.InCart("1"))
	assert.False(t, s.InCart("2"))
}

func Test_Store_CartInvariant(t *testing.T) {
	type op func(s *Store)
	a, b := product("a", "1"), product("b", "2")
	ops := []op{
		func(s *Store) { s.AddToCart(a) },
		func(s *Store) { s.AddToCart(b) },
		func(s *Store) { s.AddToCart(a) },
		func(s *Store) { s.UpdateQuantity("a", -3) },
		func(s *Store) { s.UpdateQuantity("b", 5) },
		func(s *Store) { s.UpdateQuantity("missing", 4) },
		func(s *Store) { s.RemoveFromCart("missing") },
		func(s *Store) { s.AddToCart(a) },
		func(s *Store) { s.UpdateQuantity("b", 0) },
	}

	s := newTestStore(t, nil)
	for i, apply := range ops {
		apply(s)
		seen := make(map[string]bool)
		for _, item := range s.Cart() {
			assert.False(t, seen[item.Product.ID], "step %d: duplicate line for %s", i, item.Product.ID)
			assert.GreaterOrEqual(t, item.Quantity, 1, "step %d", i)
			seen[item.Product.ID] = true
		}
	}
	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "a", cart[0].Product.ID)
	assert.Equal(t, 1, cart[0].Quantity)
}

func Test_Store_UpdateQuantityZeroEqualsRemove(t *testing.T) {
	// given
	s1, s2 := newTestStore(t, nil), newTestStore(t, nil)
	for _, s := range []*Store{s1, s2} {
		s.AddToCart(product("1", "5"))
		s.AddToCart(product("2", "7"))
	}

	// when
	s1.UpdateQuantity("1", 0)
	s2.RemoveFromCart("1")

	// then
	assert.Equal(t, s2.Cart(), s1.Cart())
}

func Test_Store_UpdateQuantityNeverCreates(t *testing.T) {
	s := newTestStore(t, nil)
	s.UpdateQuantity("ghost", 3)
	assert.Empty(t, s.Cart())
}

func Test_Store_CartTotal(t *testing.T) {
	eur := region.Currency{Code: "EUR", Symbol: "€", Rate: decimal.RequireFromString("0.9")}
	jpy := region.Currency{Code: "JPY", Symbol: "¥", Rate: decimal.RequireFromString("110")}

	type line struct {
		product catalog.Product
		qty     int
	}
	testCases := []struct {
		name     string
		items    []line
		currency *region.Currency
		expected string
	}{
		{name: "empty cart", expected: "0"},
		{name: "base currency", items: []line{{product("1", "19.99"), 3}}, expected: "59.97"},
		{name: "euro at 0.9", items: []line{{product("1", "100"), 1}}, currency: &eur, expected: "90.00"},
		{name: "several lines in yen", items: []line{{product("1", "0.333"), 3}, {product("2", "1.5"), 2}}, currency: &jpy, expected: "439.89"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := newTestStore(t, nil)
			for _, l := range tc.items {
				s.AddToCart(l.product)
				s.UpdateQuantity(l.product.ID, l.qty)
			}
			if tc.currency != nil {
				s.SetCurrency(*tc.currency)
			}

			// when
			total := s.CartTotal()

			// then
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(total), "expected %s, got %s", tc.expected, total)
		})
	}
}

func Test_Store_CurrencyChangeDoesNotMutateItemsOrOrders(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	s.AddToCart(product("1", "100"))
	s.AddOrder(Order{ID: "ORD-000001", Total: decimal.RequireFromString("100"), Currency: "USD"})

	// when
	s.SetRegion("GB")

	// then
	assert.Equal(t, "GBP", s.Currency().Code)
	assert.True(t, decimal.RequireFromString("73").Equal(s.CartTotal()))
	assert.Equal(t, "100", s.Cart()[0].Product.Price.String())
	assert.Equal(t, "USD", s.Orders()[0].Currency)
	assert.Equal(t, "100", s.Orders()[0].Total.String())
}

func Test_Store_SetRegionUnknownFallsBack(t *testing.T) {
	s := newTestStore(t, nil)
	s.SetRegion("IN")
	c := s.SetRegion("XX")
	assert.Equal(t, "US", c.Code)
	assert.Equal(t, "USD", s.Currency().Code)
}

func Test_Store_WishlistToggle(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	p := product("1", "10")

	// when
	first := s.AddToWishlist(p)
	second := s.AddToWishlist(p)

	// then
	assert.True(t, first)
	assert.False(t, second)
	assert.False(t, s.IsInWishlist("1"))
	assert.Empty(t, s.Wishlist())
}

func Test_Store_WishlistOrderAndRemoval(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	for _, id := range []string{"3", "1", "2"} {
		s.ToggleWishlist(product(id, "1"))
	}

	// when
	s.RemoveFromWishlist("1")
	s.RemoveFromWishlist("missing")

	// then
	list := s.Wishlist()
	require.Len(t, list, 2)
	assert.Equal(t, "3", list[0].Product.ID)
	assert.Equal(t, "2", list[1].Product.ID)
	assert.Equal(t, 2024, list[0].DateAdded.Year())
	s.ClearWishlist()
	assert.Empty(t, s.Wishlist())
}

func Test_Store_MoveWishlistToCart(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	s.AddToCart(product("1", "10"))
	s.ToggleWishlist(product("1", "10"))
	s.ToggleWishlist(product("2", "20"))

	// when
	moved := s.MoveWishlistToCart()

	// then
	assert.Equal(t, 2, moved)
	assert.Empty(t, s.Wishlist())
	assert.Equal(t, 3, s.CartItemsCount())
	assert.Len(t, s.Cart(), 2)
}

func Test_Store_AddOrderPrepends(t *testing.T) {
	s := newTestStore(t, nil)
	s.AddOrder(Order{ID: "ORD-000001"})
	s.AddOrder(Order{ID: "ORD-000002"})

	orders := s.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-000002", orders[0].ID)
	assert.Equal(t, "ORD-000001", orders[1].ID)
}

func testAddress(street string) address.Address {
	return address.Address{Country: "US", Fields: map[string]string{"street": street, "city": "Austin", "state": "TX", "zipCode": "73301"}}
}

func Test_Store_Addresses(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	home := s.AddAddress(testAddress("1 Main St"))
	work := testAddress("2 Work Ave")
	work.IsDefault = true
	work = s.AddAddress(work)

	// when
	updated, err := s.UpdateAddress(home.ID, address.Address{Country: "US", IsDefault: true, Fields: map[string]string{"street": "3 New St"}})

	// then
	require.NoError(t, err)
	assert.Equal(t, home.ID, updated.ID)
	all := s.Addresses()
	require.Len(t, all, 2)
	assert.True(t, all[0].IsDefault)
	assert.False(t, all[1].IsDefault, "only one default address")
	def, ok := s.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "3 New St", def.Field("street"))

	require.NoError(t, s.SetDefaultAddress(work.ID))
	def, _ = s.DefaultAddress()
	assert.Equal(t, work.ID, def.ID)

	require.NoError(t, s.RemoveAddress(home.ID))
	assert.Len(t, s.Addresses(), 1)
}

func Test_Store_AddressErrors(t *testing.T) {
	s := newTestStore(t, nil)
	s.AddAddress(testAddress("1 Main St"))

	testCases := []struct {
		name string
		call func() error
	}{
		{name: "update unknown id", call: func() error { _, err := s.UpdateAddress("nope", testAddress("x")); return err }},
		{name: "remove unknown id", call: func() error { return s.RemoveAddress("nope") }},
		{name: "default unknown id", call: func() error { return s.SetDefaultAddress("nope") }},
		{name: "update index out of range", call: func() error { _, err := s.UpdateAddressAt(5, testAddress("x")); return err }},
		{name: "remove negative index", call: func() error { return s.RemoveAddressAt(-1) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), commerceerrors.ErrAddressNotFound)
		})
	}
	assert.Len(t, s.Addresses(), 1)
}

func Test_Store_PositionalAddressOps(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	s.AddAddress(testAddress("1 Main St"))
	s.AddAddress(testAddress("2 Main St"))

	// when
	_, err := s.UpdateAddressAt(1, testAddress("22 Main St"))
	require.NoError(t, err)
	require.NoError(t, s.RemoveAddressAt(0))

	// then
	all := s.Addresses()
	require.Len(t, all, 1)
	assert.Equal(t, "22 Main St", all[0].Field("street"))
}

func Test_Store_StoredAddressIsIsolated(t *testing.T) {
	s := newTestStore(t, nil)
	a := testAddress("1 Main St")
	stored := s.AddAddress(a)

	a.Fields["street"] = "mutated"
	stored.Fields["street"] = "mutated too"

	assert.Equal(t, "1 Main St", s.Addresses()[0].Field("street"))
}

func Test_Store_PaymentMethods(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	card := s.AddPaymentMethod(PaymentMethod{Type: PaymentCard, Last4: "4242", Brand: "Visa", IsDefault: true})
	upi := s.AddPaymentMethod(PaymentMethod{Type: PaymentUPI, IsDefault: true})

	// then
	methods := s.PaymentMethods()
	require.Len(t, methods, 2)
	assert.NotEmpty(t, card.ID)
	assert.False(t, methods[0].IsDefault)
	assert.True(t, methods[1].IsDefault)

	require.NoError(t, s.SetDefaultPaymentMethod(card.ID))
	assert.True(t, s.PaymentMethods()[0].IsDefault)
	require.NoError(t, s.RemovePaymentMethod(upi.ID))
	assert.ErrorIs(t, s.RemovePaymentMethod(upi.ID), commerceerrors.ErrPaymentMethodNotFound)
	assert.ErrorIs(t, s.RemovePaymentMethodAt(3), commerceerrors.ErrPaymentMethodNotFound)
	require.NoError(t, s.RemovePaymentMethodAt(0))
	assert.Empty(t, s.PaymentMethods())
}

func Test_Store_Preferences(t *testing.T) {
	s := newTestStore(t, nil)
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, ViewGrid, s.ViewMode())

	s.SetTheme(ThemeDark)
	s.SetViewMode(ViewList)
	s.SetUser(&User{ID: "u1", Name: "Ada"})
	s.SetCartOpen(true)
	s.SetCheckoutOpen(true)
	s.SetMobileMenuOpen(true)

	assert.Equal(t, ThemeDark, s.Theme())
	assert.Equal(t, ViewList, s.ViewMode())
	assert.Equal(t, "Ada", s.User().Name)
	assert.Equal(t, UIFlags{CartOpen: true, MobileMenuOpen: true, CheckoutOpen: true}, s.UI())
}

func Test_Store_SaveAndLoadRoundTrip(t *testing.T) {
	// given
	persister := NewMemoryPersister()
	s := newTestStore(t, persister)
	s.AddToCart(product("1", "10"))
	s.ToggleWishlist(product("2", "20"))
	s.SetRegion("DE")
	s.SetTheme(ThemeDark)
	s.SetCartOpen(true)
	s.AddAddress(testAddress("1 Main St"))
	s.AddOrder(Order{ID: "ORD-123456", Total: decimal.RequireFromString("12.5"), Currency: "EUR", Status: OrderPending})
	require.NoError(t, s.Save(context.Background()))

	// when
	restored := newTestStore(t, persister)
	require.NoError(t, restored.Load(context.Background()))

	// then
	assert.Equal(t, 1, restored.CartItemsCount())
	assert.True(t, restored.IsInWishlist("2"))
	assert.Equal(t, "DE", restored.Country().Code)
	assert.Equal(t, "EUR", restored.Currency().Code)
	assert.Equal(t, ThemeDark, restored.Theme())
	assert.Equal(t, UIFlags{}, restored.UI(), "UI flags are not persisted")
	require.Len(t, restored.Addresses(), 1)
	require.Len(t, restored.Orders(), 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(restored.Orders()[0].Total))
}

func Test_Store_LoadFailuresAreNonFatal(t *testing.T) {
	testCases := []struct {
		name        string
		persister   *mockPersister
		expectError bool
	}{
		{name: "nothing saved yet", persister: &mockPersister{loadError: commerceerrors.ErrStateNotFound}},
		{name: "backend failure", persister: &mockPersister{loadError: errors.New("connection refused")}, expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := newTestStore(t, tc.persister)

			// when
			err := s.Load(context.Background())

			// then
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			s.AddToCart(product("1", "1"))
			assert.Equal(t, 1, s.CartItemsCount(), "store keeps working")
			assert.Equal(t, "US", s.Country().Code)
		})
	}
}

func Test_Store_SaveFailureIsReported(t *testing.T) {
	s := newTestStore(t, &mockPersister{saveError: errors.New("disk full")})
	s.AddToCart(product("1", "1"))

	err := s.Save(context.Background())

	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, s.CartItemsCount())
}

func Test_Store_RestoreDefaults(t *testing.T) {
	// given
	s := newTestStore(t, nil)

	// when
	s.Restore(PersistedState{Country: "ZZ", Currency: "ZZZ", Cart: []CartItem{{Product: product("1", "1"), Quantity: 0}}})

	// then
	assert.Equal(t, "US", s.Country().Code)
	assert.Equal(t, "USD", s.Currency().Code)
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, ViewGrid, s.ViewMode())
	assert.Empty(t, s.Cart())
}

func Test_Store_SnapshotHasNoNilCollections(t *testing.T) {
	st := newTestStore(t, nil).Snapshot()
	assert.NotNil(t, st.Cart)
	assert.NotNil(t, st.Wishlist)
	assert.NotNil(t, st.Addresses)
	assert.NotNil(t, st.PaymentMethods)
	assert.NotNil(t, st.Orders)
	assert.Equal(t, "US", st.Country)
	assert.Equal(t, "USD", st.Currency)
}

func Test_Store_SaveKeepsCallOrder(t *testing.T) {
	// given
	p := newGatedPersister()
	s := newTestStore(t, p)
	s.AddToCart(product("1", "10"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Save(context.Background()))
	}()
	<-p.entered
	s.AddToCart(product("2", "20"))

	// when
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Save(context.Background()))
	}()
	time.Sleep(20 * time.Millisecond)
	close(p.release)
	wg.Wait()

	// then
	saved, err := p.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Len(t, saved.Cart, 2, "the later snapshot must win")
}

func Test_Store_RestoreMergesDuplicateLines(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	state := PersistedState{Cart: []CartItem{
		{Product: product("1", "10"), Quantity: 2},
		{Product: product("2", "5"), Quantity: 1},
		{Product: product("1", "10"), Quantity: 3},
		{Product: product("3", "7"), Quantity: 0},
	}}

	// when
	s.Restore(state)

	// then
	cart := s.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, "1", cart[0].Product.ID)
	assert.Equal(t, 5, cart[0].Quantity)
	assert.Equal(t, "2", cart[1].Product.ID)
	assert.Equal(t, 6, s.CartItemsCount())
}

func Test_Store_PricedCart(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	s.AddQuantity(product("1", "10"), 3)
	s.AddToCart(product("2", "5.5"))

	// when
	priced := s.PricedCart()
	s.AddToCart(product("3", "1"))

	// then
	require.Len(t, priced.Items, 2)
	assert.Equal(t, "35.5", priced.Subtotal.String())
	assert.Equal(t, "USD", priced.Currency.Code)
}

func Test_Store_HasOrder(t *testing.T) {
	// given
	s := newTestStore(t, nil)
	s.AddOrder(Order{ID: "ORD-000001"})

	// then
	assert.True(t, s.HasOrder("ORD-000001"))
	assert.False(t, s.HasOrder("ORD-000002"))
}
