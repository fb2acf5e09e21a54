package store

import (
	"time"

	"github.com/abgdnv/storefront/internal/address"
	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// CartItem is one cart line. Quantity is always at least 1.
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// WishlistItem records when a product was saved for later.
type WishlistItem struct {
	ID        string          `json:"id"`
	Product   catalog.Product `json:"product"`
	DateAdded time.Time       `json:"dateAdded"`
}

// User is the shopper profile. Authentication is handled elsewhere.
type User struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Avatar            string     `json:"avatar,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	DateJoined        *time.Time `json:"dateJoined,omitempty"`
	Region            string     `json:"region,omitempty"`
	PreferredCurrency string     `json:"preferredCurrency,omitempty"`
}

// PaymentMethodType identifies how a payment method settles.
type PaymentMethodType string

const (
	PaymentCard         PaymentMethodType = "card"
	PaymentPayPal       PaymentMethodType = "paypal"
	PaymentApplePay     PaymentMethodType = "apple-pay"
	PaymentGooglePay    PaymentMethodType = "google-pay"
	PaymentUPI          PaymentMethodType = "upi"
	PaymentBankTransfer PaymentMethodType = "bank-transfer"
)

// PaymentMethod is a saved payment instrument. Full card numbers are never stored.
type PaymentMethod struct {
	ID        string            `json:"id"`
	Type      PaymentMethodType `json:"type"`
	Last4     string            `json:"last4,omitempty"`
	Brand     string            `json:"brand,omitempty"`
	Expiry    string            `json:"expiry,omitempty"`
	IsDefault bool              `json:"isDefault"`
	Country   string            `json:"country,omitempty"`
}

// OrderStatus is advanced by fulfillment, outside this engine.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Order is an immutable record of a placed checkout. Total is in Currency.
type Order struct {
	ID              string          `json:"id"`
	Items           []CartItem      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	ShippingAddress address.Address `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	Currency        string          `json:"currency"`
}

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ViewMode is the product listing layout preference.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// UIFlags are transient panel states. They are not persisted.
type UIFlags struct {
	CartOpen       bool `json:"cartOpen"`
	MobileMenuOpen bool `json:"mobileMenuOpen"`
	CheckoutOpen   bool `json:"checkoutOpen"`
}
