package pos

import (
	"strings"
	"time"
)

// DiscountType tells whether a discount value is a percentage or a flat amount.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercent || t == DiscountAmount
}

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCredit, PaymentDebit:
		return true
	}
	return false
}

// Label is the fixed pt-BR name used in reports and exports.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Dinheiro"
	case PaymentPix:
		return "Pix"
	case PaymentCredit:
		return "Crédito"
	case PaymentDebit:
		return "Débito"
	case "":
		return "N/A"
	}
	return string(m)
}

// StorageType selects the persistence backend.
type StorageType string

const (
	StorageKeyValue StorageType = "keyValue"
	StorageDocument StorageType = "document"
)

func (t StorageType) Valid() bool {
	return t == StorageKeyValue || t == StorageDocument
}

// PromotionType is informational only; promotions never change totals.
type PromotionType string

const (
	PromotionDiscount     PromotionType = "discount"
	PromotionBuyXGetY     PromotionType = "buyxgety"
	PromotionFreeShipping PromotionType = "freeShipping"
)

func (t PromotionType) Valid() bool {
	switch t {
	case PromotionDiscount, PromotionBuyXGetY, PromotionFreeShipping:
		return true
	}
	return false
}

// Product is a catalog entry. A nil Stock means stock is not tracked.
type Product struct {
	ID       string   `json:"id" bson:"_id"`
	Name     string   `json:"name" bson:"name"`
	Price    float64  `json:"price" bson:"price"`
	Code     string   `json:"code" bson:"code"`
	Category string   `json:"category" bson:"category"`
	Cost     *float64 `json:"cost,omitempty" bson:"cost,omitempty"`
	Stock    *int     `json:"stock,omitempty" bson:"stock,omitempty"`
	Quick    bool     `json:"quick" bson:"quick"`
}

// TracksStock reports whether the product declares a stock level.
func (p *Product) TracksStock() bool {
	return p.Stock != nil
}

// CartItem is a product copied into the cart plus quantity and discount.
type CartItem struct {
	Product
	Quantity     int          `json:"quantity"`
	Discount     float64      `json:"discount"`
	DiscountType DiscountType `json:"discountType"`
}

// Coupon is a discount code with validity and usage limits.
type Coupon struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Type        DiscountType `json:"type"`
	Value       float64      `json:"value"`
	MinPurchase float64      `json:"minPurchase"`
	StartDate   time.Time    `json:"startDate"`
	EndDate     time.Time    `json:"endDate"`
	MaxUses     int          `json:"maxUses"`
	Uses        int          `json:"uses"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Exhausted reports whether a limited coupon reached its usage cap.
func (c *Coupon) Exhausted() bool {
	return c.MaxUses > 0 && c.Uses >= c.MaxUses
}

// Promotion is listed and persisted but has no pricing effect.
type Promotion struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Type      PromotionType `json:"type"`
	Products  []string      `json:"products"`
	Discount  float64       `json:"discount"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	Active    bool          `json:"active"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Campaign is a named marketing note.
type Campaign struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SaleItem is the snapshot of a cart line stored with a sale.
type SaleItem struct {
	ID           string       `json:"id" bson:"id"`
	Name         string       `json:"name" bson:"name"`
	Price        float64      `json:"price" bson:"price"`
	Quantity     int          `json:"quantity" bson:"quantity"`
	Discount     float64      `json:"discount" bson:"discount"`
	DiscountType DiscountType `json:"discountType" bson:"discountType"`
}

// Sale is an immutable record of a completed checkout.
type Sale struct {
	ID             string        `json:"id" bson:"_id"`
	Date           time.Time     `json:"date" bson:"date"`
	Items          []SaleItem    `json:"items" bson:"items"`
	Subtotal       float64       `json:"subtotal" bson:"subtotal"`
	Discount       float64       `json:"discount" bson:"discount"`
	CouponDiscount float64       `json:"couponDiscount" bson:"couponDiscount"`
	CouponCode     string        `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	Tax            float64       `json:"tax" bson:"tax"`
	Total          float64       `json:"total" bson:"total"`
	PaymentMethod  PaymentMethod `json:"paymentMethod" bson:"paymentMethod"`
	ReceivedAmount float64       `json:"receivedAmount" bson:"receivedAmount"`
	Change         float64       `json:"change" bson:"change"`
	CPF            string        `json:"cpf,omitempty" bson:"cpf,omitempty"`
}

// CashSession is one open-to-close window of the cash drawer.
type CashSession struct {
	OpenDate       time.Time  `json:"openDate"`
	InitialAmount  float64    `json:"initialAmount"`
	CloseDate      *time.Time `json:"closeDate,omitempty"`
	FinalAmount    float64    `json:"finalAmount"`
	ExpectedAmount float64    `json:"expectedAmount"`
	CashSales      float64    `json:"cashSales"`
	TotalSales     int        `json:"totalSales"`
	Difference     float64    `json:"difference"`
	Sales          []Sale     `json:"sales,omitempty"`
}

// CashRegister holds the active session and the closed-session log.
type CashRegister struct {
	IsOpen         bool          `json:"isOpen"`
	OpenDate       *time.Time    `json:"openDate"`
	InitialAmount  float64       `json:"initialAmount"`
	CurrentSession *CashSession  `json:"currentSession"`
	History        []CashSession `json:"history"`
}

// Settings is the single configuration record persisted with the state.
type Settings struct {
	BusinessName string      `json:"businessName"`
	Currency     string      `json:"currency"`
	TaxRate      float64     `json:"taxRate"`
	Theme        string      `json:"theme"`
	StorageType  StorageType `json:"storageType"`
	// Timezone is a UTC offset in hours; nil means the host zone.
	Timezone    *int   `json:"timezone"`
	PixKeyType  string `json:"pixKeyType"`
	PixKeyValue string `json:"pixKeyValue"`
}

// Location returns the zone used for calendar-day boundaries.
func (s Settings) Location() *time.Location {
	if s.Timezone == nil {
		return time.Local
	}
	return time.FixedZone("", *s.Timezone*3600)
}

// DefaultSettings mirrors the values a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		BusinessName: "VendaNinja",
		Currency:     "R$",
		Theme:        "light",
		StorageType:  StorageKeyValue,
	}
}

// NormalizeCode is applied to coupon codes on both store and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
