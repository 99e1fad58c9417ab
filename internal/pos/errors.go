package pos

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers deciding how to surface it.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPrecondition
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindPrecondition:
		return "PRECONDITION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrMissingReceivedAmount = errors.New("received amount is required")
	ErrInsufficientPayment   = errors.New("received amount is less than total")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrNoCheckout            = errors.New("no checkout in progress")

	ErrProductNotFound = errors.New("product not found")
	ErrItemNotInCart   = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidDiscount = errors.New("invalid discount")
	ErrInvalidProduct  = errors.New("invalid product")

	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponRejected      = errors.New("coupon rejected")
	ErrCouponCodeRequired  = errors.New("coupon code is required")
	ErrDuplicateCouponCode = errors.New("coupon code already exists")
	ErrInvalidCoupon       = errors.New("invalid coupon")
	ErrInvalidDateRange    = errors.New("start date is after end date")
	ErrPromotionNotFound   = errors.New("promotion not found")
	ErrInvalidPromotion    = errors.New("invalid promotion")
	ErrInvalidCampaign     = errors.New("invalid campaign")

	ErrSaleNotFound = errors.New("sale not found")
	ErrInvalidDate  = errors.New("invalid date")

	ErrCashSessionOpen   = errors.New("cash session already open")
	ErrCashSessionClosed = errors.New("cash session is not open")
	ErrNegativeAmount    = errors.New("amount cannot be negative")

	ErrInvalidSettings    = errors.New("invalid settings")
	ErrInvalidStorageType = errors.New("invalid storage type")
)

// Error attaches a Kind and an optional detail to a sentinel error.
type Error struct {
	Kind   Kind
	Err    error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Err: err, Detail: detail}
}

// Validation marks bad input: the operation was aborted, nothing changed.
func Validation(err error, format string, args ...any) error {
	return newError(KindValidation, err, format, args...)
}

// Precondition marks a state that does not allow the operation.
func Precondition(err error, format string, args ...any) error {
	return newError(KindPrecondition, err, format, args...)
}

func NotFound(err error, format string, args ...any) error {
	return newError(KindNotFound, err, format, args...)
}

func Conflict(err error, format string, args ...any) error {
	return newError(KindConflict, err, format, args...)
}

// KindOf returns the Kind of the first *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// InsufficientStockError reports which product ran out and how much is left.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// StockError wraps an InsufficientStockError as a precondition failure.
func StockError(p *Product, requested int) error {
	available := 0
	if p.Stock != nil {
		available = *p.Stock
	}
	return &Error{
		Kind: KindPrecondition,
		Err: &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   available,
			Requested:   requested,
		},
	}
}
