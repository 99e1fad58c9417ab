package sales

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pos_core/internal/metrics"
	"pos_core/internal/pos"
	"pos_core/internal/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase is the checkout lifecycle position. Validating only exists while
// ConfirmCheckout holds the lock, so callers of Status never observe it.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseDrafting   Phase = "drafting"
	PhaseValidating Phase = "validating"
	PhaseCommitted  Phase = "committed"
)

// Checkout is the draft shown while the customer pays.
type Checkout struct {
	Phase     Phase          `json:"phase"`
	Totals    pricing.Totals `json:"totals"`
	ItemCount int            `json:"itemCount"`
	OpenedAt  *time.Time     `json:"openedAt,omitempty"`
	// SaleID is set once the checkout is committed.
	SaleID string `json:"saleId,omitempty"`
}

// Payment is what the operator enters to confirm a checkout.
type Payment struct {
	Method         pos.PaymentMethod `json:"paymentMethod"`
	ReceivedAmount float64           `json:"receivedAmount"`
	CPF            string            `json:"cpf"`
}

// Service records sales. One checkout can be in progress at a time.
type Service struct {
	store   *pos.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	checkout Checkout
}

// NewService creates a new Service.
func NewService(store *pos.Store, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:    store,
		metrics:  m,
		logger:   logger.Named("sales"),
		now:      time.Now,
		checkout: Checkout{Phase: PhaseIdle},
	}
}

// Status returns the current checkout.
func (s *Service) Status() Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout
}

// OpenCheckout checks the cart and enters Drafting. Opening again while
// drafting refreshes the draft.
func (s *Service) OpenCheckout() (Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var totals pricing.Totals
	var count int
	err := s.store.View(func(st *pos.State) error {
		if err := checkCart(st); err != nil {
			return err
		}
		totals = pricing.CartTotals(st.Cart, st.AppliedCoupon())
		for _, item := range st.Cart {
			count += item.Quantity
		}
		return nil
	})
	if err != nil {
		s.reject(err)
		return Checkout{}, err
	}

	openedAt := s.now()
	s.checkout = Checkout{
		Phase:     PhaseDrafting,
		Totals:    totals,
		ItemCount: count,
		OpenedAt:  &openedAt,
	}
	return s.checkout, nil
}

// ConfirmCheckout validates payment and commits the sale. The cart, stock and
// totals are read again inside the commit so concurrent changes since
// OpenCheckout cannot oversell. On failure the checkout stays in Drafting and
// nothing is mutated.
func (s *Service) ConfirmCheckout(ctx context.Context, payment Payment) (*pos.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkout.Phase != PhaseDrafting {
		return nil, pos.Precondition(pos.ErrNoCheckout, "open a checkout first")
	}
	s.checkout.Phase = PhaseValidating

	sale, err := s.commit(ctx, payment)
	if err != nil {
		s.checkout.Phase = PhaseDrafting
		s.reject(err)
		s.logger.Info("checkout rejected",
			zap.String("payment_method", string(payment.Method)),
			zap.Float64("received", payment.ReceivedAmount),
			zap.Error(err),
		)
		return nil, err
	}

	s.checkout.Phase = PhaseCommitted
	s.checkout.SaleID = sale.ID
	s.metrics.SaleCommitted(string(sale.PaymentMethod), sale.Total)
	s.logger.Info("sale committed",
		zap.String("sale_id", sale.ID),
		zap.Float64("total", sale.Total),
		zap.String("payment_method", string(sale.PaymentMethod)),
		zap.Int("items", len(sale.Items)),
	)
	return sale, nil
}

// CancelCheckout discards the draft. The cart is left as it was.
func (s *Service) CancelCheckout() (Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkout.Phase != PhaseDrafting {
		return s.checkout, pos.Precondition(pos.ErrNoCheckout, "nothing to cancel")
	}
	s.checkout = Checkout{Phase: PhaseIdle}
	return s.checkout, nil
}

func (s *Service) commit(ctx context.Context, payment Payment) (*pos.Sale, error) {
	if payment.Method == "" {
		payment.Method = pos.PaymentCash
	}
	if !payment.Method.Valid() {
		return nil, pos.Validation(pos.ErrInvalidPaymentMethod, "%q", payment.Method)
	}

	var sale pos.Sale
	err := s.store.Update(ctx, func(st *pos.State) error {
		if err := checkCart(st); err != nil {
			return err
		}

		coupon := st.AppliedCoupon()
		totals := pricing.CartTotals(st.Cart, coupon)

		received, change := totals.Total, 0.0
		if payment.Method == pos.PaymentCash {
			if payment.ReceivedAmount <= 0 {
				return pos.Precondition(pos.ErrMissingReceivedAmount, "")
			}
			if payment.ReceivedAmount < totals.Total {
				return pos.Precondition(pos.ErrInsufficientPayment, "received %.2f, total %.2f", payment.ReceivedAmount, totals.Total)
			}
			received = payment.ReceivedAmount
			change = pricing.Change(payment.ReceivedAmount, totals.Total)
		}

		sale = pos.Sale{
			ID:             uuid.NewString(),
			Date:           s.now(),
			Items:          snapshot(st.Cart),
			Subtotal:       totals.Subtotal,
			Discount:       totals.Discount(),
			CouponDiscount: totals.CouponDiscount,
			Tax:            0,
			Total:          totals.Total,
			PaymentMethod:  payment.Method,
			ReceivedAmount: received,
			Change:         change,
			CPF:            strings.TrimSpace(payment.CPF),
		}
		if coupon != nil {
			sale.CouponCode = coupon.Code
		}

		for _, item := range st.Cart {
			if p := st.FindProduct(item.ID); p != nil && p.TracksStock() {
				*p.Stock -= item.Quantity
			}
		}
		st.Sales = append(st.Sales, sale.Clone())
		if coupon != nil {
			if c := st.FindCoupon(coupon.ID); c != nil {
				c.Uses++
			}
		}
		st.Cart = []pos.CartItem{}
		st.AppliedCouponID = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// checkCart enforces the checkout preconditions: a non-empty cart whose
// tracked products have enough stock.
func checkCart(st *pos.State) error {
	if len(st.Cart) == 0 {
		return pos.Precondition(pos.ErrEmptyCart, "")
	}
	for _, item := range st.Cart {
		p := st.FindProduct(item.ID)
		if p != nil && p.TracksStock() && *p.Stock < item.Quantity {
			return pos.StockError(p, item.Quantity)
		}
	}
	return nil
}

func snapshot(cart []pos.CartItem) []pos.SaleItem {
	items := make([]pos.SaleItem, len(cart))
	for i, item := range cart {
		discountType := item.DiscountType
		if discountType == "" {
			discountType = pos.DiscountPercent
		}
		items[i] = pos.SaleItem{
			ID:           item.ID,
			Name:         item.Name,
			Price:        item.Price,
			Quantity:     item.Quantity,
			Discount:     item.Discount,
			DiscountType: discountType,
		}
	}
	return items
}

func (s *Service) reject(err error) {
	s.metrics.CheckoutRejected(rejectReason(err))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, pos.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, pos.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, pos.ErrMissingReceivedAmount):
		return "missing_received_amount"
	case errors.Is(err, pos.ErrInsufficientPayment):
		return "insufficient_payment"
	case errors.Is(err, pos.ErrInvalidPaymentMethod):
		return "invalid_payment_method"
	}
	return "other"
}
