package cart

import (
	"context"
	"strings"
	"time"

	"pos_core/internal/pos"
	"pos_core/internal/pricing"

	"go.uber.org/zap"
)

// Line is a cart item with its computed total.
type Line struct {
	pos.CartItem
	Total float64 `json:"total"`
}

// View is the rendered cart.
type View struct {
	Items     []Line         `json:"items"`
	ItemCount int            `json:"itemCount"`
	Totals    pricing.Totals `json:"totals"`
	Coupon    *pos.Coupon    `json:"coupon,omitempty"`
	// Warning is set when a quantity was clamped to the available stock.
	Warning string `json:"warning,omitempty"`
}

// CouponResult is returned by ApplyCoupon whether or not the coupon was
// accepted.
type CouponResult struct {
	Status  pricing.CouponStatus `json:"status"`
	Message string               `json:"message"`
	Cart    View                 `json:"cart"`
}

type Service struct {
	store  *pos.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store *pos.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger.Named("cart"),
		now:    time.Now,
	}
}

// Get renders the current cart.
func (s *Service) Get() View {
	var v View
	_ = s.store.View(func(st *pos.State) error {
		v = render(st)
		return nil
	})
	return v
}

// Add puts quantity units of a product in the cart. Adding a product already
// in the cart increments its line; if that exceeds stock the line is clamped
// and a warning returned.
func (s *Service) Add(ctx context.Context, productID string, quantity int) (View, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return View{}, pos.Validation(pos.ErrInvalidQuantity, "got %d", quantity)
	}

	var v View
	err := s.store.Update(ctx, func(st *pos.State) error {
		product := st.FindProduct(productID)
		if product == nil {
			return pos.NotFound(pos.ErrProductNotFound, "id %s", productID)
		}
		if product.TracksStock() && *product.Stock < quantity {
			return pos.StockError(product, quantity)
		}

		warning := ""
		if item := st.FindCartItem(productID); item != nil {
			item.Quantity += quantity
			warning = clampToStock(st, item, product)
		} else {
			st.Cart = append(st.Cart, pos.CartItem{
				Product:      product.Clone(),
				Quantity:     quantity,
				DiscountType: pos.DiscountPercent,
			})
		}

		v = render(st)
		v.Warning = warning
		return nil
	})
	if err != nil {
		s.logger.Info("add to cart rejected", zap.String("product_id", productID), zap.Error(err))
		return View{}, err
	}
	return v, nil
}

// SearchAdd adds one unit of the first product whose name contains query or
// whose code equals it, case-insensitively.
func (s *Service) SearchAdd(ctx context.Context, query string) (View, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return View{}, pos.Validation(pos.ErrInvalidProduct, "search query is empty")
	}

	var productID string
	_ = s.store.View(func(st *pos.State) error {
		for _, p := range st.Products {
			if strings.Contains(strings.ToLower(p.Name), query) || strings.ToLower(p.Code) == query {
				productID = p.ID
				break
			}
		}
		return nil
	})
	if productID == "" {
		return View{}, pos.NotFound(pos.ErrProductNotFound, "no match for %q", query)
	}
	return s.Add(ctx, productID, 1)
}

// Remove drops a line from the cart. Removing a missing line is not an error.
func (s *Service) Remove(ctx context.Context, productID string) (View, error) {
	var v View
	err := s.store.Update(ctx, func(st *pos.State) error {
		removeLine(st, productID)
		v = render(st)
		return nil
	})
	return v, err
}

// UpdateQuantity changes a line by delta. A result of zero or less removes the
// line; a result above stock is clamped.
func (s *Service) UpdateQuantity(ctx context.Context, productID string, delta int) (View, error) {
	var v View
	err := s.store.Update(ctx, func(st *pos.State) error {
		item := st.FindCartItem(productID)
		if item == nil {
			return pos.NotFound(pos.ErrItemNotInCart, "id %s", productID)
		}

		warning := ""
		item.Quantity += delta
		if item.Quantity <= 0 {
			removeLine(st, productID)
		} else if product := st.FindProduct(productID); product != nil {
			warning = clampToStock(st, item, product)
		}

		v = render(st)
		v.Warning = warning
		return nil
	})
	return v, err
}

// ApplyItemDiscount sets the discount of one line.
func (s *Service) ApplyItemDiscount(ctx context.Context, productID string, discount float64, discountType pos.DiscountType) (View, error) {
	if discountType == "" {
		discountType = pos.DiscountPercent
	}
	if !discountType.Valid() {
		return View{}, pos.Validation(pos.ErrInvalidDiscount, "unknown discount type %q", discountType)
	}
	if discount < 0 {
		return View{}, pos.Validation(pos.ErrInvalidDiscount, "discount cannot be negative")
	}

	var v View
	err := s.store.Update(ctx, func(st *pos.State) error {
		item := st.FindCartItem(productID)
		if item == nil {
			return pos.NotFound(pos.ErrItemNotInCart, "id %s", productID)
		}
		item.Discount = discount
		item.DiscountType = discountType
		v = render(st)
		return nil
	})
	return v, err
}

// Clear empties the cart and drops the applied coupon.
func (s *Service) Clear(ctx context.Context) (View, error) {
	var v View
	err := s.store.Update(ctx, func(st *pos.State) error {
		st.Cart = []pos.CartItem{}
		st.AppliedCouponID = ""
		v = render(st)
		return nil
	})
	return v, err
}

// ApplyCoupon validates code against the cart. Acceptance sets the applied
// coupon; any rejection clears it. A rejection is reported in the result, not
// as an error.
func (s *Service) ApplyCoupon(ctx context.Context, code string) (CouponResult, error) {
	code = pos.NormalizeCode(code)
	if code == "" {
		return CouponResult{}, pos.Validation(pos.ErrCouponCodeRequired, "")
	}

	var res CouponResult
	err := s.store.Update(ctx, func(st *pos.State) error {
		coupon := st.FindCouponByCode(code)
		status := pricing.ValidateCoupon(coupon, pricing.SubtotalAfterItemDiscounts(st.Cart), s.now())

		st.AppliedCouponID = ""
		if status == pricing.CouponAccepted {
			st.AppliedCouponID = coupon.ID
		}

		res = CouponResult{Status: status, Message: status.Message(), Cart: render(st)}
		return nil
	})
	if err != nil {
		return CouponResult{}, err
	}

	s.logger.Info("coupon evaluated", zap.String("code", code), zap.String("status", string(res.Status)))
	return res, nil
}

func (s *Service) RemoveCoupon(ctx context.Context) (View, error) {
	var v View
	err := s.store.Update(ctx, func(st *pos.State) error {
		st.AppliedCouponID = ""
		v = render(st)
		return nil
	})
	return v, err
}

// ChangePreview is received minus the current cart total; negative means the
// customer still owes.
func (s *Service) ChangePreview(received float64) float64 {
	return pricing.Change(received, s.Get().Totals.Total)
}

func render(st *pos.State) View {
	coupon := st.AppliedCoupon()
	v := View{
		Items:  make([]Line, 0, len(st.Cart)),
		Totals: pricing.CartTotals(st.Cart, coupon),
	}
	for _, item := range st.Cart {
		item.Product = item.Product.Clone()
		v.Items = append(v.Items, Line{CartItem: item, Total: pricing.ItemTotal(item)})
		v.ItemCount += item.Quantity
	}
	if coupon != nil {
		c := *coupon
		v.Coupon = &c
	}
	return v
}

func removeLine(st *pos.State, productID string) {
	out := st.Cart[:0]
	for _, item := range st.Cart {
		if item.ID != productID {
			out = append(out, item)
		}
	}
	st.Cart = out
}

// clampToStock caps item at the product's stock. A line clamped to zero is
// removed so every line keeps quantity >= 1.
func clampToStock(st *pos.State, item *pos.CartItem, product *pos.Product) string {
	if !product.TracksStock() || item.Quantity <= *product.Stock {
		return ""
	}
	warning := pos.StockError(product, item.Quantity).Error()
	item.Quantity = *product.Stock
	if item.Quantity <= 0 {
		removeLine(st, product.ID)
	}
	return warning
}
