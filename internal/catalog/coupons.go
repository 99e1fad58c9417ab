package catalog

import (
	"context"
	"strings"
	"time"

	"pos_core/internal/pos"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CouponInput is the editable part of a coupon. Dates accept YYYY-MM-DD or
// RFC 3339.
type CouponInput struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Type        pos.DiscountType `json:"type"`
	Value       float64          `json:"value"`
	MinPurchase float64          `json:"minPurchase"`
	StartDate   string           `json:"startDate"`
	EndDate     string           `json:"endDate"`
	MaxUses     int              `json:"maxUses"`
	Active      bool             `json:"active"`
}

func (in CouponInput) coupon() (pos.Coupon, error) {
	code := pos.NormalizeCode(in.Code)
	name := strings.TrimSpace(in.Name)
	switch {
	case code == "":
		return pos.Coupon{}, pos.Validation(pos.ErrInvalidCoupon, "code is required")
	case name == "":
		return pos.Coupon{}, pos.Validation(pos.ErrInvalidCoupon, "name is required")
	case !in.Type.Valid():
		return pos.Coupon{}, pos.Validation(pos.ErrInvalidCoupon, "unknown type %q", in.Type)
	case in.Value <= 0:
		return pos.Coupon{}, pos.Validation(pos.ErrInvalidCoupon, "value must be positive")
	case in.Type == pos.DiscountPercent && in.Value > 100:
		return pos.Coupon{}, pos.Validation(pos.ErrInvalidCoupon, "percent value above 100")
	case in.MinPurchase < 0:
		return pos.Coupon{}, pos.Validation(pos.ErrInvalidCoupon, "minimum purchase cannot be negative")
	case in.MaxUses < 0:
		return pos.Coupon{}, pos.Validation(pos.ErrInvalidCoupon, "max uses cannot be negative")
	}

	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return pos.Coupon{}, err
	}

	return pos.Coupon{
		Code:        code,
		Name:        name,
		Type:        in.Type,
		Value:       in.Value,
		MinPurchase: in.MinPurchase,
		StartDate:   start,
		EndDate:     end,
		MaxUses:     in.MaxUses,
		Active:      in.Active,
	}, nil
}

// CouponStatus is the label shown in coupon listings.
type CouponStatus string

const (
	CouponStatusActive    CouponStatus = "active"
	CouponStatusExhausted CouponStatus = "exhausted"
	CouponStatusInactive  CouponStatus = "inactive"
)

type CouponListing struct {
	pos.Coupon
	Status CouponStatus `json:"status"`
}

func couponStatus(c pos.Coupon, now time.Time) CouponStatus {
	if c.Exhausted() {
		return CouponStatusExhausted
	}
	if c.Active && !now.Before(c.StartDate) && !now.After(c.EndDate) {
		return CouponStatusActive
	}
	return CouponStatusInactive
}

func (s *Service) Coupons() []CouponListing {
	now := s.now()
	out := []CouponListing{}
	_ = s.store.View(func(st *pos.State) error {
		for _, c := range st.Coupons {
			out = append(out, CouponListing{Coupon: c, Status: couponStatus(c, now)})
		}
		return nil
	})
	return out
}

func codeTaken(st *pos.State, code, exceptID string) bool {
	existing := st.FindCouponByCode(code)
	return existing != nil && existing.ID != exceptID
}

func (s *Service) CreateCoupon(ctx context.Context, in CouponInput) (pos.Coupon, error) {
	c, err := in.coupon()
	if err != nil {
		return pos.Coupon{}, err
	}
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()

	err = s.store.Update(ctx, func(st *pos.State) error {
		if codeTaken(st, c.Code, "") {
			return pos.Conflict(pos.ErrDuplicateCouponCode, "code %s", c.Code)
		}
		st.Coupons = append(st.Coupons, c)
		return nil
	})
	if err != nil {
		return pos.Coupon{}, err
	}
	s.logger.Info("coupon created", zap.String("coupon_id", c.ID), zap.String("code", c.Code))
	return c, nil
}

// UpdateCoupon replaces the editable fields. Usage count and creation time
// are kept.
func (s *Service) UpdateCoupon(ctx context.Context, id string, in CouponInput) (pos.Coupon, error) {
	c, err := in.coupon()
	if err != nil {
		return pos.Coupon{}, err
	}

	err = s.store.Update(ctx, func(st *pos.State) error {
		existing := st.FindCoupon(id)
		if existing == nil {
			return pos.NotFound(pos.ErrCouponNotFound, "id %s", id)
		}
		if codeTaken(st, c.Code, id) {
			return pos.Conflict(pos.ErrDuplicateCouponCode, "code %s", c.Code)
		}
		c.ID = existing.ID
		c.Uses = existing.Uses
		c.CreatedAt = existing.CreatedAt
		*existing = c
		return nil
	})
	if err != nil {
		return pos.Coupon{}, err
	}
	return c, nil
}

// DeleteCoupon removes the coupon and detaches it from the cart.
func (s *Service) DeleteCoupon(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(st *pos.State) error {
		if st.FindCoupon(id) == nil {
			return pos.NotFound(pos.ErrCouponNotFound, "id %s", id)
		}
		coupons := st.Coupons[:0]
		for _, c := range st.Coupons {
			if c.ID != id {
				coupons = append(coupons, c)
			}
		}
		st.Coupons = coupons
		if st.AppliedCouponID == id {
			st.AppliedCouponID = ""
		}
		return nil
	})
}
