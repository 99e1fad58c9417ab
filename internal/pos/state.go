package pos

import "slices"

// State is the whole mutable snapshot of the point of sale.
type State struct {
	Products     []Product    `json:"products"`
	Cart         []CartItem   `json:"cart"`
	Sales        []Sale       `json:"sales"`
	Settings     Settings     `json:"settings"`
	CashRegister CashRegister `json:"cashRegister"`
	Coupons      []Coupon     `json:"coupons"`
	Promotions   []Promotion  `json:"promotions"`
	Campaigns    []Campaign   `json:"campaigns"`

	// AppliedCouponID references a coupon in Coupons. It lives for the
	// cart session only and is never persisted.
	AppliedCouponID string `json:"-"`
}

// NewState returns an empty state with default settings.
func NewState() *State {
	return &State{
		Products:     []Product{},
		Cart:         []CartItem{},
		Sales:        []Sale{},
		Settings:     DefaultSettings(),
		CashRegister: DefaultCashRegister(),
		Coupons:      []Coupon{},
		Promotions:   []Promotion{},
		Campaigns:    []Campaign{},
	}
}

// DefaultCashRegister is a closed drawer with no history.
func DefaultCashRegister() CashRegister {
	return CashRegister{History: []CashSession{}}
}

// Normalize replaces nil slices with empty ones so they persist as [].
func (s *State) Normalize() {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Cart == nil {
		s.Cart = []CartItem{}
	}
	if s.Sales == nil {
		s.Sales = []Sale{}
	}
	if s.Coupons == nil {
		s.Coupons = []Coupon{}
	}
	if s.Promotions == nil {
		s.Promotions = []Promotion{}
	}
	if s.Campaigns == nil {
		s.Campaigns = []Campaign{}
	}
	if s.CashRegister.History == nil {
		s.CashRegister.History = []CashSession{}
	}
	if !s.Settings.StorageType.Valid() {
		s.Settings.StorageType = StorageKeyValue
	}
}

// FindProduct returns a pointer into Products, or nil.
func (s *State) FindProduct(id string) *Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// FindCartItem returns a pointer into Cart, or nil.
func (s *State) FindCartItem(productID string) *CartItem {
	for i := range s.Cart {
		if s.Cart[i].ID == productID {
			return &s.Cart[i]
		}
	}
	return nil
}

// FindCoupon returns a pointer into Coupons, or nil.
func (s *State) FindCoupon(id string) *Coupon {
	for i := range s.Coupons {
		if s.Coupons[i].ID == id {
			return &s.Coupons[i]
		}
	}
	return nil
}

// FindCouponByCode matches codes case-insensitively.
func (s *State) FindCouponByCode(code string) *Coupon {
	code = NormalizeCode(code)
	for i := range s.Coupons {
		if NormalizeCode(s.Coupons[i].Code) == code {
			return &s.Coupons[i]
		}
	}
	return nil
}

// AppliedCoupon resolves the cart's coupon reference. A coupon deleted after
// being applied resolves to nil.
func (s *State) AppliedCoupon() *Coupon {
	if s.AppliedCouponID == "" {
		return nil
	}
	return s.FindCoupon(s.AppliedCouponID)
}

// FindSale returns a pointer into Sales, or nil.
func (s *State) FindSale(id string) *Sale {
	for i := range s.Sales {
		if s.Sales[i].ID == id {
			return &s.Sales[i]
		}
	}
	return nil
}

// Clone deep-copies the state so the copy can be handed out or persisted
// without sharing backing arrays.
func (s *State) Clone() *State {
	out := &State{
		Products:        make([]Product, len(s.Products)),
		Cart:            make([]CartItem, len(s.Cart)),
		Sales:           make([]Sale, len(s.Sales)),
		Settings:        s.Settings.clone(),
		CashRegister:    s.CashRegister.clone(),
		Coupons:         slices.Clone(s.Coupons),
		Promotions:      make([]Promotion, len(s.Promotions)),
		Campaigns:       slices.Clone(s.Campaigns),
		AppliedCouponID: s.AppliedCouponID,
	}
	if out.Coupons == nil {
		out.Coupons = []Coupon{}
	}
	if out.Campaigns == nil {
		out.Campaigns = []Campaign{}
	}
	for i, p := range s.Products {
		out.Products[i] = p.Clone()
	}
	for i, item := range s.Cart {
		item.Product = item.Product.Clone()
		out.Cart[i] = item
	}
	for i, sale := range s.Sales {
		out.Sales[i] = sale.Clone()
	}
	for i, promo := range s.Promotions {
		promo.Products = slices.Clone(promo.Products)
		out.Promotions[i] = promo
	}
	return out
}

// Clone copies the optional pointer fields.
func (p Product) Clone() Product {
	if p.Cost != nil {
		cost := *p.Cost
		p.Cost = &cost
	}
	if p.Stock != nil {
		stock := *p.Stock
		p.Stock = &stock
	}
	return p
}

// Clone copies the item slice.
func (s Sale) Clone() Sale {
	s.Items = slices.Clone(s.Items)
	if s.Items == nil {
		s.Items = []SaleItem{}
	}
	return s
}

func (s Settings) clone() Settings {
	if s.Timezone != nil {
		tz := *s.Timezone
		s.Timezone = &tz
	}
	return s
}

func (c CashSession) clone() CashSession {
	if c.CloseDate != nil {
		t := *c.CloseDate
		c.CloseDate = &t
	}
	if c.Sales != nil {
		sales := make([]Sale, len(c.Sales))
		for i, sale := range c.Sales {
			sales[i] = sale.Clone()
		}
		c.Sales = sales
	}
	return c
}

func (r CashRegister) clone() CashRegister {
	if r.OpenDate != nil {
		t := *r.OpenDate
		r.OpenDate = &t
	}
	if r.CurrentSession != nil {
		session := r.CurrentSession.clone()
		r.CurrentSession = &session
	}
	history := make([]CashSession, len(r.History))
	for i, session := range r.History {
		history[i] = session.clone()
	}
	r.History = history
	return r
}
