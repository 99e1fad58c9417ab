package catalog

import (
	"context"
	"sort"
	"strings"

	"pos_core/internal/pos"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Code     string   `json:"code"`
	Category string   `json:"category"`
	Cost     *float64 `json:"cost"`
	Stock    *int     `json:"stock"`
	Quick    bool     `json:"quick"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return pos.Validation(pos.ErrInvalidProduct, "name is required")
	}
	if in.Price < 0 {
		return pos.Validation(pos.ErrInvalidProduct, "price cannot be negative")
	}
	if in.Cost != nil && *in.Cost < 0 {
		return pos.Validation(pos.ErrInvalidProduct, "cost cannot be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return pos.Validation(pos.ErrInvalidProduct, "stock cannot be negative")
	}
	return nil
}

func (in ProductInput) product(id string) pos.Product {
	p := pos.Product{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Price:    in.Price,
		Code:     strings.TrimSpace(in.Code),
		Category: strings.TrimSpace(in.Category),
		Cost:     in.Cost,
		Stock:    in.Stock,
		Quick:    in.Quick,
	}
	return p.Clone()
}

// ProductFilter narrows a product listing. Zero values match everything.
type ProductFilter struct {
	// Query matches a name substring or an exact code, ignoring case.
	Query    string
	Category string
	Quick    bool
}

func (f ProductFilter) match(p pos.Product) bool {
	if f.Quick && !p.Quick {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.ToLower(p.Code) == q
	}
	return true
}

func (s *Service) Products(filter ProductFilter) []pos.Product {
	out := []pos.Product{}
	_ = s.store.View(func(st *pos.State) error {
		for _, p := range st.Products {
			if filter.match(p) {
				out = append(out, p.Clone())
			}
		}
		return nil
	})
	return out
}

func (s *Service) Product(id string) (pos.Product, error) {
	var out pos.Product
	err := s.store.View(func(st *pos.State) error {
		p := st.FindProduct(id)
		if p == nil {
			return pos.NotFound(pos.ErrProductNotFound, "id %s", id)
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

// Categories lists the distinct non-empty categories, sorted.
func (s *Service) Categories() []string {
	seen := map[string]struct{}{}
	_ = s.store.View(func(st *pos.State) error {
		for _, p := range st.Products {
			if p.Category != "" {
				seen[p.Category] = struct{}{}
			}
		}
		return nil
	})
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (pos.Product, error) {
	if err := in.validate(); err != nil {
		return pos.Product{}, err
	}
	p := in.product(uuid.NewString())

	err := s.store.Update(ctx, func(st *pos.State) error {
		st.Products = append(st.Products, p.Clone())
		return nil
	})
	if err != nil {
		return pos.Product{}, err
	}
	s.logger.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdateProduct replaces every editable field. Lines already in the cart keep
// the values copied when they were added.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (pos.Product, error) {
	if err := in.validate(); err != nil {
		return pos.Product{}, err
	}
	p := in.product(id)

	err := s.store.Update(ctx, func(st *pos.State) error {
		existing := st.FindProduct(id)
		if existing == nil {
			return pos.NotFound(pos.ErrProductNotFound, "id %s", id)
		}
		*existing = p.Clone()
		return nil
	})
	if err != nil {
		return pos.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes the product and its cart line.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(st *pos.State) error {
		if st.FindProduct(id) == nil {
			return pos.NotFound(pos.ErrProductNotFound, "id %s", id)
		}

		products := st.Products[:0]
		for _, p := range st.Products {
			if p.ID != id {
				products = append(products, p)
			}
		}
		st.Products = products

		cart := st.Cart[:0]
		for _, item := range st.Cart {
			if item.ID != id {
				cart = append(cart, item)
			}
		}
		st.Cart = cart
		return nil
	})
}

// DefaultProducts is the sample catalog a fresh install starts with.
func DefaultProducts() []pos.Product {
	cost := func(v float64) *float64 { return &v }
	stock := func(v int) *int { return &v }
	return []pos.Product{
		{ID: "1", Name: "Café", Price: 3.50, Category: "Bebidas", Cost: cost(1.00), Stock: stock(100), Quick: true},
		{ID: "2", Name: "Pão de Açúcar", Price: 2.00, Category: "Padaria", Cost: cost(0.80), Stock: stock(50), Quick: true},
		{ID: "3", Name: "Refrigerante", Price: 5.00, Category: "Bebidas", Cost: cost(2.50), Stock: stock(30), Quick: true},
		{ID: "4", Name: "Salgadinho", Price: 4.50, Category: "Snacks", Cost: cost(2.00), Stock: stock(40)},
		{ID: "5", Name: "Água", Price: 2.50, Category: "Bebidas", Cost: cost(1.00), Stock: stock(60), Quick: true},
		{ID: "6", Name: "Chocolate", Price: 6.00, Category: "Doces", Cost: cost(3.00), Stock: stock(25)},
	}
}

// SeedDefaults installs DefaultProducts when the catalog is empty and returns
// how many were added.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	var empty bool
	_ = s.store.View(func(st *pos.State) error {
		empty = len(st.Products) == 0
		return nil
	})
	if !empty {
		return 0, nil
	}

	added := 0
	err := s.store.Update(ctx, func(st *pos.State) error {
		if len(st.Products) == 0 {
			st.Products = DefaultProducts()
			added = len(st.Products)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("sample products loaded", zap.Int("count", added))
	return added, nil
}
