package catalog

import (
	"context"
	"slices"
	"strings"

	"pos_core/internal/pos"

	"github.com/google/uuid"
)

// PromotionInput is the editable part of a promotion. Promotions are stored
// and listed; pricing ignores them.
type PromotionInput struct {
	Name      string            `json:"name"`
	Type      pos.PromotionType `json:"type"`
	Products  []string          `json:"products"`
	Discount  float64           `json:"discount"`
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Active    bool              `json:"active"`
}

func (in PromotionInput) promotion() (pos.Promotion, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return pos.Promotion{}, pos.Validation(pos.ErrInvalidPromotion, "name is required")
	case !in.Type.Valid():
		return pos.Promotion{}, pos.Validation(pos.ErrInvalidPromotion, "unknown type %q", in.Type)
	case in.Discount < 0:
		return pos.Promotion{}, pos.Validation(pos.ErrInvalidPromotion, "discount cannot be negative")
	}

	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return pos.Promotion{}, err
	}

	products := slices.Clone(in.Products)
	if products == nil {
		products = []string{}
	}
	return pos.Promotion{
		Name:      name,
		Type:      in.Type,
		Products:  products,
		Discount:  in.Discount,
		StartDate: start,
		EndDate:   end,
		Active:    in.Active,
	}, nil
}

type PromotionListing struct {
	pos.Promotion
	// Status is "active" while the promotion is enabled and inside its
	// date range, "inactive" otherwise.
	Status string `json:"status"`
}

func (s *Service) Promotions() []PromotionListing {
	now := s.now()
	out := []PromotionListing{}
	_ = s.store.View(func(st *pos.State) error {
		for _, p := range st.Promotions {
			status := "inactive"
			if p.Active && !now.Before(p.StartDate) && !now.After(p.EndDate) {
				status = "active"
			}
			p.Products = slices.Clone(p.Products)
			out = append(out, PromotionListing{Promotion: p, Status: status})
		}
		return nil
	})
	return out
}

func (s *Service) CreatePromotion(ctx context.Context, in PromotionInput) (pos.Promotion, error) {
	p, err := in.promotion()
	if err != nil {
		return pos.Promotion{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()

	err = s.store.Update(ctx, func(st *pos.State) error {
		st.Promotions = append(st.Promotions, p)
		return nil
	})
	if err != nil {
		return pos.Promotion{}, err
	}
	return p, nil
}

func (s *Service) UpdatePromotion(ctx context.Context, id string, in PromotionInput) (pos.Promotion, error) {
	p, err := in.promotion()
	if err != nil {
		return pos.Promotion{}, err
	}

	err = s.store.Update(ctx, func(st *pos.State) error {
		for i := range st.Promotions {
			if st.Promotions[i].ID == id {
				p.ID = id
				p.CreatedAt = st.Promotions[i].CreatedAt
				st.Promotions[i] = p
				return nil
			}
		}
		return pos.NotFound(pos.ErrPromotionNotFound, "id %s", id)
	})
	if err != nil {
		return pos.Promotion{}, err
	}
	return p, nil
}

func (s *Service) DeletePromotion(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(st *pos.State) error {
		i := slices.IndexFunc(st.Promotions, func(p pos.Promotion) bool { return p.ID == id })
		if i < 0 {
			return pos.NotFound(pos.ErrPromotionNotFound, "id %s", id)
		}
		st.Promotions = slices.Delete(st.Promotions, i, i+1)
		return nil
	})
}

type CampaignInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) Campaigns() []pos.Campaign {
	var out []pos.Campaign
	_ = s.store.View(func(st *pos.State) error {
		out = slices.Clone(st.Campaigns)
		return nil
	})
	if out == nil {
		out = []pos.Campaign{}
	}
	return out
}

func (s *Service) CreateCampaign(ctx context.Context, in CampaignInput) (pos.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return pos.Campaign{}, pos.Validation(pos.ErrInvalidCampaign, "name is required")
	}
	c := pos.Campaign{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	}

	err := s.store.Update(ctx, func(st *pos.State) error {
		st.Campaigns = append(st.Campaigns, c)
		return nil
	})
	if err != nil {
		return pos.Campaign{}, err
	}
	return c, nil
}
