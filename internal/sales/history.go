package sales

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"pos_core/internal/pos"
)

const dateLayout = "2006-01-02"

// Filter narrows the sales history. Date is a calendar day (YYYY-MM-DD) in
// the business timezone; Query matches any text in the sale, ignoring case.
type Filter struct {
	Date  string
	Query string
}

// SalesMetadata summarizes a search result.
type SalesMetadata struct {
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"total_amount"`
}

// Search returns matching sales, newest first.
func (s *Service) Search(filter Filter) ([]pos.Sale, SalesMetadata, error) {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	var out []pos.Sale
	err := s.store.View(func(st *pos.State) error {
		loc := st.Settings.Location()

		var day time.Time
		if filter.Date != "" {
			d, err := time.ParseInLocation(dateLayout, filter.Date, loc)
			if err != nil {
				return pos.Validation(pos.ErrInvalidDate, "want YYYY-MM-DD, got %q", filter.Date)
			}
			day = d
		}

		out = make([]pos.Sale, 0, len(st.Sales))
		for _, sale := range st.Sales {
			if !day.IsZero() && !pos.StartOfDay(sale.Date.In(loc)).Equal(day) {
				continue
			}
			if query != "" && !matches(sale, query) {
				continue
			}
			out = append(out, sale.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, SalesMetadata{}, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	metadata := SalesMetadata{Quantity: len(out)}
	for _, sale := range out {
		metadata.TotalAmount += sale.Total
	}
	return out, metadata, nil
}

// Get returns a sale by id.
func (s *Service) Get(id string) (*pos.Sale, error) {
	var sale *pos.Sale
	_ = s.store.View(func(st *pos.State) error {
		if found := st.FindSale(id); found != nil {
			c := found.Clone()
			sale = &c
		}
		return nil
	})
	if sale == nil {
		return nil, pos.NotFound(pos.ErrSaleNotFound, "id %s", id)
	}
	return sale, nil
}

func matches(sale pos.Sale, query string) bool {
	data, err := json.Marshal(sale)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), query)
}
