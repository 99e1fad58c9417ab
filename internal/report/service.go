// Package report aggregates recorded sales into summaries, chart datasets and
// CSV exports, and handles backup and restore of the catalog and sales.
package report

import (
	"time"

	"pos_core/internal/pos"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Query selects the sales a report covers. Start and End are inclusive
// calendar dates (YYYY-MM-DD) in the configured timezone; either may be empty.
type Query struct {
	Start         string            `form:"start"`
	End           string            `form:"end"`
	PaymentMethod pos.PaymentMethod `form:"paymentMethod"`
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
		logger: logger.Named("report"),
		now:    time.Now,
	}
}

// window is a half-open [from, to) interval; a zero bound is unbounded.
type window struct {
	from, to time.Time
}

func (w window) contains(t time.Time) bool {
	if !w.from.IsZero() && t.Before(w.from) {
		return false
	}
	if !w.to.IsZero() && !t.Before(w.to) {
		return false
	}
	return true
}

// resolve turns the query dates into a window. With no dates at all the
// window is today when defaultToday is set and unbounded otherwise.
func (q Query) resolve(now time.Time, loc *time.Location, defaultToday bool) (window, error) {
	var w window
	if q.Start == "" && q.End == "" {
		if defaultToday {
			w.from = pos.StartOfDay(now.In(loc))
			w.to = w.from.AddDate(0, 0, 1)
		}
		return w, nil
	}
	if q.Start != "" {
		from, err := time.ParseInLocation(dateLayout, q.Start, loc)
		if err != nil {
			return window{}, pos.Validation(pos.ErrInvalidDate, "start %q", q.Start)
		}
		w.from = from
	}
	if q.End != "" {
		end, err := time.ParseInLocation(dateLayout, q.End, loc)
		if err != nil {
			return window{}, pos.Validation(pos.ErrInvalidDate, "end %q", q.End)
		}
		w.to = end.AddDate(0, 0, 1)
	}
	if !w.from.IsZero() && !w.to.IsZero() && !w.from.Before(w.to) {
		return window{}, pos.Validation(pos.ErrInvalidDateRange, "%s > %s", q.Start, q.End)
	}
	return w, nil
}

// selection is the matched sales plus the catalog needed to price them.
type selection struct {
	sales    []pos.Sale
	products map[string]pos.Product
	settings pos.Settings
	// total is the number of sales in the store, matched or not.
	total int
}

func (s *Service) selectSales(q Query, defaultToday bool) (selection, error) {
	var out selection
	err := s.store.View(func(st *pos.State) error {
		loc := st.Settings.Location()
		w, err := q.resolve(s.now(), loc, defaultToday)
		if err != nil {
			return err
		}
		if q.PaymentMethod != "" && !q.PaymentMethod.Valid() {
			return pos.Validation(pos.ErrInvalidPaymentMethod, "got %q", q.PaymentMethod)
		}

		out.settings = st.Settings
		out.total = len(st.Sales)
		out.sales = []pos.Sale{}
		out.products = make(map[string]pos.Product, len(st.Products))
		for _, p := range st.Products {
			out.products[p.ID] = p.Clone()
		}
		for _, sale := range st.Sales {
			if !w.contains(sale.Date) {
				continue
			}
			if q.PaymentMethod != "" && sale.PaymentMethod != q.PaymentMethod {
				continue
			}
			out.sales = append(out.sales, sale.Clone())
		}
		return nil
	})
	return out, err
}

// Preset names accepted by Period.
const (
	PeriodToday      = "today"
	PeriodLast7Days  = "7days"
	PeriodLast30Days = "30days"
	PeriodAll        = "all"
)

// Period returns the Query dates for a preset, relative to today in the
// configured timezone. "all" yields empty dates.
func (s *Service) Period(preset string) (Query, error) {
	loc := s.store.Snapshot().Settings.Location()
	today := s.now().In(loc)
	end := today.Format(dateLayout)

	switch preset {
	case PeriodToday:
		return Query{Start: end, End: end}, nil
	case PeriodLast7Days:
		return Query{Start: today.AddDate(0, 0, -7).Format(dateLayout), End: end}, nil
	case PeriodLast30Days:
		return Query{Start: today.AddDate(0, 0, -30).Format(dateLayout), End: end}, nil
	case PeriodAll:
		return Query{}, nil
	}
	return Query{}, pos.Validation(pos.ErrInvalidDate, "unknown period %q", preset)
}
