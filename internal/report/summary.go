package report

import (
	"sort"

	"pos_core/internal/pos"

	"github.com/shopspring/decimal"
)

const topLimit = 10

type PaymentTotal struct {
	Method pos.PaymentMethod `json:"method"`
	Label  string            `json:"label"`
	Count  int               `json:"count"`
	Total  float64           `json:"total"`
}

type ItemTotal struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// Summary is the period overview. SystemSales counts every recorded sale so
// an empty period can still say how many exist.
type Summary struct {
	Count         int            `json:"count"`
	Revenue       float64        `json:"revenue"`
	Profit        float64        `json:"profit"`
	AverageTicket float64        `json:"averageTicket"`
	Payments      []PaymentTotal `json:"payments"`
	TopItems      []ItemTotal    `json:"topItems"`
	SystemSales   int            `json:"systemSales"`
}

type DatePoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type WeekdayPoint struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// Charts holds the datasets behind the dashboard graphs.
type Charts struct {
	Count         int            `json:"count"`
	Revenue       float64        `json:"revenue"`
	Profit        float64        `json:"profit"`
	AverageTicket float64        `json:"averageTicket"`
	RevenueByDate []DatePoint    `json:"revenueByDate"`
	TopProducts   []ItemTotal    `json:"topProducts"`
	Payments      []PaymentTotal `json:"payments"`
	Weekdays      []WeekdayPoint `json:"weekdays"`
}

var weekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// Summary aggregates the sales matched by q. With no dates it covers today.
func (s *Service) Summary(q Query) (Summary, error) {
	sel, err := s.selectSales(q, true)
	if err != nil {
		return Summary{}, err
	}

	t := sel.totals()
	return Summary{
		Count:         len(sel.sales),
		Revenue:       t.revenue.InexactFloat64(),
		Profit:        t.profit.InexactFloat64(),
		AverageTicket: t.average(len(sel.sales)),
		Payments:      sel.payments(),
		TopItems:      sel.topItems(),
		SystemSales:   sel.total,
	}, nil
}

// Charts builds the chart datasets for q. With no dates it covers every sale.
func (s *Service) Charts(q Query) (Charts, error) {
	sel, err := s.selectSales(q, false)
	if err != nil {
		return Charts{}, err
	}

	t := sel.totals()
	return Charts{
		Count:         len(sel.sales),
		Revenue:       t.revenue.InexactFloat64(),
		Profit:        t.profit.InexactFloat64(),
		AverageTicket: t.average(len(sel.sales)),
		RevenueByDate: sel.revenueByDate(),
		TopProducts:   sel.topItems(),
		Payments:      sel.payments(),
		Weekdays:      sel.weekdays(),
	}, nil
}

type totals struct {
	revenue decimal.Decimal
	profit  decimal.Decimal
}

func (t totals) average(n int) float64 {
	if n == 0 {
		return 0
	}
	return t.revenue.Div(decimal.NewFromInt(int64(n))).Round(2).InexactFloat64()
}

// totals sums revenue and, for items whose product still exists with a cost,
// the margin over that cost.
func (sel selection) totals() totals {
	out := totals{revenue: decimal.Zero, profit: decimal.Zero}
	for _, sale := range sel.sales {
		out.revenue = out.revenue.Add(decimal.NewFromFloat(sale.Total))
		for _, item := range sale.Items {
			p, ok := sel.products[item.ID]
			if !ok || p.Cost == nil {
				continue
			}
			margin := decimal.NewFromFloat(item.Price).Sub(decimal.NewFromFloat(*p.Cost))
			out.profit = out.profit.Add(margin.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return out
}

// payments groups by method in order of first appearance.
func (sel selection) payments() []PaymentTotal {
	index := map[pos.PaymentMethod]int{}
	sums := []decimal.Decimal{}
	out := []PaymentTotal{}
	for _, sale := range sel.sales {
		i, ok := index[sale.PaymentMethod]
		if !ok {
			i = len(out)
			index[sale.PaymentMethod] = i
			out = append(out, PaymentTotal{Method: sale.PaymentMethod, Label: sale.PaymentMethod.Label()})
			sums = append(sums, decimal.Zero)
		}
		out[i].Count++
		sums[i] = sums[i].Add(decimal.NewFromFloat(sale.Total))
	}
	for i := range out {
		out[i].Total = sums[i].InexactFloat64()
	}
	return out
}

// topItems ranks products by units sold; ties keep first-sold order.
func (sel selection) topItems() []ItemTotal {
	index := map[string]int{}
	revenue := []decimal.Decimal{}
	out := []ItemTotal{}
	for _, sale := range sel.sales {
		for _, item := range sale.Items {
			i, ok := index[item.ID]
			if !ok {
				name := item.Name
				if name == "" {
					name = "Sem nome"
				}
				i = len(out)
				index[item.ID] = i
				out = append(out, ItemTotal{ID: item.ID, Name: name})
				revenue = append(revenue, decimal.Zero)
			}
			out[i].Quantity += item.Quantity
			gross := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
			revenue[i] = revenue[i].Add(gross)
		}
	}
	for i := range out {
		out[i].Revenue = revenue[i].InexactFloat64()
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Quantity > out[b].Quantity })
	if len(out) > topLimit {
		out = out[:topLimit]
	}
	return out
}

func (sel selection) revenueByDate() []DatePoint {
	loc := sel.settings.Location()
	sums := map[string]decimal.Decimal{}
	for _, sale := range sel.sales {
		day := sale.Date.In(loc).Format(dateLayout)
		sums[day] = sums[day].Add(decimal.NewFromFloat(sale.Total))
	}

	out := make([]DatePoint, 0, len(sums))
	for day, total := range sums {
		out = append(out, DatePoint{Date: day, Total: total.InexactFloat64()})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	return out
}

// weekdays sums revenue per day of the week, Sunday first.
func (sel selection) weekdays() []WeekdayPoint {
	loc := sel.settings.Location()
	var sums [7]decimal.Decimal
	for _, sale := range sel.sales {
		wd := sale.Date.In(loc).Weekday()
		sums[wd] = sums[wd].Add(decimal.NewFromFloat(sale.Total))
	}

	out := make([]WeekdayPoint, len(weekdayLabels))
	for i, label := range weekdayLabels {
		out[i] = WeekdayPoint{Label: label, Total: sums[i].InexactFloat64()}
	}
	return out
}
