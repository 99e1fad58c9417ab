// Package cashier tracks the cash drawer from opening to closing.
//
// Reconciliation is bounded by the calendar day, not by the session: closing
// counts every cash sale dated today, including sales made before the drawer
// was opened.
package cashier

import (
	"context"
	"time"

	"pos_core/internal/pos"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Summary is the pre-close preview.
type Summary struct {
	IsOpen         bool      `json:"isOpen"`
	OpenDate       time.Time `json:"openDate"`
	InitialAmount  float64   `json:"initialAmount"`
	CashSales      float64   `json:"cashSales"`
	ExpectedAmount float64   `json:"expectedAmount"`
	TotalSales     int       `json:"totalSales"`
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
		logger: logger.Named("cashier"),
		now:    time.Now,
	}
}

// Status returns a copy of the register.
func (s *Service) Status() pos.CashRegister {
	return s.store.Snapshot().CashRegister
}

// Open starts a session with initialAmount in the drawer.
func (s *Service) Open(ctx context.Context, initialAmount float64) (pos.CashRegister, error) {
	if initialAmount < 0 {
		return pos.CashRegister{}, pos.Validation(pos.ErrNegativeAmount, "initial amount %.2f", initialAmount)
	}

	var out pos.CashRegister
	err := s.store.Update(ctx, func(st *pos.State) error {
		reg := &st.CashRegister
		if reg.IsOpen {
			return pos.Precondition(pos.ErrCashSessionOpen, "")
		}

		openDate := s.now()
		reg.IsOpen = true
		reg.OpenDate = &openDate
		reg.InitialAmount = initialAmount
		reg.CurrentSession = &pos.CashSession{
			OpenDate:      openDate,
			InitialAmount: initialAmount,
		}
		out = st.Clone().CashRegister
		return nil
	})
	if err != nil {
		return pos.CashRegister{}, err
	}

	s.logger.Info("cash session opened", zap.Float64("initial_amount", initialAmount))
	return out, nil
}

// Summary previews what Close would record.
func (s *Service) Summary() Summary {
	var out Summary
	_ = s.store.View(func(st *pos.State) error {
		out = s.summarize(st).Summary
		return nil
	})
	return out
}

// Close reconciles the drawer against today's cash sales, appends the session
// to history and resets the register.
func (s *Service) Close(ctx context.Context, counted float64) (pos.CashSession, error) {
	if counted < 0 {
		return pos.CashSession{}, pos.Validation(pos.ErrNegativeAmount, "final amount %.2f", counted)
	}

	var session pos.CashSession
	err := s.store.Update(ctx, func(st *pos.State) error {
		reg := &st.CashRegister
		if !reg.IsOpen {
			return pos.Precondition(pos.ErrCashSessionClosed, "")
		}

		sum := s.summarize(st)
		closeDate := s.now()
		session = pos.CashSession{
			OpenDate:       sum.OpenDate,
			InitialAmount:  sum.InitialAmount,
			CloseDate:      &closeDate,
			FinalAmount:    counted,
			ExpectedAmount: sum.ExpectedAmount,
			CashSales:      sum.CashSales,
			TotalSales:     sum.TotalSales,
			Difference:     decimal.NewFromFloat(counted).Sub(decimal.NewFromFloat(sum.ExpectedAmount)).InexactFloat64(),
			Sales:          sum.sales,
		}

		reg.History = append(reg.History, session)
		reg.IsOpen = false
		reg.OpenDate = nil
		reg.InitialAmount = 0
		reg.CurrentSession = nil
		return nil
	})
	if err != nil {
		return pos.CashSession{}, err
	}

	s.logger.Info("cash session closed",
		zap.Float64("expected", session.ExpectedAmount),
		zap.Float64("counted", session.FinalAmount),
		zap.Float64("difference", session.Difference),
		zap.Int("sales", session.TotalSales),
	)
	return session, nil
}

type daySummary struct {
	Summary
	sales []pos.Sale
}

func (s *Service) summarize(st *pos.State) daySummary {
	reg := st.CashRegister
	loc := st.Settings.Location()
	today := pos.StartOfDay(s.now().In(loc))
	tomorrow := today.AddDate(0, 0, 1)

	out := daySummary{
		Summary: Summary{IsOpen: reg.IsOpen, InitialAmount: reg.InitialAmount},
		sales:   []pos.Sale{},
	}
	if reg.OpenDate != nil {
		out.OpenDate = *reg.OpenDate
	}

	cash := decimal.Zero
	for _, sale := range st.Sales {
		if sale.Date.Before(today) || !sale.Date.Before(tomorrow) {
			continue
		}
		out.sales = append(out.sales, sale.Clone())
		if sale.PaymentMethod == pos.PaymentCash {
			cash = cash.Add(decimal.NewFromFloat(sale.Total))
		}
	}

	out.TotalSales = len(out.sales)
	out.CashSales = cash.InexactFloat64()
	out.ExpectedAmount = decimal.NewFromFloat(reg.InitialAmount).Add(cash).InexactFloat64()
	return out
}
