package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const utf8BOM = "\ufeff"

var csvHeader = []string{
	"Data",
	"Hora",
	"ID Venda",
	"Produto",
	"Quantidade",
	"Preço Unitário",
	"Subtotal",
	"Forma de Pagamento",
	"CPF",
	"Total da Venda",
	"Valor Recebido",
	"Troco",
}

// formatNumber renders two decimals with a comma separator.
func formatNumber(v float64) string {
	return strings.Replace(decimal.NewFromFloat(v).StringFixed(2), ".", ",", 1)
}

// optionalNumber leaves zero amounts blank.
func optionalNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return formatNumber(v)
}

// CSVFilename names an export after its date range, or after today when the
// range is open.
func (s *Service) CSVFilename(q Query) string {
	if q.Start != "" && q.End != "" {
		return fmt.Sprintf("relatorio-vendas-%s_%s.csv", q.Start, q.End)
	}
	return fmt.Sprintf("relatorio-vendas-%s.csv", s.now().Format(dateLayout))
}

// WriteCSV exports the sales matched by q, one row per sold item. Sale-level
// columns are only filled on the first row of each sale. It returns how many
// sales were written.
func (s *Service) WriteCSV(w io.Writer, q Query) (int, error) {
	sel, err := s.selectSales(q, true)
	if err != nil {
		return 0, err
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}

	loc := sel.settings.Location()
	for _, sale := range sel.sales {
		local := sale.Date.In(loc)
		head := []string{
			local.Format("02/01/2006"),
			local.Format("15:04"),
			sale.ID,
		}
		tail := []string{
			sale.PaymentMethod.Label(),
			sale.CPF,
			formatNumber(sale.Total),
			optionalNumber(sale.ReceivedAmount),
			optionalNumber(sale.Change),
		}

		if len(sale.Items) == 0 {
			row := append(append(head, "N/A", "0", "0", "0"), tail...)
			if err := cw.Write(row); err != nil {
				return 0, fmt.Errorf("write csv: %w", err)
			}
			continue
		}

		for i, item := range sale.Items {
			lineHead, lineTail := head, tail
			if i > 0 {
				lineHead = make([]string, len(head))
				lineTail = make([]string, len(tail))
			}
			row := make([]string, 0, len(csvHeader))
			row = append(row, lineHead...)
			row = append(row,
				item.Name,
				strconv.Itoa(item.Quantity),
				formatNumber(item.Price),
				formatNumber(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))).InexactFloat64()),
			)
			row = append(row, lineTail...)
			if err := cw.Write(row); err != nil {
				return 0, fmt.Errorf("write csv: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(sel.sales), nil
}
