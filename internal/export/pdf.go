package export

import (
	"fmt"
	"os"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	ledgerdomain "github.com/smallbiznis/kantin/internal/ledger/domain"
	reportdomain "github.com/smallbiznis/kantin/internal/report/domain"
	"go.uber.org/zap"
)

// SalesReportPDF renders a period sales report and writes it under the
// exports directory.
func (s *Service) SalesReportPDF(summary reportdomain.PeriodSummary, transactions []ledgerdomain.Transaction, prefix string) (string, error) {
	path, err := s.exportPath(prefix, "pdf")
	if err != nil {
		return "", err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "Sales Report", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New("Period: "+summary.Start+" to "+summary.End, props.Text{Top: 0}),
			text.New("Transactions: "+strconv.Itoa(summary.TransactionCount), props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Revenue: "+FormatRupiah(summary.TotalRevenue), props.Text{Top: 0}),
			text.New("Profit: "+FormatRupiah(summary.TotalProfit), props.Text{Top: 5}),
			text.New("Average sale: "+FormatRupiah(summary.AverageSale), props.Text{Top: 10}),
		),
	)

	m.AddRow(10,
		text.NewCol(2, "Barcode", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Product", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Profit", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "Date", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, t := range transactions {
		m.AddRow(8,
			text.NewCol(2, t.BarcodeID, props.Text{Size: 8}),
			text.NewCol(4, t.ProductName, props.Text{Size: 8}),
			text.NewCol(1, strconv.Itoa(t.Quantity), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, FormatRupiah(t.TotalPrice), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, FormatRupiah(t.Profit), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(1, t.CreatedAt.Format("02-01"), props.Text{Size: 8, Align: align.Right}),
		)
	}

	document, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("export: render pdf: %w", err)
	}
	if err := os.WriteFile(path, document.GetBytes(), 0o644); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}

	s.log.Info("sales report exported", zap.String("path", path), zap.Int("rows", len(transactions)))
	return path, nil
}
