package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/config"
	ledgerdomain "github.com/smallbiznis/kantin/internal/ledger/domain"
	"github.com/smallbiznis/kantin/internal/recordstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const timestampLayout = "20060102_150405"

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock
}

// Service writes read-only snapshots under the exports directory. Nothing in
// the core ever reads them back.
type Service struct {
	dir   string
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) *Service {
	return &Service{
		dir:   p.Cfg.ExportDir,
		log:   p.Log.Named("export.service"),
		clock: p.Clock,
	}
}

var Module = fx.Module("export.service",
	fx.Provide(New),
)

// TransactionsCSV writes a timestamped CSV snapshot of the given transactions.
func (s *Service) TransactionsCSV(transactions []ledgerdomain.Transaction, prefix string) (string, error) {
	path, err := s.exportPath(prefix, "csv")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	writeErr := w.Write(recordstore.Schema(recordstore.KindTransactions))
	for _, t := range transactions {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			t.ID.String(),
			t.BarcodeID,
			t.ProductName,
			strconv.Itoa(t.Quantity),
			strconv.FormatInt(t.UnitPrice, 10),
			strconv.FormatInt(t.TotalPrice, 10),
			strconv.FormatInt(t.Profit, 10),
			t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("export: write %s: %w", path, writeErr)
	}

	s.log.Info("transactions exported", zap.String("path", path), zap.Int("rows", len(transactions)))
	return path, nil
}

func (s *Service) exportPath(prefix, ext string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}

	name := slug.Make(prefix)
	if name == "" {
		name = "export"
	}
	stamp := s.clock.Now().Format(timestampLayout)
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.%s", name, stamp, ext)), nil
}

// FormatRupiah renders an amount the way the canteen prints money:
// "Rp 15.000" with dot thousand separators.
func FormatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if negative {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
