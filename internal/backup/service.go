package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/config"
	"github.com/smallbiznis/kantin/internal/recordstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const timestampLayout = "20060102_150405"

// Result summarizes one backup run.
type Result struct {
	Copied []string `json:"copied"`
}

// CleanResult summarizes a retention sweep.
type CleanResult struct {
	Deleted int `json:"deleted"`
}

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	Store    *recordstore.Store
	Clock    clock.Clock
	Settings *config.SettingsHolder
}

// Service copies the record store's backing files into a timestamped backup
// directory and prunes old copies.
type Service struct {
	dir      string
	log      *zap.Logger
	store    *recordstore.Store
	clock    clock.Clock
	settings *config.SettingsHolder
}

func New(p Params) *Service {
	return &Service{
		dir:      p.Cfg.BackupDir,
		log:      p.Log.Named("backup.service"),
		store:    p.Store,
		clock:    p.Clock,
		settings: p.Settings,
	}
}

var Module = fx.Module("backup.service",
	fx.Provide(New),
)

// Run backs up every dataset that has a backing file. Missing files are
// skipped, not errors.
func (s *Service) Run() (Result, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("backup: create dir: %w", err)
	}

	stamp := s.clock.Now().Format(timestampLayout)
	result := Result{Copied: []string{}}

	for _, kind := range []recordstore.Kind{recordstore.KindProducts, recordstore.KindTransactions, recordstore.KindActivity} {
		src := s.store.Path(kind)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		dst := filepath.Join(s.dir, fmt.Sprintf("%s_%s.csv", stamp, kind))
		if err := copyFile(src, dst); err != nil {
			return Result{}, fmt.Errorf("backup: copy %s: %w", kind, err)
		}
		result.Copied = append(result.Copied, dst)
	}

	s.log.Info("backup completed", zap.Int("files", len(result.Copied)))
	return result, nil
}

// CleanOld removes backups older than the retention window. A non-positive
// days value falls back to the configured retention.
func (s *Service) CleanOld(days int) (CleanResult, error) {
	if days <= 0 {
		days = s.settings.Get().BackupRetentionDays
	}
	cutoff := s.clock.Now().AddDate(0, 0, -days)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return CleanResult{}, nil
		}
		return CleanResult{}, fmt.Errorf("backup: read dir: %w", err)
	}

	var result CleanResult
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				return result, fmt.Errorf("backup: remove %s: %w", entry.Name(), err)
			}
			result.Deleted++
		}
	}

	s.log.Info("backup retention sweep", zap.Int("deleted", result.Deleted), zap.Int("days", days))
	return result, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
