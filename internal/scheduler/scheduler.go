package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/kantin/internal/backup"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	Log     *zap.Logger
	Backups *backup.Service
	Config  Config `optional:"true"`
}

// Scheduler runs the daily maintenance jobs: backing up the CSV files
// and pruning backups past the retention window.
type Scheduler struct {
	log     *zap.Logger
	cfg     Config
	backups *backup.Service
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Backups == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:     p.Log.Named("scheduler"),
		cfg:     p.Config.withDefaults(),
		backups: p.Backups,
	}, nil
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	var err error

	jobs := []struct {
		Name    string
		Enabled bool
		Run     func(context.Context) error
	}{
		{"backup", s.isJobEnabled("backup"), s.BackupJob},
		{"clean_backups", s.isJobEnabled("clean_backups"), s.CleanBackupsJob},
	}

	for _, job := range jobs {
		if job.Enabled {
			err = errors.Join(err, job.Run(ctx))
		}
	}

	return err
}

func (s *Scheduler) BackupJob(ctx context.Context) error {
	result, err := s.backups.Run()
	if err != nil {
		return err
	}
	s.log.Info("scheduled backup finished", zap.Int("files", len(result.Copied)))
	return nil
}

func (s *Scheduler) CleanBackupsJob(ctx context.Context) error {
	result, err := s.backups.CleanOld(0)
	if err != nil {
		return err
	}
	if result.Deleted > 0 {
		s.log.Info("pruned old backups", zap.Int("deleted", result.Deleted))
	}
	return nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty EnabledJobs list enables every job.
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if enabled == jobName {
			return true
		}
	}
	return false
}
