package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/recordstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultRecentLimit caps Recent when the caller does not ask for a limit.
const DefaultRecentLimit = 50

// Entry is one line of the operator-visible activity trail.
type Entry struct {
	ID        snowflake.ID `json:"id,string"`
	Action    string       `json:"action"`
	Details   string       `json:"details"`
	CreatedAt time.Time    `json:"created_at"`
}

type Params struct {
	fx.In

	Log   *zap.Logger
	Store *recordstore.Store
	Clock clock.Clock
	GenID *snowflake.Node
}

// Service appends and reads the activity trail. Recording is best effort:
// callers log a failure and move on, a lost trail line never fails the
// operation that produced it.
type Service struct {
	log   *zap.Logger
	store *recordstore.Store
	clock clock.Clock
	genID *snowflake.Node
}

func New(p Params) *Service {
	return &Service{
		log:   p.Log.Named("activity"),
		store: p.Store,
		clock: p.Clock,
		genID: p.GenID,
	}
}

var Module = fx.Module("activity.service",
	fx.Provide(New),
)

// Record appends one entry to the trail. A nil receiver is a no-op so callers
// can hold the service as an optional dependency.
func (s *Service) Record(ctx context.Context, action, details string) error {
	if s == nil {
		return nil
	}
	_ = ctx
	entry := Entry{
		ID:        s.genID.Generate(),
		Action:    action,
		Details:   details,
		CreatedAt: s.clock.Now(),
	}

	err := s.store.Update(func(tx *recordstore.Tx) error {
		table, err := tx.Load(recordstore.KindActivity)
		if err != nil {
			return err
		}
		table.Rows = append(table.Rows, encodeRow(entry))
		return tx.Stage(recordstore.KindActivity, table)
	})
	if err != nil {
		return err
	}

	s.log.Debug("activity recorded", zap.String("action", action))
	return nil
}

// Recent returns the newest entries first, at most limit of them. A limit of
// zero or less falls back to DefaultRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	_ = ctx
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	table, err := s.store.Load(recordstore.KindActivity)
	if err != nil {
		return nil, err
	}
	entries, err := decodeTable(table)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func decodeTable(table recordstore.Table) ([]Entry, error) {
	entries := make([]Entry, 0, len(table.Rows))
	for i, row := range table.Rows {
		entry, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("activity row %d: %v: %w", i, err, recordstore.ErrCorruptData)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func encodeRow(e Entry) []string {
	return []string{
		e.ID.String(),
		e.Action,
		e.Details,
		e.CreatedAt.Format(time.RFC3339),
	}
}

func decodeRow(row []string) (Entry, error) {
	id, err := snowflake.ParseString(row[0])
	if err != nil {
		return Entry{}, fmt.Errorf("id: %v", err)
	}
	createdAt, err := time.Parse(time.RFC3339, row[3])
	if err != nil {
		return Entry{}, fmt.Errorf("created_at: %v", err)
	}

	return Entry{
		ID:        id,
		Action:    row[1],
		Details:   row[2],
		CreatedAt: createdAt,
	}, nil
}
