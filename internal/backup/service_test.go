package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/config"
	"github.com/smallbiznis/kantin/internal/recordstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *recordstore.Store, *clock.FakeClock) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := recordstore.Open(dataDir, nil, nil)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	svc := New(Params{
		Cfg:      config.Config{BackupDir: filepath.Join(dataDir, "backup")},
		Log:      zap.NewNop(),
		Store:    store,
		Clock:    fake,
		Settings: config.NewStaticSettingsHolder(config.DefaultSettings()),
	})
	return svc, store, fake
}

func TestRunSkipsMissingFiles(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.Run()
	require.NoError(t, err)
	assert.Empty(t, result.Copied)
}

func TestRunCopiesBackingFiles(t *testing.T) {
	svc, store, _ := newTestService(t)

	table := recordstore.NewTable(recordstore.KindProducts)
	table.Rows = [][]string{{"BRK001", "Aqua 600ml", "Beverage", "50", "2000", "3000", "", ""}}
	require.NoError(t, store.Save(recordstore.KindProducts, table))

	result, err := svc.Run()
	require.NoError(t, err)
	require.Len(t, result.Copied, 1)
	assert.Contains(t, filepath.Base(result.Copied[0]), "20240315_100000_products")

	data, err := os.ReadFile(result.Copied[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "BRK001")
}

func TestCleanOldRemovesExpiredBackups(t *testing.T) {
	svc, store, fake := newTestService(t)

	table := recordstore.NewTable(recordstore.KindProducts)
	require.NoError(t, store.Save(recordstore.KindProducts, table))

	_, err := svc.Run()
	require.NoError(t, err)

	// Retention is judged by file modification time against the clock.
	fake.Advance(10 * 24 * time.Hour)

	result, err := svc.CleanOld(7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	again, err := svc.CleanOld(7)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Deleted)
}

func TestCleanOldMissingDir(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.CleanOld(0)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Deleted)
}
