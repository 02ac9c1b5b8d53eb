package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"run-registry-service/internal/core/domain"
)

func newMemStore(t *testing.T) (afero.Fs, *store) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return fs, NewWithFs(fs).(*store)
}

func TestStore_Stat(t *testing.T) {
	fs, s := newMemStore(t)
	require.NoError(t, afero.WriteFile(fs, "output/logs/train.log", []byte("hello"), 0o644))

	stat, err := s.Stat(context.Background(), "output/logs/train.log")
	require.NoError(t, err)
	require.NotNil(t, stat)
	assert.Equal(t, int64(5), stat.SizeBytes)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", stat.SHA256)
}

func TestStore_Stat_Absent(t *testing.T) {
	_, s := newMemStore(t)

	stat, err := s.Stat(context.Background(), "output/previews/head.csv")
	assert.NoError(t, err)
	assert.Nil(t, stat)
}

func TestStore_ListModelFiles(t *testing.T) {
	fs, s := newMemStore(t)
	require.NoError(t, afero.WriteFile(fs, "models/pregame/qb_passing_yards.joblib", []byte("m1"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "models/pregame/anytime_td.joblib", []byte("m2"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "models/manifest/models_manifest.csv", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data/not_a_model.joblib.txt", []byte("x"), 0o644))

	files, err := s.ListModelFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"models/pregame/anytime_td.joblib",
		"models/pregame/qb_passing_yards.joblib",
	}, files)
}

func TestStore_ListModelFiles_NoModelsDir(t *testing.T) {
	_, s := newMemStore(t)

	files, err := s.ListModelFiles(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestStore_ReadMetricsSummary(t *testing.T) {
	fs, s := newMemStore(t)
	payload := `{"qb_passing_yards": {"MAE": 12.5, "RMSE": 18.2, "rows": 4200}}`
	require.NoError(t, afero.WriteFile(fs, "output/metrics_summary.json", []byte(payload), 0o644))

	metrics, err := s.ReadMetricsSummary(context.Background())
	require.NoError(t, err)
	mt, ok := metrics["qb_passing_yards"]
	require.True(t, ok)
	require.NotNil(t, mt.MAE)
	assert.Equal(t, 12.5, *mt.MAE)
	require.NotNil(t, mt.Rows)
	assert.Equal(t, int64(4200), *mt.Rows)
}

func TestStore_ReadMetricsSummary_Absent(t *testing.T) {
	_, s := newMemStore(t)

	metrics, err := s.ReadMetricsSummary(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, metrics)
}

func TestStore_ManifestRoundTrip(t *testing.T) {
	_, s := newMemStore(t)

	mae := 12.5
	rows := int64(4200)
	m := &domain.Manifest{
		Commit:  "8eb60dfabc",
		BuiltAt: time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC),
		Entries: []domain.ManifestEntry{
			{
				Path:         "models/pregame/qb_passing_yards.joblib",
				Filename:     "qb_passing_yards.joblib",
				Target:       "qb_passing_yards",
				SizeBytes:    1024,
				ModifiedAt:   time.Date(2025, 9, 12, 9, 0, 0, 0, time.UTC),
				SHA256:       "aaa",
				MAE:          &mae,
				Rows:         &rows,
				ActualColumn: "passing_yards",
			},
			{
				Path:       "models/pregame/anytime_td.joblib",
				Filename:   "anytime_td.joblib",
				Target:     "anytime_td",
				SizeBytes:  2048,
				ModifiedAt: time.Date(2025, 9, 12, 9, 30, 0, 0, time.UTC),
				SHA256:     "bbb",
			},
		},
		Lock: map[string]string{
			"models/pregame/qb_passing_yards.joblib": "aaa",
			"models/pregame/anytime_td.joblib":       "bbb",
		},
	}

	require.NoError(t, s.WriteManifest(context.Background(), m))

	got, err := s.ReadManifest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8eb60dfabc", got.Commit)
	assert.True(t, got.BuiltAt.Equal(m.BuiltAt))
	require.Len(t, got.Entries, 2)

	first := got.Entries[0]
	assert.Equal(t, "models/pregame/qb_passing_yards.joblib", first.Path)
	assert.Equal(t, "qb_passing_yards", first.Target)
	assert.Equal(t, int64(1024), first.SizeBytes)
	require.NotNil(t, first.MAE)
	assert.Equal(t, 12.5, *first.MAE)
	assert.Nil(t, first.RMSE)
	assert.Equal(t, "passing_yards", first.ActualColumn)

	second := got.Entries[1]
	assert.Nil(t, second.MAE)
	assert.Nil(t, second.Rows)

	assert.Equal(t, "aaa", got.Lock["models/pregame/qb_passing_yards.joblib"])
}

func TestStore_ReadManifest_NotBuilt(t *testing.T) {
	_, s := newMemStore(t)

	_, err := s.ReadManifest(context.Background())
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestStore_HeadCommit_NoGit(t *testing.T) {
	_, s := newMemStore(t)
	assert.Equal(t, "", s.HeadCommit(context.Background()))
}
