package services

import (
	"context"
	"path"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

type ManifestService struct {
	workspace ports.WorkspaceStore
}

func NewManifestService(workspace ports.WorkspaceStore) *ManifestService {
	return &ManifestService{workspace: workspace}
}

// Rebuild walks models/ for trained artifacts, merges per-target metrics,
// and writes the manifest pair (csv + lock json) back to the workspace.
// Output is deterministic: entries sort by path.
func (s *ManifestService) Rebuild(ctx context.Context) (*domain.Manifest, error) {
	files, err := s.workspace.ListModelFiles(ctx)
	if err != nil {
		return nil, err
	}

	metrics, err := s.workspace.ReadMetricsSummary(ctx)
	if err != nil {
		return nil, err
	}

	m := &domain.Manifest{
		Commit:  s.workspace.HeadCommit(ctx),
		BuiltAt: time.Now().UTC(),
		Entries: make([]domain.ManifestEntry, 0, len(files)),
		Lock:    make(map[string]string, len(files)),
	}

	sort.Strings(files)
	for _, p := range files {
		stat, err := s.workspace.Stat(ctx, p)
		if err != nil {
			return nil, err
		}
		if stat == nil {
			// raced with a checkout update; skip rather than fail
			log.WithField("path", p).Warn("model file vanished during manifest build")
			continue
		}

		target := domain.InferTarget(path.Base(p))
		entry := domain.ManifestEntry{
			Path:         p,
			Filename:     path.Base(p),
			Target:       target,
			SizeBytes:    stat.SizeBytes,
			ModifiedAt:   stat.ModifiedAt.UTC(),
			SHA256:       stat.SHA256,
			ActualColumn: domain.ActualColumn(target),
		}
		if mt, ok := metrics[target]; ok {
			entry.MAE = mt.MAE
			entry.RMSE = mt.RMSE
			entry.Rows = mt.Rows
		}

		m.Entries = append(m.Entries, entry)
		m.Lock[p] = stat.SHA256
	}

	if err := s.workspace.WriteManifest(ctx, m); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"models": len(m.Entries),
		"commit": m.Commit,
	}).Info("models manifest rebuilt")

	return m, nil
}

// Current returns the manifest as last written to the workspace.
func (s *ManifestService) Current(ctx context.Context) (*domain.Manifest, error) {
	return s.workspace.ReadManifest(ctx)
}
