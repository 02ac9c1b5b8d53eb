package workspace

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/spf13/afero"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

const (
	modelsDir       = "models"
	metricsSummary  = "output/metrics_summary.json"
	manifestCSV     = "models/manifest/models_manifest.csv"
	manifestLock    = "models/manifest/models_manifest.lock.json"
	manifestDirPerm = 0o755
	manifestPerm    = 0o644
)

type store struct {
	fs afero.Fs
	// gitRoot is the on-disk checkout for commit resolution; empty for
	// in-memory filesystems.
	gitRoot string
}

// New opens the pipeline checkout at root on the OS filesystem.
func New(root string) ports.WorkspaceStore {
	return &store{
		fs:      afero.NewBasePathFs(afero.NewOsFs(), root),
		gitRoot: root,
	}
}

// NewWithFs builds a store over an arbitrary filesystem. Commit resolution
// is disabled; intended for tests.
func NewWithFs(fs afero.Fs) ports.WorkspaceStore {
	return &store{fs: fs}
}

func (s *store) Stat(ctx context.Context, path string) (*ports.FileStat, error) {
	fi, err := s.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, nil
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}

	return &ports.FileStat{
		SizeBytes:  fi.Size(),
		SHA256:     hex.EncodeToString(h.Sum(nil)),
		ModifiedAt: fi.ModTime(),
	}, nil
}

func (s *store) ListModelFiles(ctx context.Context) ([]string, error) {
	if ok, _ := afero.DirExists(s.fs, modelsDir); !ok {
		return nil, nil
	}

	var files []string
	err := afero.Walk(s.fs, modelsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".joblib") {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", modelsDir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (s *store) ReadMetricsSummary(ctx context.Context) (map[string]domain.TargetMetrics, error) {
	data, err := afero.ReadFile(s.fs, metricsSummary)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]domain.TargetMetrics{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", metricsSummary, err)
	}

	metrics := map[string]domain.TargetMetrics{}
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, fmt.Errorf("parse %s: %w", metricsSummary, err)
	}
	return metrics, nil
}

func (s *store) HeadCommit(ctx context.Context) string {
	if s.gitRoot == "" {
		return ""
	}
	repo, err := git.PlainOpen(s.gitRoot)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}

var manifestHeader = []string{
	"path", "filename", "target", "size_bytes", "modified_at", "sha256",
	"mae", "rmse", "rows", "actual_column",
}

type lockFile struct {
	Commit  string            `json:"commit"`
	BuiltAt time.Time         `json:"built_at"`
	Files   map[string]string `json:"files"`
}

func (s *store) WriteManifest(ctx context.Context, m *domain.Manifest) error {
	if err := s.fs.MkdirAll(filepath.Dir(manifestCSV), manifestDirPerm); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(manifestHeader); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	for _, e := range m.Entries {
		record := []string{
			e.Path, e.Filename, e.Target,
			strconv.FormatInt(e.SizeBytes, 10),
			e.ModifiedAt.UTC().Format(time.RFC3339),
			e.SHA256,
			formatFloat(e.MAE), formatFloat(e.RMSE), formatInt(e.Rows),
			e.ActualColumn,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write manifest row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush manifest csv: %w", err)
	}
	if err := afero.WriteFile(s.fs, manifestCSV, []byte(b.String()), manifestPerm); err != nil {
		return fmt.Errorf("write %s: %w", manifestCSV, err)
	}

	lock := lockFile{Commit: m.Commit, BuiltAt: m.BuiltAt, Files: m.Lock}
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest lock: %w", err)
	}
	if err := afero.WriteFile(s.fs, manifestLock, append(data, '\n'), manifestPerm); err != nil {
		return fmt.Errorf("write %s: %w", manifestLock, err)
	}
	return nil
}

func (s *store) ReadManifest(ctx context.Context) (*domain.Manifest, error) {
	csvData, err := afero.ReadFile(s.fs, manifestCSV)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrManifestNotFound
		}
		return nil, fmt.Errorf("read %s: %w", manifestCSV, err)
	}

	records, err := csv.NewReader(strings.NewReader(string(csvData))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestCSV, err)
	}

	m := &domain.Manifest{Lock: map[string]string{}}

	lockData, err := afero.ReadFile(s.fs, manifestLock)
	if err == nil {
		var lock lockFile
		if err := json.Unmarshal(lockData, &lock); err != nil {
			return nil, fmt.Errorf("parse %s: %w", manifestLock, err)
		}
		m.Commit = lock.Commit
		m.BuiltAt = lock.BuiltAt
		if lock.Files != nil {
			m.Lock = lock.Files
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", manifestLock, err)
	}

	for i, rec := range records {
		if i == 0 || len(rec) < len(manifestHeader) {
			continue
		}
		sizeBytes, _ := strconv.ParseInt(rec[3], 10, 64)
		modifiedAt, _ := time.Parse(time.RFC3339, rec[4])
		entry := domain.ManifestEntry{
			Path:         rec[0],
			Filename:     rec[1],
			Target:       rec[2],
			SizeBytes:    sizeBytes,
			ModifiedAt:   modifiedAt,
			SHA256:       rec[5],
			MAE:          parseFloat(rec[6]),
			RMSE:         parseFloat(rec[7]),
			Rows:         parseInt(rec[8]),
			ActualColumn: rec[9],
		}
		m.Entries = append(m.Entries, entry)
	}
	return m, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
