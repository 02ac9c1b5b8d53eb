package domain

import (
	"path"
	"regexp"
	"strings"
	"time"
)

// legacy targets predate version-suffixed artifact filenames and are kept
// as-is by target inference.
var legacyTargets = map[string]bool{
	"qb_passing_yards": true,
	"rb_rushing_yards": true,
	"wr_rec_yards":     true,
	"wrte_receptions":  true,
}

// matches a trailing _YYYYMMDD_<hex7+> or _<hex7+> version suffix
var versionSuffixPattern = regexp.MustCompile(`^(.*?)(?:_(\d{8}_[0-9a-f]{7,})|_[0-9a-f]{7,})$`)

// InferTarget returns the model target name for an artifact filename.
// Handles both the legacy four and version-suffixed artifacts, e.g.
// qb_passing_yards.joblib -> qb_passing_yards and
// passing_yards_20250912_8eb60df.joblib -> passing_yards.
func InferTarget(filename string) string {
	stem := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if legacyTargets[stem] {
		return stem
	}
	if m := versionSuffixPattern.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return stem
}

var actualColumns = map[string]string{
	"qb_passing_yards": "passing_yards",
	"rb_rushing_yards": "rushing_yards",
	"wr_rec_yards":     "receiving_yards",
	"wrte_receptions":  "receptions",
}

// ActualColumn maps a target to the stat column its predictions are scored
// against. Empty for targets without a known mapping.
func ActualColumn(target string) string {
	return actualColumns[target]
}

// TargetMetrics carries the per-target summary merged from
// output/metrics_summary.json. All fields are optional: a target trained
// without an evaluation pass has none.
type TargetMetrics struct {
	MAE  *float64 `json:"MAE"`
	RMSE *float64 `json:"RMSE"`
	Rows *int64   `json:"rows"`
}

// ManifestEntry describes one trained model artifact.
type ManifestEntry struct {
	Path         string    `json:"path"`
	Filename     string    `json:"filename"`
	Target       string    `json:"target"`
	SizeBytes    int64     `json:"size_bytes"`
	ModifiedAt   time.Time `json:"modified_at"`
	SHA256       string    `json:"sha256"`
	MAE          *float64  `json:"mae"`
	RMSE         *float64  `json:"rmse"`
	Rows         *int64    `json:"rows"`
	ActualColumn string    `json:"actual_column"`
}

// Manifest is the reproducible inventory of the models/ tree. Entries are
// sorted by path; Lock maps path to sha256.
type Manifest struct {
	Commit  string            `json:"commit"`
	BuiltAt time.Time         `json:"built_at"`
	Entries []ManifestEntry   `json:"entries"`
	Lock    map[string]string `json:"lock"`
}
