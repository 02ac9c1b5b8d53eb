package services

import (
	"context"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

// statusDocTemplate reproduces the shape of the status documents the
// pipeline commits after each run: header facts, the conditional list of
// committed outputs, and the run-scoped bundles reachable only through the
// run page.
const statusDocTemplate = `# {{ .Report.Workflow }} — run status

- **Run ID:** {{ .Report.RunID }}
- **Status:** {{ .Report.Status }}
- **Trigger:** {{ .Report.Trigger }} on ` + "`{{ .Report.Branch }}`" + `
{{- if .Report.CommitSHA }}
- **Commit:** {{ .Report.CommitSHA }}
{{- end }}
- **Run page:** {{ .RunURL }}

## Committed outputs

{{ if .Artifacts -}}
{{ range .Artifacts -}}
- ` + "`{{ .Path }}`" + `{{ if not .Produced }} (if produced){{ end }}
{{ end -}}
{{ else -}}
_No output paths recorded for this run._
{{ end }}
## Run-page artifacts

{{ if .Externals -}}
These bundles live in run-scoped storage and download from the run page above:

{{ range .Externals -}}
- ` + "`{{ .Name }}`" + `
{{ end -}}
{{ else -}}
_No external bundles recorded for this run._
{{ end -}}
`

type StatusDocService struct {
	runRepo      ports.RunReportRepository
	artifactRepo ports.ArtifactRepository
	owner        string
	repoName     string
	tmpl         *template.Template
}

func NewStatusDocService(runRepo ports.RunReportRepository, artifactRepo ports.ArtifactRepository, owner, repoName string) *StatusDocService {
	return &StatusDocService{
		runRepo:      runRepo,
		artifactRepo: artifactRepo,
		owner:        owner,
		repoName:     repoName,
		tmpl:         template.Must(template.New("status-doc").Parse(statusDocTemplate)),
	}
}

type statusDocData struct {
	Report    *domain.RunReport
	RunURL    string
	Artifacts []*domain.Artifact
	Externals []*domain.ExternalArtifact
}

// Render produces the markdown status document for one run. Output is
// deterministic for a given report.
func (s *StatusDocService) Render(ctx context.Context, id uuid.UUID) (string, error) {
	report, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	artifacts, err := s.artifactRepo.ListByRun(ctx, id)
	if err != nil {
		return "", err
	}
	externals, err := s.artifactRepo.ListExternalByRun(ctx, id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = s.tmpl.Execute(&b, statusDocData{
		Report:    report,
		RunURL:    report.RunURL(s.owner, s.repoName),
		Artifacts: artifacts,
		Externals: externals,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
