package domain

import "errors"

// ============================================================================
// Run Report Errors
// ============================================================================

var (
	ErrRunReportNotFound = errors.New("run report not found")
	ErrRunIDConflict     = errors.New("report with this run id already exists")
	ErrInvalidRunID      = errors.New("run id must be a non-empty numeric string")
	ErrInvalidStatus     = errors.New("invalid run status")
	ErrInvalidTrigger    = errors.New("invalid trigger")
	ErrInvalidWorkflow   = errors.New("workflow name is required")
	ErrReportImmutable   = errors.New("run report is terminal and cannot change")
	ErrNotTerminalStatus = errors.New("completion requires a terminal status")
)

// ============================================================================
// Artifact Errors
// ============================================================================

var (
	ErrArtifactNotFound         = errors.New("artifact not found")
	ErrArtifactPathRequired     = errors.New("artifact path is required")
	ErrArtifactPathConflict     = errors.New("artifact path already recorded for this run")
	ErrExternalArtifactConflict = errors.New("external artifact already recorded for this run")
)

// ============================================================================
// Manifest Errors
// ============================================================================

var (
	ErrManifestNotFound = errors.New("models manifest not built yet")
)

// ============================================================================
// Run Page Integration Errors
// ============================================================================

var (
	ErrActionsNotAvailable = errors.New("actions integration is not available")
	ErrRemoteRunNotFound   = errors.New("workflow run not found on the run page host")
)
