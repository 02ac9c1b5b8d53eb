package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusSuccess    RunStatus = "success"
	RunStatusFailure    RunStatus = "failure"
	RunStatusCancelled  RunStatus = "cancelled"
)

// Terminal reports are immutable snapshots; only an in_progress report may
// still move.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusSuccess, RunStatusFailure, RunStatusCancelled:
		return true
	}
	return false
}

func ValidateRunStatus(status string) error {
	switch RunStatus(status) {
	case RunStatusInProgress, RunStatusSuccess, RunStatusFailure, RunStatusCancelled:
		return nil
	}
	return ErrInvalidStatus
}

type Trigger string

const (
	TriggerWorkflowDispatch Trigger = "workflow_dispatch"
	TriggerSchedule         Trigger = "schedule"
	TriggerPush             Trigger = "push"
)

func ValidateTrigger(trigger string) error {
	switch Trigger(trigger) {
	case TriggerWorkflowDispatch, TriggerSchedule, TriggerPush:
		return nil
	}
	return ErrInvalidTrigger
}

// Run IDs are opaque numeric identifiers assigned by the workflow host.
var runIDPattern = regexp.MustCompile(`^[0-9]+$`)

func ValidateRunID(runID string) error {
	if !runIDPattern.MatchString(runID) {
		return ErrInvalidRunID
	}
	return nil
}

// RunReport is the point-in-time snapshot of one pipeline execution.
type RunReport struct {
	ID          uuid.UUID  `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	RunID       string     `json:"run_id"`
	Workflow    string     `json:"workflow"`
	Status      RunStatus  `json:"status"`
	Trigger     Trigger    `json:"trigger"`
	Branch      string     `json:"branch"`
	CommitSHA   string     `json:"commit_sha"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// RunURL derives the hosted run page for this report. The embedded run id is
// always the report's own RunID.
func (r *RunReport) RunURL(owner, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s/actions/runs/%s", owner, repo, r.RunID)
}
