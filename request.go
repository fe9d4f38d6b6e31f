package springforge

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a generation request.
type Status string

// Request lifecycle. Pending and Processing are the only states a request
// can leave; Completed, Failed and Cancelled are terminal.
const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// DownloadTTL is how long a completed request's archive stays downloadable.
const DownloadTTL = 24 * time.Hour

// ErrorDetail records where and why a generation run failed.
type ErrorDetail struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// GenerationRequest tracks one diagram-to-project generation run from
// submission through completion, failure or cancellation.
type GenerationRequest struct {
	ID        uuid.UUID       `json:"id"`
	DiagramID string          `json:"diagramId"`
	Scope     GenerationScope `json:"scope"`
	// SelectedClasses restricts generation when Scope is ScopeCustom.
	SelectedClasses []string      `json:"selectedClasses,omitempty"`
	Config          ProjectConfig `json:"config"`

	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	// ProgressDetail accumulates step metadata across checkpoints; later
	// updates merge into it key by key.
	ProgressDetail map[string]any `json:"progressDetail,omitempty"`
	Error          *ErrorDetail   `json:"error,omitempty"`

	OutputPath  string `json:"outputPath,omitempty"`
	DownloadRef string `json:"downloadRef,omitempty"`
	FileCount   int    `json:"fileCount,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
	DownloadExp *time.Time `json:"downloadExpiresAt,omitempty"`
}

// NewRequest creates a pending request for the given diagram. The config is
// validated by the orchestrator, not here.
func NewRequest(diagramID string, scope GenerationScope, config ProjectConfig) *GenerationRequest {
	return &GenerationRequest{
		ID:        uuid.New(),
		DiagramID: diagramID,
		Scope:     scope,
		Config:    config,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// Start moves the request from Pending to Processing.
func (r *GenerationRequest) Start() error {
	if r.Status != StatusPending {
		return fmt.Errorf("springforge: start request %s: status is %s", r.ID, r.Status)
	}
	now := time.Now()
	r.Status = StatusProcessing
	r.StartedAt = &now
	r.Progress = 0
	return nil
}

// UpdateProgress records a progress checkpoint on a processing request.
// The percentage is clamped to [0, 100] and never moves backwards; detail
// entries merge into the accumulated metadata, overwriting per key.
func (r *GenerationRequest) UpdateProgress(pct int, detail map[string]any) error {
	if r.Status != StatusProcessing {
		return fmt.Errorf("springforge: update request %s: status is %s", r.ID, r.Status)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if pct > r.Progress {
		r.Progress = pct
	}
	r.mergeDetail(detail)
	return nil
}

func (r *GenerationRequest) mergeDetail(detail map[string]any) {
	if len(detail) == 0 {
		return
	}
	if r.ProgressDetail == nil {
		r.ProgressDetail = make(map[string]any, len(detail))
	}
	maps.Copy(r.ProgressDetail, detail)
}

// Stage returns the pipeline stage recorded in the progress details, or "".
func (r *GenerationRequest) Stage() string {
	s, _ := r.ProgressDetail["stage"].(string)
	return s
}

// Complete finishes a processing request, recording the workspace path and
// file count. A non-empty download reference opens the download window.
func (r *GenerationRequest) Complete(outputPath, downloadRef string, fileCount int) error {
	if r.Status != StatusProcessing {
		return fmt.Errorf("springforge: complete request %s: status is %s", r.ID, r.Status)
	}
	now := time.Now()
	r.Status = StatusCompleted
	r.Progress = 100
	r.mergeDetail(map[string]any{"message": "Generation completed"})
	r.OutputPath = outputPath
	r.DownloadRef = downloadRef
	r.FileCount = fileCount
	r.FinishedAt = &now
	if downloadRef != "" {
		exp := now.Add(DownloadTTL)
		r.DownloadExp = &exp
	}
	return nil
}

// Fail terminates a pending or processing request with the failure stage and
// cause. Progress keeps the last reported value.
func (r *GenerationRequest) Fail(stage string, cause error) error {
	if r.Status.Terminal() {
		return fmt.Errorf("springforge: fail request %s: status is %s", r.ID, r.Status)
	}
	now := time.Now()
	r.Status = StatusFailed
	r.Error = &ErrorDetail{Stage: stage, Message: cause.Error()}
	r.FinishedAt = &now
	return nil
}

// Cancel terminates a pending or processing request at the user's demand
// and reports whether it transitioned. Cancelling an already-terminal
// request is a no-op.
func (r *GenerationRequest) Cancel() bool {
	if r.Status.Terminal() {
		return false
	}
	now := time.Now()
	r.Status = StatusCancelled
	r.mergeDetail(map[string]any{"message": "Cancelled by user"})
	r.FinishedAt = &now
	return true
}

// Snapshot returns a copy safe to hand out while the request keeps
// changing; the progress detail map is cloned.
func (r *GenerationRequest) Snapshot() GenerationRequest {
	snap := *r
	snap.ProgressDetail = maps.Clone(r.ProgressDetail)
	return snap
}

// Duration returns how long the run took, or how long it has been running.
// Zero before the request starts.
func (r *GenerationRequest) Duration() time.Duration {
	if r.StartedAt == nil {
		return 0
	}
	if r.FinishedAt != nil {
		return r.FinishedAt.Sub(*r.StartedAt)
	}
	return time.Since(*r.StartedAt)
}

// Downloadable reports whether the archive can still be fetched.
func (r *GenerationRequest) Downloadable() bool {
	return r.Status == StatusCompleted && r.DownloadRef != "" && !r.DownloadExpired()
}

// DownloadExpired reports whether the download window has closed.
func (r *GenerationRequest) DownloadExpired() bool {
	return r.DownloadExp != nil && time.Now().After(*r.DownloadExp)
}
