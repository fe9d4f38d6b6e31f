package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/compiler/gen"
)

// MemHistory is an in-memory, append-only history trail.
type MemHistory struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]springforge.HistoryEntry
}

// NewMemHistory creates an empty history trail.
func NewMemHistory() *MemHistory {
	return &MemHistory{entries: make(map[uuid.UUID][]springforge.HistoryEntry)}
}

// Append records an entry.
func (h *MemHistory) Append(entry springforge.HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[entry.RequestID] = append(h.entries[entry.RequestID], entry)
}

// ByRequest returns the entries for a request in insertion order.
func (h *MemHistory) ByRequest(requestID uuid.UUID) []springforge.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]springforge.HistoryEntry, len(h.entries[requestID]))
	copy(out, h.entries[requestID])
	return out
}

// Service is the job-control surface over the orchestrator: it submits
// requests, tracks their lifecycle, and serves progress, cancellation,
// history and downloads. All methods are safe for concurrent use.
type Service struct {
	orch    *Orchestrator
	history springforge.History
	log     *zap.Logger

	mu       sync.RWMutex
	requests map[uuid.UUID]*springforge.GenerationRequest
	cancels  map[uuid.UUID]context.CancelFunc

	wg sync.WaitGroup
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHistory sets the history trail. Defaults to an in-memory one.
func WithHistory(h springforge.History) ServiceOption {
	return func(s *Service) { s.history = h }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService creates a service running generations through orch.
func NewService(orch *Orchestrator, opts ...ServiceOption) *Service {
	s := &Service{
		orch:     orch,
		history:  NewMemHistory(),
		log:      zap.NewNop(),
		requests: make(map[uuid.UUID]*springforge.GenerationRequest),
		cancels:  make(map[uuid.UUID]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartGeneration validates the configuration, registers a pending request
// and runs the generation asynchronously. The returned snapshot reflects
// the request at submission time; poll GetRequest for progress.
func (s *Service) StartGeneration(ctx context.Context, diagramID string, payload []byte, scope springforge.GenerationScope, project springforge.ProjectConfig, selected []string) (springforge.GenerationRequest, error) {
	cfg, err := gen.NewConfig(project,
		gen.WithScope(scope),
		gen.WithSelectedClasses(selected...),
	)
	if err != nil {
		return springforge.GenerationRequest{}, err
	}

	req := springforge.NewRequest(diagramID, scope, project)
	req.SelectedClasses = selected

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.requests[req.ID] = req
	s.cancels[req.ID] = cancel
	s.mu.Unlock()

	s.history.Append(springforge.NewHistoryEntry(req.ID, springforge.ActionStarted, "Generation started").
		WithMetadata(map[string]any{
			"diagramId": diagramID,
			"scope":     string(scope),
		}))
	s.log.Info("generation submitted",
		zap.String("request", req.ID.String()),
		zap.String("diagram", diagramID),
		zap.String("scope", string(scope)),
	)

	snapshot := req.Snapshot()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.run(runCtx, req.ID, payload, cfg)
	}()
	return snapshot, nil
}

func (s *Service) run(ctx context.Context, id uuid.UUID, payload []byte, cfg *gen.Config) {
	if err := s.update(id, func(r *springforge.GenerationRequest) error { return r.Start() }); err != nil {
		return
	}

	progress := func(pct int, detail map[string]any) {
		// Fails once the request leaves Processing; the pipeline notices
		// cancellation through the context.
		_ = s.update(id, func(r *springforge.GenerationRequest) error {
			return r.UpdateProgress(pct, detail)
		})
	}

	result, err := s.orch.Generate(ctx, payload, cfg, id.String(), progress)
	if err != nil {
		s.finishFailed(id, err)
		return
	}

	err = s.update(id, func(r *springforge.GenerationRequest) error {
		return r.Complete(result.OutputPath, result.ArchivePath, result.Project.FileCount())
	})
	if err != nil {
		// Cancelled between the last stage and completion.
		return
	}
	s.history.Append(springforge.NewHistoryEntry(id, springforge.ActionCompleted, "Generation completed").
		WithMetadata(map[string]any{
			"files":    result.Project.FileCount(),
			"cached":   result.CacheHit,
			"elapsed":  result.Elapsed.String(),
			"level":    string(result.Complexity.Level),
			"estimate": result.Complexity.Estimate.String(),
		}))
}

func (s *Service) finishFailed(id uuid.UUID, cause error) {
	if errors.Is(cause, context.Canceled) {
		// CancelGeneration usually moved the request to Cancelled already,
		// in which case nothing more is recorded. A parent context
		// cancellation lands here too and still needs the transition.
		var cancelled bool
		_ = s.update(id, func(r *springforge.GenerationRequest) error {
			cancelled = r.Cancel()
			return nil
		})
		if cancelled {
			s.history.Append(springforge.NewHistoryEntry(id, springforge.ActionCancelled, "Context cancelled"))
		}
		return
	}
	// The last checkpoint names the stage the pipeline was in; errors
	// raised before the first checkpoint classify by type.
	var stage string
	_ = s.update(id, func(r *springforge.GenerationRequest) error {
		stage = r.Stage()
		return nil
	})
	if stage == "" {
		stage = failureStage(cause)
	}
	err := s.update(id, func(r *springforge.GenerationRequest) error {
		return r.Fail(stage, cause)
	})
	if err != nil {
		return
	}
	s.history.Append(springforge.NewHistoryEntry(id, springforge.ActionFailed, cause.Error()).
		WithMetadata(map[string]any{"stage": stage}))
	s.log.Warn("generation failed",
		zap.String("request", id.String()),
		zap.String("stage", stage),
		zap.Error(cause),
	)
}

// failureStage maps an error to the pipeline stage it came from, using the
// same stage names the progress checkpoints report.
func failureStage(err error) string {
	switch {
	case springforge.IsDiagramError(err):
		return "parse"
	case springforge.IsRelationshipError(err):
		return "structure"
	case springforge.IsRenderError(err):
		return "render"
	case springforge.IsPackagingError(err):
		return "packaging"
	case springforge.IsConfigError(err):
		return "configuration"
	default:
		return "generation"
	}
}

// update applies fn to the request under the service lock.
func (s *Service) update(id uuid.UUID, fn func(*springforge.GenerationRequest) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return fmt.Errorf("engine: unknown request %s", id)
	}
	return fn(req)
}

// GetRequest returns a snapshot of the request.
func (s *Service) GetRequest(id uuid.UUID) (springforge.GenerationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return springforge.GenerationRequest{}, fmt.Errorf("engine: unknown request %s", id)
	}
	return req.Snapshot(), nil
}

// Progress returns the request's progress percentage and detail.
func (s *Service) Progress(id uuid.UUID) (int, map[string]any, error) {
	req, err := s.GetRequest(id)
	if err != nil {
		return 0, nil, err
	}
	return req.Progress, req.ProgressDetail, nil
}

// Requests returns snapshots of all known requests.
func (s *Service) Requests() []springforge.GenerationRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]springforge.GenerationRequest, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, req.Snapshot())
	}
	return out
}

// CancelGeneration stops a pending or processing request. Cancelling a
// request that already finished is a no-op.
func (s *Service) CancelGeneration(id uuid.UUID) error {
	s.mu.Lock()
	req, ok := s.requests[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("engine: unknown request %s", id)
	}
	cancelled := req.Cancel()
	cancel := s.cancels[id]
	s.mu.Unlock()
	if !cancelled {
		return nil
	}
	if cancel != nil {
		cancel()
	}
	s.history.Append(springforge.NewHistoryEntry(id, springforge.ActionCancelled, "Cancelled by user"))
	s.log.Info("generation cancelled", zap.String("request", id.String()))
	return nil
}

// DownloadArchive opens the request's archive for reading. The download
// window closes DownloadTTL after completion.
func (s *Service) DownloadArchive(id uuid.UUID) (io.ReadCloser, error) {
	req, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if !req.Downloadable() {
		if req.DownloadExpired() {
			return nil, fmt.Errorf("engine: download for request %s expired", id)
		}
		return nil, fmt.Errorf("engine: request %s has no downloadable archive (status %s)", id, req.Status)
	}
	rc, err := s.orch.packager.Open(req.DownloadRef)
	if err != nil {
		return nil, err
	}
	s.history.Append(springforge.NewHistoryEntry(id, springforge.ActionDownloaded, "Archive downloaded"))
	return rc, nil
}

// HistoryFor returns the request's history trail.
func (s *Service) HistoryFor(id uuid.UUID) []springforge.HistoryEntry {
	return s.history.ByRequest(id)
}

// Wait blocks until every in-flight generation has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}
