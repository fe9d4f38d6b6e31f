// Package engine orchestrates diagram-to-project generation: it drives the
// compiler pipeline stage by stage, reports progress, caches results, and
// hands finished projects to the packager.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/compiler/gen"
	"github.com/springforge/springforge/compiler/load"
	"github.com/springforge/springforge/pack"
)

// Progress checkpoints reported while a request runs.
const (
	progressParsed      = 10
	progressStructured  = 20
	progressEntities    = 30
	progressRepos       = 50
	progressServices    = 65
	progressControllers = 80
	progressConfig      = 90
	progressPackaging   = 95
)

// ProgressFunc receives checkpoint updates during generation. Each
// checkpoint fires when its stage begins, so the last reported stage is
// the one a failure happened in. The detail map always carries "stage"
// and "message" keys.
type ProgressFunc func(pct int, detail map[string]any)

// checkpoint builds the detail map of one progress update.
func checkpoint(stage, message string) map[string]any {
	return map[string]any{"stage": stage, "message": message}
}

// Result is the outcome of a completed generation run.
type Result struct {
	Project     *springforge.GeneratedProject
	OutputPath  string
	ArchivePath string
	Complexity  Complexity
	CacheHit    bool
	Elapsed     time.Duration
}

// Orchestrator runs the generation pipeline. It is stateless across runs
// and safe for concurrent use; request lifecycle bookkeeping lives in
// Service.
type Orchestrator struct {
	packager *pack.Packager
	cache    springforge.Cache
	log      *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithCache enables project caching keyed by diagram fingerprint.
func WithCache(c springforge.Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

// New creates an orchestrator writing output through the given packager.
func New(packager *pack.Packager, opts ...Option) *Orchestrator {
	o := &Orchestrator{packager: packager, log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// fingerprint keys the cache on everything that affects output: the raw
// payload, the project coordinates, and the scope.
func fingerprint(payload []byte, cfg *gen.Config) string {
	h := sha256.New()
	h.Write(payload)
	fmt.Fprintf(h, "|%s|%s|%s|%s|%d",
		cfg.Project.GroupID, cfg.Project.ArtifactID, cfg.Scope,
		strings.Join(cfg.Selected, ","), cfg.Project.PaginationThreshold)
	fmt.Fprintf(h, "|%+v|%t", cfg.Project.Features, cfg.LenientRelationships)
	return hex.EncodeToString(h.Sum(nil))
}

// Generate runs the pipeline for one request: parse, model, render,
// package. The progress callback receives the stage checkpoints; requestID
// names the output directory and archive.
func (o *Orchestrator) Generate(ctx context.Context, payload []byte, cfg *gen.Config, requestID string, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(int, map[string]any) {}
	}
	start := time.Now()
	log := o.log.With(zap.String("request", requestID))

	progress(progressParsed, checkpoint("parse", "Parsing diagram"))
	diagram := &load.Diagram{}
	if err := json.Unmarshal(payload, diagram); err != nil {
		return nil, springforge.NewDiagramError("", "", "invalid JSON payload", err)
	}
	if cfg.LenientRelationships {
		for _, r := range diagram.PruneDanglingRelationships() {
			log.Warn("relationship dropped",
				zap.String("relationship", r.ID),
				zap.String("source", r.SourceID),
				zap.String("target", r.TargetID),
			)
		}
	}
	if err := diagram.Validate(); err != nil {
		return nil, err
	}

	cx := Estimate(diagram, cfg.Scope)
	log.Info("diagram parsed",
		zap.Int("classes", cx.Classes),
		zap.Int("relationships", cx.Relationships),
		zap.String("complexity", string(cx.Level)),
		zap.Duration("estimate", cx.Estimate),
	)

	progress(progressStructured, checkpoint("structure", "Building project structure"))
	graph, err := gen.NewGraph(cfg, diagram)
	if err != nil {
		return nil, err
	}
	for id, el := range graph.Skipped {
		log.Debug("class skipped", zap.String("class", id), zap.String("reason", el.Reason))
	}

	key := fingerprint(payload, cfg)
	project, hit := o.cached(key)
	if hit {
		log.Info("cache hit", zap.String("fingerprint", key[:12]))
		progress(progressConfig, checkpoint("config", "Reusing cached project"))
	} else {
		project, err = o.render(ctx, graph, cfg, progress)
		if err != nil {
			return nil, err
		}
		o.store(key, project, log)
	}

	progress(progressPackaging, checkpoint("packaging", "Packaging project"))
	outputPath, err := o.packager.Write(project, requestID)
	if err != nil {
		return nil, err
	}
	archivePath, err := o.packager.Archive(project, requestID)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	log.Info("generation finished",
		zap.Int("files", project.FileCount()),
		zap.Bool("cached", hit),
		zap.Duration("elapsed", elapsed),
	)
	return &Result{
		Project:     project,
		OutputPath:  outputPath,
		ArchivePath: archivePath,
		Complexity:  cx,
		CacheHit:    hit,
		Elapsed:     elapsed,
	}, nil
}

func (o *Orchestrator) render(ctx context.Context, graph *gen.Graph, cfg *gen.Config, progress ProgressFunc) (*springforge.GeneratedProject, error) {
	engine, err := gen.NewEngine(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	defer engine.Close()
	writer := gen.NewWriter(graph, engine)

	project := &springforge.GeneratedProject{
		Config:      cfg.Project,
		GeneratedAt: time.Now(),
	}
	stages := []struct {
		kind    springforge.ArtifactKind
		pct     int
		stage   string
		message string
	}{
		{springforge.ArtifactEntity, progressEntities, "entities", "Generating entity classes"},
		{springforge.ArtifactRepository, progressRepos, "repositories", "Generating repositories"},
		{springforge.ArtifactService, progressServices, "services", "Generating services"},
		{springforge.ArtifactDTO, progressServices, "services", "Generating transfer objects"},
		{springforge.ArtifactController, progressControllers, "controllers", "Generating controllers"},
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress(stage.pct, checkpoint(stage.stage, stage.message))
		if cfg.Scope.Includes(stage.kind) {
			files, err := writer.WriteKind(ctx, stage.kind)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				project.Add(f)
			}
		}
	}
	progress(progressConfig, checkpoint("config", "Generating configuration files"))
	if cfg.Scope == springforge.ScopeFullProject || cfg.Scope == springforge.ScopeCustom {
		files, err := writer.ProjectFiles(ctx)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			project.Add(f)
		}
	}
	return project, nil
}

func (o *Orchestrator) cached(key string) (*springforge.GeneratedProject, bool) {
	if o.cache == nil {
		return nil, false
	}
	p, err := o.cache.Get(key)
	if err != nil {
		return nil, false
	}
	return p, true
}

func (o *Orchestrator) store(key string, project *springforge.GeneratedProject, log *zap.Logger) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Put(key, project); err != nil {
		log.Warn("cache store failed", zap.Error(err))
	}
}
