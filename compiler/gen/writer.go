package gen

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/springforge/springforge"
)

// artifactTemplates maps per-entity artifact kinds to their template and
// output location.
var artifactTemplates = []struct {
	Kind     springforge.ArtifactKind
	Template string
	Dir      string // package subdirectory under src/main/java
	Suffix   string // class name suffix
}{
	{springforge.ArtifactEntity, "entity.java.tmpl", "entity", ""},
	{springforge.ArtifactRepository, "repository.java.tmpl", "repository", "Repository"},
	{springforge.ArtifactService, "service.java.tmpl", "service", "Service"},
	{springforge.ArtifactDTO, "dto.java.tmpl", "dto", "DTO"},
	{springforge.ArtifactController, "controller.java.tmpl", "controller", "Controller"},
}

// Writer renders a Graph into an in-memory GeneratedProject. Per-entity
// artifacts render in parallel, bounded by the configured worker count.
type Writer struct {
	graph  *Graph
	engine *Engine

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks rendering work for reporting.
type WriterMetrics struct {
	FilesRendered int
	TotalBytes    int64
	RenderTime    time.Duration
}

// NewWriter creates a writer for the graph using the given render engine.
func NewWriter(g *Graph, engine *Engine) *Writer {
	return &Writer{graph: g, engine: engine}
}

// Metrics returns a copy of the accumulated rendering metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

type renderTask struct {
	kind     springforge.ArtifactKind
	class    string
	path     string
	template string
	data     any
}

func (w *Writer) javaPath(dir, class string) string {
	return "src/main/java/" + w.graph.Project.PackagePath() + "/" + dir + "/" + class + ".java"
}

// WriteKind renders one artifact kind for every entity in the graph.
// The scope is not consulted here; callers gate kinds themselves.
func (w *Writer) WriteKind(ctx context.Context, kind springforge.ArtifactKind) ([]springforge.GeneratedFile, error) {
	var tasks []renderTask
	for _, at := range artifactTemplates {
		if at.Kind != kind {
			continue
		}
		for _, e := range w.graph.Nodes {
			tasks = append(tasks, renderTask{
				kind:     at.Kind,
				class:    e.Name + at.Suffix,
				path:     w.javaPath(at.Dir, e.Name+at.Suffix),
				template: at.Template,
				data:     e,
			})
		}
	}
	return w.render(ctx, tasks)
}

// ProjectFiles renders the non-entity files of a full project: the build
// file, the application class and its smoke test, configuration, and docs.
func (w *Writer) ProjectFiles(ctx context.Context) ([]springforge.GeneratedFile, error) {
	g := w.graph
	app := g.Project.ApplicationClassName()
	pkg := g.Project.PackagePath()
	tasks := []renderTask{
		{kind: springforge.ArtifactBuild, path: "pom.xml", template: "pom.xml.tmpl", data: g},
		{kind: springforge.ArtifactConfig, class: app, path: "src/main/java/" + pkg + "/" + app + ".java", template: "application.java.tmpl", data: g},
		{kind: springforge.ArtifactTest, class: app + "Tests", path: "src/test/java/" + pkg + "/" + app + "Tests.java", template: "application_test.java.tmpl", data: g},
		{kind: springforge.ArtifactDoc, path: "README.md", template: "readme.md.tmpl", data: g},
		{kind: springforge.ArtifactConfig, path: ".gitignore", template: "gitignore.tmpl", data: g},
	}
	files, err := w.render(ctx, tasks)
	if err != nil {
		return nil, err
	}
	yml, err := g.ApplicationYAML()
	if err != nil {
		return nil, err
	}
	files = append(files, springforge.NewGeneratedFile(
		springforge.ArtifactConfig, "", "src/main/resources/application.yml", yml))
	w.mu.Lock()
	w.metrics.FilesRendered++
	w.metrics.TotalBytes += int64(len(yml))
	w.mu.Unlock()
	return files, nil
}

// Write renders every artifact kind the scope covers into a project.
func (w *Writer) Write(ctx context.Context) (*springforge.GeneratedProject, error) {
	g := w.graph
	project := &springforge.GeneratedProject{
		Config:      g.Project,
		GeneratedAt: time.Now(),
	}
	kinds := []springforge.ArtifactKind{
		springforge.ArtifactEntity,
		springforge.ArtifactRepository,
		springforge.ArtifactService,
		springforge.ArtifactDTO,
		springforge.ArtifactController,
	}
	for _, kind := range kinds {
		if !g.Scope.Includes(kind) {
			continue
		}
		files, err := w.WriteKind(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			project.Add(f)
		}
	}
	if g.Scope == springforge.ScopeFullProject || g.Scope == springforge.ScopeCustom {
		files, err := w.ProjectFiles(ctx)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			project.Add(f)
		}
	}
	return project, nil
}

func (w *Writer) render(ctx context.Context, tasks []renderTask) ([]springforge.GeneratedFile, error) {
	files := make([]springforge.GeneratedFile, len(tasks))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.graph.Workers)
	start := time.Now()
	for i, task := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			content, err := w.engine.Render(task.template, task.data)
			if err != nil {
				return err
			}
			files[i] = springforge.NewGeneratedFile(task.kind, task.class, task.path, content)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.metrics.FilesRendered += len(tasks)
	for i := range files {
		w.metrics.TotalBytes += int64(files[i].SizeBytes)
	}
	w.metrics.RenderTime += time.Since(start)
	w.mu.Unlock()
	return files, nil
}
