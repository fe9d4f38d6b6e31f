package gen

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/fsnotify/fsnotify"

	"github.com/springforge/springforge"
)

//go:embed templates/*.tmpl
var builtins embed.FS

// TemplateSource tells where a template's text was resolved from.
type TemplateSource int

const (
	// BuiltIn is a template embedded in the binary.
	BuiltIn TemplateSource = iota
	// External is a template read from the override directory.
	External
)

func (s TemplateSource) String() string {
	if s == External {
		return "external"
	}
	return "builtin"
}

// Resolved is the outcome of template resolution: the text to render and
// where it came from.
type Resolved struct {
	Name   string
	Source TemplateSource
	Text   string
}

// Engine resolves and renders templates. An external directory, when set,
// overrides built-ins file by file; edits to it invalidate the parse cache
// so long-running processes pick up changes without restarting.
type Engine struct {
	dir     string
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewEngine creates a render engine. dir may be empty for built-ins only;
// a non-empty dir must exist and is watched for changes.
func NewEngine(dir string) (*Engine, error) {
	e := &Engine{dir: dir, cache: make(map[string]*template.Template)}
	if dir == "" {
		return e, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, springforge.NewRenderError("", "template directory not readable", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, springforge.NewRenderError("", "start template watcher", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, springforge.NewRenderError("", "watch template directory", err)
	}
	e.watcher = w
	go e.watch()
	return e, nil
}

// Close stops the directory watcher, if any.
func (e *Engine) Close() error {
	if e.watcher == nil {
		return nil
	}
	return e.watcher.Close()
}

func (e *Engine) watch() {
	for {
		select {
		case ev, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				e.invalidate(filepath.Base(ev.Name))
			}
		case _, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (e *Engine) invalidate(name string) {
	e.mu.Lock()
	delete(e.cache, name)
	e.mu.Unlock()
}

// Resolve returns the template text for name, preferring the external
// directory over the embedded built-ins.
func (e *Engine) Resolve(name string) (Resolved, error) {
	if e.dir != "" {
		buf, err := os.ReadFile(filepath.Join(e.dir, name))
		if err == nil {
			return Resolved{Name: name, Source: External, Text: string(buf)}, nil
		}
		if !os.IsNotExist(err) {
			return Resolved{}, springforge.NewRenderError(name, "read external template", err)
		}
	}
	buf, err := builtins.ReadFile("templates/" + name)
	if err != nil {
		return Resolved{}, springforge.NewRenderError(name, "unknown template", err)
	}
	return Resolved{Name: name, Source: BuiltIn, Text: string(buf)}, nil
}

func (e *Engine) parsed(name string) (*template.Template, error) {
	e.mu.RLock()
	t, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return t, nil
	}
	r, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}
	t, err = template.New(name).Funcs(Funcs).Parse(r.Text)
	if err != nil {
		return nil, springforge.NewRenderError(name, "parse failed", err)
	}
	e.mu.Lock()
	e.cache[name] = t
	e.mu.Unlock()
	return t, nil
}

// Render executes the named template with the given data.
func (e *Engine) Render(name string, data any) (string, error) {
	t, err := e.parsed(name)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", springforge.NewRenderError(name, "execution failed", err)
	}
	return b.String(), nil
}
