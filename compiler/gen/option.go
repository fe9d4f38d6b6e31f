package gen

import (
	"runtime"

	"github.com/springforge/springforge"
)

// Config holds the settings of a single generation run.
type Config struct {
	// Project is the Spring Boot project configuration.
	Project springforge.ProjectConfig
	// Scope selects which artifact kinds to produce.
	Scope springforge.GenerationScope
	// Selected restricts generation to these class names when Scope is
	// ScopeCustom.
	Selected []string
	// Header is prepended as a comment to each generated Java file.
	Header string
	// TemplateDir overrides built-in templates with files from this
	// directory. Empty means built-ins only.
	TemplateDir string
	// Workers bounds parallel template rendering.
	Workers int
	// LenientRelationships drops relationships with unresolvable endpoints
	// instead of failing the run.
	LenientRelationships bool
}

// Option configures code generation.
type Option func(*Config) error

// WithScope sets the generation scope.
func WithScope(scope springforge.GenerationScope) Option {
	return func(c *Config) error {
		if !scope.Valid() {
			return springforge.NewConfigError("Scope", string(scope), "unknown generation scope")
		}
		c.Scope = scope
		return nil
	}
}

// WithSelectedClasses restricts a ScopeCustom run to the named classes.
func WithSelectedClasses(names ...string) Option {
	return func(c *Config) error {
		c.Selected = names
		return nil
	}
}

// WithLenientRelationships downgrades unresolvable relationship endpoints
// from an error to a dropped edge.
func WithLenientRelationships() Option {
	return func(c *Config) error {
		c.LenientRelationships = true
		return nil
	}
}

// WithHeader sets the file header comment added to generated sources.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTemplateDir overrides built-in templates with external ones.
func WithTemplateDir(dir string) Option {
	return func(c *Config) error {
		c.TemplateDir = dir
		return nil
	}
}

// WithWorkers sets the number of parallel render workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return springforge.NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// NewConfig builds a generation config for the given project, applying
// defaults and options, and validates the result.
func NewConfig(project springforge.ProjectConfig, opts ...Option) (*Config, error) {
	c := &Config{
		Project: project,
		Scope:   springforge.ScopeFullProject,
		Workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.Project.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// BasePackage is the root Java package of the generated project.
func (c *Config) BasePackage() string { return c.Project.GroupID }
