package gen

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/springforge/springforge"
)

// MavenDep is one <dependency> entry of the generated pom.
type MavenDep struct {
	GroupID    string
	ArtifactID string
	Scope      string // empty means compile
}

// mavenGroup maps well-known artifact ids to their Maven group.
func mavenGroup(artifact string) string {
	switch {
	case strings.HasPrefix(artifact, "spring-boot-"):
		return "org.springframework.boot"
	case strings.HasPrefix(artifact, "springdoc-"):
		return "org.springdoc"
	case artifact == "h2":
		return "com.h2database"
	case artifact == "postgresql":
		return "org.postgresql"
	case artifact == "mysql-connector-j":
		return "com.mysql"
	}
	return "org.springframework.boot"
}

// MavenDependencies returns the pom dependencies: the configured starters,
// the feature-driven additions, and the runtime database driver.
func (g *Graph) MavenDependencies() []MavenDep {
	seen := make(map[string]bool)
	var deps []MavenDep
	add := func(artifact, scope string) {
		if seen[artifact] {
			return
		}
		seen[artifact] = true
		deps = append(deps, MavenDep{GroupID: mavenGroup(artifact), ArtifactID: artifact, Scope: scope})
	}
	for _, d := range g.Project.Dependencies {
		scope := ""
		if d == "spring-boot-starter-test" {
			scope = "test"
		}
		add(d, scope)
	}
	for _, d := range g.SuggestedDependencies() {
		scope := ""
		if d == "h2" {
			scope = "runtime"
		}
		add(d, scope)
	}
	return deps
}

// securityClassHints are class-name fragments that imply the domain
// handles authentication.
var securityClassHints = []string{
	"user", "auth", "login", "password", "role", "permission",
	"account", "credential",
}

// needsSecurity reports whether any entity name suggests authentication.
func (g *Graph) needsSecurity() bool {
	for _, e := range g.Nodes {
		name := strings.ToLower(e.Name)
		for _, hint := range securityClassHints {
			if strings.Contains(name, hint) {
				return true
			}
		}
	}
	return false
}

// needsValidation reports whether any attribute carries a constraint that
// bean validation would enforce.
func (g *Graph) needsValidation() bool {
	for _, e := range g.Nodes {
		for _, a := range e.Attributes {
			if a.DocRequired() || a.EmailHint() || a.DocLength() != "" {
				return true
			}
		}
	}
	return false
}

// SuggestedDependencies returns the extra starters implied by the enabled
// features and by the model itself: authentication-flavored class names
// pull in security, constrained attributes pull in validation.
func (g *Graph) SuggestedDependencies() []string {
	feats := g.Project.Features
	var deps []string
	if feats.Validation || g.needsValidation() {
		deps = append(deps, "spring-boot-starter-validation")
	}
	if feats.Security || g.needsSecurity() {
		deps = append(deps, "spring-boot-starter-security")
	}
	if feats.Documentation {
		deps = append(deps, "springdoc-openapi-starter-webmvc-ui")
	}
	// An embedded database keeps the generated project runnable out of
	// the box.
	deps = append(deps, "h2")
	return deps
}

// springdocVersion pins the OpenAPI starter when documentation is enabled.
const springdocVersion = "2.3.0"

// SpringdocVersion returns the pinned OpenAPI starter version.
func (g *Graph) SpringdocVersion() string { return springdocVersion }

// ApplicationYAML renders src/main/resources/application.yml for the
// generated project.
func (g *Graph) ApplicationYAML() (string, error) {
	p := g.Project
	name := p.ProjectName
	if name == "" {
		name = p.ArtifactID
	}
	doc := map[string]any{
		"server": map[string]any{
			"port": p.ServerPort,
		},
		"spring": map[string]any{
			"application": map[string]any{
				"name": name,
			},
			"datasource": map[string]any{
				"url":               "jdbc:h2:mem:" + strings.ReplaceAll(p.ArtifactID, "-", "_"),
				"username":          "sa",
				"password":          "",
				"driver-class-name": "org.h2.Driver",
			},
			"jpa": map[string]any{
				"hibernate": map[string]any{
					"ddl-auto": "update",
				},
				"show-sql": false,
				"properties": map[string]any{
					"hibernate": map[string]any{
						"format_sql": true,
					},
				},
			},
			"h2": map[string]any{
				"console": map[string]any{
					"enabled": true,
				},
			},
		},
	}
	buf, err := yaml.Marshal(doc)
	if err != nil {
		return "", springforge.NewRenderError("application.yml", "encode failed", err)
	}
	return string(buf), nil
}

// EndpointSummary lists the CRUD base paths of all entities, for the
// generated README.
func (g *Graph) EndpointSummary() []string {
	paths := make([]string, 0, len(g.Nodes))
	for _, e := range g.Nodes {
		paths = append(paths, e.BaseAPIPath())
	}
	sort.Strings(paths)
	return paths
}
