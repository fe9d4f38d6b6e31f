package springforge

import (
	version "github.com/hashicorp/go-version"
)

// GenerationScope selects which artifact kinds a request produces.
type GenerationScope string

// Generation scopes. FullProject emits every artifact kind plus the build,
// configuration and metadata files; the *Only scopes emit a single kind and
// no auxiliary files; Custom restricts generation to a selected class subset.
const (
	ScopeFullProject      GenerationScope = "FULL_PROJECT"
	ScopeEntitiesOnly     GenerationScope = "ENTITIES_ONLY"
	ScopeRepositoriesOnly GenerationScope = "REPOSITORIES_ONLY"
	ScopeServicesOnly     GenerationScope = "SERVICES_ONLY"
	ScopeControllersOnly  GenerationScope = "CONTROLLERS_ONLY"
	ScopeCustom           GenerationScope = "CUSTOM"
)

// Valid reports whether the scope is one of the known values.
func (s GenerationScope) Valid() bool {
	switch s {
	case ScopeFullProject, ScopeEntitiesOnly, ScopeRepositoriesOnly,
		ScopeServicesOnly, ScopeControllersOnly, ScopeCustom:
		return true
	}
	return false
}

// Includes reports whether the scope covers the given artifact kind.
func (s GenerationScope) Includes(kind ArtifactKind) bool {
	switch s {
	case ScopeFullProject, ScopeCustom:
		return true
	case ScopeEntitiesOnly:
		return kind == ArtifactEntity
	case ScopeRepositoriesOnly:
		return kind == ArtifactRepository
	case ScopeServicesOnly:
		return kind == ArtifactService || kind == ArtifactDTO
	case ScopeControllersOnly:
		return kind == ArtifactController
	}
	return false
}

// Features toggles optional dependency and import groups in the generated
// project. Each enabled feature pulls extra build dependencies and imports.
type Features struct {
	Validation    bool `json:"validation" yaml:"validation"`
	Security      bool `json:"security" yaml:"security"`
	Documentation bool `json:"documentation" yaml:"documentation"`
	Auditing      bool `json:"auditing" yaml:"auditing"`
}

// DefaultFeatures returns the feature set enabled when a request carries none.
func DefaultFeatures() Features {
	return Features{Validation: true, Documentation: true}
}

// ProjectConfig describes the Spring Boot project to emit. Group and artifact
// identifiers plus the version pins are required; everything else defaults.
type ProjectConfig struct {
	GroupID           string   `json:"groupId" yaml:"group_id"`
	ArtifactID        string   `json:"artifactId" yaml:"artifact_id"`
	Version           string   `json:"version" yaml:"version"`
	ProjectName       string   `json:"projectName" yaml:"project_name"`
	Description       string   `json:"description" yaml:"description"`
	JavaVersion       string   `json:"javaVersion" yaml:"java_version"`
	SpringBootVersion string   `json:"springBootVersion" yaml:"spring_boot_version"`
	ServerPort        int      `json:"serverPort" yaml:"server_port"`
	Dependencies      []string `json:"dependencies" yaml:"dependencies"`
	Features          Features `json:"features" yaml:"features"`

	// PaginationThreshold is the number of searchable attributes a class
	// needs before paginated listing is generated for it. Kept configurable;
	// the historical default is 2.
	PaginationThreshold int `json:"paginationThreshold" yaml:"pagination_threshold"`
}

// DefaultProjectConfig returns a ProjectConfig with the defaults used when a
// request supplies only group and artifact identifiers.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		GroupID:           "com.enterprise.generated",
		Version:           "1.0.0",
		JavaVersion:       "17",
		SpringBootVersion: "3.2.0",
		ServerPort:        8080,
		Features:          DefaultFeatures(),
		Dependencies: []string{
			"spring-boot-starter-web",
			"spring-boot-starter-data-jpa",
			"spring-boot-starter-test",
		},
		PaginationThreshold: 2,
	}
}

// minSpringBoot is the oldest framework generation the emitted project
// layout supports (jakarta namespace, spring-boot-maven-plugin layout).
var minSpringBoot = version.Must(version.NewVersion("2.0.0"))

// Validate checks the configuration before any workspace is created.
// A failure is a ConfigError; nothing has been written when it is returned.
func (c *ProjectConfig) Validate() error {
	if c.GroupID == "" {
		return NewConfigError("groupId", nil, "group id is required")
	}
	if c.ArtifactID == "" {
		return NewConfigError("artifactId", nil, "artifact id is required")
	}
	if c.JavaVersion == "" {
		return NewConfigError("javaVersion", nil, "java version is required")
	}
	if _, err := version.NewVersion(c.JavaVersion); err != nil {
		return NewConfigError("javaVersion", c.JavaVersion, "not a valid version string")
	}
	if c.SpringBootVersion == "" {
		return NewConfigError("springBootVersion", nil, "spring boot version is required")
	}
	sb, err := version.NewVersion(c.SpringBootVersion)
	if err != nil {
		return NewConfigError("springBootVersion", c.SpringBootVersion, "not a valid version string")
	}
	if sb.LessThan(minSpringBoot) {
		return NewConfigError("springBootVersion", c.SpringBootVersion, "unsupported framework generation")
	}
	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return NewConfigError("serverPort", c.ServerPort, "port out of range")
	}
	if c.PaginationThreshold < 0 {
		return NewConfigError("paginationThreshold", c.PaginationThreshold, "must be non-negative")
	}
	return nil
}

// ApplicationClassName returns the name of the generated main class,
// derived from the artifact id.
func (c *ProjectConfig) ApplicationClassName() string {
	name := make([]rune, 0, len(c.ArtifactID))
	upper := true
	for _, r := range c.ArtifactID {
		switch {
		case r == '-' || r == '_' || r == '.':
			upper = true
		case upper:
			name = append(name, toUpperRune(r))
			upper = false
		default:
			name = append(name, r)
		}
	}
	return string(name) + "Application"
}

// PackagePath returns the group id as a slash-separated directory path.
func (c *ProjectConfig) PackagePath() string {
	path := make([]rune, 0, len(c.GroupID))
	for _, r := range c.GroupID {
		if r == '.' {
			path = append(path, '/')
		} else {
			path = append(path, r)
		}
	}
	return string(path)
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
