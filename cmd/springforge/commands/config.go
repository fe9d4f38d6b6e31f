// Package commands implements the springforge CLI commands.
package commands

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/springforge/springforge"
)

// loadProjectConfig builds a project configuration from defaults, an
// optional .springforge.yaml in the working directory or home, and
// SPRINGFORGE_* environment variables. Flags override on top.
func loadProjectConfig() springforge.ProjectConfig {
	v := viper.New()
	v.SetConfigName(".springforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	v.SetEnvPrefix("SPRINGFORGE")
	v.AutomaticEnv()

	project := springforge.DefaultProjectConfig()
	v.SetDefault("group_id", project.GroupID)
	v.SetDefault("version", project.Version)
	v.SetDefault("java_version", project.JavaVersion)
	v.SetDefault("spring_boot_version", project.SpringBootVersion)
	v.SetDefault("server_port", project.ServerPort)
	v.SetDefault("dependencies", project.Dependencies)
	v.SetDefault("pagination_threshold", project.PaginationThreshold)
	v.SetDefault("features.validation", project.Features.Validation)
	v.SetDefault("features.documentation", project.Features.Documentation)
	v.SetDefault("features.security", project.Features.Security)
	v.SetDefault("features.auditing", project.Features.Auditing)

	// Missing config file keeps the defaults.
	_ = v.ReadInConfig()

	project.GroupID = v.GetString("group_id")
	project.ArtifactID = v.GetString("artifact_id")
	project.Version = v.GetString("version")
	project.ProjectName = v.GetString("project_name")
	project.Description = v.GetString("description")
	project.JavaVersion = v.GetString("java_version")
	project.SpringBootVersion = v.GetString("spring_boot_version")
	project.ServerPort = v.GetInt("server_port")
	project.Dependencies = v.GetStringSlice("dependencies")
	project.PaginationThreshold = v.GetInt("pagination_threshold")
	project.Features.Validation = v.GetBool("features.validation")
	project.Features.Documentation = v.GetBool("features.documentation")
	project.Features.Security = v.GetBool("features.security")
	project.Features.Auditing = v.GetBool("features.auditing")
	return project
}

// newLogger builds the CLI logger. Verbose runs switch to development
// output with debug level.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopmentConfig().Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
