package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/compiler/gen"
	"github.com/springforge/springforge/engine"
	"github.com/springforge/springforge/pack"
)

type generateFlags struct {
	diagram     string
	output      string
	groupID     string
	artifactID  string
	name        string
	scope       string
	classes     []string
	templateDir string
	header      string
	workers     int
	auditing    bool
	security    bool
	lenient     bool
	verbose     bool
	showTree    bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Spring Boot project from a diagram",
		Long:  "Generate reads a UML class diagram export (JSON) and writes a complete Spring Boot project plus a downloadable archive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.diagram, "diagram", "d", "", "Path to the diagram JSON export (required)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "./generated", "Output directory")
	cmd.Flags().StringVar(&flags.groupID, "group-id", "", "Maven group id (overrides config)")
	cmd.Flags().StringVar(&flags.artifactID, "artifact-id", "", "Maven artifact id (overrides config)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Project display name")
	cmd.Flags().StringVar(&flags.scope, "scope", string(springforge.ScopeFullProject), "Generation scope (FULL_PROJECT, ENTITIES_ONLY, REPOSITORIES_ONLY, SERVICES_ONLY, CONTROLLERS_ONLY, CUSTOM)")
	cmd.Flags().StringSliceVar(&flags.classes, "classes", nil, "Class names to generate when scope is CUSTOM")
	cmd.Flags().StringVar(&flags.templateDir, "templates", "", "Directory of template overrides")
	cmd.Flags().StringVar(&flags.header, "header", "", "Header comment for generated sources")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Parallel render workers (0 = number of CPUs)")
	cmd.Flags().BoolVar(&flags.auditing, "auditing", false, "Enable Hibernate auditing timestamps")
	cmd.Flags().BoolVar(&flags.security, "security", false, "Include Spring Security starter")
	cmd.Flags().BoolVar(&flags.lenient, "lenient", false, "Drop relationships with unknown endpoints instead of failing")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose logging")
	cmd.Flags().BoolVar(&flags.showTree, "tree", false, "Print the generated file tree")
	_ = cmd.MarkFlagRequired("diagram")

	return cmd
}

func runGenerate(cmd *cobra.Command, flags generateFlags) error {
	payload, err := os.ReadFile(flags.diagram)
	if err != nil {
		return fmt.Errorf("read diagram: %w", err)
	}

	project := loadProjectConfig()
	if flags.groupID != "" {
		project.GroupID = flags.groupID
	}
	if flags.artifactID != "" {
		project.ArtifactID = flags.artifactID
	}
	if flags.name != "" {
		project.ProjectName = flags.name
	}
	if flags.auditing {
		project.Features.Auditing = true
	}
	if flags.security {
		project.Features.Security = true
	}

	opts := []gen.Option{
		gen.WithScope(springforge.GenerationScope(flags.scope)),
		gen.WithSelectedClasses(flags.classes...),
	}
	if flags.templateDir != "" {
		opts = append(opts, gen.WithTemplateDir(flags.templateDir))
	}
	if flags.header != "" {
		opts = append(opts, gen.WithHeader(flags.header))
	}
	if flags.workers > 0 {
		opts = append(opts, gen.WithWorkers(flags.workers))
	}
	if flags.lenient {
		opts = append(opts, gen.WithLenientRelationships())
	}
	cfg, err := gen.NewConfig(project, opts...)
	if err != nil {
		return err
	}

	log, err := newLogger(flags.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	packager := pack.NewPackager(afero.NewOsFs(), flags.output)
	orch := engine.New(packager, engine.WithLogger(log))

	progress := func(pct int, detail map[string]any) {
		fmt.Printf("[%3d%%] %v\n", pct, detail["message"])
	}
	result, err := orch.Generate(cmd.Context(), payload, cfg, project.ArtifactID, progress)
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Generated %s in %s\n", pack.Summary(result.Project), result.Elapsed.Round(time.Millisecond))
	fmt.Printf("  project: %s\n", result.OutputPath)
	fmt.Printf("  archive: %s\n", result.ArchivePath)
	if flags.showTree {
		fmt.Println()
		fmt.Print(pack.RenderTree(result.Project))
	}
	return nil
}
