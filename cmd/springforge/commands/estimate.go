package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/compiler/load"
	"github.com/springforge/springforge/engine"
)

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "estimate <diagram.json>",
		Short: "Estimate generation complexity for a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read diagram: %w", err)
			}
			diagram, err := load.UnmarshalDiagram(payload)
			if err != nil {
				return err
			}
			cx := engine.Estimate(diagram, springforge.GenerationScope(scope))
			fmt.Printf("classes:       %d\n", cx.Classes)
			fmt.Printf("relationships: %d\n", cx.Relationships)
			fmt.Printf("score:         %d\n", cx.Score)
			fmt.Printf("complexity:    %s\n", cx.Level)
			fmt.Printf("estimate:      %s\n", cx.Estimate)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", string(springforge.ScopeFullProject), "Generation scope the estimate assumes")

	return cmd
}
