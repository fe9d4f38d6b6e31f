package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/springforge/springforge/compiler/gen"
	"github.com/springforge/springforge/compiler/load"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <diagram.json>",
		Short: "Validate a diagram export without generating anything",
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
			fmt.Printf("✓ %d classes, %d relationships\n", len(diagram.Classes), len(diagram.Relationships))
			for _, c := range diagram.Classes {
				if el := gen.Eligible(c); !el.Eligible {
					fmt.Printf("  - %s will be skipped: %s\n", c.Name, el.Reason)
				}
			}
			return nil
		},
	}
	return cmd
}
