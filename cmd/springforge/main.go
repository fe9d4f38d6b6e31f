// Package main is the entry point for the springforge CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/springforge/springforge/cmd/springforge/commands"
)

var (
	// Version information (set by build)
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:     "springforge",
		Short:   "Generate Spring Boot projects from UML class diagrams",
		Long:    "springforge turns a UML class diagram export into a complete Spring Boot project: JPA entities, repositories, services, DTOs and REST controllers.",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	}

	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewEstimateCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())

	return rootCmd.Execute()
}
