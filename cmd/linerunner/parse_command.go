package main

import (
	"github.com/spf13/cobra"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <script.md>",
		Short: "Parse a markdown script and print the project JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := loadProjects(ctx, args[0])
			if err != nil {
				return err
			}
			if len(projects) == 1 {
				return writeJSON(cmd, projects[0])
			}
			return writeJSON(cmd, projects)
		},
	}
}
