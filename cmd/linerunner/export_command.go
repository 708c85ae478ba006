package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/linerunner/internal/infrastructure/localstore"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outDir string
	var name string

	cmd := &cobra.Command{
		Use:   "export <script.md>",
		Short: "Write a script as a local fallback project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := loadProjects(ctx, args[0])
			if err != nil {
				return err
			}
			for _, p := range projects {
				if err := p.Validate(); err != nil {
					return fmt.Errorf("%s: %w", p.Name, err)
				}
			}

			store := localstore.New(outDir)
			for i, p := range projects {
				fileName := name
				if fileName == "" {
					fileName = slugify(p.Name)
				}
				if fileName == "" {
					fileName = slugify(baseName(args[0]))
				}
				if len(projects) > 1 && name != "" {
					fileName = fmt.Sprintf("%s-%d", name, i+1)
				}

				path, err := store.Save(fileName, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "data/projects", "Local project directory")
	cmd.Flags().StringVar(&name, "name", "", "File name without extension (defaults to the project title)")
	return cmd
}
