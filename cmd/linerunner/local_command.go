package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/linerunner/internal/infrastructure/localstore"
)

func newLocalCommand() *cobra.Command {
	var dir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "local",
		Short: "List the local fallback projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := localstore.New(dir).List()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No local projects in %s\n", dir)
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Name, e.Project, e.Path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Project", "Path"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "data/projects", "Local project directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
