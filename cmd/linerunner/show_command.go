package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var scene string

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Display the scenes of a script, or the lines of one scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := loadProjects(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range projects {
				fmt.Fprintf(out, "%s\n", p.Name)
				fmt.Fprintf(out, "Characters: %s\n", strings.Join(p.Characters, ", "))

				if scene == "" {
					fmt.Fprintln(out, renderScenes(p))
					continue
				}
				s, err := p.Scene(scene)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderLines(*s))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scene, "scene", "s", "", "Show the lines of this scene")
	return cmd
}

func renderScenes(p entities.Project) string {
	rows := make([][]string, 0, len(p.Scenes))
	for i, s := range p.Scenes {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Title,
			strconv.Itoa(len(s.Lines)),
			strings.Join(entities.DeriveCharacters([]entities.Scene{s}), ", "),
		})
	}
	return renderTable(
		[]string{"#", "Scene", "Lines", "Characters"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	)
}

func renderLines(s entities.Scene) string {
	rows := make([][]string, 0, len(s.Lines))
	for i, l := range s.Lines {
		sung := ""
		if l.Sung {
			sung = "♪"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strings.Join(l.Characters, " & "),
			l.Text,
			sung,
		})
	}
	return renderTable(
		[]string{"#", "Character", "Line", "Sung"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}
