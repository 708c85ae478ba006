package main

import (
	"github.com/spf13/cobra"

	"github.com/johnquangdev/linerunner/internal/usecase/script"
)

type commandContext struct {
	sungMarker string
}

func (c *commandContext) parser() *script.Parser {
	opts := script.DefaultOptions()
	if c.sungMarker != "" {
		opts.SungMarker = c.sungMarker
	}
	return script.NewParser(nil, opts)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "linerunner",
		Short:         "Offline tools for LineRunner scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.sungMarker, "sung-marker", script.DefaultSungMarker, "Marker wrapping sung paragraphs")

	rootCmd.AddCommand(newParseCommand(ctx))
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newLocalCommand())
	rootCmd.AddCommand(newMigrateCommand())

	return rootCmd
}
