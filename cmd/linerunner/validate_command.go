package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/usecase/project"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project.json|project.yaml>...",
		Short: "Check project documents against the document schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := project.NewSchemaValidator()
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				p, err := validateFile(validator, path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %q, %d scenes, %d characters\n",
					path, p.Name, len(p.Scenes), len(p.Characters))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents invalid", failed, len(args))
			}
			return nil
		},
	}
}

func validateFile(validator *project.SchemaValidator, path string) (*entities.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &entities.ValidationError{Field: "document", Reason: err.Error()}
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, &entities.ValidationError{Field: "document", Reason: err.Error()}
		}
	}

	if err := validator.Validate(data); err != nil {
		return nil, err
	}
	p, err := entities.DecodeProject(data)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
