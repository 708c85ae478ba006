package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/infrastructure/localstore"
)

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// loadProjects reads a markdown script or a JSON/YAML project document
func loadProjects(ctx *commandContext, path string) ([]entities.Project, error) {
	if !isMarkdown(path) {
		project, err := localstore.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []entities.Project{*project}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	projects, err := ctx.parser().Parse(data)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%s contains no project", path)
	}
	return projects, nil
}

// slugify turns a title into a local project file name
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
