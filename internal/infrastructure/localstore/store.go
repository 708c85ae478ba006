package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Entry describes one local project file
type Entry struct {
	Name    string `json:"name"`
	Project string `json:"project"`
	Path    string `json:"-"`
}

// Store reads bundled project documents from a directory
type Store struct {
	dir string
}

// New creates a store rooted at dir
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the root directory
func (s *Store) Dir() string {
	return s.dir
}

// List returns every readable project file, sorted by name. Files that fail
// to decode are skipped.
func (s *Store) List() ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read local projects: %w", err)
	}

	entries := make([]Entry, 0, len(files))
	seen := make(map[string]struct{})
	for _, f := range files {
		if f.IsDir() || !supported(f.Name()) {
			continue
		}
		name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		if _, ok := seen[name]; ok {
			continue
		}
		path := filepath.Join(s.dir, f.Name())
		project, err := ReadFile(path)
		if err != nil {
			continue
		}
		seen[name] = struct{}{}
		entries = append(entries, Entry{Name: name, Project: project.Name, Path: path})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Load reads the project stored under name
func (s *Store) Load(name string) (*entities.Project, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	for _, ext := range extensions {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return ReadFile(path)
	}
	return nil, &entities.NotFoundError{Kind: entities.NotFoundProject, Key: name}
}

// Save writes project as name.json, replacing any existing file
func (s *Store) Save(name string, project entities.Project) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create local project dir: %w", err)
	}

	project.RecomputeCharacters()
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode project: %w", err)
	}

	path := filepath.Join(s.dir, name+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write project file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to replace project file: %w", err)
	}
	return path, nil
}

// ReadFile decodes a JSON or YAML project document
func ReadFile(path string) (*entities.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &entities.NotFoundError{Kind: entities.NotFoundProject, Key: path}
		}
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses a project document. YAML is normalised through JSON so the
// legacy line shapes are handled in one place.
func Decode(data []byte, ext string) (*entities.Project, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &entities.ValidationError{Reason: fmt.Sprintf("invalid yaml: %v", err)}
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, &entities.ValidationError{Reason: fmt.Sprintf("unsupported yaml document: %v", err)}
		}
		data = converted
	}
	return entities.DecodeProject(data)
}

func supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return &entities.ValidationError{Field: "name", Reason: "invalid local project name"}
	}
	return nil
}
