package script

import (
	"bytes"

	"github.com/adrg/frontmatter"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

// Options configures a Parser.
type Options struct {
	SungMarker string
}

// DefaultOptions returns the options used by NewParser when none are given.
func DefaultOptions() Options {
	return Options{SungMarker: DefaultSungMarker}
}

// Parser converts markdown scripts into projects.
type Parser struct {
	tokenizer Tokenizer
	opts      Options
}

// NewParser creates a parser. A nil tokenizer falls back to goldmark.
func NewParser(tokenizer Tokenizer, opts Options) *Parser {
	if tokenizer == nil {
		tokenizer = NewGoldmarkTokenizer()
	}
	return &Parser{tokenizer: tokenizer, opts: opts}
}

type frontMatter struct {
	Title      string  `yaml:"title" json:"title" toml:"title"`
	SungMarker *string `yaml:"sung_marker" json:"sung_marker" toml:"sung_marker"`
}

// Parse returns a single-element slice holding the parsed project. Only
// tokenizer failures are reported, as *entities.ParseError. A leading block
// that is not valid frontmatter is parsed as markdown.
func (p *Parser) Parse(source []byte) ([]entities.Project, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		meta = frontMatter{}
		body = source
	}

	nodes, err := p.tokenizer.Tokenize(body)
	if err != nil {
		return nil, &entities.ParseError{Err: err}
	}

	opts := BuildOptions{
		FallbackTitle: meta.Title,
		SungMarker:    p.opts.SungMarker,
	}
	if meta.SungMarker != nil {
		opts.SungMarker = *meta.SungMarker
	}

	return []entities.Project{BuildProject(nodes, opts)}, nil
}

// ParseString is a convenience wrapper around Parse.
func (p *Parser) ParseString(source string) ([]entities.Project, error) {
	return p.Parse([]byte(source))
}
