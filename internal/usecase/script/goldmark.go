package script

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// GoldmarkTokenizer tokenizes CommonMark with goldmark. Only top-level
// headings and paragraphs are emitted; lists, code blocks, quotes and raw
// HTML are skipped.
type GoldmarkTokenizer struct {
	md goldmark.Markdown
}

// NewGoldmarkTokenizer builds a tokenizer with the plain CommonMark parser.
// Typographic and strikethrough extensions are left out so line text is kept
// verbatim for input matching.
func NewGoldmarkTokenizer(opts ...goldmark.Option) *GoldmarkTokenizer {
	return &GoldmarkTokenizer{md: goldmark.New(opts...)}
}

// Tokenize implements Tokenizer.
func (t *GoldmarkTokenizer) Tokenize(source []byte) ([]Node, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("markdown is not valid UTF-8")
	}

	doc := t.md.Parser().Parse(text.NewReader(source))

	var nodes []Node
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			nodes = append(nodes, Heading(n.Level, inlineText(n, source)))
		case *ast.Paragraph:
			nodes = append(nodes, Paragraph(inlineText(n, source)))
		}
	}
	return nodes, nil
}

// inlineText concatenates the text content of every inline descendant.
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	writeInline(&buf, n, source)
	return buf.String()
}

func writeInline(buf *bytes.Buffer, n ast.Node, source []byte) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.AutoLink:
			buf.Write(c.Label(source))
		case *ast.RawHTML:
			// skipped
		default:
			writeInline(buf, child, source)
		}
	}
}
