package script

// NodeKind tags a block-level markdown node.
type NodeKind int

const (
	NodeHeading NodeKind = iota + 1
	NodeParagraph
)

func (k NodeKind) String() string {
	switch k {
	case NodeHeading:
		return "heading"
	case NodeParagraph:
		return "paragraph"
	}
	return "unknown"
}

// Node is a block of the tokenized script. Depth is set for headings only.
type Node struct {
	Kind  NodeKind
	Depth int
	Text  string
}

// Heading builds a heading node.
func Heading(depth int, text string) Node {
	return Node{Kind: NodeHeading, Depth: depth, Text: text}
}

// Paragraph builds a paragraph node.
func Paragraph(text string) Node {
	return Node{Kind: NodeParagraph, Text: text}
}

// Tokenizer turns markdown source into block nodes in document order.
type Tokenizer interface {
	Tokenize(source []byte) ([]Node, error)
}
