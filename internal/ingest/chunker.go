package ingest

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	minChunkRunes = 50
	maxChunkRunes = 700 // targets ~450 tokens for a 512-token embedding model
)

// Chunker splits corpus documents into embeddable chunks. Markdown files are
// split at heading boundaries via goldmark AST parsing; plain text files are
// split at blank-line paragraph boundaries.
type Chunker struct {
	parser goldmark.Markdown
}

// NewChunker creates a new Chunker.
func NewChunker() *Chunker {
	return &Chunker{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// ChunkFile splits file content into chunks and returns the document title.
// Markdown handling applies to .md files; anything else is treated as plain
// text.
func (c *Chunker) ChunkFile(content []byte, filename string) (string, []Chunk) {
	if strings.ToLower(filepath.Ext(filename)) == ".md" {
		return c.chunkMarkdown(content, filename)
	}
	title := titleFromFilename(filename)
	return title, applySizeConstraints(chunkPlainText(string(content), title))
}

func (c *Chunker) chunkMarkdown(content []byte, filename string) (string, []Chunk) {
	if len(content) == 0 {
		return titleFromFilename(filename), nil
	}

	doc := c.parser.Parser().Parse(text.NewReader(content))
	title := extractTitle(doc, content, filename)

	var (
		chunks  []Chunk
		stack   []headingInfo
		current strings.Builder
		section = "# " + title
	)

	flush := func() {
		body := strings.TrimSpace(current.String())
		current.Reset()
		if body == "" {
			return
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Section: section, Text: body})
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok {
			flush()
			for len(stack) > 0 && stack[len(stack)-1].level >= heading.Level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, headingInfo{level: heading.Level, text: nodeText(heading, content)})
			section = headingPath(stack)
			continue
		}

		body := nodeText(node, content)
		if body == "" {
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(body)
	}
	flush()

	if len(chunks) == 0 {
		body := strings.TrimSpace(string(content))
		if body != "" {
			chunks = append(chunks, Chunk{Index: 0, Section: "# " + title, Text: body})
		}
	}

	return title, applySizeConstraints(chunks)
}

// chunkPlainText splits text into chunks at blank-line boundaries.
func chunkPlainText(content, title string) []Chunk {
	var chunks []Chunk
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Section: title, Text: block})
	}
	return chunks
}

type headingInfo struct {
	level int
	text  string
}

// headingPath renders a heading stack as "# A > ## B > ### C".
func headingPath(stack []headingInfo) string {
	parts := make([]string, len(stack))
	for i, h := range stack {
		parts[i] = strings.Repeat("#", h.level) + " " + h.text
	}
	return strings.Join(parts, " > ")
}

// extractTitle prefers the first level-1 heading, then the first level-2
// heading, then the filename.
func extractTitle(doc ast.Node, content []byte, filename string) string {
	var firstH1, firstH2 string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			switch {
			case heading.Level == 1 && firstH1 == "":
				firstH1 = nodeText(heading, content)
				return ast.WalkStop, nil
			case heading.Level == 2 && firstH2 == "":
				firstH2 = nodeText(heading, content)
			}
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	if firstH2 != "" {
		return firstH2
	}
	return titleFromFilename(filename)
}

// titleFromFilename derives a title by dropping the extension and
// capitalizing each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// nodeText extracts the plain text of a block node and its children. Table
// rows are rendered with pipe separators so tabular product data survives
// into the chunk text.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		case *ast.CodeBlock:
			writeLines(&b, v, content)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			writeLines(&b, v, content)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.ListItem:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
		default:
			kind := node.Kind().String()
			if kind == "TableRow" || kind == "TableHeader" {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteString("\n")
				}
				b.WriteString(tableRowText(node, content))
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func writeLines(b *strings.Builder, node ast.Node, content []byte) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(content))
	}
}

// tableRowText renders a table row's cells joined by " | ".
func tableRowText(row ast.Node, content []byte) string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, nodeText(cell, content))
	}
	return strings.Join(cells, " | ")
}

// applySizeConstraints merges undersized chunks into their successor and
// splits oversized chunks, then re-indexes. Sizes are measured in runes.
func applySizeConstraints(chunks []Chunk) []Chunk {
	if len(chunks) == 0 {
		return chunks
	}

	var result []Chunk
	for i := 0; i < len(chunks); i++ {
		current := chunks[i]

		for utf8.RuneCountInString(current.Text) < minChunkRunes && i+1 < len(chunks) {
			next := chunks[i+1]
			merged := current.Text + "\n\n" + next.Text
			if utf8.RuneCountInString(merged) > maxChunkRunes {
				break
			}
			current.Text = merged
			i++
		}

		if utf8.RuneCountInString(current.Text) > maxChunkRunes {
			result = append(result, splitChunk(current)...)
		} else {
			result = append(result, current)
		}
	}

	for i := range result {
		result[i].Index = i
	}
	return result
}

// splitChunk splits an oversized chunk, preferring paragraph boundaries,
// then line boundaries, then sentence boundaries, then a hard cut.
func splitChunk(chunk Chunk) []Chunk {
	runes := []rune(chunk.Text)
	var splits []Chunk

	for start := 0; start < len(runes); {
		end := start + maxChunkRunes
		if end >= len(runes) {
			splits = append(splits, Chunk{Section: chunk.Section, Text: string(runes[start:])})
			break
		}

		window := string(runes[start:end])
		cut := end
		if b := strings.LastIndex(window, "\n\n"); b != -1 {
			cut = start + utf8.RuneCountInString(window[:b+2])
		} else if b := strings.LastIndex(window, "\n"); b != -1 {
			cut = start + utf8.RuneCountInString(window[:b+1])
		} else if b := strings.LastIndex(window, ". "); b != -1 {
			cut = start + utf8.RuneCountInString(window[:b+2])
		}

		splits = append(splits, Chunk{Section: chunk.Section, Text: string(runes[start:cut])})
		start = cut
	}

	return splits
}
