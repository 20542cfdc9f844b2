// Package ingest turns uploaded documents into indexed, searchable chunks.
package ingest

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"chatdoc/db"
	"chatdoc/docname"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2s"
)

const maxSectionDepth = 4 // Maximum depth of section hierarchy to chunk

type MarkdownChunker struct{}

func ProvideMarkdownChunker() *MarkdownChunker {
	return &MarkdownChunker{}
}

// ChunkDocument splits a markdown document into section-level chunks. Each
// chunk's Page is its 0-based ordinal within the document. A document with no
// headings becomes a single chunk.
func (c *MarkdownChunker) ChunkDocument(ctx context.Context, fileName string, markdown []byte) ([]db.ChunkModel, error) {
	sections := parseMarkdownSections(markdown)
	if len(sections) == 0 {
		logger.Error("Document has no text to chunk", zap.String("fileName", fileName))
		return nil, fmt.Errorf("document %q has no text to chunk", fileName)
	}

	displayName := docname.DisplayName(fileName)

	out := make([]db.ChunkModel, 0, len(sections))
	for idx, sec := range sections {
		// The ordinal keeps ids distinct when heading paths repeat.
		secHash := hash(fmt.Sprintf("%s|%d|%s", fileName, idx, strings.Join(sec.path, "|")))

		out = append(out, db.ChunkModel{
			ChunkID:     fmt.Sprintf("%s-%s", fileName, secHash),
			SourceURI:   fileName,
			DisplayName: displayName,
			Page:        idx,
			Body:        sec.body,
		})
	}

	return out, nil
}

func hash(s string) string {
	h, _ := blake2s.New256(nil)
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))[:10]
}

func parseMarkdownSections(md []byte) []markdownSection {
	var out []markdownSection

	reader := text.NewReader(md)
	root := goldmark.DefaultParser().Parse(reader)

	var currentPath []string
	var buf bytes.Buffer

	flush := func() {
		if buf.Len() > 0 {
			dst := append([]string(nil), currentPath...)
			out = append(out, markdownSection{path: dst, body: strings.TrimSpace(buf.String())})
			buf.Reset()
		}
	}

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			flush()
			headingText := string(h.Text(md))
			level := h.Level
			if level <= maxSectionDepth {
				if len(currentPath) >= level {
					currentPath = currentPath[:level-1]
				}
				currentPath = append(currentPath, headingText)
			}
			// body starts after the heading node
			return ast.WalkSkipChildren, nil
		}

		// Leaf blocks carry the section text in their source lines; container
		// blocks have none, so nothing is counted twice.
		if entering && n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(md))
			}
			if lines.Len() > 0 {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	flush()

	return out
}

type markdownSection struct {
	path []string // section heading path, used for stable chunk ids
	body string
}
