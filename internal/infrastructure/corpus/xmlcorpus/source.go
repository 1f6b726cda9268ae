package xmlcorpus

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

// Tags followed by a line break in extracted text.
var blockTags = map[string]struct{}{
	"p":        {},
	"sec":      {},
	"abstract": {},
	"body":     {},
	"title":    {},
}

var newlineCleanup = []struct{ old, new string }{
	{" \n ", "\n"},
	{"\n ", "\n"},
	{" \n", "\n"},
}

// Source reads journal articles stored as XML files.
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

// List returns every .xml file under root in lexical walk order.
func (s *Source) List(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".xml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}
	return paths, nil
}

func (s *Source) Parse(_ context.Context, path string) (domain.ArticlePair, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return domain.ArticlePair{}, fmt.Errorf("read xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return domain.ArticlePair{}, fmt.Errorf("xml document has no root element")
	}
	return domain.ArticlePair{
		Abstract: sectionText(root.FindElement(".//abstract")),
		Body:     sectionText(root.FindElement(".//body")),
	}, nil
}

// sectionText flattens a section: each element's trimmed text and tail in document
// order, with a line break after block-level tags.
func sectionText(section *etree.Element) string {
	if section == nil {
		return ""
	}
	var parts []string
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if text := e.Text(); text != "" {
			parts = append(parts, strings.TrimSpace(text))
		}
		if tail := e.Tail(); tail != "" {
			parts = append(parts, strings.TrimSpace(tail))
		}
		if _, ok := blockTags[e.Tag]; ok {
			parts = append(parts, "\n")
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	walk(section)

	out := strings.TrimSpace(strings.Join(parts, " "))
	for _, r := range newlineCleanup {
		out = strings.ReplaceAll(out, r.old, r.new)
	}
	return out
}
