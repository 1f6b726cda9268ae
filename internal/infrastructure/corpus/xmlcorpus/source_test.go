package xmlcorpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleArticle = `<?xml version="1.0" encoding="UTF-8"?>
<article><front><abstract><title>Abstract</title><p>First <italic>word</italic> here.</p></abstract></front><body><sec><title>Intro</title><p>Body text.</p></sec></body></article>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestParseExtractsSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.xml")
	writeFile(t, path, sampleArticle)

	pair, err := NewSource().Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if pair.Abstract != "Abstract\nFirst\nword here." {
		t.Fatalf("abstract = %q", pair.Abstract)
	}
	if pair.Body != "Intro\nBody text." {
		t.Fatalf("body = %q", pair.Body)
	}
}

func TestParseMissingSectionYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.xml")
	writeFile(t, path, `<article><body>
  <p>x</p>
</body></article>`)

	pair, err := NewSource().Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if pair.Abstract != "" || pair.Body != "x" {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if pair.Complete() {
		t.Fatalf("pair without abstract must be incomplete")
	}
}

func TestParseMalformedXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	writeFile(t, path, `<article lang=></article>`)

	if _, err := NewSource().Parse(context.Background(), path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestListIsLexicalAndFiltersExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.xml", "a/c.xml", "a.xml", "notes.txt"} {
		writeFile(t, filepath.Join(root, name), "<article/>")
	}

	paths, err := NewSource().List(context.Background(), root)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "a", "c.xml"),
		filepath.Join(root, "a.xml"),
		filepath.Join(root, "b.xml"),
	}
	if len(paths) != len(want) {
		t.Fatalf("List() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("List()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}
