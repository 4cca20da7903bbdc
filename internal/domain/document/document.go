// Package document holds the knowledge-base document aggregate.
package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shoplite/storeassist/internal/domain/language"
)

// Document is a knowledge-base entry (immutable value object).
// Content is kept per language tag; the store guarantees id uniqueness.
type Document struct {
	id      string
	title   string
	content map[language.Tag]string
}

// New validates and creates a Document.
// ID: non-empty, max 256 chars. At least one non-empty content variant is required.
func New(id, title string, content map[language.Tag]string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}

	hasContent := false
	for _, v := range content {
		if strings.TrimSpace(v) != "" {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return Document{}, fmt.Errorf("document %q has no content variant", id)
	}

	return Document{id: id, title: title, content: cloneContent(content)}, nil
}

// Reconstruct creates a Document without validation (trusted sources only).
func Reconstruct(id, title string, content map[language.Tag]string) Document {
	return Document{id: id, title: title, content: content}
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Title returns the document title.
func (d Document) Title() string { return d.title }

// ContentFor returns the content variant for lang. When that variant is missing
// or empty it falls back to another available variant (English first, then the
// remaining tags in sorted order), and returns "" only if no variant exists.
func (d Document) ContentFor(lang language.Tag) string {
	if c := d.content[lang]; c != "" {
		return c
	}
	if c := d.content[language.English]; c != "" {
		return c
	}

	tags := make([]string, 0, len(d.content))
	for t := range d.content {
		tags = append(tags, string(t))
	}
	sort.Strings(tags)
	for _, t := range tags {
		if c := d.content[language.Tag(t)]; c != "" {
			return c
		}
	}
	return ""
}

// EmbeddingText returns the text used to vectorize the document at index build
// time. English content is preferred so all index vectors share one language.
func (d Document) EmbeddingText() string {
	return d.ContentFor(language.English)
}

func cloneContent(m map[language.Tag]string) map[language.Tag]string {
	if m == nil {
		return nil
	}
	c := make(map[language.Tag]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
