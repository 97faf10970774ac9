package models

import (
	"strings"
	"time"
)

// Tag represents a tag document keyed by its name-derived slug. Tags are
// created implicitly on first use (merge-upsert) or explicitly. ArticleCount
// mirrors the number of public articles referencing the tag.
type Tag struct {
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	ArticleCount int64     `json:"article_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TagSlug derives the document id from a tag name: lower-cased with
// whitespace runs collapsed to single hyphens.
func TagSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
