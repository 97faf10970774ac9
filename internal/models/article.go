// Package models contains data structures for the application's domain models.
package models

import (
	"regexp"
	"strings"
	"time"
)

// Article limits enforced before any document is written.
const (
	MaxArticleTitleLen   = 300
	MaxArticleContentLen = 50000
	MaxArticleTags       = 5
	ExcerptMaxLen        = 150
	readingWordsPerMin   = 200
)

// Article represents an article document. The likeCount, commentCount and
// viewCount fields are eventually-consistent aggregates maintained through
// store-atomic increments, never read-modify-write.
type Article struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Excerpt      string    `json:"excerpt"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	CategoryID   string    `json:"category_id,omitempty"`
	Tags         []string  `json:"tags"`
	IsPublic     bool      `json:"is_public"`
	ReadingTime  int       `json:"reading_time"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	PublishedAt  time.Time `json:"published_at,omitempty"`

	// Author is enrichment for the response payload; never persisted and
	// never allowed to fail the primary operation.
	Author *Author `json:"author,omitempty"`
	// Liked indicates whether the requesting user liked this article (computed).
	Liked bool `json:"liked"`
}

// Author is the display info attached to articles and comments for rendering.
type Author struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

var (
	mdHeading  = regexp.MustCompile(`#{1,6}\s`)
	mdBold     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdItalic   = regexp.MustCompile(`\*(.*?)\*`)
	mdLink     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdCode     = regexp.MustCompile("```[^`]*```")
	mdInline   = regexp.MustCompile("`([^`]+)`")
	mdNewlines = regexp.MustCompile(`\n+`)
)

// GenerateExcerpt strips markdown syntax from content and truncates the
// plain text to ExcerptMaxLen characters.
func GenerateExcerpt(content string) string {
	plain := mdHeading.ReplaceAllString(content, "")
	plain = mdCode.ReplaceAllString(plain, "")
	plain = mdBold.ReplaceAllString(plain, "$1")
	plain = mdItalic.ReplaceAllString(plain, "$1")
	plain = mdLink.ReplaceAllString(plain, "$1")
	plain = mdInline.ReplaceAllString(plain, "$1")
	plain = strings.TrimSpace(mdNewlines.ReplaceAllString(plain, " "))

	runes := []rune(plain)
	if len(runes) <= ExcerptMaxLen {
		return plain
	}
	return string(runes[:ExcerptMaxLen]) + "..."
}

// CalculateReadingTime estimates reading time in minutes at 200 words per
// minute, rounded up.
func CalculateReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + readingWordsPerMin - 1) / readingWordsPerMin
}
