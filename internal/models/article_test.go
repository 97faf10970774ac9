package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateExcerpt(t *testing.T) {
	t.Parallel()

	t.Run("strips markdown", func(t *testing.T) {
		content := "# Heading\n\nSome **bold** and *italic* text with [a link](https://example.com) and `inline code`."
		excerpt := GenerateExcerpt(content)
		assert.Equal(t, "Heading Some bold and italic text with a link and inline code.", excerpt)
	})

	t.Run("truncates long content with ellipsis", func(t *testing.T) {
		content := strings.Repeat("word ", 100)
		excerpt := GenerateExcerpt(content)
		assert.True(t, strings.HasSuffix(excerpt, "..."))
		assert.Len(t, []rune(excerpt), ExcerptMaxLen+3)
	})

	t.Run("short content untouched", func(t *testing.T) {
		assert.Equal(t, "Short text.", GenerateExcerpt("Short text."))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		content := strings.Repeat("あ", ExcerptMaxLen+10)
		excerpt := GenerateExcerpt(content)
		assert.Len(t, []rune(excerpt), ExcerptMaxLen+3)
	})
}

func TestCalculateReadingTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty content", "", 0},
		{"single word rounds up", "hello", 1},
		{"exactly one minute", strings.Repeat("word ", 200), 1},
		{"just over one minute", strings.Repeat("word ", 201), 2},
		{"three minutes", strings.Repeat("word ", 550), 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateReadingTime(tt.content))
		})
	}
}

func TestTagSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "go", TagSlug("Go"))
	assert.Equal(t, "machine-learning", TagSlug("  Machine Learning "))
	assert.Equal(t, "a-b-c", TagSlug("a  b\tc"))
}

func TestUser_CanPublish(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"verified with name", User{DisplayName: "alice", EmailVerified: true}, true},
		{"missing display name", User{EmailVerified: true}, false},
		{"default display name", User{DisplayName: "Anonymous", EmailVerified: true}, false},
		{"unverified email", User{DisplayName: "alice"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.CanPublish())
		})
	}
}

func TestCategoryByID(t *testing.T) {
	t.Parallel()

	c := CategoryByID("frontend")
	if assert.NotNil(t, c) {
		assert.Equal(t, "フロントエンド", c.Name)
	}
	assert.Nil(t, CategoryByID("unknown"))
	assert.Len(t, Categories(), 7)
}

func TestErrorTaxonomy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CodeNotFound, ErrorCode(NewNotFoundError("Article", "a1")))
	assert.Equal(t, CodeThreadTooDeep, ErrorCode(NewThreadTooDeepError(MaxCommentDepth)))
	assert.Equal(t, CodeWriteFailed, ErrorCode(NewWriteFailedError(assert.AnError)))

	assert.Equal(t, 404, StatusForError(NewNotFoundError("Article", "a1")))
	assert.Equal(t, 400, StatusForError(NewThreadTooDeepError(MaxCommentDepth)))
	assert.Equal(t, 409, StatusForError(NewAlreadyExistsError("dup")))
	assert.Equal(t, 502, StatusForError(NewWriteFailedError(assert.AnError)))
}
