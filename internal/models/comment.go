package models

import "time"

const (
	// MaxCommentLen bounds comment content in characters.
	MaxCommentLen = 1000
	// MaxCommentDepth bounds reply nesting; 0 is a top-level comment.
	MaxCommentDepth = 3
	// DeletedCommentContent replaces the content of a soft-deleted comment.
	DeletedCommentContent = "[削除されました]"
)

// Comment represents a comment document in the flat comments collection.
// Threading is expressed through ParentID and Depth rather than nesting;
// the access pattern is always lookup-by-id or children-of-id.
//
// AuthorName is a redundant copy of the author's display name so comments
// stay renderable when the user document is missing.
type Comment struct {
	ID         string    `json:"id"`
	ArticleID  string    `json:"article_id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	ParentID   string    `json:"parent_id,omitempty"`
	Depth      int       `json:"depth"`
	ChildCount int64     `json:"child_count"`
	LikeCount  int64     `json:"like_count"`
	IsDeleted  bool      `json:"is_deleted"`
	IsEdited   bool      `json:"is_edited"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Author is best-effort enrichment for the response payload.
	Author *Author `json:"author,omitempty"`
}

// CommentThread groups a top-level comment with a bounded preview of its
// direct replies.
type CommentThread struct {
	Comment        *Comment   `json:"comment"`
	Replies        []*Comment `json:"replies"`
	TotalReplies   int64      `json:"total_replies"`
	HasMoreReplies bool       `json:"has_more_replies"`
}
