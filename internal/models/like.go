package models

import "time"

// Like is a composite-keyed join record whose existence is the source of
// truth for "has this user liked this article". Its presence or absence
// drives the article's likeCount.
type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ArticleID string    `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike is the comment counterpart of Like.
type CommentLike struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CommentID string    `json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeID builds the composite document key for an article like.
func LikeID(userID, articleID string) string {
	return userID + "_" + articleID
}

// CommentLikeID builds the composite document key for a comment like.
func CommentLikeID(userID, commentID string) string {
	return userID + "_" + commentID
}
