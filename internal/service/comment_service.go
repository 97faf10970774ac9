package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// CommentService manages threaded comments. Thread shape is enforced at
// write time (bounded depth, no replies to deleted comments) so reads never
// need to repair structure.
type CommentService struct {
	store           *docstore.Store
	commentRepo     repository.CommentRepository
	articleRepo     repository.ArticleRepository
	commentLikeRepo repository.CommentLikeRepository
	userRepo        repository.UserRepository
}

type CreateCommentInput struct {
	UserID    string
	ArticleID string
	Content   string
	ParentID  string
}

type UpdateCommentInput struct {
	UserID    string
	CommentID string
	Content   string
}

type DeleteCommentInput struct {
	UserID    string
	CommentID string
}

func NewCommentService(
	store *docstore.Store,
	commentRepo repository.CommentRepository,
	articleRepo repository.ArticleRepository,
	commentLikeRepo repository.CommentLikeRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		store:           store,
		commentRepo:     commentRepo,
		articleRepo:     articleRepo,
		commentLikeRepo: commentLikeRepo,
		userRepo:        userRepo,
	}
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len([]rune(content)) > models.MaxCommentLen {
		return models.NewValidationError("Comment too long (max 1000 characters)")
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !author.CanPublish() {
		return nil, models.NewUnauthorizedError("Complete your profile before posting")
	}
	if _, err := s.articleRepo.GetByID(ctx, in.ArticleID); err != nil {
		return nil, err
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	depth := 0
	if in.ParentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, in.ParentID)
		if err != nil {
			if models.ErrorCode(err) == models.CodeNotFound {
				return nil, models.NewParentUnavailableError("Parent comment does not exist")
			}
			return nil, err
		}
		if parent.ArticleID != in.ArticleID {
			return nil, models.NewValidationError("Parent comment belongs to a different article")
		}
		if parent.IsDeleted {
			return nil, models.NewParentUnavailableError("Cannot reply to a deleted comment")
		}
		if parent.Depth+1 > models.MaxCommentDepth {
			return nil, models.NewThreadTooDeepError(models.MaxCommentDepth)
		}
		depth = parent.Depth + 1
	}

	now := time.Now()
	comment := &models.Comment{
		ID:         uuid.New().String(),
		ArticleID:  in.ArticleID,
		Content:    in.Content,
		AuthorID:   in.UserID,
		AuthorName: author.DisplayName,
		ParentID:   in.ParentID,
		Depth:      depth,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	b := s.store.Batch()
	s.commentRepo.CreateIn(b, comment)
	s.articleRepo.AdjustCommentCountIn(b, in.ArticleID, 1)
	if in.ParentID != "" {
		s.commentRepo.AdjustChildCountIn(b, in.ParentID, 1)
	}
	if err := b.Commit(ctx); err != nil {
		return nil, models.NewWriteFailedError(err)
	}

	comment.Author = &models.Author{DisplayName: author.DisplayName, AvatarURL: author.AvatarURL}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}
	if comment.IsDeleted {
		return nil, models.NewValidationError("Cannot edit a deleted comment")
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment.Content = in.Content
	comment.IsEdited = true
	comment.UpdatedAt = time.Now()

	b := s.store.Batch()
	s.commentRepo.UpdateIn(b, comment)
	if err := b.Commit(ctx); err != nil {
		return nil, models.NewWriteFailedError(err)
	}
	return comment, nil
}

// DeleteComment removes a comment. A comment with live replies is soft
// deleted: its content is replaced with a tombstone and its thread position
// survives so replies stay reachable. A leaf comment is removed outright and
// its contributions to the parent and article aggregates are rolled back.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != in.UserID {
		user, err := s.userRepo.GetByID(ctx, in.UserID)
		if err != nil || user.Role != models.RoleAdmin {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
	}
	if comment.IsDeleted {
		return nil
	}

	likeIDs, err := s.commentLikeRepo.IDsByComment(ctx, in.CommentID)
	if err != nil {
		return err
	}

	b := s.store.Batch()
	if comment.ChildCount > 0 {
		// Soft delete keeps the document and the thread aggregates. Its own
		// like records are removed here, so the like aggregate is overwritten
		// to zero in the same batch to stay consistent with them.
		comment.Content = models.DeletedCommentContent
		comment.IsDeleted = true
		comment.UpdatedAt = time.Now()
		s.commentRepo.UpdateIn(b, comment)
		s.commentRepo.ZeroLikeCountIn(b, in.CommentID)
		for _, id := range likeIDs {
			s.commentLikeRepo.DeleteByIDIn(b, id, in.CommentID)
		}
		if err := b.Commit(ctx); err != nil {
			return models.NewWriteFailedError(err)
		}
		return nil
	}

	s.commentRepo.DeleteIn(b, comment)
	for _, id := range likeIDs {
		s.commentLikeRepo.DeleteByIDIn(b, id, in.CommentID)
	}
	s.articleRepo.AdjustCommentCountIn(b, comment.ArticleID, -1)
	if comment.ParentID != "" {
		// Gate the parent decrement on the parent still existing; a cascade
		// may have removed it between the read and this batch.
		if _, err := s.commentRepo.GetByID(ctx, comment.ParentID); err == nil {
			s.commentRepo.AdjustChildCountIn(b, comment.ParentID, -1)
		} else if models.ErrorCode(err) != models.CodeNotFound {
			return err
		}
	}
	if err := b.Commit(ctx); err != nil {
		return models.NewWriteFailedError(err)
	}
	return nil
}

// ListThreads returns the article's top-level comments with their reply
// subtrees, oldest first at every level.
func (s *CommentService) ListThreads(ctx context.Context, articleID string, limit, replyPreview int64) ([]*models.CommentThread, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	top, err := s.commentRepo.ListTop(ctx, articleID, limit)
	if err != nil {
		return nil, err
	}

	threads := make([]*models.CommentThread, 0, len(top))
	for _, comment := range top {
		s.decorate(ctx, comment)
		replies, err := s.collectReplies(ctx, comment, replyPreview)
		if err != nil {
			return nil, err
		}
		threads = append(threads, &models.CommentThread{
			Comment:        comment,
			Replies:        replies,
			TotalReplies:   comment.ChildCount,
			HasMoreReplies: replyPreview > 0 && comment.ChildCount > int64(len(replies)),
		})
	}
	return threads, nil
}

// ListReplies returns the direct replies of a comment, oldest first.
func (s *CommentService) ListReplies(ctx context.Context, parentID string, limit int64) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	replies, err := s.commentRepo.ListReplies(ctx, parentID, limit)
	if err != nil {
		return nil, err
	}
	for _, reply := range replies {
		s.decorate(ctx, reply)
	}
	return replies, nil
}

func (s *CommentService) collectReplies(ctx context.Context, parent *models.Comment, limit int64) ([]*models.Comment, error) {
	if parent.ChildCount == 0 {
		return nil, nil
	}
	replies, err := s.commentRepo.ListReplies(ctx, parent.ID, limit)
	if err != nil {
		return nil, err
	}
	for _, reply := range replies {
		s.decorate(ctx, reply)
	}
	return replies, nil
}

func (s *CommentService) decorate(ctx context.Context, comment *models.Comment) {
	if comment.IsDeleted {
		return
	}
	comment.Author = enrichAuthor(ctx, s.userRepo, comment.AuthorID, comment.AuthorName)
}

// LikeComment records a like on a comment; repeats are no-ops.
func (s *CommentService) LikeComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return models.NewValidationError("Cannot like a deleted comment")
	}
	exists, err := s.commentLikeRepo.Exists(ctx, userID, commentID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	b := s.store.Batch()
	s.commentLikeRepo.CreateIn(b, &models.CommentLike{
		ID:        models.CommentLikeID(userID, commentID),
		UserID:    userID,
		CommentID: commentID,
		CreatedAt: time.Now(),
	})
	s.commentRepo.AdjustLikeCountIn(b, commentID, 1)
	if err := b.Commit(ctx); err != nil {
		return models.NewWriteFailedError(err)
	}
	return nil
}

// UnlikeComment removes a like on a comment; absent likes are no-ops.
func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID string) error {
	exists, err := s.commentLikeRepo.Exists(ctx, userID, commentID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	b := s.store.Batch()
	s.commentLikeRepo.DeleteIn(b, userID, commentID)
	s.commentRepo.AdjustLikeCountIn(b, commentID, -1)
	if err := b.Commit(ctx); err != nil {
		return models.NewWriteFailedError(err)
	}
	return nil
}
