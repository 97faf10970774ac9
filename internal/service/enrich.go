// Package service implements the business logic layer of the application.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// enrichAuthor resolves display info for an author id. Enrichment is
// best-effort: a missing or unreadable user document falls back to the
// denormalized name copied onto the content at write time, and never fails
// the operation that requested it.
func enrichAuthor(ctx context.Context, users repository.UserRepository, authorID, fallbackName string) *models.Author {
	author := &models.Author{DisplayName: fallbackName}
	if author.DisplayName == "" {
		author.DisplayName = "Anonymous"
	}

	user, err := users.GetByID(ctx, authorID)
	if err != nil {
		observability.LogEnrichmentFallback(ctx, "author_lookup", err)
		return author
	}
	if user.DisplayName != "" {
		author.DisplayName = user.DisplayName
	}
	author.AvatarURL = user.AvatarURL
	return author
}
