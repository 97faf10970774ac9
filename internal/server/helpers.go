package server

import (
	"errors"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageLimit   = 20
	maxPaginationLimit = 100
)

// parseLimit extracts the limit query parameter with the given default.
func parseLimit(c *fiber.Ctx, defaultLimit int) int64 {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	return int64(limit)
}

// currentUserID returns the authenticated caller's uid from locals. Only
// valid behind AuthRequired.
func currentUserID(c *fiber.Ctx) string {
	uid, _ := c.Locals("userID").(string)
	return uid
}

// optionalUserID returns the caller's uid when OptionalAuth resolved one.
func optionalUserID(c *fiber.Ctx) string {
	uid, _ := c.Locals("userID").(string)
	return uid
}

// requireParam extracts a non-empty route parameter. On failure it writes a
// 400 JSON response and returns errResponseWritten; callers should check:
// if err != nil { return nil }
func requireParam(c *fiber.Ctx, param string) (string, error) {
	value := c.Params(param)
	if value == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing "+param+" parameter"))
		return "", errResponseWritten
	}
	return value, nil
}

func errInvalidBody() error {
	return models.NewValidationError("Invalid request body")
}

// fail writes the error response with the status derived from the domain
// error taxonomy.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
