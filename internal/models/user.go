package models

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user document. Counter fields are aggregates maintained
// by follow and article operations.
type User struct {
	UID            string    `json:"uid"`
	DisplayName    string    `json:"display_name"`
	Email          string    `json:"email"`
	EmailVerified  bool      `json:"email_verified"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	ArticleCount   int64     `json:"article_count"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// IsFollowing indicates whether the requesting user follows this user (computed).
	IsFollowing bool `json:"is_following"`
}

// CanPublish reports whether the user satisfies the posting requirements:
// a complete profile and a verified email address.
func (u *User) CanPublish() bool {
	return u.DisplayName != "" && u.DisplayName != "Anonymous" && u.EmailVerified
}
