package models

import "time"

// Follow is a composite-keyed join record representing a follow edge from
// FollowerID to FollowingID. Its existence drives the follower/following
// counters on both user documents.
type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowID builds the composite document key for a follow edge.
func FollowID(followerID, followingID string) string {
	return followerID + "_" + followingID
}
