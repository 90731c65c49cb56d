package models

import "time"

// Friendship represents one directed edge of a bidirectional friendship.
// A friendship between A and B is stored as two rows: (A->B) and (B->A),
// created and removed as an atomic pair.
type Friendship struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_friend"`
	FriendID  uint      `json:"friend_id" gorm:"index;uniqueIndex:idx_user_friend"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendshipRequest defines the request body for adding or removing a friendship
type FriendshipRequest struct {
	UserID   uint `json:"user_id" validate:"required"`
	FriendID uint `json:"friend_id" validate:"required"`
}

// FriendshipResponse is a friendship edge enriched with both usernames
type FriendshipResponse struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	Username       string    `json:"username"`
	FriendID       uint      `json:"friend_id"`
	FriendUsername string    `json:"friend_username"`
	CreatedAt      time.Time `json:"created_at"`
}
