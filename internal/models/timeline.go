package models

import "time"

// TimelineEntry is a friend's post projected into a user's timeline.
// Derived on read, never persisted.
type TimelineEntry struct {
	PostID         string    `json:"post_id"`
	Text           string    `json:"text"`
	AuthorID       uint      `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TimelinePage is one page of an already filtered and sorted timeline
type TimelinePage struct {
	Content       []TimelineEntry `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int             `json:"total_elements"`
	TotalPages    int             `json:"total_pages"`
}
