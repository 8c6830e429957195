// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

/*
Package comment implements viewer comments on published videos.

Comments belong to exactly one video and one user. Editing and deleting are
ownership-gated: only the author may touch a comment, and there is no admin
override on this surface.
*/
package comment

import "time"

// Comment is one viewer comment on a video.
type Comment struct {
	ID      string `json:"id"`
	VideoID string `json:"video_id"`
	UserID  string `json:"user_id"`
	Content string `json:"content"`

	// AuthorName is denormalized from the users table on read for display.
	AuthorName string `json:"author_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Constraints

const (
	// ContentMaxLen bounds a single comment.
	ContentMaxLen = 1000
)

// # Field Identifiers

const (
	FieldContent   = "content"
	FieldCommentID = "commentID"
	FieldVideoID   = "videoID"
)
