// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package comment

import "context"

// CommentRepository defines the data access contract for comments.
type CommentRepository interface {
	// Create persists a new comment.
	Create(ctx context.Context, c *Comment) error

	// FindByID returns the comment with the given ID.
	FindByID(ctx context.Context, id string) (*Comment, error)

	// ListByVideo returns the comments on a video, newest first, with the
	// author name joined in.
	//
	// Returns:
	//   - []*Comment: The page of comments.
	//   - int: Total count for pagination.
	//   - error: Database errors.
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*Comment, int, error)

	// Update persists an edited content field.
	Update(ctx context.Context, c *Comment) error

	// Delete removes the comment row.
	Delete(ctx context.Context, id string) error
}
