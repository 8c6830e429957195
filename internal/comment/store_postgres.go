// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
)

// PostgresCommentRepository implements the CommentRepository interface using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

/*
Create persists a new comment.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Foreign-key or persistence failures
*/
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO comments (id, video_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.VideoID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID returns the comment with the given ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Comment: Hydrated entity (without the author name)
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresCommentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	const query = `
		SELECT id, video_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1`

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_failed: %w", err)
	}

	return comment, nil
}

/*
ListByVideo returns a page of comments on a video, newest first.

Parameters:
  - context: context.Context
  - videoID: string
  - limit: int
  - offset: int

Returns:
  - []*Comment: Comments with author names joined from the users table
  - int: Total count for pagination
  - error: Database errors
*/
func (repository *PostgresCommentRepository) ListByVideo(context context.Context, videoID string, limit, offset int) ([]*Comment, int, error) {
	const query = `
		SELECT c.id, c.video_id, c.user_id, c.content,
			u.first_name || ' ' || u.last_name AS author_name,
			c.created_at, c.updated_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, videoID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.UserID,
			&comment.Content,
			&comment.AuthorName,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_rows_failed: %w", err)
	}

	var total int
	if err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM comments WHERE video_id = $1", videoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_count_failed: %w", err)
	}

	return comments, total, nil
}

/*
Update persists an edited content field.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: apperr.NotFound when the row is gone, or database errors
*/
func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	const query = "UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1"

	comment.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query, comment.ID, comment.Content, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

/*
Delete removes the comment row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when the row is gone, or database errors
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
