// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package video

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/dberr"
)

// videoColumns is the canonical projection shared by every read query.
const videoColumns = `
	id, title, slug, description, status, bucket, object_key,
	original_filename, mime_type, file_size, uploaded_by_user_id,
	published_at, created_at, updated_at`

// PostgresVideoRepository implements the VideoRepository interface using pgx.
type PostgresVideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new PostgreSQL implementation of VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// scanVideo hydrates one row of the canonical projection.
func scanVideo(row pgx.Row) (*Video, error) {
	video := &Video{}
	err := row.Scan(
		&video.ID,
		&video.Title,
		&video.Slug,
		&video.Description,
		&video.Status,
		&video.Bucket,
		&video.ObjectKey,
		&video.OriginalFilename,
		&video.MimeType,
		&video.FileSize,
		&video.UploadedByUserID,
		&video.PublishedAt,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return video, nil
}

/*
FindByID returns the video with the given ID, regardless of status.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Video: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresVideoRepository) FindByID(context context.Context, id string) (*Video, error) {
	query := "SELECT" + videoColumns + " FROM videos WHERE id = $1"

	video, err := scanVideo(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, fmt.Errorf("postgres_video_repo_find_by_id_failed: %w", err)
	}

	return video, nil
}

/*
FindBySlug returns the video with the given slug, regardless of status.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Video: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresVideoRepository) FindBySlug(context context.Context, slug string) (*Video, error) {
	query := "SELECT" + videoColumns + " FROM videos WHERE slug = $1"

	video, err := scanVideo(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, fmt.Errorf("postgres_video_repo_find_by_slug_failed: %w", err)
	}

	return video, nil
}

/*
Update persists the mutable metadata fields of an existing video.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: apperr.NotFound when the row is gone, or database errors
*/
func (repository *PostgresVideoRepository) Update(context context.Context, video *Video) error {
	const query = `
		UPDATE videos
		SET title = $2, description = $3, status = $4, published_at = $5, updated_at = $6
		WHERE id = $1`

	video.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		video.ID,
		video.Title,
		video.Description,
		video.Status,
		video.PublishedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Video")
	}

	return nil
}

/*
Delete removes the video row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when the row is gone, or database errors
*/
func (repository *PostgresVideoRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM videos WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Video")
	}

	return nil
}

/*
ListPublished returns a page of published videos, newest publication first.

Description: An optional search term filters titles case-insensitively. The
total count runs as a second query against the same filter.

Parameters:
  - context: context.Context
  - search: string (Empty means no filter)
  - limit: int
  - offset: int

Returns:
  - []*Video: The page of results
  - int: Total count for pagination
  - error: Database errors
*/
func (repository *PostgresVideoRepository) ListPublished(context context.Context, search string, limit, offset int) ([]*Video, int, error) {
	listQuery := "SELECT" + videoColumns + `
		FROM videos
		WHERE status = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%')
		ORDER BY published_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := repository.pool.Query(context, listQuery, StatusPublished, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_list_published_failed: %w", err)
	}
	defer rows.Close()

	videos := make([]*Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_video_repo_scan_failed: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_rows_failed: %w", err)
	}

	const countQuery = `
		SELECT COUNT(*) FROM videos
		WHERE status = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%')`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, StatusPublished, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_count_failed: %w", err)
	}

	return videos, total, nil
}

/*
ListAll returns a page of videos of any status for the admin area.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Video: The page of results, newest first
  - int: Total count for pagination
  - error: Database errors
*/
func (repository *PostgresVideoRepository) ListAll(context context.Context, limit, offset int) ([]*Video, int, error) {
	listQuery := "SELECT" + videoColumns + `
		FROM videos
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, listQuery, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_list_all_failed: %w", err)
	}
	defer rows.Close()

	videos := make([]*Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_video_repo_scan_failed: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_rows_failed: %w", err)
	}

	var total int
	if err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM videos").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_count_failed: %w", err)
	}

	return videos, total, nil
}

/*
CountByStatus returns the number of videos per publication status.

Parameters:
  - context: context.Context

Returns:
  - map[Status]int: Counts keyed by status; absent statuses are zero
  - error: Database errors
*/
func (repository *PostgresVideoRepository) CountByStatus(context context.Context) (map[Status]int, error) {
	const query = "SELECT status, COUNT(*) FROM videos GROUP BY status"

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_video_repo_count_by_status_failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("postgres_video_repo_scan_failed: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_video_repo_rows_failed: %w", err)
	}

	return counts, nil
}

// # Upload Transaction

// postgresTx wraps a pgx transaction behind the domain [Tx] interface.
type postgresTx struct {
	tx pgx.Tx
}

/*
Begin opens a write transaction for the upload flow.

Returns:
  - Tx: The transaction handle
  - error: Connection failures
*/
func (repository *PostgresVideoRepository) Begin(context context.Context) (Tx, error) {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return nil, fmt.Errorf("postgres_video_repo_begin_failed: %w", err)
	}
	return &postgresTx{tx: tx}, nil
}

// SlugExists reports whether any video row holds the slug.
func (t *postgresTx) SlugExists(context context.Context, slug string) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM videos WHERE slug = $1)"

	var exists bool
	if err := t.tx.QueryRow(context, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_video_tx_slug_exists_failed: %w", err)
	}
	return exists, nil
}

// Insert persists the new video row inside the transaction. A unique
// violation (slug or object key) surfaces as a Conflict.
func (t *postgresTx) Insert(context context.Context, video *Video) error {
	const query = `
		INSERT INTO videos (
			id, title, slug, description, status, bucket, object_key,
			original_filename, mime_type, file_size, uploaded_by_user_id,
			published_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	_, err := t.tx.Exec(context, query,
		video.ID,
		video.Title,
		video.Slug,
		video.Description,
		video.Status,
		video.Bucket,
		video.ObjectKey,
		video.OriginalFilename,
		video.MimeType,
		video.FileSize,
		video.UploadedByUserID,
		video.PublishedAt,
		video.CreatedAt,
		video.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("A video with this slug already exists")
		}
		return fmt.Errorf("postgres_video_tx_insert_failed: %w", err)
	}

	return nil
}

// Commit finalizes the transaction.
func (t *postgresTx) Commit(context context.Context) error {
	if err := t.tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_video_tx_commit_failed: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. pgx treats rollback-after-commit as a
// harmless ErrTxClosed, which is swallowed here.
func (t *postgresTx) Rollback(context context.Context) error {
	if err := t.tx.Rollback(context); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("postgres_video_tx_rollback_failed: %w", err)
	}
	return nil
}
