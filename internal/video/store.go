// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package video

import (
	"context"
	"time"
)

// VideoRepository defines the data access contract for the video domain.
//
// # Architecture
//
// The interface lives here because the service layer (the consumer) defines
// what it needs; the pgx implementation lives in store_postgres.go.
type VideoRepository interface {
	// Begin opens a write transaction for the upload flow. The returned [Tx]
	// scopes the slug collision probes and the final insert to one snapshot.
	Begin(ctx context.Context) (Tx, error)

	// FindByID returns the video with the given ID, any status.
	FindByID(ctx context.Context, id string) (*Video, error)

	// FindBySlug returns the video with the given slug, any status.
	FindBySlug(ctx context.Context, slug string) (*Video, error)

	// Update persists the mutable metadata fields (title, description,
	// status, published_at, updated_at).
	Update(ctx context.Context, v *Video) error

	// Delete removes the row permanently. The payload object must already be
	// gone when this is called.
	Delete(ctx context.Context, id string) error

	// ListPublished returns published videos, newest first, optionally
	// filtered by a case-insensitive title search.
	//
	// Returns:
	//   - []*Video: The page of results.
	//   - int: Total count for pagination.
	//   - error: Database errors.
	ListPublished(ctx context.Context, search string, limit, offset int) ([]*Video, int, error)

	// ListAll returns videos of any status for the admin area, newest first.
	ListAll(ctx context.Context, limit, offset int) ([]*Video, int, error)

	// CountByStatus returns the number of videos per publication status.
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// Tx is the write transaction used by the upload flow.
//
// # Scope
//
// Only what the upload saga needs: slug existence probes and the insert.
// The storage Put happens between them and is outside the transaction —
// rolling back the database never rolls back the object.
type Tx interface {
	// SlugExists reports whether any video row holds the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Insert persists the new video row inside the transaction.
	Insert(ctx context.Context, v *Video) error

	// Commit finalizes the transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the transaction. Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error
}

// ObjectStore is the slice of the storage gateway the video service consumes.
// Satisfied by [storage.Client].
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error
	Delete(ctx context.Context, bucket, key string) error
	SignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
