// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package video

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/storage"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/validate"
	"github.com/dimitarnikolovv/healthy-tips/pkg/pointer"
	"github.com/dimitarnikolovv/healthy-tips/pkg/slug"
	"github.com/dimitarnikolovv/healthy-tips/pkg/uuid"
)

// # Service

// Service implements the video asset use-cases.
type Service struct {
	repository VideoRepository
	store      ObjectStore
	bucket     string
	logger     *slog.Logger

	// now is swappable in tests for deterministic object keys and timestamps.
	now func() time.Time
}

// NewService creates a new video service writing payloads into bucket.
func NewService(repository VideoRepository, store ObjectStore, bucket string, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		store:      store,
		bucket:     bucket,
		logger:     logger,
		now:        time.Now,
	}
}

// # Inputs

// UploadInput carries the fields of an admin video upload.
type UploadInput struct {
	Title            string
	Description      string
	Status           Status
	Payload          []byte
	OriginalFilename string
	MimeType         string
	UploadedByUserID string
}

// UpdateInput carries the fields of a metadata edit.
type UpdateInput struct {
	Title       string
	Description string
	Status      Status
}

// # Write Operations

/*
Upload stores a new video asset: binary payload to object storage, metadata
row to the database.

Description: The two writes cannot share a transaction, so the order is fixed
to bound the damage of a partial failure:

 1. Validate the input; nothing is written for invalid uploads.
 2. Derive the base slug from the title; an untransliterable title falls
    back to "video-<id>".
 3. Open a database transaction and resolve slug collisions by probing
    "base", "base-1", "base-2", … up to MaxSlugAttempts candidates.
    Exhausting them fails the upload with no writes anywhere.
 4. Build the object key "videos/<slug>-<unixms>.<ext>" (extension from the
    original filename, default mp4) and Put the payload. The Put sits inside
    the transaction's lifetime but outside its atomicity.
 5. Insert the metadata row and commit.
 6. If the insert or commit fails, delete the just-written object
    (best effort: a failure here is logged and swallowed, leaving at worst
    an orphaned object) and return the original error.

A unique violation on insert after a clean probe pass means a concurrent
upload won the slug between probe and insert; it surfaces as a Conflict and
is not retried.

Parameters:
  - context: context.Context
  - input: UploadInput

Returns:
  - *Video: The stored video
  - error: Validation, Conflict, storage or database failures
*/
func (service *Service) Upload(context context.Context, input UploadInput) (*Video, error) {

	// 1. Validate before any side effect.
	if input.Status == "" {
		input.Status = StatusDraft
	}

	validator := &validate.Validator{}
	err := validator.
		Required(FieldTitle, input.Title).
		MinLen(FieldTitle, input.Title, TitleMinLen).
		MaxLen(FieldTitle, input.Title, TitleMaxLen).
		MaxLen(FieldDescription, input.Description, DescriptionMaxLen).
		OneOf(FieldStatus, string(input.Status), string(StatusDraft), string(StatusPublished)).
		Custom(FieldVideoFile, len(input.Payload) == 0, "The video file is required").
		MaxBytes(FieldVideoFile, int64(len(input.Payload)), MaxUploadBytes).
		Custom(FieldVideoFile, len(input.Payload) > 0 && !IsAllowedMimeType(input.MimeType), "Unsupported video format").
		Err()
	if err != nil {
		return nil, err
	}

	// 2. Base slug, with a generated fallback for untransliterable titles.
	id := uuid.New()
	baseSlug := slug.From(input.Title)
	if baseSlug == "" {
		baseSlug = "video-" + id
	}

	// 3. Resolve the final slug inside a transaction.
	tx, err := service.repository.Begin(context)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context) }()

	finalSlug, err := resolveSlug(context, tx, baseSlug)
	if err != nil {
		return nil, err
	}

	// 4. Write the payload under a fresh, timestamped key.
	now := service.now()
	objectKey := fmt.Sprintf("%s%s-%d.%s",
		ObjectKeyPrefix, finalSlug, now.UnixMilli(), extensionOf(input.OriginalFilename))

	err = service.store.Put(context, service.bucket, objectKey, input.Payload, input.MimeType, map[string]string{
		"original-filename": input.OriginalFilename,
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("video_upload_put_failed: %w", err))
	}

	// 5. Insert the metadata row and commit.
	video := &Video{
		ID:               id,
		Title:            strings.TrimSpace(input.Title),
		Slug:             finalSlug,
		Description:      strings.TrimSpace(input.Description),
		Status:           input.Status,
		Bucket:           service.bucket,
		ObjectKey:        objectKey,
		OriginalFilename: input.OriginalFilename,
		MimeType:         input.MimeType,
		FileSize:         int64(len(input.Payload)),
	}
	if input.UploadedByUserID != "" {
		video.UploadedByUserID = pointer.To(input.UploadedByUserID)
	}
	if video.Status == StatusPublished {
		video.PublishedAt = pointer.To(now)
	}

	if err := tx.Insert(context, video); err != nil {
		service.compensatePut(context, objectKey)
		return nil, err
	}

	if err := tx.Commit(context); err != nil {
		service.compensatePut(context, objectKey)
		return nil, err
	}

	service.logger.InfoContext(context, "video_uploaded",
		slog.String("video_id", video.ID),
		slog.String("slug", video.Slug),
		slog.String("object_key", video.ObjectKey),
		slog.Int64("file_size", video.FileSize),
	)

	return video, nil
}

/*
UpdateMetadata edits the title, description, and publication status.

Description: Touches only the database; the payload object is untouched.
The publication timestamp follows a one-way ratchet per publication cycle:
set on the draft→published transition, kept while the video stays published,
cleared when it returns to draft.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Video: The updated video
  - error: NotFound, validation, or database failures
*/
func (service *Service) UpdateMetadata(context context.Context, id string, input UpdateInput) (*Video, error) {
	validator := &validate.Validator{}
	err := validator.
		Required(FieldTitle, input.Title).
		MinLen(FieldTitle, input.Title, TitleMinLen).
		MaxLen(FieldTitle, input.Title, UpdateTitleMaxLen).
		MaxLen(FieldDescription, input.Description, DescriptionMaxLen).
		OneOf(FieldStatus, string(input.Status), string(StatusDraft), string(StatusPublished)).
		Err()
	if err != nil {
		return nil, err
	}

	video, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	video.Title = strings.TrimSpace(input.Title)
	video.Description = strings.TrimSpace(input.Description)

	// Publication timestamp transitions.
	switch {
	case input.Status == StatusPublished && video.PublishedAt == nil:
		now := service.now()
		video.PublishedAt = pointer.To(now)
	case input.Status == StatusDraft:
		video.PublishedAt = nil
	}
	video.Status = input.Status

	if err := service.repository.Update(context, video); err != nil {
		return nil, err
	}

	return video, nil
}

/*
Delete removes a video asset: payload object first, then the metadata row.

Description: The object delete leads so a failure keeps the row (and with it
the object key), leaving the asset fully intact and the operation retryable.
The reverse order could orphan an unreachable object forever.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: NotFound, storage, or database failures
*/
func (service *Service) Delete(context context.Context, id string) error {
	video, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.store.Delete(context, video.Bucket, video.ObjectKey); err != nil {
		return apperr.Internal(fmt.Errorf("video_delete_object_failed: %w", err))
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "video_deleted",
		slog.String("video_id", id),
		slog.String("object_key", video.ObjectKey),
	)

	return nil
}

// # Read Operations

// GetByID returns the video with the given ID, any status.
func (service *Service) GetByID(context context.Context, id string) (*Video, error) {
	return service.repository.FindByID(context, id)
}

// GetPublishedBySlug returns the published video with the given slug. Draft
// videos are indistinguishable from absent ones to the public.
func (service *Service) GetPublishedBySlug(context context.Context, videoSlug string) (*Video, error) {
	video, err := service.repository.FindBySlug(context, videoSlug)
	if err != nil {
		return nil, err
	}

	if !video.IsPublished() {
		return nil, apperr.NotFound("Video")
	}

	return video, nil
}

// ListPublished returns a page of published videos with an optional title search.
func (service *Service) ListPublished(context context.Context, search string, limit, offset int) ([]*Video, int, error) {
	return service.repository.ListPublished(context, search, limit, offset)
}

// ListAll returns a page of videos of any status for the admin area.
func (service *Service) ListAll(context context.Context, limit, offset int) ([]*Video, int, error) {
	return service.repository.ListAll(context, limit, offset)
}

// CountByStatus returns the number of videos per publication status.
func (service *Service) CountByStatus(context context.Context) (map[Status]int, error) {
	return service.repository.CountByStatus(context)
}

/*
StreamURL resolves a video ID into a short-lived signed playback URL.

Description: Draft videos stream only for admins; everyone else gets a
Forbidden, distinct from the NotFound of an unknown ID.

Parameters:
  - context: context.Context
  - id: string
  - isAdmin: bool

Returns:
  - string: Signed GET URL, valid for [storage.DefaultSignedURLTTL]
  - error: BadRequest, NotFound, Forbidden, or signing failures
*/
func (service *Service) StreamURL(context context.Context, id string, isAdmin bool) (string, error) {
	if id == "" {
		return "", apperr.BadRequest("Video ID is required")
	}

	video, err := service.repository.FindByID(context, id)
	if err != nil {
		return "", err
	}

	if !video.IsPublished() && !isAdmin {
		return "", apperr.Forbidden("This video is not published")
	}

	url, err := service.store.SignedGetURL(context, video.Bucket, video.ObjectKey, storage.DefaultSignedURLTTL)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("video_stream_sign_failed: %w", err))
	}

	return url, nil
}

// # Helpers

// resolveSlug probes "base", "base-1", "base-2", … until a free slug is
// found, giving up after MaxSlugAttempts candidates.
func resolveSlug(ctx context.Context, tx Tx, base string) (string, error) {
	for attempt := 0; attempt < MaxSlugAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}

		exists, err := tx.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", apperr.Conflict("Could not derive a free slug for this title")
}

// extensionOf returns the lowercase filename extension without the dot,
// falling back to DefaultExtension.
func extensionOf(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return DefaultExtension
	}
	return ext
}

// compensatePut removes an object written by an upload whose metadata insert
// failed. Best effort only: the upload already failed, and an orphaned object
// is the accepted worst case.
func (service *Service) compensatePut(ctx context.Context, objectKey string) {
	if err := service.store.Delete(ctx, service.bucket, objectKey); err != nil {
		service.logger.ErrorContext(ctx, "video_upload_compensation_failed",
			slog.String("object_key", objectKey),
			slog.String("error", err.Error()),
		)
	}
}
