// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/validate"
	"github.com/dimitarnikolovv/healthy-tips/internal/video"
	"github.com/dimitarnikolovv/healthy-tips/pkg/uuid"
)

// VideoGetter is the slice of the video service this package consumes.
// Satisfied by [video.Service].
type VideoGetter interface {
	GetByID(ctx context.Context, id string) (*video.Video, error)
}

// # Service

// Service implements the comment use-cases.
type Service struct {
	repository CommentRepository
	videos     VideoGetter
	logger     *slog.Logger
}

// NewService creates a new comment service.
func NewService(repository CommentRepository, videos VideoGetter, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		videos:     videos,
		logger:     logger,
	}
}

/*
Create posts a comment on a published video.

Description: Drafts take no comments and are reported as absent, so the
endpoint leaks nothing about unpublished content.

Parameters:
  - context: context.Context
  - videoID: string
  - userID: string (The authenticated author)
  - content: string

Returns:
  - *Comment: The stored comment
  - error: Validation, NotFound, or persistence failures
*/
func (service *Service) Create(context context.Context, videoID, userID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)

	validator := &validate.Validator{}
	err := validator.
		Required(FieldContent, content).
		MaxLen(FieldContent, content, ContentMaxLen).
		Err()
	if err != nil {
		return nil, err
	}

	target, err := service.videos.GetByID(context, videoID)
	if err != nil {
		return nil, err
	}
	if !target.IsPublished() {
		return nil, apperr.NotFound("Video")
	}

	comment := &Comment{
		ID:      uuid.New(),
		VideoID: videoID,
		UserID:  userID,
		Content: content,
	}

	if err := service.repository.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("video_id", videoID),
	)

	return comment, nil
}

/*
Update edits a comment's content. Only the author may edit.

Parameters:
  - context: context.Context
  - commentID: string
  - userID: string (The authenticated caller)
  - content: string

Returns:
  - *Comment: The updated comment
  - error: Validation, NotFound, Forbidden, or persistence failures
*/
func (service *Service) Update(context context.Context, commentID, userID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)

	validator := &validate.Validator{}
	err := validator.
		Required(FieldContent, content).
		MaxLen(FieldContent, content, ContentMaxLen).
		Err()
	if err != nil {
		return nil, err
	}

	comment, err := service.repository.FindByID(context, commentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != userID {
		return nil, apperr.Forbidden("Only the author may edit this comment")
	}

	comment.Content = content
	if err := service.repository.Update(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

/*
Delete removes a comment. Only the author may delete.

Parameters:
  - context: context.Context
  - commentID: string
  - userID: string (The authenticated caller)

Returns:
  - error: NotFound, Forbidden, or persistence failures
*/
func (service *Service) Delete(context context.Context, commentID, userID string) error {
	comment, err := service.repository.FindByID(context, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		return apperr.Forbidden("Only the author may delete this comment")
	}

	return service.repository.Delete(context, commentID)
}

// ListByVideo returns a page of comments on a video, newest first.
func (service *Service) ListByVideo(context context.Context, videoID string, limit, offset int) ([]*Comment, int, error) {
	return service.repository.ListByVideo(context, videoID, limit, offset)
}
