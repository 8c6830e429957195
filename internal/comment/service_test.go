// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package comment

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	"github.com/dimitarnikolovv/healthy-tips/internal/video"
)

// # Test Fakes

type fakeCommentRepo struct {
	byID map[string]*Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byID: make(map[string]*Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *Comment) error {
	copied := *comment
	f.byID[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) FindByID(_ context.Context, id string) (*Comment, error) {
	if comment, ok := f.byID[id]; ok {
		copied := *comment
		return &copied, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (f *fakeCommentRepo) ListByVideo(_ context.Context, videoID string, limit, offset int) ([]*Comment, int, error) {
	comments := make([]*Comment, 0)
	for _, comment := range f.byID {
		if comment.VideoID == videoID {
			comments = append(comments, comment)
		}
	}
	return comments, len(comments), nil
}

func (f *fakeCommentRepo) Update(_ context.Context, comment *Comment) error {
	if _, ok := f.byID[comment.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	copied := *comment
	f.byID[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(f.byID, id)
	return nil
}

type fakeVideoGetter struct {
	byID map[string]*video.Video
}

func (f *fakeVideoGetter) GetByID(_ context.Context, id string) (*video.Video, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, apperr.NotFound("Video")
}

// # Harness

func newTestService(t *testing.T) (*Service, *fakeCommentRepo, *fakeVideoGetter) {
	t.Helper()
	repo := newFakeCommentRepo()
	videos := &fakeVideoGetter{byID: map[string]*video.Video{
		"vid-published": {ID: "vid-published", Status: video.StatusPublished},
		"vid-draft":     {ID: "vid-draft", Status: video.StatusDraft},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, videos, logger), repo, videos
}

// # Tests

func TestCreateOnPublishedVideo(t *testing.T) {
	service, repo, _ := newTestService(t)

	comment, err := service.Create(context.Background(), "vid-published", "user-1", "  Nice tips!  ")
	require.NoError(t, err)
	assert.Equal(t, "Nice tips!", comment.Content, "content is trimmed")
	assert.Contains(t, repo.byID, comment.ID)
}

func TestCreateOnDraftVideoLooksAbsent(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Create(context.Background(), "vid-draft", "user-1", "First!")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestCreateOnUnknownVideo(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Create(context.Background(), "vid-ghost", "user-1", "Hello")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestCreateValidation(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Create(context.Background(), "vid-published", "user-1", "   ")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	_, err = service.Create(context.Background(), "vid-published", "user-1", strings.Repeat("x", ContentMaxLen+1))
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

func TestUpdateOwnershipGate(t *testing.T) {
	service, _, _ := newTestService(t)

	comment, err := service.Create(context.Background(), "vid-published", "user-1", "Original")
	require.NoError(t, err)

	// A different user gets a 403, even with valid content.
	_, err = service.Update(context.Background(), comment.ID, "user-2", "Hijacked")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)

	// The author succeeds.
	updated, err := service.Update(context.Background(), comment.ID, "user-1", "Edited")
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Content)
}

func TestDeleteOwnershipGate(t *testing.T) {
	service, repo, _ := newTestService(t)

	comment, err := service.Create(context.Background(), "vid-published", "user-1", "To be removed")
	require.NoError(t, err)

	err = service.Delete(context.Background(), comment.ID, "user-2")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
	assert.Contains(t, repo.byID, comment.ID, "the row must survive a denied delete")

	require.NoError(t, service.Delete(context.Background(), comment.ID, "user-1"))
	assert.NotContains(t, repo.byID, comment.ID)
}

func TestUpdateMissingComment(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Update(context.Background(), "ghost", "user-1", "Anything")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}
