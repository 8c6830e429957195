// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
)

// # Test Fakes

type fakeRepo struct {
	byID   map[string]*Video
	bySlug map[string]*Video

	insertErr error
	commitErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:   make(map[string]*Video),
		bySlug: make(map[string]*Video),
	}
}

func (f *fakeRepo) add(video *Video) {
	f.byID[video.ID] = video
	f.bySlug[video.Slug] = video
}

func (f *fakeRepo) Begin(_ context.Context) (Tx, error) {
	return &fakeTx{repo: f}, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*Video, error) {
	if video, ok := f.byID[id]; ok {
		copied := *video
		return &copied, nil
	}
	return nil, apperr.NotFound("Video")
}

func (f *fakeRepo) FindBySlug(_ context.Context, slug string) (*Video, error) {
	if video, ok := f.bySlug[slug]; ok {
		copied := *video
		return &copied, nil
	}
	return nil, apperr.NotFound("Video")
}

func (f *fakeRepo) Update(_ context.Context, video *Video) error {
	if _, ok := f.byID[video.ID]; !ok {
		return apperr.NotFound("Video")
	}
	copied := *video
	f.byID[video.ID] = &copied
	f.bySlug[video.Slug] = &copied
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	video, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("Video")
	}
	delete(f.bySlug, video.Slug)
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) ListPublished(_ context.Context, search string, limit, offset int) ([]*Video, int, error) {
	videos := make([]*Video, 0)
	for _, video := range f.byID {
		if video.Status == StatusPublished &&
			(search == "" || strings.Contains(strings.ToLower(video.Title), strings.ToLower(search))) {
			videos = append(videos, video)
		}
	}
	return videos, len(videos), nil
}

func (f *fakeRepo) ListAll(_ context.Context, limit, offset int) ([]*Video, int, error) {
	videos := make([]*Video, 0, len(f.byID))
	for _, video := range f.byID {
		videos = append(videos, video)
	}
	return videos, len(videos), nil
}

func (f *fakeRepo) CountByStatus(_ context.Context) (map[Status]int, error) {
	counts := make(map[Status]int)
	for _, video := range f.byID {
		counts[video.Status]++
	}
	return counts, nil
}

type fakeTx struct {
	repo    *fakeRepo
	pending *Video
}

func (t *fakeTx) SlugExists(_ context.Context, slug string) (bool, error) {
	_, ok := t.repo.bySlug[slug]
	return ok, nil
}

func (t *fakeTx) Insert(_ context.Context, video *Video) error {
	if t.repo.insertErr != nil {
		return t.repo.insertErr
	}
	copied := *video
	t.pending = &copied
	return nil
}

func (t *fakeTx) Commit(_ context.Context) error {
	if t.repo.commitErr != nil {
		return t.repo.commitErr
	}
	if t.pending != nil {
		t.repo.add(t.pending)
		t.pending = nil
	}
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.pending = nil
	return nil
}

type fakeStore struct {
	objects map[string][]byte

	putErr      error
	deleteErr   error
	deletedKeys []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Put(_ context.Context, _, key string, body []byte, _ string, _ map[string]string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	return nil
}

func (f *fakeStore) Delete(_ context.Context, _, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) SignedGetURL(_ context.Context, _, key string, _ time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

// # Harness

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeStore) {
	t.Helper()
	repo := newFakeRepo()
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewService(repo, store, "test-bucket", logger)
	service.now = func() time.Time { return time.Unix(1760000000, 0) }
	return service, repo, store
}

func validUpload() UploadInput {
	return UploadInput{
		Title:            "Hello World!",
		Description:      "A greeting",
		Payload:          []byte("fake video bytes"),
		OriginalFilename: "greeting.mp4",
		MimeType:         "video/mp4",
		UploadedByUserID: "admin-1",
	}
}

// # Upload

func TestUploadHappyPath(t *testing.T) {
	service, repo, store := newTestService(t)

	video, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)

	assert.Equal(t, "hello-world", video.Slug)
	assert.Equal(t, StatusDraft, video.Status, "status defaults to draft")
	assert.Nil(t, video.PublishedAt)
	assert.True(t, strings.HasPrefix(video.ObjectKey, "videos/hello-world-"))
	assert.True(t, strings.HasSuffix(video.ObjectKey, ".mp4"))

	// Row and object both exist, and the row points at the object.
	assert.Contains(t, repo.bySlug, "hello-world")
	assert.Contains(t, store.objects, video.ObjectKey)
}

func TestUploadSlugCollisionSequence(t *testing.T) {
	service, repo, _ := newTestService(t)

	first, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first.Slug)

	second, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", second.Slug)

	third, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", third.Slug)

	assert.Len(t, repo.byID, 3)
}

func TestUploadExhaustedSlugAttemptsFailsWithoutWrites(t *testing.T) {
	service, repo, store := newTestService(t)

	// Occupy every candidate the loop may probe.
	repo.add(&Video{ID: "seed-0", Slug: "hello-world"})
	for i := 1; i < MaxSlugAttempts; i++ {
		repo.add(&Video{ID: fmt.Sprintf("seed-%d", i), Slug: fmt.Sprintf("hello-world-%d", i)})
	}

	_, err := service.Upload(context.Background(), validUpload())
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)

	assert.Empty(t, store.objects, "nothing may be written to storage")
	assert.Len(t, repo.byID, MaxSlugAttempts, "no new row may appear")
}

func TestUploadCompensatesObjectOnInsertFailure(t *testing.T) {
	service, repo, store := newTestService(t)
	repo.insertErr = errors.New("insert exploded")

	_, err := service.Upload(context.Background(), validUpload())
	require.Error(t, err)

	assert.Empty(t, store.objects, "the orphaned object must be removed")
	require.Len(t, store.deletedKeys, 1)
	assert.True(t, strings.HasPrefix(store.deletedKeys[0], "videos/hello-world-"))
	assert.Empty(t, repo.byID, "no row may survive the failed insert")
}

func TestUploadCompensationFailureIsSwallowed(t *testing.T) {
	service, _, store := newTestService(t)
	store.deleteErr = errors.New("storage unreachable")

	repo := service.repository.(*fakeRepo)
	repo.insertErr = errors.New("insert exploded")

	_, err := service.Upload(context.Background(), validUpload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert exploded", "the original error wins over the compensation failure")
}

func TestUploadValidation(t *testing.T) {
	service, repo, store := newTestService(t)

	cases := map[string]UploadInput{
		"empty payload": func() UploadInput {
			input := validUpload()
			input.Payload = nil
			return input
		}(),
		"short title": func() UploadInput {
			input := validUpload()
			input.Title = "ab"
			return input
		}(),
		"unsupported mime": func() UploadInput {
			input := validUpload()
			input.MimeType = "application/pdf"
			return input
		}(),
		"bad status": func() UploadInput {
			input := validUpload()
			input.Status = Status("archived")
			return input
		}(),
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := service.Upload(context.Background(), input)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		})
	}

	assert.Empty(t, store.objects)
	assert.Empty(t, repo.byID)
}

func TestUploadPublishedSetsPublishedAt(t *testing.T) {
	service, _, _ := newTestService(t)

	input := validUpload()
	input.Status = StatusPublished

	video, err := service.Upload(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, video.PublishedAt)
}

func TestUploadExtensionFallback(t *testing.T) {
	service, _, _ := newTestService(t)

	input := validUpload()
	input.OriginalFilename = "raw-capture"

	video, err := service.Upload(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(video.ObjectKey, ".mp4"))
}

// # Metadata Updates

func TestUpdateMetadataPublishTransitions(t *testing.T) {
	service, _, _ := newTestService(t)

	video, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)
	require.Nil(t, video.PublishedAt)

	edit := UpdateInput{Title: video.Title, Description: video.Description}

	// draft → published sets the timestamp.
	edit.Status = StatusPublished
	published, err := service.UpdateMetadata(context.Background(), video.ID, edit)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublish := *published.PublishedAt

	// published → published keeps the original timestamp.
	republished, err := service.UpdateMetadata(context.Background(), video.ID, edit)
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.True(t, republished.PublishedAt.Equal(firstPublish))

	// published → draft clears it.
	edit.Status = StatusDraft
	unpublished, err := service.UpdateMetadata(context.Background(), video.ID, edit)
	require.NoError(t, err)
	assert.Nil(t, unpublished.PublishedAt)
}

func TestUpdateMetadataUnknownVideo(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.UpdateMetadata(context.Background(), "missing", UpdateInput{
		Title:  "New Title",
		Status: StatusDraft,
	})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

// # Deletion

func TestDeleteRemovesObjectThenRow(t *testing.T) {
	service, repo, store := newTestService(t)

	video, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), video.ID))
	assert.Empty(t, store.objects)
	assert.Empty(t, repo.byID)
}

func TestDeleteKeepsRowWhenStorageFails(t *testing.T) {
	service, repo, store := newTestService(t)

	video, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)

	store.deleteErr = errors.New("storage unreachable")

	err = service.Delete(context.Background(), video.ID)
	require.Error(t, err)
	assert.Contains(t, repo.byID, video.ID, "the row must survive so the delete can be retried")
}

// # Streaming

func TestStreamURLAccessRules(t *testing.T) {
	service, _, _ := newTestService(t)

	draft, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)

	publishedInput := validUpload()
	publishedInput.Title = "Published Clip"
	publishedInput.Status = StatusPublished
	published, err := service.Upload(context.Background(), publishedInput)
	require.NoError(t, err)

	// Missing ID.
	_, err = service.StreamURL(context.Background(), "", false)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	// Unknown ID.
	_, err = service.StreamURL(context.Background(), "ghost", false)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	// Draft for a non-admin.
	_, err = service.StreamURL(context.Background(), draft.ID, false)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	// Draft for an admin.
	url, err := service.StreamURL(context.Background(), draft.ID, true)
	require.NoError(t, err)
	assert.Contains(t, url, draft.ObjectKey)

	// Published for anyone.
	url, err = service.StreamURL(context.Background(), published.ID, false)
	require.NoError(t, err)
	assert.Contains(t, url, published.ObjectKey)
}

// # Public Reads

func TestGetPublishedBySlugHidesDrafts(t *testing.T) {
	service, _, _ := newTestService(t)

	draft, err := service.Upload(context.Background(), validUpload())
	require.NoError(t, err)

	_, err = service.GetPublishedBySlug(context.Background(), draft.Slug)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus,
		"a draft must be indistinguishable from an absent video")
}
