// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package video

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/apperr"
	requestutil "github.com/dimitarnikolovv/healthy-tips/internal/platform/request"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/respond"
	"github.com/dimitarnikolovv/healthy-tips/pkg/pagination"
)

// multipartMemoryLimit is how much of a multipart body is held in memory
// before spilling to temporary files.
const multipartMemoryLimit = 32 << 20

// # HTTP Handler

// Handler exposes the video use-cases over HTTP.
type Handler struct {
	service *Service
	views   *ViewCounter
	logger  *slog.Logger
}

// NewHandler creates a new video HTTP handler.
func NewHandler(service *Service, views *ViewCounter, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		views:   views,
		logger:  logger,
	}
}

// RegisterPublicRoutes mounts the viewer-facing endpoints.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/videos", handler.ListPublished)
	router.Get("/videos/{slug}", handler.GetBySlug)
	router.Get("/api/videos/stream/{videoID}", handler.Stream)

	// Reached when the client omits the ID segment entirely.
	router.Get("/api/videos/stream", handler.Stream)
	router.Get("/api/videos/stream/", handler.Stream)
}

// RegisterAdminRoutes mounts the admin endpoints (behind the admin guard).
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/videos", handler.ListAll)
	router.Post("/videos", handler.Upload)
	router.Patch("/videos/{videoID}", handler.Update)
	router.Delete("/videos/{videoID}", handler.Delete)
	router.Get("/stats", handler.Stats)
}

// # Admin Endpoints

/*
Upload handles POST /admin/videos (multipart/form-data).

Fields: title, description, status (draft|published, default draft), and
videoFile. The admin identity is re-checked here at action time, independent
of the route guard, so a form post can never slip through a mounting mistake.
*/
func (handler *Handler) Upload(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Cap the body before parsing; a too-large upload fails fast with 413.
	request.Body = http.MaxBytesReader(writer, request.Body, MaxUploadBytes+multipartMemoryLimit)

	if err := request.ParseMultipartForm(multipartMemoryLimit); err != nil {
		respond.Error(writer, request, uploadParseError(err))
		return
	}

	file, fileHeader, err := request.FormFile(FieldVideoFile)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldVideoFile, Message: "The video file is required"}))
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		respond.Error(writer, request, uploadParseError(err))
		return
	}

	video, err := handler.service.Upload(request.Context(), UploadInput{
		Title:            request.FormValue(FieldTitle),
		Description:      request.FormValue(FieldDescription),
		Status:           Status(request.FormValue(FieldStatus)),
		Payload:          payload,
		OriginalFilename: fileHeader.Filename,
		MimeType:         fileHeader.Header.Get("Content-Type"),
		UploadedByUserID: identity.UserID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video)
}

/*
Update handles PATCH /admin/videos/{videoID}.
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredAdmin(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      Status `json:"status"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.service.UpdateMetadata(request.Context(), requestutil.Param(request, FieldVideoID), UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
Delete handles DELETE /admin/videos/{videoID}.
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredAdmin(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Param(request, FieldVideoID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ListAll handles GET /admin/videos: every video, any status.
*/
func (handler *Handler) ListAll(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredAdmin(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	videos, total, err := handler.service.ListAll(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, videos, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Stats handles GET /admin/stats: video counts by status plus the Redis view
counters.
*/
func (handler *Handler) Stats(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredAdmin(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	counts, err := handler.service.CountByStatus(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	perVideo, totalViews, err := handler.views.Totals(request.Context())
	if err != nil {
		// Degrade rather than fail: the cache being down should not take the
		// dashboard with it.
		handler.logger.WarnContext(request.Context(), "stats_views_unavailable",
			slog.String("error", err.Error()),
		)
		perVideo, totalViews = map[string]int64{}, 0
	}

	respond.OK(writer, map[string]interface{}{
		"videos": map[string]int{
			"draft":     counts[StatusDraft],
			"published": counts[StatusPublished],
			"total":     counts[StatusDraft] + counts[StatusPublished],
		},
		"views": map[string]interface{}{
			"total":     totalViews,
			"per_video": perVideo,
		},
	})
}

// # Public Endpoints

/*
ListPublished handles GET /videos with optional ?q= title search.
*/
func (handler *Handler) ListPublished(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("q")

	videos, total, err := handler.service.ListPublished(request.Context(), search, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, videos, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetBySlug handles GET /videos/{slug}. Drafts 404 like absent videos.
*/
func (handler *Handler) GetBySlug(writer http.ResponseWriter, request *http.Request) {
	video, err := handler.service.GetPublishedBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
Stream handles GET /api/videos/stream/{videoID}.

Responses: 400 for a missing ID, 404 for an unknown one, 403 for a draft
requested by a non-admin, otherwise a 307 whose Location is a one-hour signed
URL, marked non-cacheable. Each successful redirect counts one view.
*/
func (handler *Handler) Stream(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.Param(request, FieldVideoID)
	identity := requestutil.Identity(request)

	url, err := handler.service.StreamURL(request.Context(), videoID, identity.IsAdmin())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.views.Record(request.Context(), videoID)
	respond.TemporaryRedirect(writer, url)
}

// uploadParseError classifies multipart parse failures: an oversized body is
// the client's fault, everything else a bad payload.
func uploadParseError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apperr.PayloadTooLarge("The video file exceeds the 500MB limit")
	}
	return apperr.BadRequest("Could not parse the upload form")
}
