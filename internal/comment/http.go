// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/dimitarnikolovv/healthy-tips/internal/platform/request"
	"github.com/dimitarnikolovv/healthy-tips/internal/platform/respond"
	"github.com/dimitarnikolovv/healthy-tips/pkg/pagination"
)

// # HTTP Handler

// Handler exposes the comment use-cases over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new comment HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the comment endpoints. Reading is public; writing
// requires an authenticated identity, checked per action.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/videos/{videoID}/comments", handler.ListByVideo)
	router.Post("/videos/{videoID}/comments", handler.Create)
	router.Patch("/comments/{commentID}", handler.Update)
	router.Delete("/comments/{commentID}", handler.Delete)
}

// # Endpoints

type contentInput struct {
	Content string `json:"content"`
}

/*
Create handles POST /videos/{videoID}/comments.
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(),
		requestutil.Param(request, FieldVideoID), identity.UserID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
Update handles PATCH /comments/{commentID}. Author-only.
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Update(request.Context(),
		requestutil.Param(request, FieldCommentID), identity.UserID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
Delete handles DELETE /comments/{commentID}. Author-only.
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.Delete(request.Context(),
		requestutil.Param(request, FieldCommentID), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ListByVideo handles GET /videos/{videoID}/comments.
*/
func (handler *Handler) ListByVideo(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	comments, total, err := handler.service.ListByVideo(request.Context(),
		requestutil.Param(request, FieldVideoID), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}
