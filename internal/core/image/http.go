// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package image

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/tagraph/internal/platform/request"
	"github.com/taibuivan/tagraph/internal/platform/respond"
)

// Handler exposes image tagging over JSON.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the image endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.getImage)
	router.Put("/{id}/tags", handler.updateTags)

	return router
}

func (handler *Handler) getImage(writer http.ResponseWriter, request *http.Request) {
	imageID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.service.Get(request.Context(), imageID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, image)
}

type updateTagsRequest struct {
	TagInput string `json:"tag_input"`
}

/*
PUT /api/v1/images/{id}/tags.

Response:
  - 200: Image
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
  - 409: CONFLICT_ABORT: A tag was merged concurrently, retry
*/
func (handler *Handler) updateTags(writer http.ResponseWriter, request *http.Request) {
	imageID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body updateTagsRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.service.UpdateTags(request.Context(), imageID, body.TagInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, image)
}
