// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/tagraph/internal/platform/request"
	"github.com/taibuivan/tagraph/internal/platform/respond"
	"github.com/taibuivan/tagraph/pkg/pagination"
	"github.com/taibuivan/tagraph/pkg/query"
)

// # Handler Implementation

// Handler exposes the tag graph over JSON. It performs no authorization;
// callers are trusted operators.
type Handler struct {
	service *Service
}

// NewHandler constructs a tag [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the tag endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Lookups
	router.Get("/", handler.listTags)
	router.Get("/{id}", handler.getTag)
	router.Get("/by-slug/{slug}", handler.getTagBySlug)

	// ## Mutations
	router.Post("/", handler.createTag)
	router.Post("/resolve", handler.resolveTags)
	router.Patch("/{id}", handler.updateTag)
	router.Put("/{id}/alias", handler.aliasTag)
	router.Put("/{id}/implications", handler.setImplications)
	router.Delete("/{id}", handler.deleteTag)

	return router
}

// # Lookup Endpoints

/*
GET /api/v1/tags.

Request:
  - namespace: string
  - category: string
  - prefix: string (name prefix)
  - aliases: bool (only aliased tags)
  - page, limit: int

Response:
  - 200: []Tag: Paginated list ordered by image count
*/
func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Namespace:   queryParams.Get("namespace"),
		Category:    queryParams.Get("category"),
		NamePrefix:  NormalizeName(queryParams.Get("prefix")),
		OnlyAliases: query.Bool(queryParams.Get("aliases")),
	}

	tags, total, err := handler.service.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tags, pagination.NewMeta(paginationParams, total))
}

func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Get(request.Context(), tagID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

func (handler *Handler) getTagBySlug(writer http.ResponseWriter, request *http.Request) {
	tag, err := handler.service.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

// # Request Payloads

type createTagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type updateTagRequest struct {
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type tagInputRequest struct {
	TagInput string `json:"tag_input"`
}

type aliasRequest struct {
	TargetName string `json:"target_name"`
}

type implicationsRequest struct {
	ImpliedTagList string `json:"implied_tag_list"`
}

// # Mutation Endpoints

/*
POST /api/v1/tags.

Response:
  - 201: Tag
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Name already taken
*/
func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var body createTagRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Create(request.Context(), CreateInput{
		Name:        body.Name,
		Description: body.Description,
		Category:    body.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tag)
}

/*
POST /api/v1/tags/resolve.

Description: Resolves a comma-separated tag list to canonical tags, creating
unknown names.

Response:
  - 200: []Tag
  - 400: VALIDATION_ERROR: A name is malformed
*/
func (handler *Handler) resolveTags(writer http.ResponseWriter, request *http.Request) {
	var body tagInputRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.service.Resolve(request.Context(), body.TagInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tags)
}

func (handler *Handler) updateTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body updateTagRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Update(request.Context(), tagID, UpdateInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tag)
}

/*
PUT /api/v1/tags/{id}/alias.

Description: Retires the tag into the tag named target_name.

Response:
  - 200: MergeResult
  - 400: VALIDATION_ERROR: Self or cyclic alias
  - 404: NOT_FOUND: Source or target missing
  - 409: CONFLICT_ABORT: Concurrent mutation, retry
*/
func (handler *Handler) aliasTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body aliasRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Alias(request.Context(), tagID, body.TargetName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) setImplications(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body implicationsRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.SetImplications(request.Context(), tagID, body.ImpliedTagList)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tag)
}

func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), tagID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
