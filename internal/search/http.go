// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tagraph/internal/platform/apperr"
	requestutil "github.com/taibuivan/tagraph/internal/platform/request"
	"github.com/taibuivan/tagraph/internal/platform/respond"
)

const (
	defaultMatchLimit = 50
	maxMatchLimit     = 500
)

// matchableFields are the keyword fields an exact-term lookup may target.
var matchableFields = []string{"slug", "namespace", "category", "aliased_tag", "tags", "aliases", "implied_tags", "implied_by_tags"}

// # Handler Implementation

// Handler lets operators inspect what the index currently holds, to check
// that a mutation has converged. It is not a query API.
type Handler struct {
	index *Index
}

// NewHandler constructs a search [Handler].
func NewHandler(index *Index) *Handler {
	return &Handler{index: index}
}

// Routes returns a [chi.Router] with the index inspection endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.matchDocuments)
	router.Get("/{key}", handler.getDocument)

	return router
}

/*
GET /api/v1/index/documents/{key}.

Description: Returns the stored fields of one document, e.g. "image:42".

Response:
  - 200: map of stored fields
  - 400: VALIDATION_ERROR: Malformed key
  - 404: NOT_FOUND: Not indexed
*/
func (handler *Handler) getDocument(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.Param(request, "key")

	docType, _, err := ParseDocumentID(key)
	if err != nil || !knownType(docType) {
		respond.Error(writer, request, apperr.ValidationError(fmt.Sprintf("Malformed document key %q", key)))
		return
	}

	fields, err := handler.index.Get(request.Context(), key)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	if fields == nil {
		respond.Error(writer, request, apperr.NotFound("Document"))
		return
	}

	respond.OK(writer, fields)
}

/*
GET /api/v1/index/documents.

Request:
  - type: image | tag
  - field: keyword field, e.g. tags
  - term: exact value
  - limit: int

Response:
  - 200: []string: Matching document keys
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) matchDocuments(writer http.ResponseWriter, request *http.Request) {
	queryParams := request.URL.Query()

	docType := DocType(queryParams.Get("type"))
	field := queryParams.Get("field")
	term := queryParams.Get("term")

	var details []apperr.FieldError
	if !knownType(docType) {
		details = append(details, apperr.FieldError{Field: "type", Message: "must be image or tag"})
	}
	if !slices.Contains(matchableFields, field) {
		details = append(details, apperr.FieldError{Field: "field", Message: "is not a keyword field"})
	}
	if term == "" {
		details = append(details, apperr.FieldError{Field: "term", Message: "is required"})
	}
	if len(details) > 0 {
		respond.Error(writer, request, apperr.ValidationError("Invalid index lookup", details...))
		return
	}

	limit := defaultMatchLimit
	if raw := queryParams.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxMatchLimit)
		}
	}

	ids, err := handler.index.MatchingIDs(request.Context(), docType, field, term, limit)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, ids)
}

func knownType(docType DocType) bool {
	return docType == DocTypeImage || docType == DocTypeTag
}
