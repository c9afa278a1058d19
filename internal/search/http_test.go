// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveIndex(t *testing.T, handler *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestHandler_GetDocument(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDocuments([]*Document{imageDoc(5, "safe")}))
	handler := NewHandler(index)

	recorder := serveIndex(t, handler, "/image:5")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "image", envelope.Data["type"])

	assert.Equal(t, http.StatusNotFound, serveIndex(t, handler, "/image:6").Code)
	assert.Equal(t, http.StatusBadRequest, serveIndex(t, handler, "/video:5").Code)
	assert.Equal(t, http.StatusBadRequest, serveIndex(t, handler, "/image").Code)
}

func TestHandler_MatchDocuments(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDocuments([]*Document{imageDoc(1, "safe"), imageDoc(2, "safe", "colt"), imageDoc(3, "colt")}))
	handler := NewHandler(index)

	recorder := serveIndex(t, handler, "/?type=image&field=tags&term=colt")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.ElementsMatch(t, []string{"image:2", "image:3"}, envelope.Data)

	recorder = serveIndex(t, handler, "/?type=image&field=tags&term=colt&limit=1")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
}

func TestHandler_MatchDocuments_Rejects(t *testing.T) {
	handler := NewHandler(nil)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown type", "/?type=video&field=tags&term=safe"},
		{"unindexed field", "/?type=image&field=description&term=safe"},
		{"missing term", "/?type=image&field=tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, serveIndex(t, handler, tt.target).Code)
		})
	}
}
