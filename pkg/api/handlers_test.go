package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/njorddb/pkg/catalog"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) (*Server, *catalog.Catalog) {
	t.Helper()

	cat, err := catalog.Open(catalog.Config{Width: 100, Height: 100, Threaded: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })

	return NewServer(cat, ServerConfig{Port: 8080, APIKey: testAPIKey}, NewMetrics()), cat
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestServer_PutAndSearch(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	for _, p := range []PutEntityRequest{
		{X: 10, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 30}, {X: 40, Y: 40}, {X: 60, Y: 60, Data: "beacon"},
	} {
		rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/entities", p)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, resp.Success)
	}

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/search?x=50&y=50&w=50&h=50", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
}

func TestServer_PutOutsideWorld(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/entities", PutEntityRequest{X: 500, Y: 500})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "outside the world bound")
}

func TestServer_GetMoveDelete(t *testing.T) {
	server, cat := newTestServer(t)
	router := server.Router()

	e, err := cat.Put(10, 10, []byte("rover"))
	require.NoError(t, err)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/entities/"+e.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, _ = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/entities/%s/move", e.ID), MoveEntityRequest{X: 80, Y: 80})
	require.Equal(t, http.StatusOK, rec.Code)

	found := cat.FindInArea(50, 50, 50, 50)
	require.Len(t, found, 1)
	assert.Equal(t, e.ID, found[0].ID)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/v1/entities/"+e.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/entities/"+e.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, resp.Error, "not found")
}

func TestServer_SearchValidation(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/search?x=1&y=2&w=3", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error, `"h"`)

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/search?x=abc&y=0&w=1&h=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error, `"x"`)
}

func TestServer_ClearAndStats(t *testing.T) {
	server, cat := newTestServer(t)
	router := server.Router()

	for i := 0; i < 10; i++ {
		_, err := cat.Put(float64(i*10), float64(i*10), nil)
		require.NoError(t, err)
	}

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(10), stats["entities"])

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Zero(t, cat.Len())
	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/search?x=0&y=0&w=100&h=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["count"])
}

func TestServer_MetricsEndpointUnprotected(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
