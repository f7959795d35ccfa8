package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/require"
)

func TestSearchWithoutClientReturnsServiceUnavailable(t *testing.T) {
	env := newTestEnv(t)
	h := &SearchHandler{Index: "products"}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/search?q=pizza", nil)
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Search is not configured", resp["error"])
}

func TestSearchEmptyQueryReturnsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	// A constructed client never dials; the handler rejects before any request.
	esc, err := elasticsearch.NewDefaultClient()
	require.NoError(t, err)
	h := &SearchHandler{ES: esc, Index: "products"}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/search", nil)
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Query is required", resp["error"])
}
