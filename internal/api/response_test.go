package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOk_WrapsPayloadInDataKey(t *testing.T) {
	w := httptest.NewRecorder()
	Ok(w, map[string]string{"foo": "bar"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, map[string]any{"foo": "bar"}, body["data"])
}

func TestNoContent_WritesEmptyBodyWithStatus204(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent(w)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.Bytes())
}

func TestErrNotFound_WritesErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ErrNotFound(w)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not_found", body["error"].Code)
}

func TestErrUnprocessable_IncludesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	ErrUnprocessable(w, "bad date range")

	var body map[string]errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bad date range", body["error"].Message)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"known":"x","unknown":"y"}`))

	var dst struct {
		Known string `json:"known"`
	}
	ok := decodeJSON(w, r, &dst)
	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeJSON_AcceptsValidBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"known":"x"}`))

	var dst struct {
		Known string `json:"known"`
	}
	ok := decodeJSON(w, r, &dst)
	require.True(t, ok)
	require.Equal(t, "x", dst.Known)
}
