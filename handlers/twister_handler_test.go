package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tongueTwisterAPI/internal/twister"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTwistersReturnsFullCatalog(t *testing.T) {
	h := NewTwisterHandler(nil)

	req := httptest.NewRequest("GET", "/api/v1/twisters", nil)
	rec := httptest.NewRecorder()

	h.ListTwisters(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []twister.Twister
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, len(twister.Catalog))
}

func TestListTwistersFiltersByDifficulty(t *testing.T) {
	h := NewTwisterHandler(nil)

	req := httptest.NewRequest("GET", "/api/v1/twisters?difficulty=Hard", nil)
	rec := httptest.NewRecorder()

	h.ListTwisters(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []twister.Twister
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got)
	for _, tw := range got {
		assert.Equal(t, twister.DifficultyHard, tw.Difficulty)
	}
}

func TestListTwistersRejectsUnknownDifficulty(t *testing.T) {
	h := NewTwisterHandler(nil)

	req := httptest.NewRequest("GET", "/api/v1/twisters?difficulty=Impossible", nil)
	rec := httptest.NewRecorder()

	h.ListTwisters(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
