package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tongueTwisterAPI/middleware"
	"tongueTwisterAPI/services"

	"github.com/stretchr/testify/assert"
)

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserEmailKey, "tester@example.com")
	return req.WithContext(ctx)
}

func TestSubmitAttemptRequiresAuth(t *testing.T) {
	h := NewPracticeHandler(services.NewPracticeService(nil, nil))

	req := httptest.NewRequest("POST", "/api/v1/practice/attempts", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.SubmitAttempt(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitAttemptEmptyTranscript(t *testing.T) {
	h := NewPracticeHandler(services.NewPracticeService(nil, nil))

	req := authedRequest("POST", "/api/v1/practice/attempts",
		`{"twisterText": "Red lorry, yellow lorry.", "transcript": "   "}`)
	rec := httptest.NewRecorder()

	h.SubmitAttempt(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No speech detected")
}

func TestSubmitAttemptUnknownTwister(t *testing.T) {
	h := NewPracticeHandler(services.NewPracticeService(nil, nil))

	req := authedRequest("POST", "/api/v1/practice/attempts",
		`{"twisterText": "a phrase nobody practices", "transcript": "hello"}`)
	rec := httptest.NewRecorder()

	h.SubmitAttempt(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAttemptRejectsBadJSON(t *testing.T) {
	h := NewPracticeHandler(services.NewPracticeService(nil, nil))

	req := authedRequest("POST", "/api/v1/practice/attempts", `{not json`)
	rec := httptest.NewRecorder()

	h.SubmitAttempt(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
