package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tongueTwisterAPI/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	content string
	err     error
	lastReq llm.CompletionRequest
}

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.lastReq = req
	return f.content, f.err
}

func TestScoreParsesCleanJSON(t *testing.T) {
	provider := &fakeProvider{
		content: `{"score": 87, "feedback": "Watch the double p in peppers.", "comment": "Nice pace!"}`,
	}
	svc := NewScoringService(provider, time.Second)

	got, err := svc.Score(context.Background(), "Peter Piper picked a peck of pickled peppers.", "peter piper picked a pek of pickled pepers")
	require.NoError(t, err)

	assert.Equal(t, 87, got.Score)
	assert.Equal(t, "Watch the double p in peppers.", got.Feedback)
	assert.Equal(t, "Nice pace!", got.Comment)

	// Both phrases must reach the model.
	assert.Contains(t, provider.lastReq.UserMessage, "Peter Piper")
	assert.Contains(t, provider.lastReq.UserMessage, "pek of pickled pepers")
	assert.NotEmpty(t, provider.lastReq.SystemPrompt)
}

func TestScoreStripsMarkdownFences(t *testing.T) {
	provider := &fakeProvider{
		content: "```json\n{\"score\": 91, \"feedback\": \"\", \"comment\": \"Crystal clear!\"}\n```",
	}
	svc := NewScoringService(provider, time.Second)

	got, err := svc.Score(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 91, got.Score)
}

func TestScoreProviderErrorIsUnavailable(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	svc := NewScoringService(provider, time.Second)

	_, err := svc.Score(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrScoringUnavailable)
}

func TestScoreRejectsMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":          "I'd rate this attempt an 8 out of 10!",
		"non-integer score": `{"score": 87.5, "feedback": "", "comment": ""}`,
		"score too high":    `{"score": 101, "feedback": "", "comment": ""}`,
		"negative score":    `{"score": -1, "feedback": "", "comment": ""}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewScoringService(&fakeProvider{content: content}, time.Second)

			_, err := svc.Score(context.Background(), "a", "b")
			assert.ErrorIs(t, err, ErrMalformedScoringResponse)
		})
	}
}

func TestScoreBoundaryValues(t *testing.T) {
	for _, content := range []string{
		`{"score": 0, "feedback": "", "comment": ""}`,
		`{"score": 100, "feedback": "", "comment": ""}`,
	} {
		svc := NewScoringService(&fakeProvider{content: content}, time.Second)
		_, err := svc.Score(context.Background(), "a", "b")
		assert.NoError(t, err)
	}
}
