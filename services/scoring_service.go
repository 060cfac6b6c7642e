package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"tongueTwisterAPI/internal/llm"
)

const scoringSystemPrompt = `You are a pronunciation coach analyzing a user's spoken rendition of a tongue twister.

Compare the user's attempt against the original phrase and judge how clearly each word was pronounced.

Respond with ONLY a JSON object in this exact format (no markdown, no prose):
{
  "score": <integer clarity score from 0 to 100>,
  "feedback": "<brief feedback on mispronounced words>",
  "comment": "<a short, encouraging comment for the user>"
}`

// AnalysisResult is the validated outcome of one scoring call.
type AnalysisResult struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
	Comment  string `json:"comment"`
}

// rawAnalysis mirrors the model's JSON output before validation. Score is a
// float so a fractional value can be detected and rejected rather than
// silently truncated.
type rawAnalysis struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
	Comment  string  `json:"comment"`
}

// ScoringService wraps the external language-model call that grades a spoken
// attempt. Every call carries a hard timeout; expiry surfaces as
// ErrScoringUnavailable like any other transport failure.
type ScoringService struct {
	provider llm.Provider
	timeout  time.Duration
}

func NewScoringService(provider llm.Provider, timeout time.Duration) *ScoringService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ScoringService{provider: provider, timeout: timeout}
}

// Score asks the model to grade attemptText against originalText. The
// transcript must already be validated as non-empty by the caller.
func (s *ScoringService) Score(ctx context.Context, originalText, attemptText string) (*AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	userMsg := fmt.Sprintf("Original: %q\nUser's attempt: %q", originalText, attemptText)

	content, err := s.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: scoringSystemPrompt,
		UserMessage:  userMsg,
		Temperature:  0.2,
		MaxTokens:    512,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}

	result, err := parseAnalysis(content)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func parseAnalysis(content string) (*AnalysisResult, error) {
	cleaned := stripMarkdownFences(content)

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScoringResponse, err)
	}

	if raw.Score != math.Trunc(raw.Score) {
		return nil, fmt.Errorf("%w: non-integer score %v", ErrMalformedScoringResponse, raw.Score)
	}
	score := int(raw.Score)
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: score %d out of range", ErrMalformedScoringResponse, score)
	}

	return &AnalysisResult{
		Score:    score,
		Feedback: raw.Feedback,
		Comment:  raw.Comment,
	}, nil
}

// stripMarkdownFences removes the ```json ... ``` fences some models wrap
// around JSON output.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	if before, ok := strings.CutSuffix(s, "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}
