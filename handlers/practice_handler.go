package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"tongueTwisterAPI/middleware"
	"tongueTwisterAPI/services"
)

type PracticeHandler struct {
	practiceService *services.PracticeService
}

func NewPracticeHandler(practiceService *services.PracticeService) *PracticeHandler {
	return &PracticeHandler{
		practiceService: practiceService,
	}
}

type submitAttemptRequest struct {
	TwisterText string `json:"twisterText"`
	Transcript  string `json:"transcript"`
}

// SubmitAttempt runs the whole practice flow: scoring, score persistence,
// streak and XP updates, achievements, the daily challenge and the ordered
// celebration events for the client to play back.
func (h *PracticeHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	// Scoring goes out to an LLM, so this handler gets a longer deadline
	// than the usual DB-bound ones.
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	email, ok := middleware.GetUserEmail(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.practiceService.SubmitAttempt(ctx, email, req.TwisterText, req.Transcript)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoSpeechDetected):
			respondWithError(w, http.StatusBadRequest, "No speech detected. Please try again!")
		case errors.Is(err, services.ErrUnknownTwister):
			respondWithError(w, http.StatusNotFound, "Unknown tongue twister")
		case errors.Is(err, services.ErrProfileNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrScoringUnavailable):
			middleware.ObserveScoringCall("unavailable")
			log.Printf("SubmitAttempt Handler: Scoring unavailable: %v", err)
			respondWithError(w, http.StatusServiceUnavailable, "Scoring is temporarily unavailable. Please try again.")
		case errors.Is(err, services.ErrMalformedScoringResponse):
			middleware.ObserveScoringCall("malformed")
			log.Printf("SubmitAttempt Handler: Malformed scoring response: %v", err)
			respondWithError(w, http.StatusBadGateway, "Scoring returned an unexpected response. Please try again.")
		default:
			log.Printf("SubmitAttempt Handler: Service error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to record attempt")
		}
		return
	}

	middleware.ObserveScoringCall("ok")
	respondWithJSON(w, http.StatusOK, result)
}
