package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"tongueTwisterAPI/internal/twister"
	"tongueTwisterAPI/middleware"
	"tongueTwisterAPI/services"
)

type TwisterHandler struct {
	practiceService *services.PracticeService
}

func NewTwisterHandler(practiceService *services.PracticeService) *TwisterHandler {
	return &TwisterHandler{
		practiceService: practiceService,
	}
}

func (h *TwisterHandler) ListTwisters(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		d := twister.Difficulty(raw)
		if !d.Valid() {
			respondWithError(w, http.StatusBadRequest, "difficulty must be Easy, Medium or Hard")
			return
		}
		respondWithJSON(w, http.StatusOK, twister.ByDifficulty(d))
		return
	}

	respondWithJSON(w, http.StatusOK, twister.Catalog)
}

type dailyTwisterResponse struct {
	Twister   twister.Twister `json:"twister"`
	Completed bool            `json:"completed"`
}

// GetDailyTwister returns today's featured twister together with whether the
// authenticated user has already completed today's challenge.
func (h *TwisterHandler) GetDailyTwister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email, ok := middleware.GetUserEmail(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	completed, err := h.practiceService.DailyChallengeCompleted(ctx, email)
	if err != nil {
		log.Printf("GetDailyTwister Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load daily challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, dailyTwisterResponse{
		Twister:   twister.Daily(time.Now()),
		Completed: completed,
	})
}
