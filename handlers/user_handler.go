package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"tongueTwisterAPI/internal/twister"
	"tongueTwisterAPI/internal/user"
	"tongueTwisterAPI/middleware"
	"tongueTwisterAPI/services"
)

type UserHandler struct {
	userService        *services.UserService
	leaderboardService *services.LeaderboardService
}

func NewUserHandler(userService *services.UserService, leaderboardService *services.LeaderboardService) *UserHandler {
	return &UserHandler{
		userService:        userService,
		leaderboardService: leaderboardService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email, ok := middleware.GetUserEmail(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("GetProfile Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email, ok := middleware.GetUserEmail(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userStats, err := h.userService.GetUserStats(ctx, email)
	if err != nil {
		log.Printf("GetUserStats Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	respondWithJSON(w, http.StatusOK, userStats)
}

func (h *UserHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email, ok := middleware.GetUserEmail(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	achievements, err := h.userService.GetAchievements(ctx, email)
	if err != nil {
		log.Printf("GetAchievements Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}

func (h *UserHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email, ok := middleware.GetUserEmail(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.ToggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TwisterText == "" {
		respondWithError(w, http.StatusBadRequest, "twisterText is required")
		return
	}

	favorited, err := h.userService.ToggleFavorite(ctx, email, req.TwisterText)
	if err != nil {
		if errors.Is(err, services.ErrUnknownTwister) {
			respondWithError(w, http.StatusNotFound, "Unknown tongue twister")
			return
		}
		log.Printf("ToggleFavorite Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to toggle favorite")
		return
	}

	respondWithJSON(w, http.StatusOK, user.ToggleFavoriteResponse{
		TwisterText: req.TwisterText,
		Favorited:   favorited,
	})
}

func (h *UserHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email, ok := middleware.GetUserEmail(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var filter *twister.Difficulty
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		d := twister.Difficulty(raw)
		if !d.Valid() {
			respondWithError(w, http.StatusBadRequest, "difficulty must be Easy, Medium or Hard")
			return
		}
		filter = &d
	}

	board, err := h.leaderboardService.GetLeaderboard(ctx, email, filter)
	if err != nil {
		log.Printf("GetLeaderboard Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
