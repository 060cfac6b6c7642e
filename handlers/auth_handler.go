package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"tongueTwisterAPI/internal/user"
	"tongueTwisterAPI/middleware"
	"tongueTwisterAPI/services"
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if len(req.Password) < 6 {
		respondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters long.")
		return
	}

	newUser, err := h.userService.CreateUser(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("Signup Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := middleware.GenerateToken(newUser.Email)
	if err != nil {
		log.Printf("Signup Handler: Failed to issue token: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondWithJSON(w, http.StatusCreated, user.AuthResponse{Token: token, User: newUser})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loggedIn, err := h.userService.Authenticate(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			respondWithError(w, http.StatusNotFound, "User not found. Create an account first.")
		case errors.Is(err, services.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Incorrect password. Please try again.")
		default:
			log.Printf("Login Handler: Service error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	token, err := middleware.GenerateToken(loggedIn.Email)
	if err != nil {
		log.Printf("Login Handler: Failed to issue token: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondWithJSON(w, http.StatusOK, user.AuthResponse{Token: token, User: loggedIn})
}

// ForgotPassword always responds 200 so the endpoint cannot be used to probe
// which emails have accounts. Token delivery by email is out of scope; when
// the account exists the token is returned in the response body, mirroring
// the on-screen reset link of the original client.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp := map[string]string{
		"message": "If an account exists for this email, a reset token has been generated.",
	}

	token, err := h.userService.CreatePasswordReset(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, services.ErrProfileNotFound) {
			log.Printf("ForgotPassword Handler: Service error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create reset token")
			return
		}
	} else {
		resp["resetToken"] = token
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" {
		respondWithError(w, http.StatusBadRequest, "token is required")
		return
	}
	if len(req.Password) < 6 {
		respondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters long.")
		return
	}

	if err := h.userService.ResetPassword(ctx, req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			respondWithError(w, http.StatusBadRequest, "Invalid or expired reset link. Please request a new one.")
			return
		}
		log.Printf("ResetPassword Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset successfully! You can now log in.",
	})
}
