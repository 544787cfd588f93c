package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"photo-server/internal/auth"
	"photo-server/internal/database"
	"strconv"
)

type CredentialsRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

type AuthResponse struct {
	Email   string `json:"email" example:"user@example.com"`
	UserID  string `json:"user_id" example:"42"`
	Message string `json:"message" example:"Login successful"`
}

// @Summary      Register a new user
// @Description  Creates a user account and returns the new user's id. The id is the client's handle for all gallery operations.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      CredentialsRequest  true  "Email and password"
// @Success      200          {object}  AuthResponse
// @Failure      400          {string}  string "Invalid request body or email already registered"
// @Failure      500          {string}  string "Internal Server Error"
// @Router       /register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Email, hashedPassword)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			http.Error(w, "Email already registered", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.store.LogEvent(r.Context(), user.ID, "user_registered", map[string]string{"email": user.Email}); err != nil {
		log.Printf("WARN: failed to journal registration for user %d: %v", user.ID, err)
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Email:   user.Email,
		UserID:  strconv.FormatInt(user.ID, 10),
		Message: "User registered successfully",
	})
}

// @Summary      Log a user in
// @Description  Verifies the credentials and returns the user's id. There are no sessions or tokens; the client keeps the id.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      CredentialsRequest  true  "Email and password"
// @Success      200          {object}  AuthResponse
// @Failure      400          {string}  string "Invalid request body"
// @Failure      401          {string}  string "Invalid credentials"
// @Failure      500          {string}  string "Internal Server Error"
// @Router       /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Email:   user.Email,
		UserID:  strconv.FormatInt(user.ID, 10),
		Message: "Login successful",
	})
}
