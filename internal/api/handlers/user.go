package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api/response"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/auth"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/models"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/repository"
)

// UserHandler handles registration and login.
type UserHandler struct {
	users    repository.UserRepository
	sessions repository.SessionRepository

	// sessionTTL holds nanoseconds; read per login and updated live on
	// config reload.
	sessionTTL atomic.Int64
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users repository.UserRepository, sessions repository.SessionRepository, sessionTTL time.Duration) *UserHandler {
	h := &UserHandler{
		users:    users,
		sessions: sessions,
	}
	h.sessionTTL.Store(int64(sessionTTL))
	return h
}

// SetSessionTTL updates the lifetime applied to sessions opened from now
// on. Existing sessions keep the expiry they were created with.
func (h *UserHandler) SetSessionTTL(ttl time.Duration) {
	h.sessionTTL.Store(int64(ttl))
}

// credentialsRequest is the body of both register and login calls.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the public view of a user.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Register creates a new user account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		response.BadRequest(w, errors.New("username and password are required"))
		return
	}

	existing, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if existing != nil {
		response.Conflict(w, errors.New("username already taken"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username})
}

// sessionResponse is returned on successful login.
type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login verifies credentials and opens a session.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		response.BadRequest(w, errors.New("username and password are required"))
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	// Same response whether the user is missing or the password is wrong.
	if user == nil {
		response.Unauthorized(w, errors.New("invalid credentials"))
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if !ok {
		response.Unauthorized(w, errors.New("invalid credentials"))
		return
	}

	token, err := auth.NewToken()
	if err != nil {
		response.InternalError(w, err)
		return
	}

	now := time.Now().UTC()
	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(h.sessionTTL.Load())),
	}

	if err := h.sessions.Create(r.Context(), session); err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, sessionResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// Logout deletes the session presented in the Authorization header.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		response.BadRequest(w, errors.New("missing session token"))
		return
	}

	if err := h.sessions.Delete(r.Context(), token); err != nil {
		response.InternalError(w, err)
		return
	}

	response.NoContent(w)
}
