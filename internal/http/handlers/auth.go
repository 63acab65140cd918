package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/middleware"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/models/dto"
	"github.com/hongminglow/finance-be/internal/storage"
)

const (
	msgEmailTaken         = "Email is already registered."
	msgInvalidCredentials = "Invalid email or password."
)

// CookieOptions controls the auth cookie set on login.
type CookieOptions struct {
	Name   string
	Secure bool
}

// AuthHandler owns the register and login endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	cookie CookieOptions
	logger *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{store: store, tokens: tokens, cookie: cookie, logger: logger}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		respond.Error(w, http.StatusBadRequest, auth.ErrPasswordTooLong.Error())
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(w, r, "hash password", err)
		return
	}
	created, err := h.store.CreateUser(r.Context(), models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusUnauthorized, msgEmailTaken)
			return
		}
		h.fail(w, r, "create user", err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.RegisterResponse{User: dto.UserResponse{
		ID:    created.ID,
		Email: created.Email,
		Name:  created.Name,
	}})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			auth.BurnPasswordCheck(req.Password)
			respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		h.fail(w, r, "find user", err)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.fail(w, r, "generate token", err)
		return
	}
	if h.cookie.Name != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie.Name,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(h.tokens.TTL()),
			MaxAge:   int(h.tokens.TTL().Seconds()),
			HttpOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.ErrorContext(r.Context(), op+" failed",
		"request_id", middleware.RequestID(r.Context()),
		"error", err,
	)
	respond.Error(w, http.StatusInternalServerError, msgInternal)
}
