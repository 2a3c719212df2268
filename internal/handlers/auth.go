package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/auth"
	"github.com/s/onlineLearning/internal/learning"
	"github.com/s/onlineLearning/internal/models"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	sessionOAuthState = "oauth_state"
)

// AuthResponse — пользователь и bearer-токен для клиентов без cookie
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in learning.RegisterInput
	if err := DecodeJSON(r, &in); err != nil {
		h.WriteError(w, r, err)
		return
	}
	u, err := h.Svc.Register(r.Context(), in)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.startSession(w, r, u, http.StatusCreated)
}

// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := DecodeJSON(r, &in); err != nil {
		h.WriteError(w, r, err)
		return
	}
	if in.Email == "" || in.Password == "" {
		h.WriteError(w, r, apperr.Invalid("Email и пароль обязательны"))
		return
	}
	u, err := h.Svc.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.startSession(w, r, u, http.StatusOK)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, u *models.User, status int) {
	if err := h.Auth.Login(w, r, u.ID); err != nil {
		h.WriteError(w, r, apperr.Internal("", err))
		return
	}
	token, err := h.Auth.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		h.WriteError(w, r, apperr.Internal("", err))
		return
	}
	WriteJSON(w, status, AuthResponse{User: u, Token: token})
}

// POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(w, r); err != nil {
		h.Log.Warn("logout: session save failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := CurrentUserID(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	u, err := h.Svc.GetUser(r.Context(), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

// GET /auth/google/login
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		h.WriteError(w, r, apperr.Internal("", err))
		return
	}
	session, _ := h.Auth.Store.Get(r, auth.SessionName)
	session.Values[sessionOAuthState] = state
	if err := session.Save(r, w); err != nil {
		h.WriteError(w, r, apperr.Internal("", err))
		return
	}
	http.Redirect(w, r, h.Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /auth/google/callback
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	session, _ := h.Auth.Store.Get(r, auth.SessionName)
	expected, _ := session.Values[sessionOAuthState].(string)
	if expected == "" || r.URL.Query().Get("state") != expected {
		h.WriteError(w, r, apperr.Unauthenticated("Некорректный state"))
		return
	}
	delete(session.Values, sessionOAuthState)

	token, err := h.Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.Log.Warn("google: token exchange failed", zap.Error(err))
		h.WriteError(w, r, apperr.Unauthenticated("Ошибка обмена токена"))
		return
	}

	client := h.Config.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		h.WriteError(w, r, apperr.Internal("Ошибка Google API", err))
		return
	}
	defer resp.Body.Close()

	var info auth.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		h.WriteError(w, r, apperr.Internal("Ошибка Google API", err))
		return
	}

	u, err := h.Svc.SaveGoogleUser(r.Context(), info)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	session.Values[auth.SessionUserID] = u.ID
	if err := session.Save(r, w); err != nil {
		h.WriteError(w, r, apperr.Internal("", err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
