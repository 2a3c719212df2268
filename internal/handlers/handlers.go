package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/auth"
	"github.com/s/onlineLearning/internal/ctxutil"
	"github.com/s/onlineLearning/internal/database"
	"github.com/s/onlineLearning/internal/learning"
	"github.com/s/onlineLearning/internal/observability"
)

type Handler struct {
	DB     *gorm.DB
	Svc    *learning.Service
	Auth   *auth.Authenticator
	Config *oauth2.Config // nil, если вход через Google не настроен
	Log    *zap.Logger
}

func NewHandler(db *gorm.DB, svc *learning.Service, authn *auth.Authenticator, config *oauth2.Config, log *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Svc:    svc,
		Auth:   authn,
		Config: config,
		Log:    log.With(zap.String("component", "http")),
	}
}

// ErrorBody — единый формат ошибки API
type ErrorBody struct {
	Error string      `json:"error"`
	Code  apperr.Kind `json:"code"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, message string, kind apperr.Kind) {
	WriteJSON(w, apperr.HTTPStatus(kind), ErrorBody{Error: message, Code: kind})
}

// WriteError отдаёт ошибку сервиса клиенту. Внутренние ошибки пишутся в лог
// и в Sentry, клиент видит только общее сообщение.
func (h *Handler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		observability.CaptureErr(err)
	}
	jsonError(w, apperr.Message(err), kind)
}

// DecodeJSON читает тело запроса; неизвестные поля (в том числе userId) игнорируются.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("Пустое тело запроса")
		}
		return apperr.Invalid("Некорректный JSON")
	}
	return nil
}

// PathID достаёт числовой параметр маршрута
func PathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid("Некорректный параметр " + name)
	}
	return uint(id), nil
}

// CurrentUserID — id из проверенной сессии/токена, положенный middleware
func CurrentUserID(r *http.Request) (uint, error) {
	id, ok := ctxutil.UserID(r.Context())
	if !ok {
		return 0, apperr.Unauthenticated("Требуется авторизация")
	}
	return id, nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := database.Ping(r.Context(), h.DB); err != nil {
		h.Log.Warn("healthz: db ping failed", zap.Error(err))
		http.Error(w, "db unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
