package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

const (
	SessionName   = "session"
	SessionUserID = "user_id"
)

// Authenticator достаёт id пользователя из подписанной cookie-сессии или Bearer-токена.
// Поле userId из тела запроса никогда не используется.
type Authenticator struct {
	Store  sessions.Store
	Tokens *TokenIssuer
}

func (a *Authenticator) UserID(r *http.Request) (uint, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") && a.Tokens != nil {
		id, err := a.Tokens.Parse(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			return 0, false
		}
		return id, true
	}
	if a.Store == nil {
		return 0, false
	}
	session, err := a.Store.Get(r, SessionName)
	if err != nil {
		return 0, false
	}
	id, ok := session.Values[SessionUserID].(uint)
	return id, ok && id != 0
}

func (a *Authenticator) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	session, _ := a.Store.Get(r, SessionName)
	session.Values[SessionUserID] = userID
	return session.Save(r, w)
}

func (a *Authenticator) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := a.Store.Get(r, SessionName)
	delete(session.Values, SessionUserID)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func NewCookieStore(key string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
