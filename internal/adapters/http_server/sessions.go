package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/mssola/user_agent"
	"github.com/rs/zerolog/log"

	"everjourney/internal/domain"
)

const sessionCookie = "ej_session"

type ctxKey int

const userKey ctxKey = iota

// newCookieCodec authenticates the session id cookie; the payload itself
// stays in the session store. Values older than ttl fail to decode.
func newCookieCodec(secret string, ttl time.Duration) *securecookie.SecureCookie {
	return securecookie.New([]byte(secret), nil).MaxAge(int(ttl / time.Second))
}

// sessionID returns the store id carried by a valid session cookie.
func (h *Handlers) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	var id string
	if err := h.cookies.Decode(sessionCookie, c.Value, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}

// CurrentUser returns the logged-in visitor, if any.
func CurrentUser(ctx context.Context) (domain.SessionUser, bool) {
	u, ok := ctx.Value(userKey).(domain.SessionUser)
	return u, ok
}

func withUser(ctx context.Context, u domain.SessionUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// LoadSession resolves the session cookie into a SessionUser on the request context.
// Unknown, expired or tampered cookies leave the visitor anonymous.
func (h *Handlers) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.sessionID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		u, err := h.sessions.Get(r.Context(), id)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				log.Warn().Err(err).Msg("session lookup failed")
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

// startSession stores u and sets the cookie.
func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request, u domain.SessionUser) error {
	u.Device = device(r.UserAgent())
	id, err := h.sessions.Create(r.Context(), u)
	if err != nil {
		return err
	}
	value, err := h.cookies.Encode(sessionCookie, id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.opts.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info().Str("user", u.ID).Str("role", u.Role).Str("device", u.Device).Msg("session started")
	return nil
}

func (h *Handlers) endSession(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.sessionID(r); ok {
		if err := h.sessions.Delete(r.Context(), id); err != nil {
			log.Warn().Err(err).Msg("session destroy failed")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// device summarises a User-Agent as "Browser on OS", e.g. "Firefox on Linux".
func device(ua string) string {
	if ua == "" {
		return ""
	}
	p := user_agent.New(ua)
	if p.Bot() {
		return "bot"
	}
	name, _ := p.Browser()
	platform := p.OS()
	switch {
	case name == "" && platform == "":
		return ""
	case platform == "":
		return name
	case name == "":
		return platform
	}
	if p.Mobile() {
		return name + " on " + platform + " (mobile)"
	}
	return name + " on " + platform
}

// RequireLogin sends anonymous visitors to the login form, remembering where they were going.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			http.Redirect(w, r, "/auth/login?redirect="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole answers 403 to logged-in visitors of any other role. Use after RequireLogin.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := CurrentUser(r.Context()); !ok || u.Role != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
