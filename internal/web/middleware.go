package web

import (
	"context"
	"database/sql"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/sneakerbox/internal/auth"
	"github.com/erazemk/sneakerbox/internal/view"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

const (
	tokenCookie = "token"
	viewCookie  = "view"
	flashCookie = "flash"
)

// CookieAuthMiddleware validates the session cookie, checks token revocation,
// and adds claims to context.
func CookieAuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokenCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			claims, err := auth.Authenticate(r.Context(), db, secret, cookie.Value)
			if err != nil {
				slog.Debug("rejected session cookie", "error", err)
				clearCookie(w, tokenCookie)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearCookie clears a cookie with consistent attributes.
func clearCookie(w http.ResponseWriter, name string) {
	setCookie(w, name, "", -1)
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

func actor(r *http.Request) string {
	if claims := GetWebClaims(r.Context()); claims != nil {
		return claims.Username
	}
	return ""
}

// viewState reads the admin view state. A missing or damaged cookie gives
// the default view.
func viewState(r *http.Request) view.State {
	cookie, err := r.Cookie(viewCookie)
	if err != nil {
		return view.State{}
	}
	state, err := view.Decode(cookie.Value)
	if err != nil {
		return view.State{}
	}
	return state
}

func saveViewState(w http.ResponseWriter, state view.State) {
	setCookie(w, viewCookie, state.Encode(), 0)
}

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

const (
	flashSuccess = "success"
	flashError   = "error"
)

func setFlash(w http.ResponseWriter, kind, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(kind + ":" + message))
	setCookie(w, flashCookie, value, 60)
}

// takeFlash returns the pending flash, if any, and clears it.
func takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	clearCookie(w, flashCookie)

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(string(raw), ":")
	if !ok || message == "" {
		return nil
	}
	if kind != flashSuccess {
		kind = flashError
	}
	return &Flash{Kind: kind, Message: message}
}

// redirectWith stores a flash and redirects with 303.
func redirectWith(w http.ResponseWriter, r *http.Request, to, kind, message string) {
	setFlash(w, kind, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
