package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/sneakerbox/internal/auth"
)

// sessionMaxAge matches the token lifetime.
var sessionMaxAge = int(auth.TokenExpiry.Seconds())

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Sign in", Flash: takeFlash(w, r)})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Flash: &Flash{Kind: flashError, Message: "Enter your username and password."},
		})
		return
	}

	token, user, err := auth.Login(r.Context(), s.DB, s.JWTSecret, username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Flash: &Flash{Kind: flashError, Message: "Wrong username or password."},
		})
		return
	}
	if err != nil {
		slog.Error("failed to sign in", "error", err)
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Flash: &Flash{Kind: flashError, Message: "Signing in failed."},
		})
		return
	}

	setCookie(w, tokenCookie, token, sessionMaxAge)
	slog.Info("user signed in", "user", user.Username)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles POST /logout. The session token is revoked when it is
// still valid.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil {
			if err := auth.Logout(r.Context(), s.DB, claims); err != nil {
				slog.Error("failed to revoke session", "error", err)
			} else {
				slog.Info("user signed out", "user", claims.Username)
			}
		}
	}
	clearCookie(w, tokenCookie)
	clearCookie(w, viewCookie)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
