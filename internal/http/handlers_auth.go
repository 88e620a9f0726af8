package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kakeibo/internal/auth"
	applog "kakeibo/internal/log"
)

const sessionCookieName = "household_session"

type loginRequest struct {
	Password string `json:"password"`
}

// handleLogin checks the shared household password and issues a session
// cookie on success.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	token, expires, err := s.gate.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			slog.WarnContext(r.Context(), "Login rejected", applog.FieldOperation, applog.OpLogin)
			respondWithError(w, http.StatusUnauthorized, "Wrong password")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.InfoContext(r.Context(), "Session issued", applog.FieldOperation, applog.OpLogin)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogout revokes the session, if any, and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		s.gate.Logout(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.InfoContext(r.Context(), "Session revoked", applog.FieldOperation, applog.OpLogout)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
