package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"mathadventure/internal/repository"
	"mathadventure/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const PlayerContextKey ContextKey = "player"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	playerRepo *repository.PlayerRepository
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(playerRepo *repository.PlayerRepository) *Middleware {
	return &Middleware{playerRepo: playerRepo}
}

// EnsurePlayer attaches the anonymous device profile to the request.
// A missing or malformed cookie silently gets a fresh profile; there is
// no login to redirect to.
func (m *Middleware) EnsurePlayer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var playerID string
		if cookie, err := r.Cookie(security.PlayerCookieName); err == nil && security.ValidPlayerID(cookie.Value) {
			playerID = cookie.Value
		} else {
			playerID = security.GeneratePlayerID()
			http.SetCookie(w, security.CreatePlayerCookie(r, playerID))
		}

		if err := m.playerRepo.Ensure(playerID); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerContextKey, playerID)
		next(w, r.WithContext(ctx))
	}
}

// LogRequests logs the method, path, and duration of each request
func (m *Middleware) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// playerFromContext returns the player ID set by EnsurePlayer
func playerFromContext(ctx context.Context) string {
	playerID, _ := ctx.Value(PlayerContextKey).(string)
	return playerID
}
