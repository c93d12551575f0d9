package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PlayerCookieName identifies the anonymous device profile. There are no
// accounts; the cookie is the player.
const PlayerCookieName = "ma_player"

// Device cookies outlive any single visit so a child keeps their
// progress between sessions
const playerCookieLifetime = 365 * 24 * time.Hour

// GeneratePlayerID creates a new UUID for a device profile
func GeneratePlayerID() string {
	return uuid.New().String()
}

// ValidPlayerID reports whether the cookie value is a well-formed UUID.
// Anything else is treated as absent so a tampered cookie just gets a
// fresh profile instead of an error.
func ValidPlayerID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

// IsSecureRequest determines if the request is over HTTPS.
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies),
// and URL scheme.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	// Behind reverse proxy (nginx, Caddy, load balancer, etc.)
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}

	if r.URL.Scheme == "https" {
		return true
	}

	return false
}

// CreatePlayerCookie creates the device profile cookie with proper
// security flags. The Secure flag follows the request scheme.
func CreatePlayerCookie(r *http.Request, playerID string) *http.Cookie {
	return &http.Cookie{
		Name:     PlayerCookieName,
		Value:    playerID,
		Path:     "/",
		Expires:  time.Now().Add(playerCookieLifetime),
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
