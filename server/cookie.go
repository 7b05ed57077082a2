package server

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	// sessionCookieName is the cookie carrying the opaque session reference
	sessionCookieName = "session_id"

	signingKeyLength = 32
)

// sessionCookieCodec signs and verifies the session cookie value. The cookie
// carries only the opaque session id wrapped in an HS256 JWT, so a tampered
// or forged cookie is indistinguishable from no cookie at all. The signing
// key is derived from the configured session secret via HKDF.
type sessionCookieCodec struct {
	signingKey []byte
	maxAge     int
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func newSessionCookieCodec(secret string, maxAge int) *sessionCookieCodec {
	key := make([]byte, signingKeyLength)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("session-cookie-signing"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		panic("failed to derive session signing key: " + err.Error())
	}
	return &sessionCookieCodec{signingKey: key, maxAge: maxAge}
}

func (c *sessionCookieCodec) encode(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{SessionID: sessionID})
	return token.SignedString(c.signingKey)
}

func (c *sessionCookieCodec) decode(value string) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}
	if claims.SessionID == "" {
		return "", fmt.Errorf("session cookie has no session id")
	}
	return claims.SessionID, nil
}

// SetLoginSessionCookie issues the session cookie. Secure is set only when
// the deployment actually serves TLS; the cookie must be upgraded to
// secure-only behind TLS terminators via X-Forwarded-Proto.
func (s *Server) SetLoginSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) error {
	value, err := s.cookies.encode(sessionID)
	if err != nil {
		return fmt.Errorf("failed to encode session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.cookies.maxAge,
	})
	return nil
}

// ClearLoginSessionCookie instructs the client to discard its session
// reference.
func (s *Server) ClearLoginSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// sessionIDFromRequest extracts and verifies the session id carried by the
// request cookie. A missing or tampered cookie reads as "no session".
func (s *Server) sessionIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	sessionID, err := s.cookies.decode(cookie.Value)
	if err != nil {
		return "", false
	}
	return sessionID, true
}
