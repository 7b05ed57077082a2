package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.AppName}}</title></head>
<body>
<h1>{{.AppName}}</h1>
<p><a href="/auth/login">Sign in with Google</a></p>
</body>
</html>`))

var profileTemplate = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html>
<head><title>Profile</title></head>
<body>
<h1>Welcome, {{.DisplayName}}</h1>
<p>{{.Email}}</p>
{{if .AvatarURL}}<img src="{{.AvatarURL}}" alt="avatar" width="96">{{end}}
<p><a href="/auth/logout">Log out</a></p>
</body>
</html>`))

var loginFailedTemplate = template.Must(template.New("loginFailed").Parse(`<!DOCTYPE html>
<html>
<head><title>Login failed</title></head>
<body>
<h1>Login failed</h1>
<p>Something went wrong while signing you in. <a href="/auth/login">Try again</a></p>
</body>
</html>`))

// IndexHandler renders the public home page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName": s.config.GetAppName(),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		_ = indexTemplate.Execute(w, data)
	}
}

// HealthHandler reports liveness. It serves regardless of provider
// configuration.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// UserInfoHandler returns the authenticated Principal (GET /api/user).
// Runs behind RequireSession.
func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		writeJSON(w, http.StatusOK, p.ToUserResponse())
	}
}

// ProfileHandler renders the protected profile page. Runs behind
// RequireSession.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := profileTemplate.Execute(w, p); err != nil {
			log.Err(err).Msg("Failed to render profile template")
		}
	}
}

// LoginFailedHandler renders the generic login failure page. Provider error
// details never reach this page.
func (s *Server) LoginFailedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		_ = loginFailedTemplate.Execute(w, nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
