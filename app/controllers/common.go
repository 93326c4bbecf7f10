package controllers

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"techblog/app/services"

	"github.com/sirupsen/logrus"
)

//go:embed views/*.html
var views embed.FS

// loadTemplates parses each page together with the shared layout.
func loadTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template)
	for _, page := range []string{"index", "show"} {
		templates[page] = template.Must(template.ParseFS(views, "views/layout.html", "views/"+page+".html"))
	}
	return templates
}

func isAPI(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api")
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrPostNotFound), errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoActiveUser):
		return http.StatusConflict
	case errors.Is(err, services.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrInvalid), errors.Is(err, services.ErrNotAnImage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Warn("encode response")
	}
}

func sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": status,
		}).Error(message)
	}
	if isAPI(r) {
		sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

// sendServiceError reports err with the status that matches its kind.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	sendError(w, r, err.Error(), statusFor(err))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
