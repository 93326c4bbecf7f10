package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"techblog/app/markdown"
	"techblog/app/services"

	"github.com/stretchr/testify/assert"
)

func TestSetupRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedHeader string
	}{
		{
			name:           "GET posts",
			method:         "GET",
			path:           "/api/posts",
			expectedStatus: http.StatusOK,
			expectedHeader: "application/json",
		},
		{
			name:           "GET single post",
			method:         "GET",
			path:           "/api/posts/" + services.DemoPostID,
			expectedStatus: http.StatusOK,
			expectedHeader: "application/json",
		},
		{
			name:           "GET users",
			method:         "GET",
			path:           "/api/users",
			expectedStatus: http.StatusOK,
			expectedHeader: "application/json",
		},
		{
			name:           "GET active user",
			method:         "GET",
			path:           "/api/users/active",
			expectedStatus: http.StatusOK,
			expectedHeader: "application/json",
		},
		{
			name:           "GET tags",
			method:         "GET",
			path:           "/api/tags",
			expectedStatus: http.StatusOK,
			expectedHeader: "application/json",
		},
		{
			name:           "Unknown post",
			method:         "GET",
			path:           "/api/posts/p_missing",
			expectedStatus: http.StatusNotFound,
			expectedHeader: "application/json",
		},
		{
			name:           "Unknown API route",
			method:         "GET",
			path:           "/api/comments",
			expectedStatus: http.StatusNotFound,
			expectedHeader: "application/json",
		},
		{
			name:           "Home page",
			method:         "GET",
			path:           "/",
			expectedStatus: http.StatusOK,
			expectedHeader: "text/html; charset=utf-8",
		},
		{
			name:           "Post page",
			method:         "GET",
			path:           "/posts/" + services.DemoPostID,
			expectedStatus: http.StatusOK,
			expectedHeader: "text/html; charset=utf-8",
		},
		{
			name:           "Unknown page",
			method:         "GET",
			path:           "/comments",
			expectedStatus: http.StatusNotFound,
			expectedHeader: "text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedHeader, w.Header().Get("Content-Type"))
		})
	}
}

func TestStaticFiles(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		req := httptest.NewRequest("GET", "/static/style.css", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testCSS, w.Body.String())
	})

	t.Run("missing file", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		req := httptest.NewRequest("GET", "/static/test.txt", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		blog := services.NewBlog(setupTestStore(t, ""))
		router := SetupRoutes(blog, markdown.New(markdown.Options{}), "")
		req := httptest.NewRequest("GET", "/static/style.css", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, strings.Contains(w.Body.String(), testCSS))
	})
}
