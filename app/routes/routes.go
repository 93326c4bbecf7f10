package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"techblog/app/controllers"
	"techblog/app/markdown"
	"techblog/app/middleware"
	"techblog/app/services"

	"github.com/gorilla/mux"
)

// SetupRoutes defines the application's routes and returns a router.
// Static files are served from staticDir when it is set.
func SetupRoutes(blog *services.Blog, renderer *markdown.Renderer, staticDir string) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	postController := controllers.NewPostController(blog, renderer)
	userController := controllers.NewUserController(blog)

	router.NotFoundHandler = http.HandlerFunc(notFound)

	if staticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	// Web routes
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.HandleFunc("/posts/{id}", postController.Show).Methods("GET")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("", userController.Index).Methods("GET")
	users.HandleFunc("", userController.Create).Methods("POST")
	users.HandleFunc("/active", userController.Active).Methods("GET")
	users.HandleFunc("/active", userController.SetActive).Methods("PUT")

	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/{id}", postController.Show).Methods("GET")
	posts.HandleFunc("/{id}", postController.Edit).Methods("PUT")
	posts.HandleFunc("/{id}", postController.Delete).Methods("DELETE")
	posts.HandleFunc("/{id}/like", postController.Like).Methods("POST")
	posts.HandleFunc("/{id}/images", postController.AttachImage).Methods("POST")

	api.HandleFunc("/tags", postController.Tags).Methods("GET")
	api.HandleFunc("/preview", postController.Preview).Methods("POST")

	return router
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
		return
	}
	http.NotFound(w, r)
}
