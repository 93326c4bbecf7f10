package controllers

import (
	"net/http"

	"techblog/app/services"
)

// UserController handles the author endpoints.
type UserController struct {
	blog *services.Blog
}

func NewUserController(blog *services.Blog) *UserController {
	return &UserController{blog: blog}
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

// Index lists every user.
func (uc *UserController) Index(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, uc.blog.Users())
}

// Create adds a user and selects it as the active author.
func (uc *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := uc.blog.CreateUser(req.Name, req.Email, req.Bio)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, u)
}

// Active returns the active author.
func (uc *UserController) Active(w http.ResponseWriter, r *http.Request) {
	u := uc.blog.ActiveUser()
	if u == nil {
		sendError(w, r, "no active user", http.StatusNotFound)
		return
	}
	sendJSON(w, http.StatusOK, u)
}

// SetActive selects the author for new posts. An unknown id leaves no
// author selected.
func (uc *UserController) SetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !uc.blog.SetActiveUser(req.ID) {
		sendServiceError(w, r, services.ErrUserNotFound)
		return
	}
	sendJSON(w, http.StatusOK, uc.blog.ActiveUser())
}
