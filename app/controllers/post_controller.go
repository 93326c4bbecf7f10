package controllers

import (
	"bytes"
	"encoding/hex"
	"html/template"
	"net/http"
	"strings"

	"techblog/app/markdown"
	"techblog/app/models"
	"techblog/app/services"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/sha3"
)

// maxUploadBytes leaves room for the multipart envelope around an image.
const maxUploadBytes = services.MaxImageBytes + 1<<20

// PostController handles HTTP requests for blog posts
type PostController struct {
	blog      *services.Blog
	renderer  *markdown.Renderer
	templates map[string]*template.Template
}

// NewPostController creates a PostController that renders markdown with
// renderer.
func NewPostController(blog *services.Blog, renderer *markdown.Renderer) *PostController {
	return &PostController{
		blog:      blog,
		renderer:  renderer,
		templates: loadTemplates(),
	}
}

type indexPage struct {
	Posts  []*models.Post
	Tags   []string
	Query  string
	Active *models.User
}

type showPage struct {
	*models.Post
	Body template.HTML
}

// Index lists posts matching the optional q parameter, newest first
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	posts := pc.blog.Search(query)

	if isAPI(r) {
		sendJSON(w, http.StatusOK, posts)
		return
	}

	data := indexPage{
		Posts:  posts,
		Tags:   pc.blog.Tags(),
		Query:  query,
		Active: pc.blog.ActiveUser(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pc.templates["index"].ExecuteTemplate(w, "layout", data); err != nil {
		sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
	}
}

// Show returns a single post. The HTML view carries an ETag derived from
// the rendered page.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.blog.Post(mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	if isAPI(r) {
		sendJSON(w, http.StatusOK, post)
		return
	}

	var buf bytes.Buffer
	data := showPage{Post: post, Body: template.HTML(pc.renderer.Render(post.Content))}
	if err := pc.templates["show"].ExecuteTemplate(&buf, "layout", data); err != nil {
		sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sum := sha3.Sum256(buf.Bytes())
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Create adds a post by the active user
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	post, err := pc.blog.SavePost("", in)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// Edit replaces the editable fields of an existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	var in services.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	post, err := pc.blog.SavePost(mux.Vars(r)["id"], in)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

func (pc *PostController) Like(w http.ResponseWriter, r *http.Request) {
	post, err := pc.blog.Like(mux.Vars(r)["id"])
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := pc.blog.Delete(mux.Vars(r)["id"]); err != nil {
		sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachImage embeds the uploaded "image" file into the post content.
func (pc *PostController) AttachImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		sendError(w, r, "Missing image upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	post, err := pc.blog.AttachImage(mux.Vars(r)["id"], header.Filename, file)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Tags returns the tag cloud.
func (pc *PostController) Tags(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, pc.blog.Tags())
}

// Preview renders markdown without saving anything.
func (pc *PostController) Preview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"html": pc.renderer.Render(req.Content)})
}
