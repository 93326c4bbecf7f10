package routes

import (
	"os"
	"path/filepath"
	"testing"

	"techblog/app/markdown"
	"techblog/app/repositories"
	"techblog/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const testCSS = "body { background: #f0f0f0; }"

func setupTestStatic(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte(testCSS), 0644))
	return dir
}

// setupTestStore opens a Badger store at path, or in memory when path is empty.
func setupTestStore(t *testing.T, path string) *repositories.BadgerStore {
	store, err := repositories.NewBadgerStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// setupTestRouter wires the full router over a seeded in-memory blog.
func setupTestRouter(t *testing.T) (*mux.Router, *services.Blog) {
	blog := services.NewBlog(setupTestStore(t, ""))
	require.NoError(t, blog.Seed())
	router := SetupRoutes(blog, markdown.New(markdown.Options{}), setupTestStatic(t))
	return router, blog
}
