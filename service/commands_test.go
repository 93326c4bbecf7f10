package service

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"techblog/app/repositories"
	"techblog/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB points the CLI at a database and backup directory inside a
// temporary directory and returns the database path.
func setupTestDB(t *testing.T) string {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	t.Setenv("TECHBLOG_DB_PATH", dbPath)
	t.Setenv("TECHBLOG_DB_BACKUP_DIR", filepath.Join(tmpDir, "backups"))
	t.Setenv("TECHBLOG_LOG_LEVEL", "error")
	return dbPath
}

// run executes the CLI with args and stdin and returns stdout and the error.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandArgs(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name        string
		args        []string
		expectedErr string
	}{
		{
			name:        "unknown command",
			args:        []string{"unknown"},
			expectedErr: `unknown command "unknown"`,
		},
		{
			name:        "restore without file",
			args:        []string{"restore"},
			expectedErr: "accepts 1 arg(s), received 0",
		},
		{
			name:        "restore missing file",
			args:        []string{"restore", "does-not-exist.db"},
			expectedErr: "backup file does not exist",
		},
		{
			name:        "render too many files",
			args:        []string{"render", "a.md", "b.md"},
			expectedErr: "accepts at most 1 arg(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestVersion(t *testing.T) {
	setupTestDB(t)
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "techblog version "+Version+"\n", out)
}

func TestInitDb(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("initialize new database", func(t *testing.T) {
		out, err := run(t, "", "init")
		require.NoError(t, err)
		assert.Contains(t, out, "Database initialized successfully")
		assert.DirExists(t, dbPath)
	})

	t.Run("initialize existing database", func(t *testing.T) {
		out, err := run(t, "", "init")
		require.NoError(t, err)
		assert.Contains(t, out, "Database already exists")
	})

	t.Run("seeded content", func(t *testing.T) {
		store, err := repositories.NewBadgerStore(dbPath)
		require.NoError(t, err)
		defer store.Close()

		assert.Len(t, store.LoadUsers(), 2)
		posts := store.LoadPosts()
		require.Len(t, posts, 1)
		assert.Equal(t, services.DemoPostID, posts[0].ID)
	})
}

func TestInitWithoutSeed(t *testing.T) {
	dbPath := setupTestDB(t)
	t.Setenv("TECHBLOG_BLOG_SEED", "false")

	_, err := run(t, "", "init")
	require.NoError(t, err)

	store, err := repositories.NewBadgerStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	assert.Empty(t, store.LoadUsers())
	assert.Empty(t, store.LoadPosts())
}

func TestClean(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("clean non-existent database", func(t *testing.T) {
		out, err := run(t, "", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Database is already clean")
	})

	_, err := run(t, "", "init")
	require.NoError(t, err)

	t.Run("clean cancelled", func(t *testing.T) {
		out, err := run(t, "n\n", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Operation cancelled")
		assert.DirExists(t, dbPath)
	})

	t.Run("clean confirmed", func(t *testing.T) {
		out, err := run(t, "y\n", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Database cleaned successfully")
		assert.NoDirExists(t, dbPath)
	})

	t.Run("clean with --yes", func(t *testing.T) {
		_, err := run(t, "", "init")
		require.NoError(t, err)

		out, err := run(t, "", "clean", "--yes")
		require.NoError(t, err)
		assert.NotContains(t, out, "[y/N]")
		assert.NoDirExists(t, dbPath)
	})
}

func TestBackupAndRestore(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("backup without database", func(t *testing.T) {
		out, err := run(t, "", "backup")
		require.NoError(t, err)
		assert.Contains(t, out, "No database exists to backup")
	})

	_, err := run(t, "", "init")
	require.NoError(t, err)

	var backupFile string
	t.Run("backup", func(t *testing.T) {
		out, err := run(t, "", "backup")
		require.NoError(t, err)
		assert.Contains(t, out, "Database backed up successfully")

		backupFile = strings.TrimSpace(out[strings.LastIndex(out, " to ")+4:])
		assert.FileExists(t, backupFile)
	})

	t.Run("restore cancelled", func(t *testing.T) {
		out, err := run(t, "n\n", "restore", backupFile)
		require.NoError(t, err)
		assert.Contains(t, out, "Operation cancelled")
	})

	t.Run("restore replaces the database", func(t *testing.T) {
		_, err := run(t, "", "clean", "--yes")
		require.NoError(t, err)
		t.Setenv("TECHBLOG_BLOG_SEED", "false")
		_, err = run(t, "", "init")
		require.NoError(t, err)

		out, err := run(t, "y\n", "restore", backupFile)
		require.NoError(t, err)
		assert.Contains(t, out, "Database restored successfully")

		store, err := repositories.NewBadgerStore(dbPath)
		require.NoError(t, err)
		defer store.Close()
		assert.Len(t, store.LoadUsers(), 2)
		assert.Len(t, store.LoadPosts(), 1)
	})

	t.Run("restore empty file", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.db")
		require.NoError(t, os.WriteFile(empty, nil, 0644))

		_, err := run(t, "", "restore", "--yes", empty)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backup file is empty")
	})
}

func TestExport(t *testing.T) {
	setupTestDB(t)

	t.Run("without database", func(t *testing.T) {
		_, err := run(t, "", "export")
		require.Error(t, err)
	})

	_, err := run(t, "", "init")
	require.NoError(t, err)

	t.Run("seeded database", func(t *testing.T) {
		out, err := run(t, "", "export")
		require.NoError(t, err)

		var doc struct {
			Users []map[string]interface{} `json:"users"`
			Posts []map[string]interface{} `json:"posts"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Len(t, doc.Users, 2)
		require.Len(t, doc.Posts, 1)
		assert.Equal(t, "Welcome to TechBlog", doc.Posts[0]["title"])
		assert.True(t, strings.Index(out, `"users"`) < strings.Index(out, `"posts"`))
	})
}

func TestRender(t *testing.T) {
	setupTestDB(t)

	t.Run("stdin", func(t *testing.T) {
		out, err := run(t, "# Title\n**bold**", "render")
		require.NoError(t, err)
		assert.Equal(t, "<h1>Title</h1>\n<strong>bold</strong>\n", out)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "post.md")
		require.NoError(t, os.WriteFile(path, []byte("- a\n- b"), 0644))

		out, err := run(t, "", "render", path)
		require.NoError(t, err)
		assert.Equal(t, "<ul><li>a</li><li>b</li></ul>\n", out)
	})

	t.Run("safe links from config", func(t *testing.T) {
		t.Setenv("TECHBLOG_MARKDOWN_SAFE_LINKS", "true")
		out, err := run(t, "[x](javascript:void)", "render")
		require.NoError(t, err)
		assert.Contains(t, out, `href="#"`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "", "render", "missing.md")
		require.Error(t, err)
	})
}
