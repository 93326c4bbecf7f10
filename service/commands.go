package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"techblog/app/markdown"
	"techblog/app/models"
	"techblog/app/services"
	"techblog/config"

	"github.com/spf13/cobra"
)

// Version is reported by the version command.
const Version = "1.0.0"

// NewRootCommand builds the techblog command tree. Every subcommand sees
// the configuration loaded before it runs.
func NewRootCommand() *cobra.Command {
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:           "techblog",
		Short:         "A small markdown blog with a local web UI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			*cfg = *loaded
			cfg.ConfigureLogger()
			return nil
		},
	}

	root.AddCommand(
		newServeCommand(cfg),
		newInitCommand(cfg),
		newCleanCommand(cfg),
		newBackupCommand(cfg),
		newRestoreCommand(cfg),
		newExportCommand(cfg),
		newRenderCommand(cfg),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func newServeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunAppServer(cmd.Context(), cfg)
		},
	}
}

func newInitCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if exists(cfg.DBPath) {
				fmt.Fprintln(out, "Database already exists. Use 'clean' first if you want to reinitialize.")
				return nil
			}

			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if cfg.Seed {
				if err := services.NewBlog(store).Seed(); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, "Database initialized successfully")
			return nil
		},
	}
}

func newCleanCommand(cfg *config.Config) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the blog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !exists(cfg.DBPath) {
				fmt.Fprintln(out, "Database is already clean (does not exist)")
				return nil
			}

			if !yes && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}

			if err := os.RemoveAll(cfg.DBPath); err != nil {
				return fmt.Errorf("clean database: %w", err)
			}
			fmt.Fprintln(out, "Database cleaned successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newBackupCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !exists(cfg.DBPath) {
				fmt.Fprintln(out, "No database exists to backup")
				return nil
			}
			if err := os.MkdirAll(cfg.BackupDir, 0755); err != nil {
				return fmt.Errorf("create backup directory: %w", err)
			}

			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			backupFile := filepath.Join(cfg.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			f, err := os.Create(backupFile)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer f.Close()

			if err := store.Backup(f); err != nil {
				return fmt.Errorf("backup database: %w", err)
			}
			fmt.Fprintf(out, "Database backed up successfully to %s\n", backupFile)
			return nil
		},
	}
}

func newRestoreCommand(cfg *config.Config) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			backupFile := args[0]

			fi, err := os.Stat(backupFile)
			if err != nil {
				return fmt.Errorf("backup file does not exist: %s", backupFile)
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", backupFile)
			}

			if exists(cfg.DBPath) {
				if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
					fmt.Fprintln(out, "Operation cancelled")
					return nil
				}
				if err := os.RemoveAll(cfg.DBPath); err != nil {
					return fmt.Errorf("remove existing database: %w", err)
				}
			}

			f, err := os.Open(backupFile)
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer f.Close()

			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			err = func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("panic occurred during restore: %v", r)
					}
				}()
				return store.Restore(f)
			}()
			if err != nil {
				return fmt.Errorf("restore database: %w", err)
			}
			fmt.Fprintln(out, "Database restored successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace an existing database without asking")
	return cmd
}

// exportDocument is the shape written by the export command.
type exportDocument struct {
	Users []*models.User `json:"users"`
	Posts []*models.Post `json:"posts"`
}

func newExportCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print all users and posts as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !exists(cfg.DBPath) {
				return errors.New("no database exists to export")
			}
			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(exportDocument{Users: store.LoadUsers(), Posts: store.LoadPosts()})
		},
	}
}

func newRenderCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Convert markdown from a file or stdin to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 && args[0] != "-" {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read markdown: %w", err)
			}

			html := markdown.New(markdown.Options{SafeLinks: cfg.SafeLinks}).Render(string(data))
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "techblog version %s\n", Version)
		},
	}
}
