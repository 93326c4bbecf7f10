package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the runtime settings for the blog.
type Config struct {
	DBPath    string
	BackupDir string
	Addr      string
	StaticDir string
	Seed      bool
	SafeLinks bool
	LogLevel  string
	LogFormat string
}

// Load reads .env, an optional config.yaml and TECHBLOG_* environment
// variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file loaded")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("techblog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db.path", "data/badger")
	v.SetDefault("db.backup_dir", "data/backups")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("blog.seed", true)
	v.SetDefault("markdown.safe_links", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		DBPath:    v.GetString("db.path"),
		BackupDir: v.GetString("db.backup_dir"),
		Addr:      v.GetString("server.addr"),
		StaticDir: v.GetString("server.static_dir"),
		Seed:      v.GetBool("blog.seed"),
		SafeLinks: v.GetBool("markdown.safe_links"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
	}, nil
}

// ConfigureLogger applies the level and format settings to the standard
// logrus logger.
func (c *Config) ConfigureLogger() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.WithField("level", c.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
