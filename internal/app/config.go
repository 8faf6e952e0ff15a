package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type Config struct {
	Server struct {
		Port      string `toml:"port"`
		StaticDir string `toml:"static_dir"`
	} `toml:"server"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Auth struct {
		CookieName           string `toml:"cookie_name"`
		SessionTTLHours      int    `toml:"session_ttl_hours"`
		DefaultAdminPassword string `toml:"default_admin_password"`
	} `toml:"auth"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	// Deployment platforms inject these through the environment.
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		config.Database.DSN = dsn
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = ":" + port
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("server port is not specified in config, use a value like :3000")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("database dsn is not specified in config")
	}
	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if config.Auth.CookieName == "" {
		config.Auth.CookieName = "classpoints_session"
	}
	if config.Auth.SessionTTLHours <= 0 {
		config.Auth.SessionTTLHours = 7 * 24
	}
	if config.Auth.DefaultAdminPassword == "" {
		config.Auth.DefaultAdminPassword = "admin123"
	}

	logger.Debug.Printf("Loaded config: port=%s dsn set, session ttl %dh",
		config.Server.Port, config.Auth.SessionTTLHours)

	return &config, nil
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}
