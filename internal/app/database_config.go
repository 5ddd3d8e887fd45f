package app

import (
	"strings"

	"github.com/charlesng35/corpman/internal/database"
)

// DatabaseClientConfig converts DatabaseConfig into database.Config. Host based
// settings are only used when the matching driver is selected and enabled.
func (c DatabaseConfig) DatabaseClientConfig() database.Config {
	cfg := database.Config{
		Driver:          strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:            c.Path,
		DSN:             strings.TrimSpace(c.DSN),
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}

	var hosted *DBAuthConfig
	switch cfg.Driver {
	case "postgres", "postgresql":
		hosted = &c.Postgres
	case "mysql":
		hosted = &c.MySQL
	}
	if hosted != nil && hosted.Enabled {
		cfg.Host = hosted.Host
		cfg.Port = hosted.Port
		cfg.Name = hosted.Database
		cfg.User = hosted.Username
		cfg.Password = hosted.Password
	}
	return cfg
}
