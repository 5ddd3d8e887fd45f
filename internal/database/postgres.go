package database

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const pgSimpleProtocolOption = "prefer_simple_protocol"

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: cfg.Options[pgSimpleProtocolOption] == "true",
	}), gormConfig())
}

// buildPostgresDSN renders a keyword/value connection string and checks it
// with pgconn so malformed settings fail at start-up rather than on first query.
func buildPostgresDSN(cfg Config) (string, error) {
	dsn := cfg.DSN
	if dsn == "" {
		if cfg.User == "" || cfg.Name == "" {
			return "", errors.New("postgres configuration requires user and database name")
		}

		settings := map[string]string{
			"host":    cfg.Host,
			"port":    strconv.Itoa(cfg.Port),
			"user":    cfg.User,
			"dbname":  cfg.Name,
			"sslmode": "disable",
		}
		if cfg.Host == "" {
			settings["host"] = "localhost"
		}
		if cfg.Port == 0 {
			settings["port"] = "5432"
		}
		if cfg.Password != "" {
			settings["password"] = cfg.Password
		}
		for key, value := range cfg.Options {
			if key != pgSimpleProtocolOption {
				settings[key] = value
			}
		}
		dsn = renderKeywordValue(settings)
	}

	if _, err := pgconn.ParseConfig(dsn); err != nil {
		return "", fmt.Errorf("postgres dsn: %w", err)
	}
	return dsn, nil
}

// renderKeywordValue emits connection keywords first in a fixed order, then
// the remaining options sorted by name.
func renderKeywordValue(settings map[string]string) string {
	leading := []string{"host", "port", "user", "dbname", "password"}
	parts := make([]string, 0, len(settings))
	for _, key := range leading {
		if value, ok := settings[key]; ok {
			parts = append(parts, key+"="+quotePGValue(value))
			delete(settings, key)
		}
	}

	rest := make([]string, 0, len(settings))
	for key := range settings {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		parts = append(parts, key+"="+quotePGValue(settings[key]))
	}
	return strings.Join(parts, " ")
}

func quotePGValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}
