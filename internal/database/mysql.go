package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func openMySQL(cfg Config) (*gorm.DB, error) {
	dsn, err := buildMySQLDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(mysql.Open(dsn), gormConfig())
}

// buildMySQLDSN produces a go-sql-driver DSN. Times are parsed and stored as UTC.
func buildMySQLDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		dsn := strings.TrimPrefix(cfg.DSN, "mysql://")
		if _, err := mysqldriver.ParseDSN(dsn); err != nil {
			return "", fmt.Errorf("mysql dsn: %w", err)
		}
		return dsn, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("mysql configuration requires user and database name")
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	base := mysqldriver.NewConfig()
	base.User = cfg.User
	base.Passwd = cfg.Password
	base.Net = "tcp"
	base.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	base.DBName = cfg.Name
	base.ParseTime = true
	base.Loc = time.UTC
	base.Params = map[string]string{"charset": "utf8mb4"}

	if len(cfg.Options) == 0 {
		return base.FormatDSN(), nil
	}

	// Options go through the driver's own parser so known keys land in
	// their typed fields instead of being passed to the server verbatim.
	keys := make([]string, 0, len(cfg.Options))
	for key := range cfg.Options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var extra strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&extra, "&%s=%s", key, url.QueryEscape(cfg.Options[key]))
	}
	merged, err := mysqldriver.ParseDSN(base.FormatDSN() + extra.String())
	if err != nil {
		return "", fmt.Errorf("mysql options: %w", err)
	}
	return merged.FormatDSN(), nil
}
