package db

import (
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"taskboard/internal/config"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	driver, dsn, err := dataSource(conf)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == config.DriverSQLite {
		// SQLite serialises writers; one connection avoids SQLITE_BUSY inside transactions.
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

func dataSource(conf *config.Config) (string, string, error) {
	switch conf.DbDriver {
	case "", config.DriverMySQL:
		params := conf.DbParams
		if params == "" {
			params = "parseTime=true&multiStatements=true"
		}
		return config.DriverMySQL, fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?%s",
			conf.DbUser,
			conf.DbPassword,
			conf.DbHost,
			conf.DbPort,
			conf.DbName,
			params,
		), nil
	case config.DriverPostgres:
		params := conf.DbParams
		if params == "" {
			params = "sslmode=disable"
		}
		return config.DriverPostgres, fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?%s",
			conf.DbUser,
			conf.DbPassword,
			conf.DbHost,
			conf.DbPort,
			conf.DbName,
			params,
		), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(conf.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", "", fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return config.DriverSQLite, conf.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
	default:
		return "", "", fmt.Errorf("unsupported DB_DRIVER %q", conf.DbDriver)
	}
}
