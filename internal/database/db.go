package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/iliyamo/booking-directory/internal/config"
)

// pingAttempts bounds how long Open waits for a store that is still starting.
const pingAttempts = 10

// sqliteDriver is the sqlite3 driver with a Unicode aware lower(); the
// builtin one only folds ASCII, which breaks case-insensitive search on
// accented names.
const sqliteDriver = "sqlite3_unicode"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
	sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)
}

// driverName maps the configured driver to the registered database/sql name.
func driverName(driver string) string {
	if driver == "sqlite3" {
		return sqliteDriver
	}
	return driver
}

// Open connects to the configured store and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driverName(cfg.Driver), dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	if cfg.Driver == "sqlite3" {
		// one connection keeps ":memory:" databases alive and serialises writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	for i := 1; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if i == pingAttempts || ctx.Err() != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
		}
		time.Sleep(time.Second)
	}
	return db, nil
}

// DSN builds the driver-specific data source name.
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = cfg.Host + ":" + cfg.Port
		mc.DBName = cfg.Name
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil
	case "sqlite3":
		return "file:" + cfg.Path + "?_foreign_keys=1&_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
