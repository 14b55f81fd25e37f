package sqldb

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		image_file TEXT NOT NULL DEFAULT 'default.svg',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		CONSTRAINT uq_users_username UNIQUE (username),
		CONSTRAINT uq_users_email UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		date_posted DATETIME NOT NULL,
		user_id INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(20) NOT NULL,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		image_file TEXT NOT NULL DEFAULT 'default.svg',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT uq_users_username UNIQUE (username),
		CONSTRAINT uq_users_email UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		date_posted TIMESTAMPTZ NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
}

// MySQL compares with the column collation; utf8mb4_bin keeps
// username and email uniqueness case-sensitive like the other drivers.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(20) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		image_file VARCHAR(64) NOT NULL DEFAULT 'default.svg',
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		CONSTRAINT uq_users_username UNIQUE (username),
		CONSTRAINT uq_users_email UNIQUE (email)
	) DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		date_posted DATETIME(6) NOT NULL,
		user_id BIGINT NOT NULL,
		INDEX idx_posts_user_id (user_id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	) DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,
}

type DB struct {
	*sqlx.DB
	driver string
}

// New opens the store for the given driver and creates missing tables.
func New(driver, dsn string) (*DB, error) {
	var (
		sqlDriver string
		schema    []string
	)

	switch driver {
	case DriverSQLite:
		sqlDriver, schema = "sqlite", sqliteSchema
	case DriverPostgres:
		sqlDriver, schema = "pgx", postgresSchema
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
		sqlDriver, schema = "mysql", mysqlSchema
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Connect(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		if err := configureSQLite(db, dsn); err != nil {
			db.Close()
			return nil, err
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &DB{DB: db, driver: driver}, nil
}

func configureSQLite(db *sqlx.DB, dsn string) error {
	// Every connection to ":memory:" is a separate database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrency (allows concurrent reads/writes)
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return nil
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// insert runs an INSERT and returns the generated id. The query must not
// carry a RETURNING clause; it is added for drivers without LastInsertId.
func (db *DB) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if db.driver == DriverPostgres {
		var id int64
		if err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
