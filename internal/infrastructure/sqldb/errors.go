package sqldb

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/martijn/inkwell/internal/core/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	usernameConstraint   = "uq_users_username"
	emailConstraint      = "uq_users_email"
	sqliteUsernameColumn = "users.username"
	sqliteEmailColumn    = "users.email"
)

// mapUniqueViolation turns a driver unique-constraint error on the users
// table into ErrUsernameTaken or ErrEmailTaken. Other errors pass through.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return constraintError(pgErr.ConstraintName, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return constraintError(myErr.Message, err)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, sqliteUsernameColumn):
			return domain.ErrUsernameTaken
		case strings.Contains(msg, sqliteEmailColumn):
			return domain.ErrEmailTaken
		}
	}

	return err
}

func constraintError(detail string, err error) error {
	switch {
	case strings.Contains(detail, usernameConstraint):
		return domain.ErrUsernameTaken
	case strings.Contains(detail, emailConstraint):
		return domain.ErrEmailTaken
	}
	return err
}
