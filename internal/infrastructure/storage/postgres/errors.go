package postgres

import (
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bizerp/internal/core/apperror"
)

// SQLSTATE codes mapped to client errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// MapError converts a store error into an AppError.
// entity names the row kind for messages; op is a short description of the
// failed action, e.g. "insert bill".
func MapError(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return apperror.NewNotFound(entity, nil).WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewDuplicate(entity, uniqueField(pgErr), pgErr.Detail).WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewValidation(fmt.Sprintf("%s references a missing record", entity)).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgNotNullViolation:
			return apperror.NewValidation(fmt.Sprintf("%s is required", pgErr.ColumnName)).
				WithDetail("field", pgErr.ColumnName).
				WithCause(err)
		case pgCheckViolation:
			return apperror.NewValidation(fmt.Sprintf("%s violates %s", entity, pgErr.ConstraintName)).
				WithCause(err)
		}
		msg := fmt.Sprintf("failed to %s: %s", op, pgErr.Message)
		if pgErr.Hint != "" {
			msg += " (" + pgErr.Hint + ")"
		}
		return apperror.NewDatabase(msg, err)
	}

	return apperror.NewDatabase(fmt.Sprintf("failed to %s", op), err)
}

// uniqueField guesses the conflicting column from the constraint name,
// which follows the <table>_<column>_key convention of the migrations.
func uniqueField(pgErr *pgconn.PgError) string {
	name := pgErr.ConstraintName
	if pgErr.TableName != "" && len(name) > len(pgErr.TableName)+1 && name[:len(pgErr.TableName)] == pgErr.TableName {
		name = name[len(pgErr.TableName)+1:]
	}
	if n := len(name); n > 4 && name[n-4:] == "_key" {
		name = name[:n-4]
	}
	if name == "" {
		return "value"
	}
	return name
}

// IsForeignKeyViolation reports whether err is a foreign-key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
