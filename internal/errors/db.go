package errors

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Regular expressions for parsing PgError.Detail messages.
var (
	// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// reReferencedFrom detects parent deletion: "... is still referenced from table ...".
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// reNotPresent detects missing parent: "... is not present in table ...".
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// tableDomains maps backing table names to the names surfaced in error messages.
var tableDomains = map[string]string{
	"ai_jobs":         "an assistant job",
	"timeline_events": "a timeline event",
	"deals":           "a deal",
	"properties":      "a property",
	"leads":           "a lead",
	"tasks":           "a task",
	"contacts":        "a contact",
	"notes":           "a note",
	"documents":       "a document",
}

func domainName(table string) string {
	if name, ok := tableDomains[table]; ok {
		return name
	}
	return "another record"
}

// MapDBError maps database errors to AppError instances.
// It handles common database error patterns including:
// - sql.ErrNoRows / pgx.ErrNoRows → NotFound
// - Unique constraint violations → Conflict
// - Foreign key violations → ForeignKey
// - Check and NOT NULL violations → Validation
// - Context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	return err
}

// mapPgError maps PostgreSQL-specific errors to AppError instances.
func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return mapUniqueViolation(pgErr)
	case pgerrcode.ForeignKeyViolation:
		return mapForeignKeyViolation(pgErr)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return mapConstraintViolation(pgErr)
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

// mapUniqueViolation maps unique constraint violations to Conflict errors.
func mapUniqueViolation(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName

	// Fallback: parse Detail message for "Key (field)=(value) already exists."
	if field == "" && pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}

	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Field:   field,
		Cause:   pgErr,
	}
}

// mapForeignKeyViolation maps foreign key constraint violations to ForeignKey errors.
func mapForeignKeyViolation(pgErr *pgconn.PgError) error {
	var message string

	// Detail distinguishes deleting a referenced parent from inserting a child
	// whose parent is missing.
	if pgErr.Detail != "" {
		if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			message = "Cannot delete because this item is in use by " + domainName(m[1]) + "."
		} else if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			message = "Cannot complete operation because the referenced " + domainName(m[1]) + " does not exist."
		}
	}

	if message == "" && pgErr.TableName != "" {
		message = "Cannot complete operation because this item is in use by " + domainName(pgErr.TableName) + "."
	}

	if message == "" {
		message = "Cannot complete operation due to a data dependency."
	}

	return &AppError{
		Code:    ErrCodeForeignKey,
		Message: message,
		Cause:   pgErr,
	}
}

// mapConstraintViolation maps CHECK and NOT NULL violations to Validation errors.
func mapConstraintViolation(pgErr *pgconn.PgError) error {
	if pgErr.ColumnName != "" {
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Invalid value for this field.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Invalid data. Please check your input.",
		Cause:   pgErr,
	}
}
