package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"modernc.org/sqlite"

	"github.com/deppfellow/perftracker/internal/errs"
)

// generateErrorCode creates consistent application error codes from DB errors.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Example:
//
//	employees + UniqueViolation => EMPLOYEE_ALREADY_EXISTS
//
// DOMAIN comes from the referenced column when there is one ("employee_id"
// -> EMPLOYEE), otherwise from the table name, crudely singularized.
func generateErrorCode(tableName, columnName string, errType Code) string {
	domain := "RECORD"
	switch {
	case errType == ForeignKeyViolation && strings.HasSuffix(columnName, "_id"):
		domain = strings.TrimSuffix(columnName, "_id")
	case tableName != "":
		domain = singular(tableName)
	}
	domain = errs.MakeUpperCaseWithUnderscores(strings.ReplaceAll(domain, "_", " "))

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces the message the shell prints.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case StoreBusy:
		return "The database is locked by another process, try again"

	case ReadOnly:
		return "The database is read-only"

	default:
		return "An error occurred while talking to the store"
	}
}

// getEntityName infers an entity name from table/column data.
//
// Priority rules:
//  1. column ending in "_id": its base name ("employee_id" -> "Employee")
//  2. table name, singularized ("evaluation_scores" -> "Evaluation Score")
//  3. "record"
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}
	if tableName != "" {
		return humanizeText(singular(tableName))
	}
	return "record"
}

func singular(name string) string {
	if strings.HasSuffix(name, "s") && len(name) > 1 {
		return name[:len(name)-1]
	}
	return name
}

// humanizeText converts snake_case into Title Case: "job_title" -> "Job Title".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var constraintColumnRe = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*?_([a-z]+_id|[a-z]+)_(?:key|ukey|fkey)$`)

// extractColumnFromConstraint infers the column from a Postgres
// constraint name following the "<table>_<column>_(key|ukey|fkey)"
// convention, e.g. evaluation_scores_employee_id_fkey -> employee_id.
func extractColumnFromConstraint(constraintName string) string {
	if constraintName == "" {
		return ""
	}
	if m := constraintColumnRe.FindStringSubmatch(constraintName); len(m) > 1 {
		return m[1]
	}
	return ""
}

// HandleError converts a low-level database error into an *errs.Error.
//
// Output:
//   - already an *errs.Error: returned unchanged
//   - SQLite / Postgres constraint violations: bad-input errors with a
//     user-facing message and a code like EMPLOYEE_NOT_FOUND
//   - ErrNoRows: a not-found error
//   - anything else: an internal error wrapping the cause
//
// Repositories call it on every failed statement.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return err
	}

	var sqlErr *Error
	var pgErr *pgconn.PgError
	var liteErr *sqlite.Error
	switch {
	case errors.As(err, &sqlErr):
	case errors.As(err, &pgErr):
		sqlErr = ConvertPgError(pgErr)
		if sqlErr.ColumnName == "" {
			sqlErr.ColumnName = extractColumnFromConstraint(sqlErr.ConstraintName)
		}
	case errors.As(err, &liteErr):
		sqlErr = ConvertSQLiteError(liteErr)
	}

	if sqlErr != nil {
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.ColumnName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		var out *errs.Error
		switch sqlErr.Code {
		case ForeignKeyViolation, CheckViolation:
			out = errs.NewBadRequestError(userMessage, &errorCode, nil)

		case UniqueViolation:
			if sqlErr.ColumnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(sqlErr.ColumnName))
			}
			out = errs.NewBadRequestError(userMessage, &errorCode, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			out = errs.NewBadRequestError(userMessage, &errorCode, fieldErrors)

		default:
			out = errs.NewInternalError(sqlErr)
			out.Message = userMessage
		}
		out.Err = sqlErr
		return out
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		out := errs.NewNotFoundError("Record not found", nil)
		out.Err = err
		return out
	}

	return errs.NewInternalError(err)
}
