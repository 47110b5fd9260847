package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/deppfellow/perftracker/internal/errs"
)

func asAppError(t *testing.T, err error) *errs.Error {
	t.Helper()
	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr), "expected *errs.Error, got %T", err)
	return appErr
}

func TestExtractColumnFromConstraint(t *testing.T) {
	cases := map[string]string{
		"evaluation_scores_employee_id_fkey":  "employee_id",
		"evaluation_scores_criterion_id_fkey": "criterion_id",
		"employees_name_key":                  "name",
		"employees_pkey":                      "",
		"":                                    "",
	}
	for constraint, want := range cases {
		assert.Equal(t, want, extractColumnFromConstraint(constraint), constraint)
	}
}

func TestMapSQLiteCode(t *testing.T) {
	assert.Equal(t, ForeignKeyViolation, MapSQLiteCode(sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY))
	assert.Equal(t, NotNullViolation, MapSQLiteCode(sqlite3.SQLITE_CONSTRAINT_NOTNULL))
	assert.Equal(t, UniqueViolation, MapSQLiteCode(sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY))
	assert.Equal(t, StoreBusy, MapSQLiteCode(sqlite3.SQLITE_BUSY_SNAPSHOT))
	assert.Equal(t, ReadOnly, MapSQLiteCode(sqlite3.SQLITE_READONLY))
	assert.Equal(t, Other, MapSQLiteCode(sqlite3.SQLITE_IOERR))
}

func TestConstraintFromMessage(t *testing.T) {
	assert.Equal(t, ForeignKeyViolation, constraintFromMessage("FOREIGN KEY constraint failed"))
	assert.Equal(t, NotNullViolation, constraintFromMessage("NOT NULL constraint failed: employees.name"))
	assert.Equal(t, Other, constraintFromMessage("no such table: employees"))
}

func TestGenerateErrorCode(t *testing.T) {
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", generateErrorCode("evaluation_scores", "employee_id", ForeignKeyViolation))
	assert.Equal(t, "RECORD_NOT_FOUND", generateErrorCode("", "", ForeignKeyViolation))
	assert.Equal(t, "EMPLOYEE_REQUIRED", generateErrorCode("employees", "name", NotNullViolation))
	assert.Equal(t, "EVALUATION_SCORE_ALREADY_EXISTS", generateErrorCode("evaluation_scores", "id", UniqueViolation))
}

func TestHandleErrorPostgresForeignKey(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        `insert or update on table "evaluation_scores" violates foreign key constraint`,
		TableName:      "evaluation_scores",
		ConstraintName: "evaluation_scores_employee_id_fkey",
	}

	err := HandleError(fmt.Errorf("insert: %w", pgErr))

	appErr := asAppError(t, err)
	assert.Equal(t, errs.KindBadInput, appErr.Kind)
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", appErr.Code)
	assert.Equal(t, "The referenced Employee does not exist", appErr.Message)
	assert.Equal(t, ForeignKeyViolation, ErrCode(err))
}

func TestHandleErrorPostgresNotNull(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Severity:   "ERROR",
		Code:       "23502",
		TableName:  "employees",
		ColumnName: "job_title",
	})

	appErr := asAppError(t, err)
	assert.Equal(t, "The Job Title is required", appErr.Message)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "job_title", appErr.Errors[0].Field)
}

func TestHandleErrorPassThrough(t *testing.T) {
	assert.NoError(t, HandleError(nil))

	in := errs.NewBadRequestError("already handled", nil, nil)
	assert.Same(t, in, HandleError(in))
}

func TestHandleErrorNoRows(t *testing.T) {
	appErr := asAppError(t, HandleError(sql.ErrNoRows))
	assert.Equal(t, errs.KindNotFound, appErr.Kind)
	assert.ErrorIs(t, appErr, sql.ErrNoRows)
}

func TestHandleErrorUnknown(t *testing.T) {
	cause := errors.New("database disk image is malformed")

	appErr := asAppError(t, HandleError(cause))
	assert.Equal(t, errs.KindInternal, appErr.Kind)
	assert.ErrorIs(t, appErr, cause)
}
