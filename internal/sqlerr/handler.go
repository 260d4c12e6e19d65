package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of err, or Other when err is not classified.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw pgx error into an Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		Details:        src.Detail,
		Hint:           src.Hint,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Classify returns err as an *Error when it can be classified, or nil.
//
// It understands errors already classified by this package, pgx server
// errors, and the "no rows" sentinels of pgx and database/sql.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(pgerr)
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return &Error{Code: NoRows, Severity: SeverityError, Message: err.Error(), driverErr: err}
	}

	return nil
}

// ErrorCode builds an application error code of the form <DOMAIN>_<ACTION>.
//
// tableName is used when err does not carry one, so callers can pass the
// collection they were querying:
//
//	names + UniqueViolation => NAME_ALREADY_EXISTS
//
// Errors that cannot be classified yield "".
func ErrorCode(err error, tableName string) string {
	sqlErr := Classify(err)
	if sqlErr == nil {
		return ""
	}
	if sqlErr.TableName != "" {
		tableName = sqlErr.TableName
	}
	return generateErrorCode(tableName, sqlErr.Code)
}

func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	// Naive singularization: NAMES -> NAME.
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

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
	case UndefinedTable, UndefinedColumn:
		action = "SCHEMA_MISMATCH"
	case InsufficientPrivilege:
		action = "FORBIDDEN"
	case ConnectionFailure:
		action = "UNAVAILABLE"
	case NoRows:
		action = "NOT_FOUND"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// Describe produces a readable one-line summary of err for server logs.
// It is never sent to clients.
func Describe(err error) string {
	sqlErr := Classify(err)
	if sqlErr == nil {
		return "unclassified store error"
	}

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
	case UndefinedTable, UndefinedColumn:
		return "The store schema does not match the expected names table"
	case InsufficientPrivilege:
		return "The configured key is not allowed to perform this operation"
	case ConnectionFailure:
		return "The store could not be reached"
	case NoRows:
		return fmt.Sprintf("%s not found", entityName)
	default:
		return "An error occurred while talking to the store"
	}
}

// getEntityName infers a readable entity name from table/column data.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
