// utils/responses.go
package utils

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Every response uses the same envelope:
// success -> {status:"success", data|results}
// fail    -> {status:"fail", errors:[{path,message,code}]} (validation)
// error   -> {status:"error", message}

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func RespondWithData(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func RespondWithList(c *gin.Context, results interface{}) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "results": results})
}

func RespondWithMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "success", "message": message})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// RespondWithValidationError unpacks gin binding failures into field-level
// detail when the underlying error came from the validator.
func RespondWithValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Path:    fieldPath(fe),
				Message: validationMessage(fe),
				Code:    fe.Tag(),
			})
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "errors": out})
		return
	}
	RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
}

func fieldPath(fe validator.FieldError) string {
	// "CreateClientInput.FirstName" -> "firstName"
	parts := strings.Split(fe.Namespace(), ".")
	field := parts[len(parts)-1]
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// Postgres error codes surfaced as integrity errors.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// IsUniqueViolation reports whether err is a unique-constraint violation
// from either the postgres or the sqlite driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err is a referential-integrity
// violation from either driver.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// RespondWithDBError maps database errors onto the envelope: missing rows
// become 404, integrity violations become 400 with a readable message and
// anything else is a 500 (detail withheld in release mode).
func RespondWithDBError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		RespondWithError(c, http.StatusNotFound, "Record not found")
	case IsUniqueViolation(err):
		RespondWithError(c, http.StatusBadRequest, "Duplicate value: "+integrityDetail(err))
	case IsForeignKeyViolation(err):
		RespondWithError(c, http.StatusBadRequest, "Operation violates referential integrity: "+integrityDetail(err))
	default:
		msg := "Database error"
		if os.Getenv("GIN_MODE") != "release" {
			msg = "Database error: " + err.Error()
		}
		RespondWithError(c, http.StatusInternalServerError, msg)
	}
}

// integrityDetail pulls the driver's human-readable detail out of the error
// on a best-effort basis.
func integrityDetail(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Detail != "" {
			return pgErr.Detail
		}
		return pgErr.Message
	}
	return err.Error()
}
