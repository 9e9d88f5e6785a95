package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"promoadmin/internal/store"
)

type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	ErrRequired        = "required"
	ErrTypeMismatch    = "type_mismatch"
	ErrNotFound        = "not_found"
	ErrReadOnly        = "readonly_field"
	ErrForbidden       = "forbidden"
	ErrUniqueViolation = "unique_violation"
	ErrUnsupported     = "unsupported_operation"
	ErrInternal        = "internal"
)

func ferr(code, field, msg string) FieldError {
	return FieldError{Code: code, Field: field, Message: msg}
}

func statusForErrors(errs []FieldError) int {
	for _, e := range errs {
		switch e.Code {
		case ErrUniqueViolation:
			return http.StatusConflict
		case ErrNotFound:
			return http.StatusNotFound
		case ErrForbidden:
			return http.StatusForbidden
		case ErrUnsupported:
			return http.StatusNotImplemented
		case ErrInternal:
			return http.StatusInternalServerError
		}
	}
	return http.StatusBadRequest
}

func abortWith(c *gin.Context, errs ...FieldError) {
	c.AbortWithStatusJSON(statusForErrors(errs), gin.H{"errors": errs})
}

// storeError переводит ошибку хранилища в ответ.
func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		abortWith(c, ferr(ErrNotFound, "id", "Record not found"))
	case errors.Is(err, store.ErrDuplicateLink):
		abortWith(c, ferr(ErrUniqueViolation, "customerId", err.Error()))
	default:
		s.Log.WithError(err).Error("store failure")
		abortWith(c, ferr(ErrInternal, "", "internal error"))
	}
}
