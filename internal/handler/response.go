package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

func NewMessageResponse(message string) *Response {
	return &Response{
		Success: true,
		Message: message,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Success: false,
		Message: message,
	}
}

// RespondError maps an application error to its HTTP status and envelope.
func RespondError(c *gin.Context, err error) {
	appErr, ok := apperr.AsAppError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperr.ErrNotFound:
		status = http.StatusNotFound
	case apperr.ErrBadRequest:
		status = http.StatusBadRequest
	case apperr.ErrUnauthorized:
		status = http.StatusUnauthorized
	case apperr.ErrForbidden:
		status = http.StatusForbidden
	case apperr.ErrConflict:
		status = http.StatusConflict
	case apperr.ErrValidation:
		status = http.StatusUnprocessableEntity
	}

	resp := NewErrorResponse(appErr.Message)
	resp.Errors = appErr.Fields
	c.JSON(status, resp)
}

// RespondBindError turns a binding failure into a 422 with per-field
// messages, falling back to 400 for malformed bodies.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid request body"))
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe)] = fieldMessage(fe)
	}

	resp := NewErrorResponse("validation failed")
	resp.Errors = fields
	c.JSON(http.StatusUnprocessableEntity, resp)
}

func fieldName(fe validator.FieldError) string {
	return toSnake(fe.Field())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	case "len":
		return "value has the wrong length"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}

func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			prevLower := i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
