package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"user_api/internal/service"
	"user_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed binding rule
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func invalidRequest(c *gin.Context, details []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"details": details,
	})
}

// bindJSON binds the body into out and answers 400 on failure
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		invalidRequest(c, describeBindError(err))
		return false
	}
	return true
}

// rejectField answers 400 when the service refused a field. It reports whether it did.
func rejectField(c *gin.Context, err error) bool {
	var fe *service.FieldError
	if !errors.As(err, &fe) {
		return false
	}
	invalidRequest(c, []FieldError{{
		Field:   fe.Field,
		Rule:    fe.Rule,
		Message: validationMessage(fe.Rule),
	}})
	return true
}

func describeBindError(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Rule:    fe.Tag(),
				Message: validationMessage(fe.Tag()),
			})
		}
		return fields
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		return []FieldError{{
			Field:   typeError.Field,
			Rule:    "type",
			Message: fmt.Sprintf("must be of type %s", typeError.Type.String()),
		}}
	}

	if errors.Is(err, io.EOF) {
		return []FieldError{{Field: "body", Rule: "required", Message: "is required"}}
	}

	return []FieldError{{Field: "body", Rule: "json", Message: "must be valid JSON"}}
}

func validationMessage(rule string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max_bytes":
		return fmt.Sprintf("must be at most %d bytes", utils.MaxPasswordBytes)
	default:
		return "failed " + rule + " validation"
	}
}
