package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"plantapi/internal/render"
)

// maxSourceBytes caps a diagram upload.
const maxSourceBytes = 1 << 20

type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	ErrRequired      = "required"
	ErrInvalidJSON   = "invalid_json"
	ErrInvalidValue  = "invalid_value"
	ErrTooLarge      = "too_large"
	ErrTypeMismatch  = "type_mismatch"
	ErrInvalidFormat = "invalid_format"
)

func ferr(code, field, msg string) FieldError {
	return FieldError{Code: code, Field: field, Message: msg}
}

func badRequest(c *gin.Context, errs ...FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

type sourceReq struct {
	Content *string `json:"content"`
}

// readSource takes the diagram text from the body: a JSON object
// {"content": "..."} bound by gin when the content type says JSON, the raw body
// otherwise.
func readSource(c *gin.Context) (string, *FieldError) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSourceBytes)

	if !strings.Contains(c.ContentType(), "json") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", bodyError(err)
		}
		return string(body), nil
	}

	var req sourceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", bodyError(err)
		}
		fe := ferr(ErrInvalidJSON, "body", "Invalid JSON")
		return "", &fe
	}
	if req.Content == nil {
		fe := ferr(ErrRequired, "content", "Field 'content' is required")
		return "", &fe
	}
	return *req.Content, nil
}

func bodyError(err error) *FieldError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		fe := ferr(ErrTooLarge, "body", "Diagram exceeds "+strconv.Itoa(maxSourceBytes)+" bytes")
		return &fe
	}
	fe := ferr(ErrInvalidValue, "body", "Unable to read body")
	return &fe
}

func queryFormat(c *gin.Context, fallback render.Format) (render.Format, *FieldError) {
	raw := c.Query("format")
	if raw == "" {
		return fallback, nil
	}
	f, err := render.ParseFormat(raw)
	if err != nil {
		fe := ferr(ErrInvalidFormat, "format", err.Error())
		return "", &fe
	}
	return f, nil
}

func queryBool(c *gin.Context, name string) (bool, *FieldError) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		fe := ferr(ErrTypeMismatch, name, "Expected a boolean")
		return false, &fe
	}
	return v, nil
}
