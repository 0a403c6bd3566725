package response

import (
	"net/http"

	"housiee-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Pagination is embedded in paginated list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Success responses
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error writes err as {"error": message}. AppErrors keep their status and
// message; anything else becomes a generic 500. 500s are logged with the
// request id, the client never sees the cause.
func Error(c *gin.Context, err error) {
	appErr := apperror.As(err)
	if appErr == nil {
		appErr = apperror.Internal(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	c.JSON(status, ErrorBody{Error: appErr.Message})
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.Validation(message))
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, apperror.Unauthorized(message))
}

func Forbidden(c *gin.Context, message string) {
	Error(c, apperror.Forbidden(message))
}

func NotFound(c *gin.Context, message string) {
	Error(c, apperror.NotFound(message))
}
