package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"housiee-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParseUUIDParam reads a path parameter as a UUID. A malformed id cannot
// match any row, so it is reported as not found.
func ParseUUIDParam(c *gin.Context, name, notFoundMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(notFoundMsg)
	}
	return id, nil
}

// ParsePagination reads ?page= and ?limit=. page defaults to 1,
// limit to defaultLimit and must stay within [1, maxLimit].
func ParsePagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit int, err error) {
	page, limit = 1, defaultLimit

	if v := c.Query("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, apperror.Validation("page must be a positive integer")
		}
	}

	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, apperror.Validation(fmt.Sprintf("limit must be between 1 and %d", maxLimit))
		}
	}

	return page, limit, nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339. Plain dates are UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", s)
	}
	return t.UTC(), nil
}
