package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"housiee-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, err error) (int, ErrorBody) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorMapsKinds(t *testing.T) {
	code, body := perform(t, apperror.Validation("Provider profile not found"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Provider profile not found", body.Error)

	code, _ = perform(t, apperror.Forbidden("nope"))
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = perform(t, apperror.NotFound("Booking not found"))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	code, body := perform(t, errors.New("pq: relation does not exist"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body.Error)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 12, 25)
	assert.Equal(t, 3, p.TotalPages)

	assert.Equal(t, 0, NewPagination(1, 12, 0).TotalPages)
}
