package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestUnprocessableEntityCarriesFields(t *testing.T) {
	w, resp := run(func(c *gin.Context) {
		UnprocessableEntity(c, "validation failed", map[string]string{"rating": "max"})
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, map[string]interface{}{"rating": "max"}, resp.Data)
}

func TestInternalErrorHidesDetail(t *testing.T) {
	w, resp := run(func(c *gin.Context) {
		InternalError(c, errors.New("dial tcp: connection refused"))
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestUnauthorizedAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Unauthorized(c, "nope")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
