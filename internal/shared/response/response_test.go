package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var errMissing = errors.New("thing not found")

var testMappings = []ErrorMapping{
	{Err: errMissing, Status: http.StatusNotFound, Message: "not here"},
	{Err: errors.New("unreachable"), Status: http.StatusTeapot},
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestHandleError_MapsKnownError(t *testing.T) {
	c, w := testContext(t)

	handled := HandleError(c, errMissing, testMappings)

	assert.True(t, handled)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not here")
}

func TestHandleError_MatchesWrappedErrors(t *testing.T) {
	c, w := testContext(t)

	handled := HandleError(c, fmt.Errorf("lookup: %w", errMissing), testMappings)

	assert.True(t, handled)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleError_UnknownErrorNotHandled(t *testing.T) {
	c, w := testContext(t)

	handled := HandleError(c, errors.New("something else"), testMappings)

	assert.False(t, handled)
	assert.Empty(t, w.Body.String())
}

func TestHandleErrorWithDefault_FallsBackToInternal(t *testing.T) {
	c, w := testContext(t)

	HandleErrorWithDefault(c, errors.New("something else"), testMappings)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
}

func TestHandleError_IncludesCodeWhenMapped(t *testing.T) {
	c, w := testContext(t)

	mappings := []ErrorMapping{{Err: errMissing, Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "not here"}}
	HandleErrorWithDefault(c, errMissing, mappings)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestHandleError_UsesSentinelMessageWhenUnset(t *testing.T) {
	c, w := testContext(t)

	mappings := []ErrorMapping{{Err: errMissing, Status: http.StatusNotFound}}
	HandleErrorWithDefault(c, errMissing, mappings)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "thing not found")
}
