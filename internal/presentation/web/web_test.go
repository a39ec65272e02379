package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="entity-table"`)
	assert.Contains(t, w.Body.String(), `const api = "/api/v1"`)
	for _, id := range []string{"year-filter", "quarter-filter", "month-filter"} {
		assert.Contains(t, w.Body.String(), `<select id="`+id+`" multiple>`)
	}
}
