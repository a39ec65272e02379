// Package web serves the single page dashboard UI.
package web

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var indexHTML []byte

// Register mounts the dashboard page at the root path
func Register(r gin.IRoutes) {
	r.GET("/", Index)
}

// Index serves the dashboard page
func Index(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}
