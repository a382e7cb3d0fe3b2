package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/version"
)

// Version returns build and VCS metadata injected at build time.
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
		"dirty":   version.Dirty,
	})
}

// Healthz is the liveness probe used by cmd/healthcheck.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}
