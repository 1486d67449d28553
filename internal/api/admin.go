package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// POST /api/admin/reload re-reads the fixtures directory. A failed reload keeps
// the previous catalog.
func AdminReloadHandler(storage *Storage, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := storage.Fixtures.Reload()
		if err != nil {
			requestLog(c, log).WithError(err).Warn("fixture reload failed")
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Fixture load error",
				"details": err.Error(),
				"dir":     storage.Fixtures.Dir(),
			})
			return
		}
		requestLog(c, log).WithField("fixtures", n).Info("fixtures reloaded")
		c.JSON(http.StatusOK, gin.H{
			"ok":       true,
			"dir":      storage.Fixtures.Dir(),
			"fixtures": n,
		})
	}
}
