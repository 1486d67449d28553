package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"plantapi/internal/openapi"
	"plantapi/internal/render"
	"plantapi/internal/uml"
)

const fixturesLoadError = "Unable to load PlantUML fixtures"

// GET /api/plant-uml-fixtures, GET /api/fixtures
func FixtureListHandler(storage *Storage, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := storage.Fixtures.List()
		if err != nil {
			requestLog(c, log).WithError(err).Error("Failed to read PlantUML fixtures")
			c.JSON(http.StatusInternalServerError, gin.H{"error": fixturesLoadError})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /api/fixtures/:id
func FixtureGetHandler(storage *Storage, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok, err := storage.Fixtures.Get(c.Param("id"))
		if err != nil {
			requestLog(c, log).WithError(err).Error("Failed to read PlantUML fixtures")
			c.JSON(http.StatusInternalServerError, gin.H{"error": fixturesLoadError})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fixture not found"})
			return
		}
		c.JSON(http.StatusOK, f)
	}
}

// GET /api/fixtures/:id/openapi?format=
func FixtureDocumentHandler(storage *Storage, log logrus.FieldLogger, defaultFormat render.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, fe := queryFormat(c, defaultFormat)
		if fe != nil {
			badRequest(c, *fe)
			return
		}
		f, ok, err := storage.Fixtures.Get(c.Param("id"))
		if err != nil {
			requestLog(c, log).WithError(err).Error("Failed to read PlantUML fixtures")
			c.JSON(http.StatusInternalServerError, gin.H{"error": fixturesLoadError})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fixture not found"})
			return
		}
		doc := openapi.Transform(uml.Parse(f.Content))
		if err := writeDocument(c, doc, format); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render document"})
		}
	}
}
