package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"plantapi/internal/openapi"
	"plantapi/internal/pg"
	"plantapi/internal/plantuml"
	"plantapi/internal/render"
	"plantapi/internal/uml"
)

const headerTransformID = "X-Transform-ID"

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// writeDocument renders doc in the requested format.
func writeDocument(c *gin.Context, doc *openapi.Document, format render.Format) error {
	body, err := render.Marshal(doc, format)
	if err != nil {
		return err
	}
	c.Data(http.StatusOK, format.ContentType(), body)
	return nil
}

// POST /api/transform?format=json|yaml|msgpack&validate=true
func TransformHandler(storage *Storage, log logrus.FieldLogger, defaultFormat render.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, fe := queryFormat(c, defaultFormat)
		if fe != nil {
			badRequest(c, *fe)
			return
		}
		validate, fe := queryBool(c, "validate")
		if fe != nil {
			badRequest(c, *fe)
			return
		}
		text, fe := readSource(c)
		if fe != nil {
			badRequest(c, *fe)
			return
		}

		timer := prometheus.NewTimer(pipelineDuration.WithLabelValues("transform"))
		doc := openapi.FromText(text)
		timer.ObserveDuration()

		if validate {
			if err := openapi.Validate(c.Request.Context(), doc); err != nil {
				transformsTotal.WithLabelValues(string(format), "invalid").Inc()
				requestLog(c, log).WithError(err).Warn("generated document failed validation")
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "Generated document failed validation",
					"details": err.Error(),
				})
				return
			}
		}

		t := storage.SaveTransform(text, doc)
		c.Header(headerTransformID, t.ID)
		if err := writeDocument(c, doc, format); err != nil {
			transformsTotal.WithLabelValues(string(format), "error").Inc()
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render document"})
			return
		}
		transformsTotal.WithLabelValues(string(format), "ok").Inc()
		requestLog(c, log).WithFields(logrus.Fields{
			"transform_id": t.ID,
			"components":   t.Components,
			"paths":        t.Paths,
		}).Debug("diagram transformed")
	}
}

// GET /api/transforms
func TransformListHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := parseListParams(c.Request.URL.Query())
		items, total := storage.Transforms(p)
		c.JSON(http.StatusOK, gin.H{
			"items":  items,
			"total":  total,
			"limit":  p.Limit,
			"offset": p.Offset,
		})
	}
}

// GET /api/transforms/:id?format=
func TransformGetHandler(storage *Storage, defaultFormat render.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, fe := queryFormat(c, defaultFormat)
		if fe != nil {
			badRequest(c, *fe)
			return
		}
		t, ok := storage.Transform(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transform not found"})
			return
		}
		c.Header(headerTransformID, t.ID)
		if err := writeDocument(c, t.Document, format); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render document"})
		}
	}
}

// POST /api/parse: the intermediate entity graph.
func ParseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		text, fe := readSource(c)
		if fe != nil {
			badRequest(c, *fe)
			return
		}
		timer := prometheus.NewTimer(pipelineDuration.WithLabelValues("parse"))
		d := uml.Parse(text)
		timer.ObserveDuration()
		c.JSON(http.StatusOK, d)
	}
}

// POST /api/lint
func LintHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		text, fe := readSource(c)
		if fe != nil {
			badRequest(c, *fe)
			return
		}
		timer := prometheus.NewTimer(pipelineDuration.WithLabelValues("lint"))
		issues := openapi.Lint(uml.Parse(text))
		timer.ObserveDuration()
		c.JSON(http.StatusOK, gin.H{"issues": issues, "count": len(issues)})
	}
}

// POST /api/ddl?schema=
func DDLHandler(defaultSchema string) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, fe := readSource(c)
		if fe != nil {
			badRequest(c, *fe)
			return
		}
		schema := strings.TrimSpace(c.DefaultQuery("schema", defaultSchema))

		timer := prometheus.NewTimer(pipelineDuration.WithLabelValues("ddl"))
		ddl, err := pg.GenerateDDL(uml.Parse(text), schema)
		timer.ObserveDuration()
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to generate DDL", "details": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/sql; charset=utf-8", []byte(pg.Render(ddl)))
	}
}

// POST /api/render-url?format=svg|png
func RenderURLHandler(server string) gin.HandlerFunc {
	return func(c *gin.Context) {
		format, err := plantuml.ParseImageFormat(c.Query("format"))
		if err != nil {
			badRequest(c, ferr(ErrInvalidFormat, "format", err.Error()))
			return
		}
		text, fe := readSource(c)
		if fe != nil {
			badRequest(c, *fe)
			return
		}
		encoded, err := plantuml.Encode(text)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to encode diagram"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"encoded": encoded,
			"url":     plantuml.URL(server, format, encoded),
		})
	}
}
