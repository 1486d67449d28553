// api/router.go
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"plantapi/internal/render"
)

type Options struct {
	DefaultFormat  render.Format
	RenderServer   string
	DBSchema       string
	MetricsEnabled bool
}

func NewRouter(storage *Storage, log logrus.FieldLogger, opts Options) *gin.Engine {
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = render.FormatJSON
	}

	r := gin.New()
	r.Use(RequestLogger(log), gin.Recovery())

	r.GET("/healthz", HealthHandler())
	if opts.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	apiGroup := r.Group("/api")
	{
		// fixtures
		apiGroup.GET("/plant-uml-fixtures", FixtureListHandler(storage, log))
		apiGroup.GET("/fixtures", FixtureListHandler(storage, log))
		apiGroup.GET("/fixtures/:id", FixtureGetHandler(storage, log))
		apiGroup.GET("/fixtures/:id/openapi", FixtureDocumentHandler(storage, log, opts.DefaultFormat))
		apiGroup.POST("/admin/reload", AdminReloadHandler(storage, log))

		// pipeline
		apiGroup.POST("/transform", TransformHandler(storage, log, opts.DefaultFormat))
		apiGroup.GET("/transforms", TransformListHandler(storage))
		apiGroup.GET("/transforms/:id", TransformGetHandler(storage, opts.DefaultFormat))
		apiGroup.POST("/parse", ParseHandler())
		apiGroup.POST("/lint", LintHandler())
		apiGroup.POST("/ddl", DDLHandler(opts.DBSchema))
		apiGroup.POST("/render-url", RenderURLHandler(opts.RenderServer))
	}
	return r
}

func RunServer(addr string, storage *Storage, log logrus.FieldLogger, opts Options) error {
	return NewRouter(storage, log, opts).Run(addr)
}
