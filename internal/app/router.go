package app

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/testcontainers/talks-explorer/internal/browse"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Dependencies are the collaborators of the HTTP surface.
type Dependencies struct {
	// Fetcher reaches the talks API. It is required.
	Fetcher browse.Fetcher
	// Recorder receives the browse events of every page. Optional.
	Recorder browse.Recorder
	Logger   *slog.Logger
}

func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger))

	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	h := &handlers{deps: deps}

	router.GET("/", h.Root)
	router.GET("/ws", h.Live)
	router.GET("/healthz", Health)
	router.StaticFS("/static", http.FS(static))

	return router
}

// requestLogger logs one line per request with the structured logger.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
