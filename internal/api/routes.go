// Package api wires the HTTP routes and server-rendered views onto the
// paper store.
package api

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jacentio/paperstore/store"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// PaperStore is the record access layer the routes depend on.
// *store.Store satisfies it.
type PaperStore interface {
	List(ctx context.Context) ([]store.Paper, error)
	Get(ctx context.Context, id string) (*store.Paper, error)
	Create(ctx context.Context, in store.PaperInput) (*store.Paper, error)
	Update(ctx context.Context, id string, in store.PaperUpdate) error
	Delete(ctx context.Context, id string) error
}

var _ PaperStore = (*store.Store)(nil)

// NewRouter builds a gin engine with middleware, views and routes.
func NewRouter(papers PaperStore, logger *slog.Logger) (*gin.Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger), gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))

	SetupRoutes(r, papers, logger)
	return r, nil
}

// SetupRoutes registers the paper routes on r.
func SetupRoutes(r *gin.Engine, papers PaperStore, logger *slog.Logger) {
	r.GET("/", listPapersHandler(papers, logger))
	r.POST("/add", createPaperHandler(papers, logger))
	r.GET("/update/:paper_id", editPaperHandler(papers, logger))
	r.POST("/update/:paper_id", updatePaperHandler(papers, logger))
	r.POST("/delete", deletePaperHandler(papers, logger))
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}
