package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jacentio/paperstore/store"
)

func listPapersHandler(papers PaperStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := requestLogger(c, logger)

		list, err := papers.List(c.Request.Context())
		if err != nil {
			respondError(c, log, err, "fetch papers")
			return
		}

		log.Debug("scanned papers", "count", len(list))
		c.HTML(http.StatusOK, "index", gin.H{
			"title":  "Papers",
			"papers": list,
		})
	}
}

func createPaperHandler(papers PaperStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := requestLogger(c, logger)

		var in store.PaperInput
		if err := c.ShouldBind(&in); err != nil {
			c.String(http.StatusBadRequest, "Bad request: could not parse form.")
			return
		}

		p, err := papers.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, log.With("paperID", in.PaperID), err, "add paper")
			return
		}

		log.Info("added paper", "paperID", p.PaperID)
		c.Redirect(http.StatusFound, "/")
	}
}

func editPaperHandler(papers PaperStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("paper_id")
		log := requestLogger(c, logger).With("paperID", id)

		p, err := papers.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, log, err, "fetch paper details")
			return
		}

		c.HTML(http.StatusOK, "update", gin.H{
			"title": "Edit " + p.PaperName,
			"paper": p,
		})
	}
}

func updatePaperHandler(papers PaperStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("paper_id")
		log := requestLogger(c, logger).With("paperID", id)

		var in store.PaperUpdate
		if err := c.ShouldBind(&in); err != nil {
			c.String(http.StatusBadRequest, "Bad request: could not parse form.")
			return
		}

		if err := papers.Update(c.Request.Context(), id, in); err != nil {
			respondError(c, log, err, "update paper")
			return
		}

		if in.IsEmpty() {
			log.Warn("update with no fields to update")
		} else {
			log.Info("updated paper")
		}
		c.Redirect(http.StatusFound, "/")
	}
}

func deletePaperHandler(papers PaperStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.PostForm("paper_id")
		log := requestLogger(c, logger)

		if id == "" {
			log.Warn("delete without a paper id")
		}

		if err := papers.Delete(c.Request.Context(), id); err != nil {
			respondError(c, log.With("paperID", id), err, "delete paper")
			return
		}

		if id != "" {
			log.Info("deleted paper", "paperID", id)
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// respondError maps store errors to a status and a plain-text body. Backend
// detail is logged, never sent to the client.
func respondError(c *gin.Context, log *slog.Logger, err error, action string) {
	var fieldErr *store.FieldError
	switch {
	case errors.Is(err, store.ErrInvalidKey):
		log.Warn("invalid paper id", "error", err)
		c.String(http.StatusBadRequest, "Invalid Paper ID")
	case errors.As(err, &fieldErr):
		log.Warn("rejected input", "field", fieldErr.Field, "reason", fieldErr.Reason)
		c.String(http.StatusBadRequest, "Bad request: %s %s.", fieldErr.Field, fieldErr.Reason)
	case errors.Is(err, store.ErrValidation):
		c.String(http.StatusBadRequest, "Bad request: All fields are required.")
	case errors.Is(err, store.ErrNotFound):
		log.Info("paper not found")
		c.String(http.StatusNotFound, "Paper not found.")
	default:
		log.Error("store call failed", "action", action, "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error: Could not %s.", action)
	}
}
