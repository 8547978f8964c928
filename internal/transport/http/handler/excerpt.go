package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"typist/internal/app"
	"typist/internal/cache"
	"typist/internal/model"
)

type ExcerptHandler struct {
	excerptService *app.ExcerptService
}

// ExcerptView is the public shape of an excerpt: id and body only.
type ExcerptView struct {
	ID   uint   `json:"id"`
	Body string `json:"body"`
}

func NewExcerptHandler(excerptService *app.ExcerptService) *ExcerptHandler {
	return &ExcerptHandler{excerptService: excerptService}
}

func (h *ExcerptHandler) List(c *gin.Context) {
	excerpts, err := h.excerptService.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "list excerpts failed")
		return
	}

	views := make([]ExcerptView, 0, len(excerpts))
	for _, e := range excerpts {
		views = append(views, toExcerptView(e))
	}
	c.JSON(http.StatusOK, views)
}

func (h *ExcerptHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	excerpt, err := h.excerptService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "get excerpt failed")
		return
	}
	c.JSON(http.StatusOK, toExcerptView(*excerpt))
}

func (h *ExcerptHandler) Leaderboard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.excerptService.Leaderboard(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, err, "load leaderboard failed")
		return
	}
	if entries == nil {
		entries = []cache.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func toExcerptView(e model.Excerpt) ExcerptView {
	return ExcerptView{ID: e.ID, Body: e.Body}
}
