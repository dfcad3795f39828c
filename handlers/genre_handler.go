package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListGenres godoc
// @Summary List genres
// @Tags genres
// @Produce json
// @Success 200 {array} service.GenreView
// @Router /api/genres [get]
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.catalog.ListGenres(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GetTracksByGenre godoc
// @Summary List tracks of a genre
// @Tags genres
// @Produce json
// @Param id path int true "Genre id"
// @Success 200 {array} service.TrackView
// @Failure 404 {object} ErrorResponse
// @Router /api/genres/{id}/tracks [get]
func (h *Handler) GetTracksByGenre(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tracks, err := h.catalog.ListTracksByGenre(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}
