package handlers

import (
	"net/http"

	"github.com/faizan/catalog/service"
	"github.com/gin-gonic/gin"
)

type updateArtistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Photo       *string `json:"photo"`
}

// ListArtists godoc
// @Summary List artists
// @Description Returns every artist with its track count.
// @Tags artists
// @Produce json
// @Success 200 {array} service.ArtistView
// @Failure 500 {object} ErrorResponse
// @Router /api/artists [get]
func (h *Handler) ListArtists(c *gin.Context) {
	artists, err := h.catalog.ListArtists(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, artists)
}

// GetFeaturedArtist godoc
// @Summary Artist of the day
// @Description Returns the same artist for every call on one calendar day.
// @Tags artists
// @Produce json
// @Success 200 {object} service.ArtistView
// @Failure 404 {object} ErrorResponse
// @Router /api/artists/featured [get]
func (h *Handler) GetFeaturedArtist(c *gin.Context) {
	artist, err := h.featured.Featured(c.Request.Context())
	if err != nil {
		featuredSelections.WithLabelValues("error").Inc()
		writeError(c, h.log, err)
		return
	}
	featuredSelections.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, artist)
}

// GetArtist godoc
// @Summary Get artist by id
// @Tags artists
// @Produce json
// @Param id path int true "Artist id"
// @Success 200 {object} service.ArtistView
// @Failure 404 {object} ErrorResponse
// @Router /api/artists/{id} [get]
func (h *Handler) GetArtist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	artist, found, err := h.catalog.GetArtist(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "artist not found"})
		return
	}
	c.JSON(http.StatusOK, artist)
}

// UpdateArtist godoc
// @Summary Partially update an artist
// @Description Absent fields and a blank name keep their stored values.
// @Tags artists
// @Accept json
// @Produce json
// @Param id path int true "Artist id"
// @Success 200 {object} service.ArtistView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/artists/{id} [put]
func (h *Handler) UpdateArtist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	artist, found, err := h.catalog.UpdateArtist(c.Request.Context(), id, service.ArtistPatch{
		Name:        req.Name,
		Description: req.Description,
		Picture:     req.Photo,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "artist not found"})
		return
	}
	c.JSON(http.StatusOK, artist)
}

// GetTracksByArtist godoc
// @Summary List tracks of an artist
// @Tags artists
// @Produce json
// @Param id path int true "Artist id"
// @Success 200 {array} service.TrackView
// @Failure 404 {object} ErrorResponse
// @Router /api/artists/{id}/tracks [get]
func (h *Handler) GetTracksByArtist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tracks, err := h.catalog.ListTracksByArtist(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}
