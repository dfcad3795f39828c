package handlers

import (
	"net/http"

	"github.com/faizan/catalog/service"
	"github.com/gin-gonic/gin"
)

type createTrackRequest struct {
	Title         string `json:"title"`
	GenreID       *uint  `json:"genreId"`
	LengthSeconds *int   `json:"lengthSeconds"`
	ArtistIDs     []uint `json:"artistIds"`
}

// CreateTrack godoc
// @Summary Create a track
// @Description Stores a track with its genre and links it to every listed artist in one unit.
// @Tags tracks
// @Accept json
// @Produce json
// @Success 201 {object} service.TrackView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/tracks [post]
func (h *Handler) CreateTrack(c *gin.Context) {
	var req createTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	track, err := h.catalog.CreateTrack(c.Request.Context(), service.CreateTrackInput{
		Title:         req.Title,
		GenreID:       req.GenreID,
		LengthSeconds: req.LengthSeconds,
		ArtistIDs:     req.ArtistIDs,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, track)
}

// GetTrack godoc
// @Summary Get track by id
// @Tags tracks
// @Produce json
// @Param id path int true "Track id"
// @Success 200 {object} service.TrackView
// @Failure 404 {object} ErrorResponse
// @Router /api/tracks/{id} [get]
func (h *Handler) GetTrack(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	track, err := h.catalog.GetTrack(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, track)
}
