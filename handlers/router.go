package handlers

import (
	"context"
	"net/http"

	"github.com/faizan/catalog/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// CatalogService is the part of service.Catalog the handlers call.
type CatalogService interface {
	ListArtists(ctx context.Context) ([]service.ArtistView, error)
	GetArtist(ctx context.Context, id uint) (service.ArtistView, bool, error)
	UpdateArtist(ctx context.Context, id uint, patch service.ArtistPatch) (service.ArtistView, bool, error)
	ListTracksByArtist(ctx context.Context, artistID uint) ([]service.TrackView, error)
	CreateTrack(ctx context.Context, in service.CreateTrackInput) (service.TrackView, error)
	GetTrack(ctx context.Context, id uint) (service.TrackView, error)
	ListGenres(ctx context.Context) ([]service.GenreView, error)
	ListTracksByGenre(ctx context.Context, genreID uint) ([]service.TrackView, error)
}

type FeaturedService interface {
	Featured(ctx context.Context) (service.ArtistView, error)
}

type RouterOptions struct {
	Catalog  CatalogService
	Featured FeaturedService
	Logger   logrus.FieldLogger
	// AllowedOrigin is echoed in CORS headers; empty disables CORS.
	AllowedOrigin string
	// Ping reports storage health for /healthz; nil means always healthy.
	Ping func(ctx context.Context) error
	// RateLimit is the allowed requests per second per client under /api; zero disables it.
	RateLimit float64
	RateBurst int
}

type Handler struct {
	catalog  CatalogService
	featured FeaturedService
	log      logrus.FieldLogger
	ping     func(ctx context.Context) error
}

func SetupRouter(opts RouterOptions) *gin.Engine {
	h := &Handler{
		catalog:  opts.Catalog,
		featured: opts.Featured,
		log:      opts.Logger,
		ping:     opts.Ping,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Logger), instrument(), allowOrigin(opts.AllowedOrigin))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api", rateLimit(opts.RateLimit, opts.RateBurst))
	artists := api.Group("/artists")
	{
		artists.GET("", h.ListArtists)
		artists.GET("/featured", h.GetFeaturedArtist)
		artists.GET("/:id", h.GetArtist)
		artists.PUT("/:id", h.UpdateArtist)
		artists.GET("/:id/tracks", h.GetTracksByArtist)
	}
	tracks := api.Group("/tracks")
	{
		tracks.POST("", h.CreateTrack)
		tracks.GET("/:id", h.GetTrack)
	}
	genres := api.Group("/genres")
	{
		genres.GET("", h.ListGenres)
		genres.GET("/:id/tracks", h.GetTracksByGenre)
	}

	return r
}

// Health godoc
// @Summary Liveness and storage check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			loggerFrom(c, h.log).WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
