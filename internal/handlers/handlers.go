package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"StockPulse/internal/fusion"
	"StockPulse/internal/ingest"
	"StockPulse/internal/model"
	"StockPulse/internal/store"
)

// Handler exposes the ingestion pipeline and fusion engine over HTTP.
type Handler struct {
	pipeline *ingest.Pipeline
	engine   *fusion.Engine
	store    store.Store
}

func New(pipeline *ingest.Pipeline, engine *fusion.Engine, st store.Store) *Handler {
	return &Handler{pipeline: pipeline, engine: engine, store: st}
}

// Register wires all API routes onto the router.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.Health)
	api := r.Group("/api")
	{
		api.GET("/news", h.GetNews)
		api.POST("/ingest", h.Ingest)
		api.GET("/opinion", h.GetOpinion)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetNews returns stored articles for a symbol, newest first.
func (h *Handler) GetNews(c *gin.Context) {
	symbol := strings.ToUpper(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol query parameter is required"})
		return
	}
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
		return
	}

	articles, err := h.store.QueryRecent(symbol, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":   symbol,
		"count":    len(articles),
		"articles": articles,
	})
}

type ingestRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// Ingest triggers a synchronous ingestion run for one symbol.
func (h *Handler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a symbol"})
		return
	}

	summary, err := h.pipeline.Ingest(c.Request.Context(), strings.ToUpper(req.Symbol))
	if err != nil {
		if errors.Is(err, ingest.ErrAllProvidersFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetOpinion runs the full fusion flow and returns a recommendation.
func (h *Handler) GetOpinion(c *gin.Context) {
	symbol := strings.ToUpper(c.Query("symbol"))
	risk := model.RiskProfile(c.DefaultQuery("risk", string(model.RiskMedium)))
	horizon := model.TimeHorizon(c.DefaultQuery("horizon", string(model.HorizonMedium)))

	rec, err := h.engine.Fuse(symbol, risk, horizon)
	if err != nil {
		if errors.Is(err, fusion.ErrInvalidSymbol) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}
