package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"MarketHarvester/internal/orchestrator"
	"MarketHarvester/internal/store"
)

const initializingMsg = "Data initializing. Please wait."

// Handler serves the harvested snapshots and the manual trigger endpoint.
type Handler struct {
	Store        *store.Store
	Orchestrator *orchestrator.Orchestrator
	APISecret    string
}

// NewHandler creates an API handler.
func NewHandler(st *store.Store, orch *orchestrator.Orchestrator, apiSecret string) *Handler {
	return &Handler{Store: st, Orchestrator: orch, APISecret: apiSecret}
}

// SetupRoutes registers all routes on the given engine.
func (h *Handler) SetupRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/api/stocks-data", h.stocksData)
	r.GET("/api/gold-data", h.goldData)
	r.GET("/api/crypto-data", h.cryptoData)
	r.GET("/api/all-data", h.allData)
	r.GET("/api/trigger-fetch", h.triggerFetch)
}

func (h *Handler) index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, indexPage)
}

func (h *Handler) stocksData(c *gin.Context) {
	snap, err := h.Store.ReadStocks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": initializingMsg})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) goldData(c *gin.Context) {
	snap, err := h.Store.ReadGold()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": initializingMsg})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) cryptoData(c *gin.Context) {
	snap, err := h.Store.ReadCrypto()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": initializingMsg})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// allData always answers 200: slots that have never been filled are null.
func (h *Handler) allData(c *gin.Context) {
	merged, err := h.Store.Merge()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, merged)
}

// triggerFetch starts a fetch cycle. Unforced triggers still obey the
// trading-hours gate; force=true bypasses it. The run is synchronous: the
// response carries the full per-source report, including busy when
// another cycle holds the lock.
func (h *Handler) triggerFetch(c *gin.Context) {
	if c.Query("key") != h.APISecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	targets, err := orchestrator.ParseTarget(c.Query("target"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	force := c.Query("force") == "true"

	log.Printf("[INFO] manual fetch triggered from %s (force=%v)", c.ClientIP(), force)
	rep := h.Orchestrator.Run(c.Request.Context(), orchestrator.Options{
		Force:   force,
		Targets: targets,
	})
	c.JSON(http.StatusOK, rep)
}
