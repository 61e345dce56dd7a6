package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/webinsight/backend/analyzer"
	"github.com/webinsight/backend/content"
	"github.com/webinsight/backend/logging"
	"github.com/webinsight/backend/scraper"
	"github.com/webinsight/backend/stats"
	"github.com/webinsight/backend/store"
)

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

type generateRequest struct {
	AnalysisID         string `json:"analysisId" binding:"required"`
	ContentType        string `json:"contentType"`
	Tone               string `json:"tone"`
	CustomInstructions string `json:"customInstructions"`
}

// analyzeHandler runs the pipeline for one URL. Invalid input maps to 400,
// upstream fetch problems to 502, everything else to 500.
func analyzeHandler(service *analyzer.Service, requestStats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid URL"})
			return
		}

		start := time.Now()
		result, err := service.Analyze(c.Request.Context(), req.URL)
		duration := float64(time.Since(start).Milliseconds())
		requestStats.TrackAnalysis(req.URL, duration, err != nil)

		if err != nil {
			var fetchErr *scraper.FetchError
			switch {
			case errors.Is(err, scraper.ErrInvalidURL):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.As(err, &fetchErr):
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch the page: " + err.Error()})
			default:
				log.Printf("Analysis of %s failed: %v", req.URL, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func fetchAnalysisHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := db.FetchByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		if err != nil {
			log.Printf("Failed to load analysis %s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listAnalysesHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		summaries, err := db.Recent(c.Request.Context(), limit)
		if err != nil {
			log.Printf("Failed to list analyses: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"analyses": summaries})
	}
}

// generateHandler produces text from a stored analysis. Without a configured
// generator the endpoint reports 503.
func generateHandler(db *store.Store, generator content.Generator, requestStats *logging.Statistics, metrics *stats.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if generator == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Content generation is not configured"})
			return
		}

		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing analysisId"})
			return
		}

		result, err := db.FetchByID(c.Request.Context(), req.AnalysisID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		if err != nil {
			log.Printf("Failed to load analysis %s: %v", req.AnalysisID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
			return
		}

		payload := content.BuildPayload(result, req.ContentType, req.Tone, req.CustomInstructions)
		text, err := generator.Generate(c.Request.Context(), payload)
		requestStats.TrackGeneration(err != nil)
		metrics.RecordGeneration()
		if err != nil {
			log.Printf("Generation for analysis %s failed: %v", req.AnalysisID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Content generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"content": text})
	}
}
