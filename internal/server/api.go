package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrisnap/internal/models"
	"nutrisnap/internal/nutrition"
)

// ScanDetail is a stored scan plus its rendering for the requested portion
// and units.
type ScanDetail struct {
	Scan models.Scan    `json:"scan"`
	View nutrition.View `json:"view"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}
	if req.PhotoDataURI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image to analyze."})
		return
	}

	scan, err := s.analyze(c.Request.Context(), req.PhotoDataURI)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scan)
}

func (s *Server) handleListScans(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", v)})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, s.app.History.Recent(limit))
}

func (s *Server) handleGetScan(c *gin.Context) {
	portion, err := nutrition.ParsePortion(c.Query("portion"))
	if err != nil {
		writeError(c, err)
		return
	}

	detail, err := s.scanDetail(c.Param("id"), portion, c.Query("units"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleClearScans(c *gin.Context) {
	if err := s.app.History.Clear(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Settings.Get())
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var update models.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
		return
	}

	settings, err := s.app.Settings.Update(c.Request.Context(), update)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleTips(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Tips(c.Request.Context()))
}

func (s *Server) handlePortions(c *gin.Context) {
	c.JSON(http.StatusOK, nutrition.Portions)
}

// analyze is shared by the REST and MCP surfaces.
func (s *Server) analyze(ctx context.Context, photoDataURI string) (*models.Scan, error) {
	if s.app.Analyzer == nil {
		return nil, errNoProvider
	}
	scan, err := s.app.Analyzer.AnalyzeAndRecord(ctx, photoDataURI)
	if err != nil {
		s.logger.Info("analysis rejected", zap.Int("status", statusFor(err)), zap.Error(err))
		return nil, err
	}
	return scan, nil
}

// scanDetail renders a stored scan. Empty units means the user's setting.
func (s *Server) scanDetail(id string, portion float64, units string) (*ScanDetail, error) {
	scan, err := s.app.History.Get(id)
	if err != nil {
		return nil, err
	}

	u := s.app.Settings.Get().Units
	if units != "" {
		if u, err = models.ParseUnits(units); err != nil {
			return nil, err
		}
	}

	view, err := nutrition.Render(scan.NutritionalInfo, portion, u)
	if err != nil {
		return nil, err
	}
	return &ScanDetail{Scan: scan, View: view}, nil
}
