package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kazumasakawahara/inheritance-calculator/internal/era"
)

type ConvertDateRequest struct {
	DateStr    string `json:"date_str" binding:"required"`
	FormatType string `json:"format_type"`
}

// ConvertDate auto-detects the calendar of the input: Japanese era dates
// convert to ISO form and western dates convert to the era form named by
// format_type (long by default).
func (s *Server) ConvertDate(c *gin.Context) {
	var req ConvertDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	style := era.Style(req.FormatType)
	if style == "" {
		style = era.StyleLong
	}

	converted, eraName, err := era.Convert(req.DateStr, style)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"original":  req.DateStr,
		"converted": converted,
		"era_name":  eraName,
	})
}
