package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kazumasakawahara/inheritance-calculator/internal/core"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/retransfer"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/validation"
)

type ShareResponse struct {
	Numerator   int64   `json:"numerator"`
	Denominator int64   `json:"denominator"`
	Display     string  `json:"display"`
	Percentage  float64 `json:"percentage"`
}

type HeirResponse struct {
	PersonID       string         `json:"person_id"`
	Name           string         `json:"name"`
	Rank           string         `json:"rank"`
	Share          ShareResponse  `json:"share"`
	IsSubstitute   bool           `json:"is_substitute,omitempty"`
	SubstituteFor  string         `json:"substitute_for,omitempty"`
	IsRetransfer   bool           `json:"is_retransfer,omitempty"`
	RetransferFrom string         `json:"retransfer_from,omitempty"`
	OriginalShare  *ShareResponse `json:"original_share,omitempty"`
}

type CalculationResponse struct {
	CaseID   string         `json:"case_id,omitempty"`
	Decedent string         `json:"decedent"`
	Heirs    []HeirResponse `json:"heirs"`
	Basis    []string       `json:"legal_basis"`

	HasSpouse   bool `json:"has_spouse"`
	HasChildren bool `json:"has_children"`
	HasParents  bool `json:"has_parents"`
	HasSiblings bool `json:"has_siblings"`
}

// Calculate loads the stored family of a case and runs the engine on it.
func (s *Server) Calculate(c *gin.Context) {
	caseID := c.Param("id")

	family, err := s.Cases.BuildFamily(c.Request.Context(), caseID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	result, err := s.Calculator.Calculate(family)
	if err != nil {
		s.renderCalculationError(c, err)
		return
	}
	c.JSON(http.StatusOK, calculationResponse(caseID, result))
}

func (s *Server) renderCalculationError(c *gin.Context, err error) {
	var conflict *retransfer.ConflictError
	switch {
	case errors.Is(err, validation.ErrNoHeir):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.Is(err, core.ErrInvariant):
		log.Printf("Calculation invariant violated: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Calculation failed"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func calculationResponse(caseID string, result *model.Result) CalculationResponse {
	heirs := make([]HeirResponse, 0, len(result.Heirs))
	for _, h := range result.Heirs {
		resp := HeirResponse{
			PersonID:     h.Person.ID,
			Name:         h.Person.Name,
			Rank:         string(h.Rank),
			Share:        shareResponse(h.Share),
			IsSubstitute: h.IsSubstitute,
			IsRetransfer: h.IsRetransfer,
		}
		if h.SubstituteFor != nil {
			resp.SubstituteFor = h.SubstituteFor.Name
		}
		if h.RetransferFrom != nil {
			resp.RetransferFrom = h.RetransferFrom.Name
			original := shareResponse(h.OriginalShare)
			resp.OriginalShare = &original
		}
		heirs = append(heirs, resp)
	}
	return CalculationResponse{
		CaseID:      caseID,
		Decedent:    result.Decedent.Name,
		Heirs:       heirs,
		Basis:       result.Basis,
		HasSpouse:   result.HasSpouse,
		HasChildren: result.HasChildren,
		HasParents:  result.HasParents,
		HasSiblings: result.HasSiblings,
	}
}

func shareResponse(f model.Fraction) ShareResponse {
	return ShareResponse{
		Numerator:   f.Num(),
		Denominator: f.Den(),
		Display:     f.String(),
		Percentage:  float64(f.Num()) / float64(f.Den()) * 100,
	}
}
