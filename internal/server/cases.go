package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kazumasakawahara/inheritance-calculator/internal/cases"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core/model"
)

type CreateCaseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	created, err := s.Cases.CreateCase(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		log.Printf("Failed to create case: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create case"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) ListCases(c *gin.Context) {
	list, err := s.Cases.ListCases(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list cases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list cases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": list, "total": len(list)})
}

func (s *Server) GetCase(c *gin.Context) {
	got, err := s.Cases.GetCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		return
	}
	c.JSON(http.StatusOK, got)
}

type UpdateCaseRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) UpdateCase(c *gin.Context) {
	var req UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updated, err := s.Cases.UpdateCaseStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteCase(c *gin.Context) {
	if err := s.Cases.DeleteCase(c.Request.Context(), c.Param("id")); err != nil {
		log.Printf("Failed to delete case: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete case"})
		return
	}
	c.Status(http.StatusNoContent)
}

type AddPersonRequest struct {
	Name               string `json:"name" binding:"required"`
	Alive              bool   `json:"is_alive"`
	IsDecedent         bool   `json:"is_decedent"`
	BirthDate          string `json:"birth_date"`
	DeathDate          string `json:"death_date"`
	DiedBeforeDivision bool   `json:"died_before_division"`
}

func (s *Server) AddPerson(c *gin.Context) {
	var req AddPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	p := &model.Person{
		Name:               req.Name,
		Alive:              req.Alive,
		IsDecedent:         req.IsDecedent,
		DiedBeforeDivision: req.DiedBeforeDivision,
	}
	var badDate string
	if p.BirthDate, badDate = parseISODate(req.BirthDate); badDate != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth_date: " + badDate})
		return
	}
	if p.DeathDate, badDate = parseISODate(req.DeathDate); badDate != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid death_date: " + badDate})
		return
	}

	created, err := s.Cases.AddPerson(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) ListPersons(c *gin.Context) {
	persons, err := s.Cases.GetPersons(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("Failed to list persons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list persons"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"persons": persons, "total": len(persons)})
}

func (s *Server) AddRelationship(c *gin.Context) {
	var rel cases.Relationship
	if err := c.ShouldBindJSON(&rel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := s.Cases.AddRelationship(c.Request.Context(), rel); err != nil {
		if strings.Contains(err.Error(), "unknown relationship type") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to add relationship: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add relationship"})
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (s *Server) ListRelationships(c *gin.Context) {
	rels, err := s.Cases.GetRelationships(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("Failed to list relationships: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list relationships"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"relationships": rels, "total": len(rels)})
}

// GetTree returns persons and relationships together for rendering a
// family diagram.
func (s *Server) GetTree(c *gin.Context) {
	ctx := c.Request.Context()
	caseID := c.Param("id")

	persons, err := s.Cases.GetPersons(ctx, caseID)
	if err != nil {
		log.Printf("Failed to load persons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tree"})
		return
	}
	rels, err := s.Cases.GetRelationships(ctx, caseID)
	if err != nil {
		log.Printf("Failed to load relationships: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tree"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"persons": persons, "relationships": rels})
}

func parseISODate(s string) (*time.Time, string) {
	if s == "" {
		return nil, ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, s
	}
	return &t, ""
}
