// Package server exposes the case store, the calculation engine and the
// interview agent over HTTP.
package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kazumasakawahara/inheritance-calculator/internal/cases"
	"github.com/kazumasakawahara/inheritance-calculator/internal/config"
	"github.com/kazumasakawahara/inheritance-calculator/internal/core"
	"github.com/kazumasakawahara/inheritance-calculator/internal/driver"
	"github.com/kazumasakawahara/inheritance-calculator/internal/llm"
)

type Server struct {
	Cases      *cases.Service
	Calculator *core.Calculator
	LLM        llm.Client
	Config     *config.Config

	mu       sync.Mutex
	sessions map[string]*chatSession
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override config with env vars if present
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		cfg.Neo4j.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		cfg.Neo4j.User = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		cfg.Neo4j.Password = pass
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		cfg.Neo4j.Database = db
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}

	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = "bolt://localhost:7687"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	d, err := driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	if err := d.BuildIndices(context.Background()); err != nil {
		log.Printf("Warning: failed to build indices: %v", err)
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	return &Server{
		Cases:      cases.NewService(d),
		Calculator: core.NewCalculator(),
		LLM:        llmClient,
		Config:     cfg,
		sessions:   make(map[string]*chatSession),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)

	r.POST("/cases", s.CreateCase)
	r.GET("/cases", s.ListCases)
	r.GET("/cases/:id", s.GetCase)
	r.PATCH("/cases/:id", s.UpdateCase)
	r.DELETE("/cases/:id", s.DeleteCase)

	r.POST("/cases/:id/persons", s.AddPerson)
	r.GET("/cases/:id/persons", s.ListPersons)
	r.POST("/cases/:id/relationships", s.AddRelationship)
	r.GET("/cases/:id/relationships", s.ListRelationships)
	r.GET("/cases/:id/tree", s.GetTree)

	r.POST("/cases/:id/calculate", s.Calculate)
	r.GET("/cases/:id/calculate", s.Calculate)

	r.POST("/chat/sessions", s.StartSession)
	r.GET("/chat/sessions/:id", s.GetSession)
	r.POST("/chat/sessions/:id/messages", s.PostMessage)
	r.POST("/chat/sessions/:id/calculate", s.CalculateFromSession)

	r.POST("/utils/convert-date", s.ConvertDate)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
